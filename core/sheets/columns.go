package sheets

import "strings"

// ResolveColumns maps required column names to their IDs on the given sheet.
// Matching is case-insensitive on the exact title. When any required column
// is absent, it fails with a *MissingColumnsError naming every missing one,
// so a sheet with partial schema is rejected in a single pass.
//
// Column IDs differ between sheets that share column names (copies of a
// sheet included), so resolution always happens per sheet at run time.
func ResolveColumns(sheet *Sheet, required []string) (map[string]int64, error) {
	byTitle := make(map[string]int64, len(sheet.Columns))
	for _, col := range sheet.Columns {
		if col.Title != "" {
			byTitle[strings.ToLower(col.Title)] = col.ID
		}
	}

	resolved := make(map[string]int64, len(required))
	var missing []string
	for _, name := range required {
		if id, ok := byTitle[strings.ToLower(name)]; ok {
			resolved[name] = id
		} else {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return nil, &MissingColumnsError{
			SheetID:   sheet.ID,
			SheetName: sheet.Name,
			Missing:   missing,
		}
	}
	return resolved, nil
}
