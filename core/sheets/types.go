package sheets

// SheetInfo is the summary entry returned when listing sheets.
type SheetInfo struct {
	// ID is the service-assigned sheet identifier.
	ID int64 `json:"id"`
	// Name is the user-visible sheet name.
	Name string `json:"name"`
}

// Column describes one column of a sheet.
type Column struct {
	// ID is the service-assigned column identifier. The same column name
	// carries a different ID on every sheet, including copies.
	ID int64 `json:"id"`
	// Title is the user-visible column name.
	Title string `json:"title"`
}

// Cell is a single cell of a row.
type Cell struct {
	// ColumnID links the cell to its column.
	ColumnID int64 `json:"columnId"`
	// Value is the raw stored value (may be a formula result, number, etc.).
	Value any `json:"value,omitempty"`
	// DisplayValue is the rendered text the user sees. For columns holding
	// formulas this is the authoritative business value.
	DisplayValue string `json:"displayValue,omitempty"`
}

// Row is a sheet row with its cells.
type Row struct {
	ID    int64  `json:"id"`
	Cells []Cell `json:"cells"`
}

// Sheet is a full sheet with schema and data.
type Sheet struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Columns       []Column `json:"columns"`
	Rows          []Row    `json:"rows"`
	TotalRowCount int      `json:"totalRowCount"`
}

// CellValue is a cell payload for writes. Strict false lets the service
// coerce the value instead of rejecting type mismatches.
type CellValue struct {
	ColumnID int64 `json:"columnId"`
	Value    any   `json:"value"`
	Strict   bool  `json:"strict"`
}

// RowUpdate targets an existing row for a cell update.
type RowUpdate struct {
	ID    int64       `json:"id"`
	Cells []CellValue `json:"cells"`
}

// NewRow is a row to append to a sheet.
type NewRow struct {
	ToBottom bool        `json:"toBottom"`
	Cells    []CellValue `json:"cells"`
}

// Cell returns the cell for the given column, or nil if the row has none.
func (r *Row) Cell(columnID int64) *Cell {
	for i := range r.Cells {
		if r.Cells[i].ColumnID == columnID {
			return &r.Cells[i]
		}
	}
	return nil
}

// Display returns the rendered text of the cell for the given column,
// or "" when the cell is absent or empty.
func (r *Row) Display(columnID int64) string {
	if c := r.Cell(columnID); c != nil {
		return c.DisplayValue
	}
	return ""
}
