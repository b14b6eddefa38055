package jobnum

import (
	"context"
	"fmt"
	"strings"

	"jobsync/core/sheets"
	"jobsync/core/utils"

	"go.uber.org/zap"
)

// Store persists State as a JSON blob in the value cell of a sentinel row
// of the state sheet.
type Store struct {
	client sheets.Client
	cfg    Config
	log    *zap.Logger
}

// NewStore creates a state store over the given client.
func NewStore(client sheets.Client, cfg Config, log *zap.Logger) *Store {
	return &Store{client: client, cfg: cfg, log: log}
}

// Load reads the persisted state. Absence of the state sheet, the sentinel
// row, or a parseable JSON blob is the expected first-run condition and
// yields an empty state, never an error. A state sheet with missing key or
// value columns is a configuration error and fails the run before any
// mutation.
func (s *Store) Load(ctx context.Context) (*State, error) {
	sheet, cols, err := s.resolve(ctx)
	if err != nil {
		if sheets.IsNotFound(err) {
			s.log.Warn("state sheet not found, starting fresh",
				zap.String("sheet", s.cfg.StateSheetName))
			return NewState(), nil
		}
		return nil, err
	}

	row := findSentinelRow(sheet, cols.key, s.cfg.DataKey)
	if row == nil {
		s.log.Info("no previous job number state found, starting fresh")
		return NewState(), nil
	}

	raw := cellText(row, cols.value)
	if raw == "" {
		s.log.Info("state row is empty, starting fresh")
		return NewState(), nil
	}

	state, ok := ParseState([]byte(raw))
	if !ok {
		s.log.Warn("state data is malformed, starting fresh")
		return NewState(), nil
	}

	s.log.Info("loaded job number state",
		zap.Int("assignments", len(state.Assignments)),
		zap.Int("chains", len(state.Chains)))
	return state, nil
}

// Save serializes the state and updates the sentinel row's value cell,
// creating the row when absent.
func (s *Store) Save(ctx context.Context, state *State) error {
	payload, err := state.Encode()
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	sheet, cols, err := s.resolve(ctx)
	if err != nil {
		return err
	}

	if row := findSentinelRow(sheet, cols.key, s.cfg.DataKey); row != nil {
		update := sheets.RowUpdate{
			ID: row.ID,
			Cells: []sheets.CellValue{
				{ColumnID: cols.value, Value: string(payload)},
			},
		}
		if err := s.client.UpdateRows(ctx, sheet.ID, []sheets.RowUpdate{update}); err != nil {
			return fmt.Errorf("save state: %w", err)
		}
		s.log.Info("saved state", zap.Int64("row_id", row.ID),
			zap.Int("assignments", len(state.Assignments)))
		return nil
	}

	s.log.Info("state row not found, creating a new one")
	newRow := sheets.NewRow{
		ToBottom: true,
		Cells: []sheets.CellValue{
			{ColumnID: cols.key, Value: s.cfg.DataKey},
			{ColumnID: cols.value, Value: string(payload)},
		},
	}
	if err := s.client.AddRows(ctx, sheet.ID, []sheets.NewRow{newRow}); err != nil {
		return fmt.Errorf("create state row: %w", err)
	}
	return nil
}

type stateColumns struct {
	key   int64
	value int64
}

// resolve locates the state sheet (by pinned ID when configured, by name
// otherwise) and maps its key/value columns.
func (s *Store) resolve(ctx context.Context) (*sheets.Sheet, stateColumns, error) {
	sheetID := s.cfg.StateSheetID
	if sheetID == 0 {
		infos, err := s.client.ListSheets(ctx)
		if err != nil {
			return nil, stateColumns{}, fmt.Errorf("locate state sheet: %w", err)
		}
		for _, info := range infos {
			if strings.EqualFold(info.Name, s.cfg.StateSheetName) {
				sheetID = info.ID
				break
			}
		}
		if sheetID == 0 {
			return nil, stateColumns{}, &sheets.APIError{
				StatusCode: 404,
				Code:       sheets.CodeNotFound,
				Message:    fmt.Sprintf("state sheet %q not found", s.cfg.StateSheetName),
			}
		}
	}

	sheet, err := s.client.GetSheet(ctx, sheetID)
	if err != nil {
		return nil, stateColumns{}, err
	}

	resolved, err := sheets.ResolveColumns(sheet, []string{s.cfg.KeyColumn, s.cfg.ValueColumn})
	if err != nil {
		return nil, stateColumns{}, fmt.Errorf("state sheet schema: %w", err)
	}
	return sheet, stateColumns{
		key:   resolved[s.cfg.KeyColumn],
		value: resolved[s.cfg.ValueColumn],
	}, nil
}

func findSentinelRow(sheet *sheets.Sheet, keyCol int64, dataKey string) *sheets.Row {
	for i := range sheet.Rows {
		if cellText(&sheet.Rows[i], keyCol) == dataKey {
			return &sheet.Rows[i]
		}
	}
	return nil
}

// cellText prefers the raw value over the rendered one for state cells:
// the blob is written as a plain string and must round-trip byte for byte.
func cellText(row *sheets.Row, columnID int64) string {
	c := row.Cell(columnID)
	if c == nil {
		return ""
	}
	if c.Value != nil {
		return utils.ToString(c.Value)
	}
	return c.DisplayValue
}
