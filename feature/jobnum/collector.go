package jobnum

import (
	"context"
	"errors"
	"strings"

	"jobsync/core/sheets"

	"go.uber.org/zap"
)

// Target is a discovered sheet that qualifies for processing: it carries
// all required columns. Columns maps configured column names to this
// sheet's column IDs.
type Target struct {
	SheetID   int64
	SheetName string
	Columns   map[string]int64
	Rows      []sheets.Row
}

// RowRef is one normalized source row, tagged with enough location data
// for a targeted update later.
type RowRef struct {
	SheetID     int64
	SheetName   string
	RowID       int64
	JobColumnID int64

	Dept   string
	WRNum  string
	JobNum string
}

// Collector discovers qualifying sheets and extracts normalized rows.
type Collector struct {
	client sheets.Client
	cfg    Config
	log    *zap.Logger
}

// NewCollector creates a collector over the given client.
func NewCollector(client sheets.Client, cfg Config, log *zap.Logger) *Collector {
	return &Collector{client: client, cfg: cfg, log: log}
}

// Discover lists all accessible sheets and keeps those where every required
// column resolves. The state sheet is always skipped. Inaccessible sheets
// and sheets with partial schema are logged and skipped, never fatal.
func (c *Collector) Discover(ctx context.Context) ([]Target, error) {
	infos, err := c.client.ListSheets(ctx)
	if err != nil {
		return nil, err
	}
	c.log.Info("discovering sheets with required columns", zap.Int("total", len(infos)))

	var targets []Target
	for _, info := range infos {
		if c.isStateSheet(info) {
			c.log.Debug("skipping state sheet", zap.String("sheet", info.Name))
			continue
		}

		sheet, err := c.client.GetSheet(ctx, info.ID)
		if err != nil {
			c.log.Warn("could not access sheet",
				zap.String("sheet", info.Name), zap.Int64("sheet_id", info.ID), zap.Error(err))
			continue
		}

		columns, err := sheets.ResolveColumns(sheet, c.cfg.RequiredColumns())
		if err != nil {
			var missing *sheets.MissingColumnsError
			if errors.As(err, &missing) {
				c.log.Debug("skipping sheet, missing required columns",
					zap.String("sheet", info.Name), zap.Strings("missing", missing.Missing))
				continue
			}
			return nil, err
		}

		c.log.Info("found qualifying sheet",
			zap.String("sheet", info.Name), zap.Int64("sheet_id", info.ID))
		targets = append(targets, Target{
			SheetID:   sheet.ID,
			SheetName: sheet.Name,
			Columns:   columns,
			Rows:      sheet.Rows,
		})
	}

	c.log.Info("discovery complete", zap.Int("qualifying", len(targets)))
	return targets, nil
}

// CollectRows extracts the normalized (dept, wr_num, job_num) tuples from
// the discovered targets, in sheet order. Values come from the rendered
// display text: columns may hold formulas, and the business-visible text
// is authoritative. Rows with an empty or excluded dept or wr_num are
// dropped; an excluded job_num on a surviving row is kept raw so the
// writer can treat it as unassigned.
func (c *Collector) CollectRows(targets []Target) []RowRef {
	var refs []RowRef
	for _, target := range targets {
		deptCol := target.Columns[c.cfg.DeptColumn]
		wrCol := target.Columns[c.cfg.WRNumColumn]
		jobCol := target.Columns[c.cfg.JobNumColumn]

		for i := range target.Rows {
			row := &target.Rows[i]
			dept := strings.TrimSpace(row.Display(deptCol))
			wrNum := strings.TrimSpace(row.Display(wrCol))
			jobNum := strings.TrimSpace(row.Display(jobCol))

			if dept == "" || wrNum == "" {
				continue
			}
			if c.Excluded(dept) || c.Excluded(wrNum) {
				c.log.Debug("excluding row",
					zap.String("sheet", target.SheetName), zap.Int64("row_id", row.ID),
					zap.String("dept", dept), zap.String("wr_num", wrNum))
				continue
			}

			refs = append(refs, RowRef{
				SheetID:     target.SheetID,
				SheetName:   target.SheetName,
				RowID:       row.ID,
				JobColumnID: jobCol,
				Dept:        dept,
				WRNum:       wrNum,
				JobNum:      jobNum,
			})
		}
	}
	c.log.Info("collected rows", zap.Int("rows", len(refs)), zap.Int("sheets", len(targets)))
	return refs
}

// Excluded reports whether the value case-insensitively contains any
// configured exclusion pattern.
func (c *Collector) Excluded(value string) bool {
	return matchesAny(value, c.cfg.ExcludePatterns)
}

func (c *Collector) isStateSheet(info sheets.SheetInfo) bool {
	if c.cfg.StateSheetID != 0 {
		return info.ID == c.cfg.StateSheetID
	}
	return strings.EqualFold(info.Name, c.cfg.StateSheetName)
}

func matchesAny(value string, patterns []string) bool {
	if value == "" {
		return false
	}
	lower := strings.ToLower(strings.TrimSpace(value))
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}
