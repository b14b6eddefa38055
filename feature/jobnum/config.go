package jobnum

// Config holds configuration for job number reconciliation.
type Config struct {
	// StateSheetID pins the state sheet by ID. When 0, the sheet is
	// discovered by StateSheetName instead.
	StateSheetID int64 `mapstructure:"state_sheet_id" default:"0"`
	// StateSheetName is the name of the sheet holding persisted state.
	StateSheetName string `mapstructure:"state_sheet_name" default:"Job Number State"`
	// KeyColumn is the state sheet column holding row keys.
	KeyColumn string `mapstructure:"key_column" default:"key"`
	// ValueColumn is the state sheet column holding the JSON blob.
	ValueColumn string `mapstructure:"value_column" default:"value"`
	// DataKey is the sentinel key identifying the state row.
	DataKey string `mapstructure:"data_key" default:"StateData"`

	// DeptColumn is the column name carrying the department code.
	DeptColumn string `mapstructure:"dept_column" default:"Dept #"`
	// WRNumColumn is the column name carrying the work request number.
	WRNumColumn string `mapstructure:"wr_num_column" default:"Work Request #"`
	// JobNumColumn is the column name carrying the job number.
	JobNumColumn string `mapstructure:"job_num_column" default:"Job #"`

	// ExcludePatterns are substrings (case-insensitive) that mark a cell
	// value as a placeholder rather than real data.
	ExcludePatterns []string `mapstructure:"exclude_patterns" default:"no match,not assigned"`

	// Format overrides job number format detection. One of "dept-pad3",
	// "dept-plain", "numeric" or "prefix:<P>". Empty means detect from
	// existing data, falling back to dept-pad3.
	Format string `mapstructure:"format" default:""`

	// DuplicateSuffix enables the occurrence-suffix policy: a work request
	// number persisted by an earlier run that shows up again gets a derived
	// number "<base>-<n>" instead of the unchanged base. This deliberately
	// changes the visible number on re-sighting; leave it off for stable
	// numbers.
	DuplicateSuffix bool `mapstructure:"duplicate_suffix" default:"false"`

	// MaxAttempts bounds retries of a failing sheet write.
	MaxAttempts int `mapstructure:"max_attempts" default:"4"`
	// RetryDelayMS is the initial backoff delay between attempts.
	RetryDelayMS int `mapstructure:"retry_delay_ms" default:"500"`
}

// RequiredColumns returns the column names a sheet must carry to qualify
// for processing.
func (c Config) RequiredColumns() []string {
	return []string{c.DeptColumn, c.WRNumColumn, c.JobNumColumn}
}
