package domain

// Row is the field map of one record while it is being built. It is owned by
// the driver for the duration of a single row.
type Row map[string]interface{}

type Catalog struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Domain      string     `json:"domain,omitempty" yaml:"domain,omitempty"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Rules       []RuleSpec `json:"rules" yaml:"rules"`
}

type RuleSpec struct {
	Table     string        `json:"table" yaml:"table"`
	Column    string        `json:"column" yaml:"column"`
	Default   bool          `json:"default,omitempty" yaml:"default,omitempty"`
	Generator GeneratorSpec `json:"generator" yaml:"generator"`
}

type GeneratorSpec struct {
	Type   string                 `json:"type" yaml:"type"`
	Params map[string]interface{} `json:"params,omitempty" yaml:"params,omitempty"`
}

type Plan struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Seed        *int64      `json:"seed,omitempty" yaml:"seed,omitempty"`
	Tables      []TablePlan `json:"tables" yaml:"tables"`
}

type TablePlan struct {
	Table      string   `json:"table" yaml:"table"`
	Rows       int64    `json:"rows" yaml:"rows"`
	PrimaryKey string   `json:"primary_key,omitempty" yaml:"primary_key,omitempty"`
	Columns    []string `json:"columns" yaml:"columns"`
}

type RunStats struct {
	RunID           string          `json:"run_id"`
	Seed            int64           `json:"seed"`
	CatalogHash     string          `json:"catalog_hash,omitempty"`
	ConfigHash      string          `json:"config_hash,omitempty"`
	TablesGenerated int             `json:"tables_generated"`
	TotalRows       int64           `json:"total_rows"`
	DurationSeconds float64         `json:"duration_seconds"`
	TableStats      []TableRunStats `json:"table_stats"`
}

type TableRunStats struct {
	Table           string  `json:"table"`
	RowsGenerated   int64   `json:"rows_generated"`
	DurationSeconds float64 `json:"duration_seconds"`
}
