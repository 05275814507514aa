package domain

import (
	"time"
)

// NormalizeReport describes what the normalizer did to a raw table
type NormalizeReport struct {
	RowsIn            int               `json:"rows_in"`
	RowsOut           int               `json:"rows_out"`
	DuplicatesDropped int               `json:"duplicates_dropped"`
	CellParseFailures int               `json:"cell_parse_failures"`
	DateParseFailures int               `json:"date_parse_failures"`
	DroppedColumns    []string          `json:"dropped_columns"`
	Schema            map[string]string `json:"schema"`
	NumberFormat      string            `json:"number_format"`
	SortKey           string            `json:"sort_key"`
	DedupKey          string            `json:"dedup_key"`
}

// DatasetSummary describes the cached dataset
type DatasetSummary struct {
	Source    string          `json:"source"`
	LoadedAt  time.Time       `json:"loaded_at"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
	Loads     int64           `json:"loads"`
	Columns   []string        `json:"columns"`
	Report    NormalizeReport `json:"report"`
}
