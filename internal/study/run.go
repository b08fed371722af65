package study

import "time"

// Run records one pipeline execution over a single input file.
type Run struct {
	ID            string    `json:"id"`
	Source        string    `json:"source"`
	Threshold     float64   `json:"threshold"`
	RequiredField string    `json:"required_field,omitempty"`
	RowsBefore    int       `json:"rows_before"`
	ColumnsBefore int       `json:"columns_before"`
	RowsAfter     int       `json:"rows_after"`
	ColumnsAfter  int       `json:"columns_after"`
	Dropped       []string  `json:"dropped_columns"`
	RowsRemoved   int       `json:"rows_removed"`
	ReportPath    string    `json:"report_path,omitempty"`
	Charts        []string  `json:"charts,omitempty"`
	At            time.Time `json:"at"`
}
