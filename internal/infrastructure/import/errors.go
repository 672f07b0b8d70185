package csvimport

import "fmt"

const (
	CodeRequired        = "ERR_IMPORT_REQUIRED_FIELD"
	CodeInvalidType     = "ERR_IMPORT_INVALID_TYPE"
	CodeInvalidLength   = "ERR_IMPORT_INVALID_LENGTH"
	CodeInvalidRange    = "ERR_IMPORT_INVALID_RANGE"
	CodeDuplicateInFile = "ERR_IMPORT_DUPLICATE_IN_FILE"
	CodeDuplicateInDB   = "ERR_IMPORT_DUPLICATE_IN_DB"
	CodeRejected        = "ERR_IMPORT_ROW_REJECTED"
)

// RowError pins a problem to a line and, when known, a column
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("row %d, column '%s': %s", e.Row, e.Column, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// Errors keeps the first max row errors and counts the rest
type Errors struct {
	max   int
	items []RowError
	total int
	rows  map[int]bool
}

func NewErrors(max int) *Errors {
	if max <= 0 {
		max = 100
	}
	return &Errors{max: max, rows: make(map[int]bool)}
}

func (e *Errors) Add(err RowError) {
	e.total++
	e.rows[err.Row] = true
	if len(e.items) < e.max {
		e.items = append(e.items, err)
	}
}

func (e *Errors) Items() []RowError { return e.items }
func (e *Errors) Total() int        { return e.total }
func (e *Errors) Truncated() bool   { return e.total > len(e.items) }

// RowFailed reports whether any error was recorded for line
func (e *Errors) RowFailed(line int) bool { return e.rows[line] }

// FailedRows is the number of distinct lines with at least one error
func (e *Errors) FailedRows() int { return len(e.rows) }
