package csvimport

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

type Kind int

const (
	KindString Kind = iota
	KindInt
	KindDecimal
)

// Rule constrains one column. Empty optional values skip every other check.
// Unique values compare case-insensitively.
type Rule struct {
	Column    string
	Kind      Kind
	Required  bool
	MaxLength int
	Min       *decimal.Decimal
	Unique    bool
}

// Validator applies rules row by row and remembers unique values across the file
type Validator struct {
	rules []Rule
	seen  map[string]map[string]int
	errs  *Errors
}

func NewValidator(errs *Errors, rules ...Rule) *Validator {
	return &Validator{rules: rules, seen: make(map[string]map[string]int), errs: errs}
}

// Check records every violation in row and reports whether the row is clean
func (v *Validator) Check(row *Row) bool {
	ok := true
	for _, rule := range v.rules {
		value := row.Get(rule.Column)
		if value == "" {
			if rule.Required {
				v.fail(row.Line, rule.Column, CodeRequired, "value is required", "")
				ok = false
			}
			continue
		}
		if rule.MaxLength > 0 && utf8.RuneCountInString(value) > rule.MaxLength {
			v.fail(row.Line, rule.Column, CodeInvalidLength, fmt.Sprintf("at most %d characters", rule.MaxLength), value)
			ok = false
			continue
		}
		if !v.checkNumber(row.Line, rule, value) {
			ok = false
			continue
		}
		if rule.Unique {
			if v.seen[rule.Column] == nil {
				v.seen[rule.Column] = make(map[string]int)
			}
			key := strings.ToUpper(value)
			if first, dup := v.seen[rule.Column][key]; dup {
				v.fail(row.Line, rule.Column, CodeDuplicateInFile, fmt.Sprintf("duplicate of row %d", first), value)
				ok = false
				continue
			}
			v.seen[rule.Column][key] = row.Line
		}
	}
	return ok
}

func (v *Validator) checkNumber(line int, rule Rule, value string) bool {
	var n decimal.Decimal
	switch rule.Kind {
	case KindString:
		return true
	case KindInt:
		i, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			v.fail(line, rule.Column, CodeInvalidType, "expected a whole number", value)
			return false
		}
		n = decimal.NewFromInt(i)
	case KindDecimal:
		d, err := decimal.NewFromString(value)
		if err != nil {
			v.fail(line, rule.Column, CodeInvalidType, "expected a decimal number", value)
			return false
		}
		n = d
	}
	if rule.Min != nil && n.LessThan(*rule.Min) {
		v.fail(line, rule.Column, CodeInvalidRange, "must be at least "+rule.Min.String(), value)
		return false
	}
	return true
}

func (v *Validator) fail(line int, column, code, message, value string) {
	v.errs.Add(RowError{Row: line, Column: column, Code: code, Message: message, Value: value})
}
