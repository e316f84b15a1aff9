// Package ingest turns an uploaded CSV payload into validated employee records.
//
// The reader is single pass: records come out in input order and the payload
// cannot be rewound. Structural problems (wrong extension, undecodable bytes,
// missing columns) are reported by NewReader before any row is produced;
// cell-level problems are repaired with defaults according to the Policy.
package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/okian/perfsum/internal/domain/model"
)

// Placeholders used by PolicyLenient for empty required cells.
const (
	DefaultText  = "Unknown"
	DefaultTasks = "None"
)

// utf8BOM is stripped from the start of the payload.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// nanMarkers are the cell values treated as "no value", matching what
// spreadsheet exports and pandas consider not-a-number.
var nanMarkers = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

var recordValidate = newRecordValidator()

func newRecordValidator() *validator.Validate {
	v := validator.New()
	// Report CSV column names instead of Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// IsMissing reports whether a raw cell carries no value.
func IsMissing(cell string) bool {
	_, ok := nanMarkers[strings.TrimSpace(cell)]
	return ok
}

// ValidateFilename checks the upload carries the .csv extension.
func ValidateFilename(name string) error {
	if !strings.EqualFold(filepath.Ext(strings.TrimSpace(name)), ".csv") {
		return ErrUnsupportedMediaType
	}
	return nil
}

// Reader yields one EmployeeRecord per data row.
type Reader struct {
	csv     *csv.Reader
	columns map[string]int
	width   int

	policy    Policy
	maxRows   int
	onDefault func(column string)

	row int
}

// NewReader validates the filename, the encoding and the header of data and
// returns a Reader positioned on the first data row.
func NewReader(filename string, data []byte, opts ...Option) (*Reader, error) {
	if err := ValidateFilename(filename); err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, ErrDecode
	}

	r := &Reader{policy: PolicyLenient}
	for _, opt := range opts {
		opt(r)
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = hasBareQuote(data)
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrMalformedCSV, err)
	}

	r.csv = cr
	r.width = len(header)
	r.columns = make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, dup := r.columns[name]; !dup {
			r.columns[name] = i
		}
	}

	var missing []string
	for _, col := range model.RequiredColumns {
		if _, ok := r.columns[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}
	return r, nil
}

// hasBareQuote reports whether the first quoting problem in data is a quote
// inside an unquoted cell, as spreadsheet exports produce for values like
// 12" monitor. Unterminated quoted cells stay errors.
func hasBareQuote(data []byte) bool {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	for {
		_, err := cr.Read()
		if err == nil {
			continue
		}
		return errors.Is(err, csv.ErrBareQuote)
	}
}

// Row returns the 1-based index of the last data row returned by Next.
func (r *Reader) Row() int { return r.row }

// Policy returns the missing-value policy in effect.
func (r *Reader) Policy() Policy { return r.policy }

// Next returns the next record, or io.EOF once the payload is exhausted.
func (r *Reader) Next() (model.EmployeeRecord, error) {
	fields, err := r.csv.Read()
	if errors.Is(err, io.EOF) {
		return model.EmployeeRecord{}, io.EOF
	}
	if err != nil {
		return model.EmployeeRecord{}, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
	}

	r.row++
	if r.maxRows > 0 && r.row > r.maxRows {
		return model.EmployeeRecord{}, fmt.Errorf("%w: limit is %d", ErrTooManyRows, r.maxRows)
	}
	if len(fields) > r.width {
		line, _ := r.csv.FieldPos(0)
		return model.EmployeeRecord{}, fmt.Errorf("%w: line %d: expected %d fields, saw %d",
			ErrMalformedCSV, line, r.width, len(fields))
	}

	return r.build(fields)
}

func (r *Reader) build(fields []string) (model.EmployeeRecord, error) {
	rec := model.EmployeeRecord{
		EmployeeName:   r.text(fields, model.ColEmployeeName, DefaultText),
		EmployeeID:     r.text(fields, model.ColEmployeeID, DefaultText),
		Department:     r.text(fields, model.ColDepartment, DefaultText),
		Month:          r.text(fields, model.ColMonth, DefaultText),
		TasksCompleted: r.text(fields, model.ColTasksCompleted, DefaultTasks),
		GoalsMet:       r.goals(fields),
	}
	rec.PeerFeedback = r.optional(fields, model.ColPeerFeedback)
	rec.ManagerComments = r.optional(fields, model.ColManagerComments)

	if r.policy == PolicyStrict {
		if err := recordValidate.Struct(rec); err != nil {
			var verrs validator.ValidationErrors
			if !errors.As(err, &verrs) {
				return model.EmployeeRecord{}, fmt.Errorf("%w: row %d: %v", ErrInvalidRow, r.row, err)
			}
			bad := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				bad = append(bad, fe.Field())
			}
			return model.EmployeeRecord{}, &RowError{Row: r.row, Fields: bad}
		}
	}
	return rec, nil
}

// cell returns the raw value of column, and whether it carries a value.
func (r *Reader) cell(fields []string, column string) (string, bool) {
	idx, ok := r.columns[column]
	if !ok || idx >= len(fields) {
		return "", false
	}
	v := strings.TrimSpace(fields[idx])
	if IsMissing(v) {
		return "", false
	}
	return v, true
}

// text reads a required string cell. Under PolicyStrict an empty cell stays
// empty so validation can reject it.
func (r *Reader) text(fields []string, column, placeholder string) string {
	if v, ok := r.cell(fields, column); ok {
		return v
	}
	if r.policy == PolicyStrict {
		return ""
	}
	r.defaulted(column)
	return placeholder
}

// goals parses goals_met. Anything that is not a finite number becomes 0.
func (r *Reader) goals(fields []string) float64 {
	v, ok := r.cell(fields, model.ColGoalsMet)
	if !ok {
		r.defaulted(model.ColGoalsMet)
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(v, "%")), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		r.defaulted(model.ColGoalsMet)
		return 0
	}
	return f
}

func (r *Reader) optional(fields []string, column string) *string {
	v, ok := r.cell(fields, column)
	if !ok {
		return nil
	}
	return &v
}

func (r *Reader) defaulted(column string) {
	if r.onDefault != nil {
		r.onDefault(column)
	}
}

// ReadAll reads every record of data. It fails without returning partial
// results when any row cannot be read.
func ReadAll(filename string, data []byte, opts ...Option) ([]model.EmployeeRecord, error) {
	r, err := NewReader(filename, data, opts...)
	if err != nil {
		return nil, err
	}
	var out []model.EmployeeRecord
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if out == nil {
		out = []model.EmployeeRecord{}
	}
	return out, nil
}
