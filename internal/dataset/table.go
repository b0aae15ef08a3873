package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	apierrors "salarypulse/internal/errors"
)

const (
	// YearColumn is the row key of every table.
	YearColumn = "year"
	// OverallColumn is the economy-wide average.
	OverallColumn = "overall"

	SuffixInflationAdjusted = "_inf_adj"
	SuffixDollars           = "_in_dollars"
)

// DerivedSuffixes lists the suffixes that mark non-nominal columns.
var DerivedSuffixes = []string{SuffixInflationAdjusted, SuffixDollars}

// SalaryTable is the loaded dataset. It is never mutated after parsing.
type SalaryTable struct {
	years []int
	frame dataframe.DataFrame
}

// LoadFromReader parses a salary CSV. Every failure is DataUnavailable.
func LoadFromReader(r io.Reader) (*SalaryTable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apierrors.NewDataUnavailableError("failed to read dataset", err)
	}
	if err := checkHeader(data); err != nil {
		return nil, err
	}

	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
	)
	if df.Err != nil {
		return nil, apierrors.NewDataUnavailableError("failed to parse dataset", df.Err)
	}
	return fromFrame(df)
}

// checkHeader rejects repeated column names. gota would suffix them with
// _0, _1, ... and invent sectors that are not in the file.
func checkHeader(data []byte) error {
	header, err := csv.NewReader(bytes.NewReader(data)).Read()
	if err == io.EOF {
		return apierrors.NewDataUnavailableError("dataset is empty", nil)
	}
	if err != nil {
		return apierrors.NewDataUnavailableError("failed to parse dataset header", err)
	}
	seen := make(map[string]struct{}, len(header))
	for _, name := range header {
		if _, dup := seen[name]; dup {
			return apierrors.NewDataUnavailableError(
				fmt.Sprintf("duplicate column %q in header", name), nil).
				WithContext("column", name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

func fromFrame(df dataframe.DataFrame) (*SalaryTable, error) {
	names := df.Names()
	if indexOf(names, YearColumn) < 0 {
		return nil, apierrors.NewDataUnavailableError("dataset has no year column", nil)
	}
	if df.Nrow() == 0 {
		return nil, apierrors.NewDataUnavailableError("dataset has no rows", nil)
	}

	yearCol := df.Col(YearColumn)
	if yearCol.Type() != series.Int {
		return nil, apierrors.NewDataUnavailableError(
			fmt.Sprintf("year column must be integer, got %s", yearCol.Type()), nil)
	}
	years, err := yearCol.Int()
	if err != nil {
		return nil, apierrors.NewDataUnavailableError("year column has missing values", err)
	}
	for i := 1; i < len(years); i++ {
		if years[i] <= years[i-1] {
			return nil, apierrors.NewDataUnavailableError(
				fmt.Sprintf("years must be unique and ascending: %d follows %d", years[i], years[i-1]), nil)
		}
	}

	cols := make([]series.Series, 0, len(names)-1)
	for _, name := range names {
		if name == YearColumn {
			continue
		}
		col := df.Col(name)
		if t := col.Type(); t != series.Int && t != series.Float {
			return nil, apierrors.NewDataUnavailableError(
				fmt.Sprintf("column %q is not numeric", name), nil).WithContext("column", name)
		}
		values := col.Float()
		for i, v := range values {
			if math.IsNaN(v) {
				return nil, apierrors.NewDataUnavailableError(
					fmt.Sprintf("column %q has no value for %d", name, years[i]), nil).WithContext("column", name)
			}
		}
		cols = append(cols, series.New(values, series.Float, name))
	}
	if len(cols) == 0 {
		return nil, apierrors.NewDataUnavailableError("dataset has no salary columns", nil)
	}

	frame := dataframe.New(cols...)
	if frame.Err != nil {
		return nil, apierrors.NewDataUnavailableError("failed to build table", frame.Err)
	}

	return &SalaryTable{years: years, frame: frame}, nil
}

// Years returns a copy of the row keys in ascending order.
func (t *SalaryTable) Years() []int {
	return append([]int(nil), t.years...)
}

// Columns returns the value column names in file order, year excluded.
func (t *SalaryTable) Columns() []string {
	return t.frame.Names()
}

// Column returns a copy of the named column.
func (t *SalaryTable) Column(name string) ([]float64, error) {
	if indexOf(t.frame.Names(), name) < 0 {
		return nil, apierrors.NewColumnNotFoundError(name)
	}
	return t.frame.Col(name).Float(), nil
}

// Rows returns the number of years in the table.
func (t *SalaryTable) Rows() int {
	return len(t.years)
}

// Sectors returns the nominal sector columns, overall excluded.
func (t *SalaryTable) Sectors() []string {
	var sectors []string
	for _, name := range t.frame.Names() {
		if name == OverallColumn || isDerived(name) {
			continue
		}
		sectors = append(sectors, name)
	}
	return sectors
}

// CheckVariants reports nominal columns lacking an inflation-adjusted or
// dollar counterpart.
func (t *SalaryTable) CheckVariants() error {
	names := t.frame.Names()
	var missing []string
	for _, name := range names {
		if isDerived(name) {
			continue
		}
		for _, suffix := range DerivedSuffixes {
			if indexOf(names, name+suffix) < 0 {
				missing = append(missing, name+suffix)
			}
		}
	}
	if len(missing) > 0 {
		return apierrors.NewSchemaMismatchError(
			fmt.Sprintf("missing variant columns: %s", strings.Join(missing, ", "))).
			WithContext("missing", missing)
	}
	return nil
}

func isDerived(name string) bool {
	for _, suffix := range DerivedSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}
