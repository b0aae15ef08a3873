package dataset

import (
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	apierrors "salarypulse/internal/errors"
)

// DerivedTable is a year-keyed column subset of a SalaryTable. It owns its
// values; nothing written to it reaches the source table.
type DerivedTable struct {
	years []int
	frame dataframe.DataFrame
}

// TableView is the JSON form of a DerivedTable. Values[i] is Columns[i].
type TableView struct {
	Years   []int       `json:"years"`
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

func newDerived(years []int, cols []series.Series) *DerivedTable {
	t := &DerivedTable{years: append([]int(nil), years...)}
	if len(cols) > 0 {
		t.frame = dataframe.New(cols...)
	}
	return t
}

// Years returns a copy of the row keys.
func (t *DerivedTable) Years() []int {
	return append([]int(nil), t.years...)
}

// Columns returns the column labels in order.
func (t *DerivedTable) Columns() []string {
	if t.frame.Ncol() == 0 {
		return nil
	}
	return t.frame.Names()
}

// Len returns the number of columns.
func (t *DerivedTable) Len() int {
	return t.frame.Ncol()
}

// Rows returns the number of years.
func (t *DerivedTable) Rows() int {
	return len(t.years)
}

// Column returns a copy of the named column.
func (t *DerivedTable) Column(name string) ([]float64, error) {
	if indexOf(t.Columns(), name) < 0 {
		return nil, apierrors.NewColumnNotFoundError(name)
	}
	return t.frame.Col(name).Float(), nil
}

// Head keeps the first n columns. n beyond the width keeps everything.
func (t *DerivedTable) Head(n int) *DerivedTable {
	if n >= t.Len() {
		return t.clone()
	}
	if n <= 0 {
		return newDerived(t.years, nil)
	}
	cols := make([]series.Series, 0, n)
	for _, name := range t.Columns()[:n] {
		cols = append(cols, t.frame.Col(name).Copy())
	}
	return newDerived(t.years, cols)
}

func (t *DerivedTable) clone() *DerivedTable {
	cols := make([]series.Series, 0, t.Len())
	for _, name := range t.Columns() {
		cols = append(cols, t.frame.Col(name).Copy())
	}
	return newDerived(t.years, cols)
}

// View returns the table as plain slices.
func (t *DerivedTable) View() TableView {
	view := TableView{
		Years:   t.Years(),
		Columns: t.Columns(),
		Values:  make([][]float64, 0, t.Len()),
	}
	for _, name := range view.Columns {
		view.Values = append(view.Values, t.frame.Col(name).Float())
	}
	return view
}

// Records returns a header row (year first) followed by one row per year,
// formatted for CSV and spreadsheet export.
func (t *DerivedTable) Records() [][]string {
	view := t.View()
	records := make([][]string, 0, len(view.Years)+1)
	records = append(records, append([]string{YearColumn}, view.Columns...))
	for i, year := range view.Years {
		row := make([]string, 0, len(view.Columns)+1)
		row = append(row, strconv.Itoa(year))
		for _, values := range view.Values {
			row = append(row, strconv.FormatFloat(values[i], 'f', -1, 64))
		}
		records = append(records, row)
	}
	return records
}
