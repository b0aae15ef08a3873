package dataset

import (
	"fmt"
	"strings"

	"github.com/go-gota/gota/series"

	apierrors "salarypulse/internal/errors"
)

// NominalColumnCount is the width of the positional nominal layout: overall
// plus seven sectors, directly after year.
const NominalColumnCount = 8

// Selection describes one reshape.
//
// Pattern nil keeps the whole table. An empty Pattern selects the nominal
// columns: the names in Nominal when given, else the first
// NominalColumnCount columns. Any other Pattern selects the columns ending
// with it and strips it from their labels.
type Selection struct {
	Pattern     *string
	KeepOverall bool
	Nominal     []string
}

// Pattern returns a pointer to p for use in a Selection.
func Pattern(p string) *string {
	return &p
}

// Reshape derives a year-keyed table from t. Values are copied unchanged and
// rows keep their order.
func Reshape(t *SalaryTable, sel Selection) (*DerivedTable, error) {
	if sel.Pattern == nil {
		return fromColumns(t, t.Columns(), nil), nil
	}

	var (
		names  []string
		labels []string
		err    error
	)
	if *sel.Pattern == "" {
		names, err = nominalColumns(t, sel.Nominal)
		labels = names
	} else {
		names, labels, err = suffixColumns(t, *sel.Pattern)
	}
	if err != nil {
		return nil, err
	}

	if !sel.KeepOverall {
		idx := indexOf(labels, OverallColumn)
		if idx < 0 {
			return nil, apierrors.NewColumnNotFoundError(OverallColumn)
		}
		names = append(names[:idx:idx], names[idx+1:]...)
		labels = append(labels[:idx:idx], labels[idx+1:]...)
	}

	return fromColumns(t, names, labels), nil
}

func nominalColumns(t *SalaryTable, configured []string) ([]string, error) {
	all := t.Columns()

	if len(configured) > 0 {
		for _, name := range configured {
			if indexOf(all, name) < 0 {
				return nil, apierrors.NewSchemaMismatchError(
					fmt.Sprintf("configured nominal column %q is not in the dataset", name)).
					WithContext("column", name)
			}
		}
		return append([]string(nil), configured...), nil
	}

	if len(all) < NominalColumnCount {
		return nil, apierrors.NewSchemaMismatchError(
			fmt.Sprintf("nominal layout needs %d leading columns, dataset has %d", NominalColumnCount, len(all)))
	}
	names := append([]string(nil), all[:NominalColumnCount]...)
	for _, name := range names {
		if isDerived(name) {
			return nil, apierrors.NewSchemaMismatchError(
				fmt.Sprintf("column %q inside the nominal layout is not nominal", name)).
				WithContext("column", name)
		}
	}
	return names, nil
}

func suffixColumns(t *SalaryTable, pattern string) ([]string, []string, error) {
	var names, labels []string
	for _, name := range t.Columns() {
		if !strings.HasSuffix(name, pattern) {
			continue
		}
		label := strings.TrimSuffix(name, pattern)
		if label == "" {
			return nil, nil, apierrors.NewSchemaMismatchError(
				fmt.Sprintf("column %q has no label left after removing %q", name, pattern))
		}
		names = append(names, name)
		labels = append(labels, label)
	}
	if len(names) == 0 {
		return nil, nil, apierrors.NewEmptySelectionError(pattern)
	}
	return names, labels, nil
}

// fromColumns copies names out of t, relabelled with labels when given.
func fromColumns(t *SalaryTable, names, labels []string) *DerivedTable {
	cols := make([]series.Series, 0, len(names))
	for i, name := range names {
		col := t.frame.Col(name).Copy()
		if labels != nil {
			col.Name = labels[i]
		}
		cols = append(cols, col)
	}
	return newDerived(t.years, cols)
}
