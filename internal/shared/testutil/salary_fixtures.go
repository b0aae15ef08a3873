package testutil

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// Sectors are the seven sector columns of the fixture dataset, in file
// order after overall.
var Sectors = []string{
	"agriculture", "mining", "manufacturing", "construction",
	"hospitality", "finance", "education",
}

// SalaryFixture describes a generated salary dataset. Nominal values grow
// linearly per year; inflation-adjusted and dollar variants are fixed
// fractions of them.
type SalaryFixture struct {
	FirstYear int
	LastYear  int
	Sectors   []string
}

// DefaultSalaryFixture covers 2000 through 2023 with all seven sectors.
func DefaultSalaryFixture() SalaryFixture {
	return SalaryFixture{FirstYear: 2000, LastYear: 2023, Sectors: Sectors}
}

// Columns returns the value columns in file order: overall, the sectors,
// then the _inf_adj block and the _in_dollars block.
func (f SalaryFixture) Columns() []string {
	nominal := append([]string{"overall"}, f.Sectors...)
	cols := append([]string(nil), nominal...)
	for _, suffix := range []string{"_inf_adj", "_in_dollars"} {
		for _, name := range nominal {
			cols = append(cols, name+suffix)
		}
	}
	return cols
}

// Years returns the row keys.
func (f SalaryFixture) Years() []int {
	years := make([]int, 0, f.LastYear-f.FirstYear+1)
	for y := f.FirstYear; y <= f.LastYear; y++ {
		years = append(years, y)
	}
	return years
}

// Value returns the generated value of column in year.
func (f SalaryFixture) Value(column string, year int) float64 {
	base, factor := column, 1.0
	switch {
	case strings.HasSuffix(column, "_inf_adj"):
		base, factor = strings.TrimSuffix(column, "_inf_adj"), 0.5
	case strings.HasSuffix(column, "_in_dollars"):
		base, factor = strings.TrimSuffix(column, "_in_dollars"), 0.25
	}
	idx := 0
	for i, name := range append([]string{"overall"}, f.Sectors...) {
		if name == base {
			idx = i
			break
		}
	}
	return factor * float64(1000*(idx+1)+100*(year-f.FirstYear))
}

// CSV renders the fixture as CSV text.
func (f SalaryFixture) CSV() string {
	var b strings.Builder
	cols := f.Columns()
	b.WriteString("year," + strings.Join(cols, ",") + "\n")
	for _, y := range f.Years() {
		row := make([]string, 0, len(cols)+1)
		row = append(row, strconv.Itoa(y))
		for _, c := range cols {
			row = append(row, strconv.FormatFloat(f.Value(c, y), 'f', -1, 64))
		}
		b.WriteString(strings.Join(row, ",") + "\n")
	}
	return b.String()
}

// WriteCSV writes the fixture into a temp dir and returns its path.
func (f SalaryFixture) WriteCSV(t *testing.T) string {
	t.Helper()
	return WriteFile(t, "salary_data.csv", f.CSV())
}

// WriteFile writes content to name inside a fresh temp dir.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}
