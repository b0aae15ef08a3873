package dataset

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "salarypulse/internal/errors"
	"salarypulse/internal/shared/testutil"
)

func TestReshapeFullTable(t *testing.T) {
	table := loadFixture(t)

	derived, err := Reshape(table, Selection{})
	require.NoError(t, err)
	assert.Equal(t, table.Columns(), derived.Columns())
	assert.Equal(t, table.Years(), derived.Years())

	// KeepOverall is ignored without a pattern.
	derived, err = Reshape(table, Selection{KeepOverall: false})
	require.NoError(t, err)
	assert.Contains(t, derived.Columns(), "overall")
}

func TestReshapeNominal(t *testing.T) {
	fixture := testutil.DefaultSalaryFixture()
	table := loadFixture(t)

	derived, err := Reshape(table, Selection{Pattern: Pattern(""), KeepOverall: false})
	require.NoError(t, err)
	assert.Equal(t, testutil.Sectors, derived.Columns())
	assert.Equal(t, 24, derived.Rows())

	derived, err = Reshape(table, Selection{Pattern: Pattern(""), KeepOverall: true})
	require.NoError(t, err)
	require.Len(t, derived.Columns(), NominalColumnCount)
	assert.Equal(t, "overall", derived.Columns()[0])

	mining, err := derived.Column("mining")
	require.NoError(t, err)
	assert.Equal(t, fixture.Value("mining", 2010), mining[10])
}

func TestReshapeNominalConfigured(t *testing.T) {
	table := loadFixture(t)

	derived, err := Reshape(table, Selection{
		Pattern:     Pattern(""),
		KeepOverall: true,
		Nominal:     []string{"finance", "overall", "mining"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"finance", "overall", "mining"}, derived.Columns())

	derived, err = Reshape(table, Selection{
		Pattern: Pattern(""),
		Nominal: []string{"finance", "overall", "mining"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"finance", "mining"}, derived.Columns())

	_, err = Reshape(table, Selection{Pattern: Pattern(""), KeepOverall: true, Nominal: []string{"fishing"}})
	assert.True(t, errors.Is(err, apierrors.ErrSchemaMismatch))
}

func TestReshapeNominalLayoutViolations(t *testing.T) {
	t.Run("fewer than eight columns", func(t *testing.T) {
		csv := "year,overall,a,b,c,d,e,f\n2000,1,2,3,4,5,6,7\n"
		table, err := LoadFromReader(strings.NewReader(csv))
		require.NoError(t, err)
		require.Len(t, table.Columns(), 7)

		_, err = Reshape(table, Selection{Pattern: Pattern(""), KeepOverall: true})
		assert.True(t, errors.Is(err, apierrors.ErrSchemaMismatch), "got %v", err)
	})

	t.Run("derived column inside the layout", func(t *testing.T) {
		csv := "year,overall,a,b,c,d,e,overall_inf_adj,f\n2000,1,2,3,4,5,6,7,8\n"
		table, err := LoadFromReader(strings.NewReader(csv))
		require.NoError(t, err)

		_, err = Reshape(table, Selection{Pattern: Pattern(""), KeepOverall: true})
		assert.True(t, errors.Is(err, apierrors.ErrSchemaMismatch), "got %v", err)
	})
}

func TestReshapeSuffix(t *testing.T) {
	fixture := testutil.DefaultSalaryFixture()
	table := loadFixture(t)

	tests := []struct {
		name        string
		pattern     string
		keepOverall bool
		want        []string
	}{
		{"inflation adjusted with overall", SuffixInflationAdjusted, true, append([]string{"overall"}, testutil.Sectors...)},
		{"inflation adjusted without overall", SuffixInflationAdjusted, false, testutil.Sectors},
		{"dollars with overall", SuffixDollars, true, append([]string{"overall"}, testutil.Sectors...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			derived, err := Reshape(table, Selection{Pattern: Pattern(tt.pattern), KeepOverall: tt.keepOverall})
			require.NoError(t, err)
			assert.Equal(t, tt.want, derived.Columns())

			for _, label := range derived.Columns() {
				got, err := derived.Column(label)
				require.NoError(t, err)
				source, err := table.Column(label + tt.pattern)
				require.NoError(t, err)
				assert.Equal(t, source, got, label)
			}
			assert.Equal(t, fixture.Years(), derived.Years())
		})
	}
}

func TestReshapeErrors(t *testing.T) {
	table := loadFixture(t)

	_, err := Reshape(table, Selection{Pattern: Pattern("_in_euros"), KeepOverall: true})
	assert.True(t, errors.Is(err, apierrors.ErrEmptySelection))

	noOverall, err := LoadFromReader(strings.NewReader("year,mining,mining_inf_adj\n2000,1,2\n"))
	require.NoError(t, err)
	_, err = Reshape(noOverall, Selection{Pattern: Pattern(SuffixInflationAdjusted)})
	assert.True(t, errors.Is(err, apierrors.ErrColumnNotFound))

	exact, err := LoadFromReader(strings.NewReader("year,overall,_inf_adj\n2000,1,2\n"))
	require.NoError(t, err)
	_, err = Reshape(exact, Selection{Pattern: Pattern(SuffixInflationAdjusted), KeepOverall: true})
	assert.True(t, errors.Is(err, apierrors.ErrSchemaMismatch))
}

func TestReshapeDoesNotAlias(t *testing.T) {
	table := loadFixture(t)
	before, err := table.Column("overall")
	require.NoError(t, err)

	derived, err := Reshape(table, Selection{Pattern: Pattern(""), KeepOverall: true})
	require.NoError(t, err)
	values, err := derived.Column("overall")
	require.NoError(t, err)
	values[0] = 0

	after, err := table.Column("overall")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestDerivedTableHead(t *testing.T) {
	table := loadFixture(t)
	derived, err := Reshape(table, Selection{Pattern: Pattern(SuffixInflationAdjusted), KeepOverall: false})
	require.NoError(t, err)

	head := derived.Head(5)
	assert.Equal(t, testutil.Sectors[:5], head.Columns())
	assert.Equal(t, 7, derived.Len(), "Head must not shrink the source")

	assert.Equal(t, derived.Columns(), derived.Head(100).Columns())
	assert.Empty(t, derived.Head(0).Columns())
	assert.Equal(t, 24, derived.Head(0).Rows())
}

func TestDerivedTableRecords(t *testing.T) {
	csv := "year,overall,mining,overall_inf_adj,mining_inf_adj\n" +
		"2000,100,200,50.5,100\n" +
		"2001,110,220,55,110.25\n"
	table, err := LoadFromReader(strings.NewReader(csv))
	require.NoError(t, err)

	derived, err := Reshape(table, Selection{Pattern: Pattern(SuffixInflationAdjusted), KeepOverall: true})
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"year", "overall", "mining"},
		{"2000", "50.5", "100"},
		{"2001", "55", "110.25"},
	}, derived.Records())

	view := derived.View()
	assert.Equal(t, []int{2000, 2001}, view.Years)
	assert.Equal(t, [][]float64{{50.5, 55}, {100, 110.25}}, view.Values)
}
