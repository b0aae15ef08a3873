package chart

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salarypulse/internal/dataset"
	apierrors "salarypulse/internal/errors"
	"salarypulse/internal/shared/testutil"
)

func derivedFixture(t *testing.T, sel dataset.Selection) *dataset.DerivedTable {
	t.Helper()
	table, err := dataset.LoadFromReader(strings.NewReader(testutil.DefaultSalaryFixture().CSV()))
	require.NoError(t, err)
	derived, err := dataset.Reshape(table, sel)
	require.NoError(t, err)
	return derived
}

func TestRenderSingleSeries(t *testing.T) {
	x := []float64{2000, 2001, 2002}
	y := []float64{100, 150, 240}

	img, err := RenderSingleSeries(x, y, NewCaption("Across the economy", "Year", "Nominal salary"), Options{})
	require.NoError(t, err)

	assert.Equal(t, FormatSVG, img.Format)
	assert.Equal(t, 1152, img.Width)
	assert.Equal(t, 480, img.Height)
	assert.Equal(t, 0.0, img.YMin)
	assert.Equal(t, 240.0, img.YMax)
	assert.True(t, bytes.HasPrefix(bytes.TrimSpace(img.Data), []byte("<?xml")) || bytes.Contains(img.Data, []byte("<svg")))
	assert.Contains(t, string(img.Data), "Across the economy")
	assert.Equal(t, "image/svg+xml", img.MIMEType())
	assert.True(t, strings.HasPrefix(img.DataURI(), "data:image/svg+xml;base64,"))
}

func TestRenderSingleSeriesWithoutCaption(t *testing.T) {
	img, err := RenderSingleSeries([]float64{1, 2}, []float64{5, 6}, nil, Options{})
	require.NoError(t, err)
	assert.NotEmpty(t, img.Data)
}

func TestRenderSingleSeriesYAxisFloor(t *testing.T) {
	tests := []struct {
		name    string
		y       []float64
		wantMax float64
	}{
		{"positive values", []float64{3, 9}, 9},
		{"all zero", []float64{0, 0}, 1},
		{"all negative", []float64{-5, -2}, 1},
		{"mixed", []float64{-5, 4}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := RenderSingleSeries([]float64{1, 2}, tt.y, nil, Options{})
			require.NoError(t, err)
			assert.Equal(t, 0.0, img.YMin)
			assert.Equal(t, tt.wantMax, img.YMax)
		})
	}
}

func TestRenderSingleSeriesInvalid(t *testing.T) {
	tests := []struct {
		name string
		x, y []float64
	}{
		{"empty", nil, nil},
		{"length mismatch", []float64{1, 2, 3}, []float64{1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RenderSingleSeries(tt.x, tt.y, nil, Options{})
			assert.True(t, errors.Is(err, apierrors.ErrInvalidSeries))
		})
	}
}

func TestRenderSingleSeriesPNG(t *testing.T) {
	img, err := RenderSingleSeries([]float64{1, 2}, []float64{1, 2}, nil, Options{Width: 4, Height: 2, Format: FormatPNG, DPI: 50})
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MIMEType())
	assert.Equal(t, 200, img.Width)
	assert.Equal(t, 100, img.Height)
	assert.True(t, bytes.HasPrefix(img.Data, []byte("\x89PNG")))
}

func TestRenderUnsupportedFormat(t *testing.T) {
	_, err := RenderSingleSeries([]float64{1}, []float64{1}, nil, Options{Format: "gif"})
	require.Error(t, err)
	var appErr *apierrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apierrors.ErrTypeRender, appErr.Type)
}

func TestRenderMultiSeries(t *testing.T) {
	derived := derivedFixture(t, dataset.Selection{Pattern: dataset.Pattern(""), KeepOverall: false})

	img, err := RenderMultiSeries(derived, NewCaption("Nominal salary by sector", "Year", "Nominal salary"), "", Options{})
	require.NoError(t, err)
	assert.Equal(t, 0.0, img.YMin)
	assert.Greater(t, img.YMax, 0.0)

	svg := string(img.Data)
	for _, sector := range testutil.Sectors {
		assert.Contains(t, svg, sector, "legend entry for %s", sector)
	}
}

func TestRenderMultiSeriesYAxisFloor(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		wantMax float64
	}{
		{"all negative", "year,overall,mining\n2000,-5,-7\n2001,-2,-3\n", 1},
		{"all zero", "year,overall,mining\n2000,0,0\n2001,0,0\n", 1},
		{"mixed", "year,overall,mining\n2000,-5,3\n2001,-2,8\n", 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := dataset.LoadFromReader(strings.NewReader(tt.csv))
			require.NoError(t, err)
			derived, err := dataset.Reshape(table, dataset.Selection{KeepOverall: true})
			require.NoError(t, err)

			img, err := RenderMultiSeries(derived, nil, "", Options{})
			require.NoError(t, err)
			assert.Equal(t, 0.0, img.YMin)
			assert.Equal(t, tt.wantMax, img.YMax)
		})
	}
}

func TestRenderMultiSeriesPalettes(t *testing.T) {
	derived := derivedFixture(t, dataset.Selection{Pattern: dataset.Pattern(dataset.SuffixInflationAdjusted), KeepOverall: true})

	for _, scheme := range []string{"crest", "viridis", "rocket_r"} {
		_, err := RenderMultiSeries(derived, nil, scheme, Options{})
		assert.NoError(t, err, scheme)
	}

	_, err := RenderMultiSeries(derived, nil, "rainbow", Options{})
	assert.True(t, errors.Is(err, apierrors.ErrUnknownPalette))
}

func TestRenderMultiSeriesEmptyTable(t *testing.T) {
	derived := derivedFixture(t, dataset.Selection{Pattern: dataset.Pattern(""), KeepOverall: true}).Head(0)

	_, err := RenderMultiSeries(derived, nil, "", Options{})
	assert.True(t, errors.Is(err, apierrors.ErrEmptyTable))

	_, err = RenderMultiSeries(nil, nil, "", Options{})
	assert.True(t, errors.Is(err, apierrors.ErrEmptyTable))
}

type chartCounter struct{ kinds []string }

func (c *chartCounter) RecordChart(_ context.Context, kind string) {
	c.kinds = append(c.kinds, kind)
}

func TestRenderer(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	counter := &chartCounter{}
	r := NewRenderer(Options{Format: FormatSVG}, "", logger, counter)

	assert.Equal(t, DefaultOptions(), r.Options())

	_, err := r.Single(context.Background(), []float64{1, 2}, []float64{3, 4}, nil)
	require.NoError(t, err)

	derived := derivedFixture(t, dataset.Selection{Pattern: dataset.Pattern(dataset.SuffixDollars), KeepOverall: true})
	_, err = r.Multi(context.Background(), derived, nil, "")
	require.NoError(t, err)

	_, err = r.Multi(context.Background(), derived, nil, "nope")
	require.Error(t, err)

	assert.Equal(t, []string{KindSingle, KindMulti}, counter.kinds)
	testutil.AssertLogAttr(t, handler, "component", "chart_renderer")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Single(ctx, []float64{1}, []float64{1}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
