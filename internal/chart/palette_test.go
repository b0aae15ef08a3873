package chart

import (
	"errors"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "salarypulse/internal/errors"
)

func luminance(c color.Color) float64 {
	r, g, b, _ := c.RGBA()
	return 0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)
}

// assertSameColor compares colors to within one 8-bit step per channel.
// The ramps are computed in floating point, so the same stop reached from
// either end can differ in the last bits.
func assertSameColor(t *testing.T, want, got color.Color) {
	t.Helper()
	wr, wg, wb, wa := want.RGBA()
	gr, gg, gb, ga := got.RGBA()
	assert.InDelta(t, wr, gr, 257, "red")
	assert.InDelta(t, wg, gg, 257, "green")
	assert.InDelta(t, wb, gb, 257, "blue")
	assert.InDelta(t, wa, ga, 257, "alpha")
}

func TestColorsKnownSchemes(t *testing.T) {
	for _, name := range Palettes() {
		t.Run(name, func(t *testing.T) {
			colors, err := Colors(name, 7)
			require.NoError(t, err)
			require.Len(t, colors, 7)
			for i := 1; i < len(colors); i++ {
				assert.NotEqual(t, colors[i-1], colors[i])
			}
		})
	}
}

func TestColorsReverse(t *testing.T) {
	forward, err := Colors("rocket", 5)
	require.NoError(t, err)
	reversed, err := Colors("rocket_r", 5)
	require.NoError(t, err)

	for i := range forward {
		assertSameColor(t, forward[i], reversed[len(reversed)-1-i])
	}
	assert.Less(t, luminance(forward[0]), luminance(forward[4]))
	assert.Greater(t, luminance(reversed[0]), luminance(reversed[4]))
}

func TestColorsDefault(t *testing.T) {
	def, err := Colors("", 3)
	require.NoError(t, err)
	named, err := Colors(DefaultPalette, 3)
	require.NoError(t, err)
	assert.Equal(t, named, def)
}

func TestColorsLightFirstSchemes(t *testing.T) {
	crest, err := Colors("crest", 4)
	require.NoError(t, err)
	assert.Greater(t, luminance(crest[0]), luminance(crest[3]))
}

func TestColorsUnknown(t *testing.T) {
	_, err := Colors("jet", 3)
	assert.True(t, errors.Is(err, apierrors.ErrUnknownPalette))

	_, err = Colors("jet_r", 3)
	assert.True(t, errors.Is(err, apierrors.ErrUnknownPalette))
}

func TestParseHex(t *testing.T) {
	c, err := parseHex("#334e70")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0x33, G: 0x4e, B: 0x70, A: 0xff}, c)

	_, err = parseHex("334e70")
	assert.Error(t, err)
	_, err = parseHex("#33zz70")
	assert.Error(t, err)
}
