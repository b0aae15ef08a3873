package chart

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"gonum.org/v1/plot/palette/moreland"

	apierrors "salarypulse/internal/errors"
)

// DefaultPalette is used by RenderMultiSeries when no scheme is named.
const DefaultPalette = "rocket_r"

// reverseSuffix flips a scheme, as in "rocket_r".
const reverseSuffix = "_r"

// Control colors for each sequential scheme, ordered dark to light so the
// luminance map is well defined. lightFirst marks schemes whose natural
// order starts from the light end.
var schemes = map[string]struct {
	controls   []string
	lightFirst bool
}{
	"rocket":  {controls: []string{"#03051a", "#4c1d4b", "#a11a5b", "#e83f3f", "#f69c73", "#faebdd"}},
	"mako":    {controls: []string{"#0b0405", "#3e356b", "#357ba2", "#49c1ad", "#def5e5"}},
	"viridis": {controls: []string{"#440154", "#3b528b", "#21918c", "#5ec962", "#fde725"}},
	"crest":   {controls: []string{"#2c3172", "#3d6d9b", "#4ba0a0", "#a5cd90"}, lightFirst: true},
	"flare":   {controls: []string{"#6c2b6d", "#b13c6c", "#e3685c", "#edb081"}, lightFirst: true},
}

// Palettes lists every accepted scheme name, reversed variants included.
func Palettes() []string {
	names := make([]string, 0, 2*len(schemes))
	for name := range schemes {
		names = append(names, name, name+reverseSuffix)
	}
	sort.Strings(names)
	return names
}

// Colors samples n distinct colors from the named scheme. An empty name
// selects DefaultPalette. Samples skip both ends of the map so no line
// is drawn near-black or near-white.
func Colors(name string, n int) ([]color.Color, error) {
	if name == "" {
		name = DefaultPalette
	}
	base, reversed := name, false
	if strings.HasSuffix(name, reverseSuffix) {
		base, reversed = strings.TrimSuffix(name, reverseSuffix), true
	}
	scheme, ok := schemes[base]
	if !ok {
		return nil, apierrors.NewUnknownPaletteError(name)
	}
	if scheme.lightFirst {
		reversed = !reversed
	}
	if n <= 0 {
		return nil, nil
	}

	controls := make([]color.Color, len(scheme.controls))
	for i, hex := range scheme.controls {
		c, err := parseHex(hex)
		if err != nil {
			return nil, apierrors.NewRenderError("invalid palette control color", err)
		}
		controls[i] = c
	}

	cmap, err := moreland.NewLuminance(controls)
	if err != nil {
		return nil, apierrors.NewRenderError("failed to build color map "+name, err)
	}
	cmap.SetMin(0)
	cmap.SetMax(1)

	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		v := float64(i+1) / float64(n+1)
		if reversed {
			v = 1 - v
		}
		c, err := cmap.At(v)
		if err != nil {
			return nil, apierrors.NewRenderError("failed to sample color map "+name, err)
		}
		colors[i] = c
	}
	return colors, nil
}

func parseHex(s string) (color.NRGBA, error) {
	var c color.NRGBA
	c.A = 0xff
	if len(s) != 7 || s[0] != '#' {
		return c, fmt.Errorf("bad hex color %q", s)
	}
	var v [3]uint8
	for i := 0; i < 3; i++ {
		hi, ok1 := hexNibble(s[1+2*i])
		lo, ok2 := hexNibble(s[2+2*i])
		if !ok1 || !ok2 {
			return c, fmt.Errorf("bad hex color %q", s)
		}
		v[i] = hi<<4 | lo
	}
	c.R, c.G, c.B = v[0], v[1], v[2]
	return c, nil
}

func hexNibble(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}

// withAlpha returns c at the given opacity.
func withAlpha(c color.Color, alpha float64) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(alpha*255 + 0.5)
	return n
}
