package chart

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgsvg"

	"salarypulse/internal/dataset"
	apierrors "salarypulse/internal/errors"
)

// Output formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

// Kinds reported to metrics and logs.
const (
	KindSingle = "single"
	KindMulti  = "multi"
)

// singleColor is the line color of single-series charts.
var singleColor = color.NRGBA{R: 0x33, G: 0x4e, B: 0x70, A: 0xff}

const (
	singleLineWidth  = 2.0
	singleMarkerSize = 6.0
	multiLineWidth   = 1.5
	multiMarkerSize  = 5.0
	multiAlpha       = 0.85
)

// Options controls the canvas of a rendered chart.
type Options struct {
	Width  float64 `json:"width"`  // inches
	Height float64 `json:"height"` // inches
	Format string  `json:"format"`
	DPI    int     `json:"dpi"`
}

// DefaultOptions returns a 12x5 inch SVG canvas at 96 DPI.
func DefaultOptions() Options {
	return Options{Width: 12, Height: 5, Format: FormatSVG, DPI: 96}
}

// withDefaults fills zero fields from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.Format == "" {
		o.Format = d.Format
	}
	if o.DPI <= 0 {
		o.DPI = d.DPI
	}
	return o
}

// Image is an encoded chart held in memory.
type Image struct {
	Format string  `json:"format"`
	Data   []byte  `json:"-"`
	Width  int     `json:"width"`  // pixels
	Height int     `json:"height"` // pixels
	YMin   float64 `json:"y_min"`
	YMax   float64 `json:"y_max"`
}

// MIMEType returns the content type of the encoded bytes.
func (img *Image) MIMEType() string {
	if img.Format == FormatPNG {
		return "image/png"
	}
	return "image/svg+xml"
}

// DataURI returns the image as a base64 data URI for inline embedding.
func (img *Image) DataURI() string {
	return "data:" + img.MIMEType() + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

// RenderSingleSeries draws y against x as one line with circle markers.
func RenderSingleSeries(x, y []float64, caption *Caption, opts Options) (*Image, error) {
	if len(x) == 0 || len(y) == 0 {
		return nil, apierrors.NewInvalidSeriesError("series is empty")
	}
	if len(x) != len(y) {
		return nil, apierrors.NewInvalidSeriesError(
			fmt.Sprintf("x has %d points, y has %d", len(x), len(y)))
	}
	pts, err := points(x, y)
	if err != nil {
		return nil, err
	}

	p := newPlot(caption)
	line, marks, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, apierrors.NewRenderError("failed to build line", err)
	}
	styleLine(line, marks, singleColor, singleLineWidth, singleMarkerSize)
	p.Add(line, marks)

	return encode(p, nil, opts)
}

// RenderMultiSeries draws every column of table against its years, one
// colored line per column, with the legend to the right of the plot area.
func RenderMultiSeries(table *dataset.DerivedTable, caption *Caption, scheme string, opts Options) (*Image, error) {
	if table == nil || len(table.Columns()) == 0 {
		return nil, apierrors.NewEmptyTableError()
	}
	columns := table.Columns()
	colors, err := Colors(scheme, len(columns))
	if err != nil {
		return nil, err
	}

	years := table.Years()
	x := make([]float64, len(years))
	for i, yr := range years {
		x[i] = float64(yr)
	}

	p := newPlot(caption)
	legend := plot.NewLegend()
	legend.Top = true
	legend.Left = true

	for i, name := range columns {
		y, err := table.Column(name)
		if err != nil {
			return nil, err
		}
		pts, err := points(x, y)
		if err != nil {
			return nil, err
		}
		line, marks, err := plotter.NewLinePoints(pts)
		if err != nil {
			return nil, apierrors.NewRenderError("failed to build line "+name, err)
		}
		styleLine(line, marks, withAlpha(colors[i], multiAlpha), multiLineWidth, multiMarkerSize)
		p.Add(line, marks)
		legend.Add(name, line, marks)
	}

	return encode(p, &legendStrip{legend: legend, width: legendWidth(columns, opts.withDefaults())}, opts)
}

func newPlot(caption *Caption) *plot.Plot {
	p := plot.New()
	if caption != nil {
		p.Title.Text = caption.Title
		p.X.Label.Text = caption.XLabel
		p.Y.Label.Text = caption.YLabel
	}
	p.Add(plotter.NewGrid())
	return p
}

func points(x, y []float64) (plotter.XYs, error) {
	pts := make(plotter.XYs, len(x))
	for i := range x {
		if !finite(x[i]) || !finite(y[i]) {
			return nil, apierrors.NewInvalidSeriesError(
				fmt.Sprintf("point %d is not finite", i))
		}
		pts[i].X = x[i]
		pts[i].Y = y[i]
	}
	return pts, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func styleLine(line *plotter.Line, marks *plotter.Scatter, c color.Color, width, markerSize float64) {
	line.Color = c
	line.Width = vg.Points(width)
	line.Dashes = nil
	marks.GlyphStyle.Shape = draw.CircleGlyph{}
	marks.GlyphStyle.Color = c
	marks.GlyphStyle.Radius = vg.Points(markerSize / 2)
}

// floorYAxis pins the y axis at zero. An axis with no positive data gets
// an upper bound of one.
func floorYAxis(p *plot.Plot) {
	p.Y.Min = 0
	if p.Y.Max <= 0 {
		p.Y.Max = 1
	}
}

type legendStrip struct {
	legend plot.Legend
	width  vg.Length
}

// legendWidth sizes the strip from the longest label, capped at 40% of
// the canvas.
func legendWidth(labels []string, opts Options) vg.Length {
	longest := 0
	for _, l := range labels {
		if n := len([]rune(l)); n > longest {
			longest = n
		}
	}
	w := vg.Points(float64(longest)*6.5 + 48)
	if limit := vg.Length(opts.Width) * vg.Inch * 0.4; w > limit {
		w = limit
	}
	return w
}

func encode(p *plot.Plot, strip *legendStrip, opts Options) (*Image, error) {
	opts = opts.withDefaults()
	floorYAxis(p)

	canvas, err := newCanvas(opts)
	if err != nil {
		return nil, err
	}
	dc := draw.New(canvas)
	if strip == nil {
		p.Draw(dc)
	} else {
		p.Draw(draw.Crop(dc, 0, -strip.width, 0, 0))
		full := dc.Max.X - dc.Min.X
		strip.legend.Draw(draw.Crop(dc, full-strip.width+vg.Points(8), 0, 0, -vg.Points(24)))
	}

	var buf bytes.Buffer
	if _, err := canvas.WriteTo(&buf); err != nil {
		return nil, apierrors.NewRenderError("failed to encode chart", err)
	}

	return &Image{
		Format: opts.Format,
		Data:   buf.Bytes(),
		Width:  int(math.Round(opts.Width * float64(opts.DPI))),
		Height: int(math.Round(opts.Height * float64(opts.DPI))),
		YMin:   p.Y.Min,
		YMax:   p.Y.Max,
	}, nil
}

func newCanvas(opts Options) (vg.CanvasWriterTo, error) {
	w := vg.Length(opts.Width) * vg.Inch
	h := vg.Length(opts.Height) * vg.Inch
	switch opts.Format {
	case FormatSVG:
		return vgsvg.New(w, h), nil
	case FormatPNG:
		return vgimg.PngCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(opts.DPI))}, nil
	default:
		return nil, apierrors.NewRenderError("unsupported chart format "+opts.Format, nil)
	}
}
