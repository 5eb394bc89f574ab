package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Series is a named sequence of values drawn as one line.
type Series struct {
	Name   string
	Values []float64
}

// Range fixes the vertical axis of a plot.
type Range struct {
	Min float64
	Max float64
}

// ScoreRange is the axis used for subscore curves.
var ScoreRange = Range{Min: 0, Max: 100}

// PlotOptions controls plot geometry and styling.
// A nil Range scales every series to its own min and max.
type PlotOptions struct {
	Width  int
	Height int
	Color  bool
	Range  *Range
}

type dash struct {
	name   string
	period int
	on     int
}

const (
	defaultPlotHeight = 10
	minPlotWidth      = 10
	axisLabelWidth    = 4
	axisSeparator     = " │ "
	scaleNote         = "Scaled per series; see min/max below."
	colorReset        = "\x1b[0m"
	fallbackWidth     = 80
)

var dashes = []dash{
	{name: "solid", period: 1, on: 1},
	{name: "dashed", period: 6, on: 3},
	{name: "dotted", period: 4, on: 1},
	{name: "dashdot", period: 8, on: 3},
	{name: "sparse", period: 10, on: 2},
}

var palette = []string{
	"\x1b[36m",
	"\x1b[35m",
	"\x1b[33m",
	"\x1b[32m",
	"\x1b[34m",
}

// PlotSeries renders series as a braille plot scaled per series.
func PlotSeries(w io.Writer, title string, series []Series, width, height int) error {
	return Plot(w, title, series, PlotOptions{Width: width, Height: height})
}

// Plot renders series as a braille line plot.
func Plot(w io.Writer, title string, series []Series, opts PlotOptions) error {
	series = nonEmpty(series)
	if len(series) == 0 {
		return nil
	}
	height := opts.Height
	if height <= 0 {
		height = defaultPlotHeight
	}
	width := opts.Width
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	resampled := make([]Series, len(series))
	bounds := make([]Range, len(series))
	layers := make([]*canvas, len(series))
	for i, s := range series {
		resampled[i] = Series{Name: s.Name, Values: resample(s.Values, width)}
		if opts.Range != nil {
			bounds[i] = *opts.Range
		} else {
			bounds[i] = extent(resampled[i].Values)
		}
		layers[i] = newCanvas(width, height)
		layers[i].polyline(resampled[i].Values, bounds[i], dashes[i%len(dashes)])
	}

	color := shouldUseColor(w, opts.Color)
	var b strings.Builder
	if title != "" {
		b.WriteString(title + "\n")
	}
	if opts.Range == nil {
		b.WriteString(scaleNote + "\n")
		for i, s := range resampled {
			fmt.Fprintf(&b, "%s: min=%.2f max=%.2f\n", s.Name, bounds[i].Min, bounds[i].Max)
		}
	}
	labels := axisLabels(height, opts.Range)
	for y := 0; y < height; y++ {
		fmt.Fprintf(&b, "%*s%s", axisLabelWidth, labels[y], axisSeparator)
		for x := 0; x < width; x++ {
			mask, owner := compose(layers, x, y)
			ch := braille(mask)
			if color && owner >= 0 {
				b.WriteString(palette[owner%len(palette)])
				b.WriteRune(ch)
				b.WriteString(colorReset)
				continue
			}
			b.WriteRune(ch)
		}
		b.WriteByte('\n')
	}
	b.WriteString(legend(resampled, color) + "\n\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// PlotWidthFor returns the plot width that fits next to the axis in totalWidth columns.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	width := totalWidth - axisLabelWidth - runewidth.StringWidth(axisSeparator)
	if width < minPlotWidth {
		return minPlotWidth
	}
	return width
}

func nonEmpty(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackWidth
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func axisLabels(height int, r *Range) []string {
	labels := make([]string, height)
	top, mid, bottom := "100%", "50%", "0%"
	if r != nil {
		top = fmt.Sprintf("%.0f", r.Max)
		mid = fmt.Sprintf("%.0f", (r.Min+r.Max)/2)
		bottom = fmt.Sprintf("%.0f", r.Min)
	}
	labels[0] = top
	if height > 2 {
		labels[height/2] = mid
	}
	if height > 1 {
		labels[height-1] = bottom
	}
	return labels
}

func legend(series []Series, color bool) string {
	parts := make([]string, 0, len(series))
	for i, s := range series {
		label := fmt.Sprintf("%c %s (%s)", braille(0x01), s.Name, dashes[i%len(dashes)].name)
		if color {
			label = palette[i%len(palette)] + label + colorReset
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

// resample stretches or averages values to exactly width points.
func resample(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	out := make([]float64, width)
	switch {
	case len(values) == width:
		copy(out, values)
	case len(values) > width:
		for i := range out {
			start := i * len(values) / width
			end := (i + 1) * len(values) / width
			if end <= start {
				end = start + 1
			}
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	case len(values) == 1 || width == 1:
		for i := range out {
			out[i] = values[0]
		}
	default:
		last := len(values) - 1
		for i := range out {
			pos := float64(i) * float64(last) / float64(width-1)
			idx := int(pos)
			if idx >= last {
				out[i] = values[last]
				continue
			}
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
	}
	return out
}

func extent(values []float64) Range {
	r := Range{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, v := range values {
		r.Min = math.Min(r.Min, v)
		r.Max = math.Max(r.Max, v)
	}
	if math.IsInf(r.Min, 0) || math.IsInf(r.Max, 0) {
		return Range{Min: -1, Max: 1}
	}
	if r.Max-r.Min < 1e-9 {
		r.Min--
		r.Max++
	}
	return r
}

// canvas is a grid of braille cells, each holding a 2x4 dot mask.
type canvas struct {
	cells [][]uint8
}

func newCanvas(width, height int) *canvas {
	c := &canvas{cells: make([][]uint8, height)}
	for y := range c.cells {
		c.cells[y] = make([]uint8, width)
	}
	return c
}

func (c *canvas) dots() int {
	return len(c.cells) * 4
}

func (c *canvas) polyline(values []float64, r Range, d dash) {
	prevX, prevY := -1, -1
	for i, v := range values {
		x, y := i*2, c.row(v, r)
		if prevX < 0 {
			if d.draws(x) {
				c.set(x, y)
			}
		} else {
			c.line(prevX, prevY, x, y, d)
		}
		prevX, prevY = x, y
	}
}

func (c *canvas) row(v float64, r Range) int {
	rows := c.dots()
	if rows <= 1 || r.Max <= r.Min {
		return 0
	}
	pos := (v - r.Min) / (r.Max - r.Min)
	row := int(math.Round((1 - pos) * float64(rows-1)))
	if row < 0 {
		return 0
	}
	if row >= rows {
		return rows - 1
	}
	return row
}

// line draws from (x0,y0) to (x1,y1) with Bresenham's algorithm.
func (c *canvas) line(x0, y0, x1, y1 int, d dash) {
	dx, sx := absStep(x0, x1)
	dy, sy := absStep(y0, y1)
	dy = -dy
	acc := dx + dy
	for {
		if d.draws(x0) {
			c.set(x0, y0)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * acc
		if e2 >= dy {
			acc += dy
			x0 += sx
		}
		if e2 <= dx {
			acc += dx
			y0 += sy
		}
	}
}

func (c *canvas) set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	cy, cx := y/4, x/2
	if cy >= len(c.cells) || cx >= len(c.cells[cy]) {
		return
	}
	c.cells[cy][cx] |= dotMask(x%2, y%4)
}

func absStep(from, to int) (int, int) {
	if from < to {
		return to - from, 1
	}
	return from - to, -1
}

func (d dash) draws(x int) bool {
	if d.period <= 1 {
		return true
	}
	if x < 0 {
		x = -x
	}
	return x%d.period < d.on
}

// compose merges the masks of all layers at a cell and reports the first layer that drew there.
func compose(layers []*canvas, x, y int) (uint8, int) {
	var mask uint8
	owner := -1
	for i, l := range layers {
		m := l.cells[y][x]
		if m == 0 {
			continue
		}
		if owner < 0 {
			owner = i
		}
		mask |= m
	}
	return mask, owner
}

var dotMasks = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

func dotMask(col, row int) uint8 {
	return dotMasks[col][row]
}

func braille(mask uint8) rune {
	return rune(0x2800 + int(mask))
}
