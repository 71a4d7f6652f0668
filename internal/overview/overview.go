// Package overview draws a project's lanes as a PNG strip: one row per lane,
// one rectangle per clip, colored by kind.
package overview

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"math"
	"sort"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"video-editor/internal/timeline"
)

// Layout defaults
const (
	DefaultRowHeight = 24
	DefaultMaxWidth  = 2000
	// MaxCanvasWidth bounds the strip when no MaxWidth is set.
	MaxCanvasWidth = 16384
	// MaxCanvasHeight bounds the strip height; rows shrink to fit.
	MaxCanvasHeight = 4096
	MaxRowHeight    = 256
	labelWidth       = 64
	rowGap           = 2
	minTimelineWidth = 100
	rightPadding     = 8
)

// Colors used for the strip.
var (
	Background = color.NRGBA{R: 0x1e, G: 0x1e, B: 0x24, A: 0xff}
	LaneColor  = color.NRGBA{R: 0x2a, G: 0x2a, B: 0x33, A: 0xff}
	LabelColor = color.NRGBA{R: 0xdd, G: 0xdd, B: 0xdd, A: 0xff}
	KindColors = map[string]color.NRGBA{
		"text":  {R: 0xf2, G: 0x9e, B: 0x4c, A: 0xff},
		"image": {R: 0x4c, G: 0xb8, B: 0x72, A: 0xff},
		"video": {R: 0x4c, G: 0x8c, B: 0xf2, A: 0xff},
		"audio": {R: 0xa8, G: 0x6b, B: 0xe0, A: 0xff},
	}
	unknownKind = color.NRGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xff}
)

// Options controls the rendered size.
type Options struct {
	// PixelsPerSecond is the horizontal scale before fitting.
	PixelsPerSecond float64
	// MaxWidth bounds the final image width; wider strips are drawn at a
	// reduced scale. Zero or anything above MaxCanvasWidth means MaxCanvasWidth.
	MaxWidth int
	// RowHeight is the height of one lane row, at most MaxRowHeight.
	RowHeight int
}

func (o Options) withDefaults() Options {
	if !(o.PixelsPerSecond > 0) || math.IsInf(o.PixelsPerSecond, 0) {
		o.PixelsPerSecond = timeline.DefaultPixelsPerSecond
	}
	if o.MaxWidth <= 0 || o.MaxWidth > MaxCanvasWidth {
		o.MaxWidth = MaxCanvasWidth
	}
	if o.RowHeight <= 0 {
		o.RowHeight = DefaultRowHeight
	}
	o.RowHeight = min(o.RowHeight, MaxRowHeight)
	return o
}

// Render draws elements. Lanes are listed in lane id order.
func Render(elements []timeline.Element, opts Options) *image.NRGBA {
	opts = opts.withDefaults()

	lanes := laneIDs(elements)
	rows := max(len(lanes), 1)
	opts.RowHeight = min(opts.RowHeight, max((MaxCanvasHeight+rowGap)/rows-rowGap, 1))

	var end float64
	for _, el := range elements {
		end = math.Max(end, el.EndTime)
	}
	// Pick the scale before allocating so the canvas never exceeds MaxWidth.
	avail := max(opts.MaxWidth-labelWidth-rightPadding, 1)
	if end > 0 {
		opts.PixelsPerSecond = math.Min(opts.PixelsPerSecond, float64(avail)/end)
	}
	timelineWidth := min(int(math.Ceil(timeline.SecondsToPixels(end, opts.PixelsPerSecond))), avail)
	width := labelWidth + max(timelineWidth, minTimelineWidth) + rightPadding
	height := rows*opts.RowHeight + (rows-1)*rowGap

	img := imaging.New(width, height, Background)

	rowOf := make(map[string]int, len(lanes))
	for i, id := range lanes {
		rowOf[id] = i
		top := i * (opts.RowHeight + rowGap)
		fill(img, image.Rect(labelWidth, top, width, top+opts.RowHeight), LaneColor)
		drawLabel(img, id, top, opts.RowHeight)
	}

	for _, el := range elements {
		top := rowOf[el.LaneID] * (opts.RowHeight + rowGap)
		x0 := labelWidth + int(math.Round(timeline.SecondsToPixels(el.StartTime, opts.PixelsPerSecond)))
		x1 := labelWidth + int(math.Round(timeline.SecondsToPixels(el.EndTime, opts.PixelsPerSecond)))
		// Leave a one pixel seam so touching clips stay distinguishable.
		if x1-x0 > 2 {
			x1--
		}
		c, ok := KindColors[el.Kind]
		if !ok {
			c = unknownKind
		}
		fill(img, image.Rect(x0, top+2, max(x1, x0+1), top+opts.RowHeight-2), c)
	}

	// Only a MaxWidth below the minimum strip width gets here.
	if width > opts.MaxWidth {
		return imaging.Resize(img, opts.MaxWidth, 0, imaging.Box)
	}
	return img
}

// Encode renders elements and writes the strip as PNG.
func Encode(w io.Writer, elements []timeline.Element, opts Options) error {
	if err := imaging.Encode(w, Render(elements, opts), imaging.PNG); err != nil {
		return fmt.Errorf("failed to encode overview: %w", err)
	}
	return nil
}

func laneIDs(elements []timeline.Element) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, el := range elements {
		if !seen[el.LaneID] {
			seen[el.LaneID] = true
			ids = append(ids, el.LaneID)
		}
	}
	sort.Strings(ids)
	return ids
}

func fill(img draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func drawLabel(img draw.Image, text string, top, rowHeight int) {
	face := basicfont.Face7x13
	// Vertically center the cap height inside the row.
	baseline := top + (rowHeight+face.Ascent-2)/2
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(LabelColor),
		Face: face,
		Dot:  fixed.P(4, baseline),
	}
	for len(text) > 0 && d.MeasureString(text).Ceil() > labelWidth-6 {
		text = text[:len(text)-1]
	}
	d.DrawString(text)
}
