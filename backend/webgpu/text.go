// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package webgpu

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/go-text/typesetting/di"
	gotext "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"github.com/gogpu/gputypes"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
	"golang.org/x/text/unicode/bidi"

	"github.com/gogpu/scenegraph"
	"github.com/gogpu/scenegraph/internal/cache"
	"github.com/gogpu/scenegraph/resource"
	"github.com/gogpu/scenegraph/viewnode"
)

// textQuadVertices is the vertex count of the textured quad of a label.
const textQuadVertices = 6

// labelKey identifies a rasterized label.
type labelKey struct {
	text  string
	size  float64
	color [4]float64
}

// labels holds rasterized labels shared by all text nodes. Cached images
// are never modified.
var labels = cache.New[labelKey, *image.RGBA](64)

// defaultFont provides outlines and metrics, shapingFont glyph selection
// and positioning. Both parse the same data, so glyph ids agree.
var (
	defaultFont = sync.OnceValues(func() (*opentype.Font, error) {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			return nil, fmt.Errorf("webgpu: parse default font: %w", err)
		}
		return f, nil
	})
	shapingFont = sync.OnceValues(func() (*gotext.Font, error) {
		face, err := gotext.ParseTTF(bytes.NewReader(goregular.TTF))
		if err != nil {
			return nil, fmt.Errorf("webgpu: parse shaping font: %w", err)
		}
		return face.Font, nil
	})
)

// HarfbuzzShaper keeps per-call state.
var shapers = sync.Pool{
	New: func() any { return &shaping.HarfbuzzShaper{} },
}

// textRun is a directional run of a label, as rune indices [start, end).
type textRun struct {
	start, end int
	rtl        bool
}

// visualRuns splits s into directional runs in display order.
func visualRuns(s string) []textRun {
	n := utf8.RuneCountInString(s)
	whole := []textRun{{start: 0, end: n}}
	if n == 0 {
		return nil
	}
	var p bidi.Paragraph
	if _, err := p.SetString(s); err != nil {
		return whole
	}
	o, err := p.Order()
	if err != nil || o.NumRuns() == 0 {
		return whole
	}
	runs := make([]textRun, 0, o.NumRuns())
	for i := 0; i < o.NumRuns(); i++ {
		r := o.Run(i)
		start, last := r.Pos() // rune indices, last inclusive
		runs = append(runs, textRun{
			start: start,
			end:   min(last+1, n),
			rtl:   r.Direction() == bidi.RightToLeft,
		})
	}
	return runs
}

// runScript returns the script of the first letter of runes, or Latin.
func runScript(runes []rune) language.Script {
	for _, r := range runes {
		if unicode.IsLetter(r) {
			return language.LookupScript(r)
		}
	}
	return language.Latin
}

// shapedGlyph is a glyph placed on the label baseline, in pixels with y up.
type shapedGlyph struct {
	id   sfnt.GlyphIndex
	x, y float64
}

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }

// shapeText shapes s at size pixels per em. Glyphs come back left to right
// with the total advance.
func shapeText(s string, size float64) ([]shapedGlyph, float64, error) {
	runs := visualRuns(s)
	if len(runs) == 0 {
		return nil, 0, nil
	}
	f, err := shapingFont()
	if err != nil {
		return nil, 0, err
	}
	face := gotext.NewFace(f)
	runes := []rune(s)

	hb := shapers.Get().(*shaping.HarfbuzzShaper)
	defer shapers.Put(hb)

	var (
		glyphs []shapedGlyph
		pen    float64
	)
	for _, run := range runs {
		dir := di.DirectionLTR
		if run.rtl {
			dir = di.DirectionRTL
		}
		out := hb.Shape(shaping.Input{
			Text:      runes,
			RunStart:  run.start,
			RunEnd:    run.end,
			Direction: dir,
			Face:      face,
			Size:      fixed.Int26_6(size * 64),
			Script:    runScript(runes[run.start:run.end]),
			Language:  language.NewLanguage("en"),
		})
		for _, g := range out.Glyphs {
			glyphs = append(glyphs, shapedGlyph{
				id: sfnt.GlyphIndex(g.GlyphID), //nolint:gosec // ids of the bundled font fit 16 bits
				x:  pen + fixedToFloat(g.XOffset),
				y:  fixedToFloat(g.YOffset),
			})
			pen += fixedToFloat(g.Advance)
		}
	}
	return glyphs, pen, nil
}

// rasterizeText shapes s and fills its glyph outlines in c at size points
// onto a transparent image just large enough to hold it.
func rasterizeText(s string, size float64, c [4]float64) (*image.RGBA, error) {
	f, err := defaultFont()
	if err != nil {
		return nil, err
	}
	glyphs, advance, err := shapeText(s, size)
	if err != nil {
		return nil, err
	}

	var buf sfnt.Buffer
	ppem := fixed.Int26_6(size * 64)
	m, err := f.Metrics(&buf, ppem, font.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("webgpu: font metrics: %w", err)
	}
	width := max(fixed.Int26_6(advance*64).Ceil(), 1)
	height := max((m.Ascent + m.Descent).Ceil(), 1)
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if len(glyphs) == 0 {
		return img, nil
	}

	ras := vector.NewRasterizer(width, height)
	baseline := float32(fixedToFloat(m.Ascent))
	for _, g := range glyphs {
		segs, err := f.LoadGlyph(&buf, g.id, ppem, nil)
		if err != nil {
			// color and missing glyphs have no outline to fill
			continue
		}
		ox, oy := float32(g.x), baseline-float32(g.y)
		pt := func(p fixed.Point26_6) (float32, float32) {
			return ox + float32(fixedToFloat(p.X)), oy + float32(fixedToFloat(p.Y))
		}
		for i, seg := range segs {
			switch seg.Op {
			case sfnt.SegmentOpMoveTo:
				if i > 0 {
					ras.ClosePath()
				}
				ras.MoveTo(pt(seg.Args[0]))
			case sfnt.SegmentOpLineTo:
				ras.LineTo(pt(seg.Args[0]))
			case sfnt.SegmentOpQuadTo:
				bx, by := pt(seg.Args[0])
				cx, cy := pt(seg.Args[1])
				ras.QuadTo(bx, by, cx, cy)
			case sfnt.SegmentOpCubeTo:
				bx, by := pt(seg.Args[0])
				cx, cy := pt(seg.Args[1])
				dx, dy := pt(seg.Args[2])
				ras.CubeTo(bx, by, cx, cy, dx, dy)
			}
		}
		if len(segs) > 0 {
			ras.ClosePath()
		}
	}
	ras.Draw(img, img.Bounds(), image.NewUniform(toRGBA(c)), image.Point{})
	return img, nil
}

func toRGBA(c [4]float64) color.NRGBA {
	ch := func(v float64) uint8 {
		return uint8(min(max(v, 0), 1)*255 + 0.5)
	}
	return color.NRGBA{R: ch(c[0]), G: ch(c[1]), B: ch(c[2]), A: ch(c[3])}
}

// Text is the view node of a text annotation. The label is rasterized on
// the CPU and drawn as a textured quad in the overlay pass.
type Text struct {
	viewnode.Node
	synced  resource.Synced
	image   *image.RGBA
	texture *Target
	uploads int
}

func newText() viewnode.Interface { return &Text{} }

// TraversePass skips hidden labels.
func (t *Text) TraversePass(p *viewnode.Pass) (bool, error) {
	if p.ID == viewnode.PassOverlay {
		return !t.Renderable().Visible(), nil
	}
	return false, nil
}

// OverlayPass uploads the label when it changed and draws it at its
// display position.
func (t *Text) OverlayPass(prepass bool, _ *viewnode.Pass) error {
	if !prepass {
		return nil
	}
	src, ok := t.Renderable().(scenegraph.TextProp)
	if !ok {
		return nil
	}
	var err error
	t.synced.SyncIfStale(func() {
		err = t.upload(src)
	}, src.Version())
	if err != nil {
		t.synced.Invalidate()
		return err
	}
	if t.image == nil {
		return nil
	}

	r, err := renderer(t.Base())
	if err != nil {
		return err
	}
	w := window(t.Base())
	x, y := src.DisplayPosition()
	b := t.image.Bounds()
	enc := r.Encoder()
	enc.SetViewport(x, w.height-y-b.Dy(), b.Dx(), b.Dy())
	enc.Count(textQuadVertices)
	return nil
}

func (t *Text) upload(src scenegraph.TextProp) error {
	if src.Text() == "" {
		t.image = nil
		return nil
	}
	key := labelKey{text: src.Text(), size: src.FontSize(), color: src.Color()}
	img, err := labels.GetOrCreate(key, func() (*image.RGBA, error) {
		return rasterizeText(key.text, key.size, key.color)
	})
	if err != nil {
		return err
	}
	t.image = img

	dev := deviceOf(t.Base())
	b := img.Bounds()
	w, h := uint32(b.Dx()), uint32(b.Dy()) //nolint:gosec // image sizes are positive
	if t.texture == nil || t.texture.Width != w || t.texture.Height != h {
		dev.DestroyTarget(t.texture)
		t.texture = nil
		tex, err := dev.CreateTarget("text", w, h, gputypes.TextureFormatRGBA8Unorm,
			gputypes.TextureUsageTextureBinding|gputypes.TextureUsageCopyDst)
		if err != nil {
			return err
		}
		t.texture = tex
	}
	if err := dev.WriteTarget(t.texture, img.Pix); err != nil {
		return err
	}
	t.uploads++
	return nil
}

// Image returns the last rasterized label, or nil.
func (t *Text) Image() *image.RGBA { return t.image }

// Texture returns the label texture, or nil.
func (t *Text) Texture() *Target { return t.texture }

// Uploads returns how many times the label texture was written.
func (t *Text) Uploads() int { return t.uploads }

// ReleaseResources destroys the label texture.
func (t *Text) ReleaseResources() {
	deviceOf(t.Base()).DestroyTarget(t.texture)
	t.texture = nil
	t.synced.Invalidate()
}
