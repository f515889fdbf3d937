// Package render rasterizes quote cards into PNG images.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/jsamuelsen/quote-widget/internal/ports"
)

// ContentTypePNG is the MIME type of rendered images.
const ContentTypePNG = "image/png"

// Card geometry in logical pixels, multiplied by Scale when drawing.
const (
	cardPadding    = 24
	cardRadius     = 12
	quoteFontSize  = 22
	authorFontSize = 16
	authorGap      = 10
	lineSpacing    = 1.4

	// watermarkMargin is the distance, in output pixels, between the
	// watermark's em box and the bottom edge.
	watermarkMargin = 15
)

var (
	// ErrEmptyQuote is returned when there is no text to draw.
	ErrEmptyQuote = errors.New("render: quote text is empty")

	watermarkColor = color.NRGBA{R: 249, G: 249, B: 249, A: 178}
	darkText       = color.NRGBA{R: 0x1A, G: 0x1A, B: 0x1A, A: 0xFF}
	lightText      = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

// Config controls the output image.
type Config struct {
	// Scale is the pixel density; 2 renders every logical pixel as 2x2.
	Scale int

	// Width is the card width in logical pixels.
	Width int

	// WatermarkFontSize is the watermark size in output pixels.
	WatermarkFontSize float64
}

// PNGRenderer implements ports.QuoteRenderer. It draws the card on a
// transparent canvas: a rounded rectangle filled with the background color,
// the quote in quotation marks, a "- author" line and a centered watermark.
type PNGRenderer struct {
	cfg     Config
	regular *opentype.Font
	italic  *opentype.Font
}

// NewPNGRenderer parses the bundled Go fonts. Zero config fields fall back
// to scale 2, width 600 and a 24px watermark.
func NewPNGRenderer(cfg Config) (*PNGRenderer, error) {
	if cfg.Scale <= 0 {
		cfg.Scale = 2
	}

	if cfg.Width <= 0 {
		cfg.Width = 600
	}

	if cfg.WatermarkFontSize <= 0 {
		cfg.WatermarkFontSize = 24
	}

	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing regular font: %w", err)
	}

	italic, err := opentype.Parse(goitalic.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing italic font: %w", err)
	}

	return &PNGRenderer{cfg: cfg, regular: regular, italic: italic}, nil
}

// ContentType implements ports.QuoteRenderer.
func (r *PNGRenderer) ContentType() string {
	return ContentTypePNG
}

// Render implements ports.QuoteRenderer.
func (r *PNGRenderer) Render(ctx context.Context, req ports.RenderRequest) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, _, err := r.draw(req)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}

	return buf.Bytes(), nil
}

// frame records where things landed, for callers that need geometry.
type frame struct {
	Bounds    image.Rectangle
	Lines     []string
	Watermark image.Rectangle
}

func (r *PNGRenderer) draw(req ports.RenderRequest) (*image.RGBA, frame, error) {
	if strings.TrimSpace(req.Quote.Text) == "" {
		return nil, frame{}, ErrEmptyQuote
	}

	fill, err := colorful.Hex(req.BackgroundColor)
	if err != nil {
		return nil, frame{}, fmt.Errorf("background color %q: %w", req.BackgroundColor, err)
	}

	scale := float64(r.cfg.Scale)

	quoteFace, err := r.face(r.italic, quoteFontSize*scale)
	if err != nil {
		return nil, frame{}, err
	}
	defer func() { _ = quoteFace.Close() }()

	authorFace, err := r.face(r.regular, authorFontSize*scale)
	if err != nil {
		return nil, frame{}, err
	}
	defer func() { _ = authorFace.Close() }()

	markFace, err := r.face(r.regular, r.cfg.WatermarkFontSize)
	if err != nil {
		return nil, frame{}, err
	}
	defer func() { _ = markFace.Close() }()

	pad := int(cardPadding * scale)
	width := int(float64(r.cfg.Width) * scale)
	quoteLine := int(math.Ceil(quoteFontSize * scale * lineSpacing))
	authorLine := int(math.Ceil(authorFontSize * scale * lineSpacing))
	footer := int(math.Ceil(2*r.cfg.WatermarkFontSize)) + watermarkMargin

	lines := wrap(quoteFace, "“"+req.Quote.Text+"”", width-2*pad)
	height := pad + len(lines)*quoteLine + int(authorGap*scale) + authorLine + pad + footer

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	roundedRect(float32(width), float32(height), float32(cardRadius*scale)).
		Draw(img, img.Bounds(), image.NewUniform(fill.Clamped()), image.Point{})

	ink := textColor(fill)

	y := pad
	for _, line := range lines {
		drawText(img, quoteFace, ink, line, pad, y+quoteFace.Metrics().Ascent.Ceil())
		y += quoteLine
	}

	y += int(authorGap * scale)
	drawText(img, authorFace, ink, "- "+req.Quote.Author, pad, y+authorFace.Metrics().Ascent.Ceil())

	f := frame{Bounds: img.Bounds(), Lines: lines}

	if req.Watermark != "" {
		markWidth := font.MeasureString(markFace, req.Watermark).Ceil()
		x := max((width-markWidth)/2, 0)
		baseline := height - int(r.cfg.WatermarkFontSize) - watermarkMargin

		drawText(img, markFace, watermarkColor, req.Watermark, x, baseline)

		m := markFace.Metrics()
		f.Watermark = image.Rect(x, baseline-m.Ascent.Ceil(), x+markWidth, baseline+m.Descent.Ceil())
	}

	return img, f, nil
}

func (r *PNGRenderer) face(f *opentype.Font, size float64) (font.Face, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("creating %.0fpx face: %w", size, err)
	}

	return face, nil
}

func drawText(dst *image.RGBA, face font.Face, c color.Color, s string, x, baseline int) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(s)
}

// textColor picks dark ink on light cards and light ink on dark ones.
func textColor(bg colorful.Color) color.Color {
	l, _, _ := bg.Lab()
	if l > 0.6 {
		return darkText
	}

	return lightText
}

func roundedRect(w, h, radius float32) *vector.Rasterizer {
	radius = min(radius, w/2, h/2)

	z := vector.NewRasterizer(int(w), int(h))
	z.MoveTo(radius, 0)
	z.LineTo(w-radius, 0)
	z.QuadTo(w, 0, w, radius)
	z.LineTo(w, h-radius)
	z.QuadTo(w, h, w-radius, h)
	z.LineTo(radius, h)
	z.QuadTo(0, h, 0, h-radius)
	z.LineTo(0, radius)
	z.QuadTo(0, 0, radius, 0)
	z.ClosePath()

	return z
}

// wrap breaks s into lines no wider than maxWidth pixels. Words wider than
// a whole line are split between runes.
func wrap(face font.Face, s string, maxWidth int) []string {
	limit := fixed.I(maxWidth)

	var (
		lines   []string
		current string
	)

	for _, word := range strings.Fields(s) {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}

		if font.MeasureString(face, candidate) <= limit {
			current = candidate

			continue
		}

		if current != "" {
			lines = append(lines, current)
		}

		current = ""
		for _, piece := range splitRunes(face, word, limit) {
			if current != "" {
				lines = append(lines, current)
			}

			current = piece
		}
	}

	if current != "" {
		lines = append(lines, current)
	}

	return lines
}

func splitRunes(face font.Face, word string, limit fixed.Int26_6) []string {
	if font.MeasureString(face, word) <= limit {
		return []string{word}
	}

	var (
		pieces []string
		b      strings.Builder
	)

	for _, r := range word {
		if b.Len() > 0 && font.MeasureString(face, b.String()+string(r)) > limit {
			pieces = append(pieces, b.String())
			b.Reset()
		}

		b.WriteRune(r)
	}

	if b.Len() > 0 {
		pieces = append(pieces, b.String())
	}

	return pieces
}
