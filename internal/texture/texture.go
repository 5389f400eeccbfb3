package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strconv"
	"sync"

	"github.com/playmatatu/gameglass/internal/glass"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	ErrOutOfRange = errors.New("label number out of range")
	ErrNotFound   = errors.New("texture not found")
)

const (
	minNumber = 10
	maxNumber = 99
	winID     = "win"
)

var (
	ballBackground = color.RGBA{0xff, 0xff, 0xff, 0xff}
	ballInk        = color.RGBA{0x00, 0x00, 0x00, 0xff}
	winBackground  = color.RGBA{0xff, 0xc8, 0x2e, 0xff}
	winInk         = color.RGBA{0xc6, 0x1a, 0x1a, 0xff}
)

// Generator renders ball label textures as PNG and caches them.
// It implements glass.TextureSource.
type Generator struct {
	size    int
	baseURL string

	mu    sync.RWMutex
	cache map[string][]byte
}

// NewGenerator creates a generator producing size x size images whose URLs
// are rooted at baseURL (e.g. "/api/v1/textures").
func NewGenerator(size int, baseURL string) *Generator {
	if size <= 0 {
		size = 512
	}
	return &Generator{
		size:    size,
		baseURL: baseURL,
		cache:   make(map[string][]byte),
	}
}

// NumberID is the texture ID of a ball label.
func NumberID(n int) string {
	return "number-" + strconv.Itoa(n)
}

// TextureForNumber returns the texture for a two-digit ball label.
func (g *Generator) TextureForNumber(n int) (glass.Texture, error) {
	if _, err := g.NumberPNG(n); err != nil {
		return glass.Texture{}, err
	}
	return glass.Texture{
		ID:  NumberID(n),
		URL: fmt.Sprintf("%s/number/%d", g.baseURL, n),
	}, nil
}

// TextureForWinLabel returns the texture of the reveal ball.
func (g *Generator) TextureForWinLabel() (glass.Texture, error) {
	if _, err := g.WinPNG(); err != nil {
		return glass.Texture{}, err
	}
	return glass.Texture{ID: winID, URL: g.baseURL + "/win"}, nil
}

// NumberPNG returns the encoded label for n.
func (g *Generator) NumberPNG(n int) ([]byte, error) {
	if n < minNumber || n > maxNumber {
		return nil, fmt.Errorf("%w: %d", ErrOutOfRange, n)
	}
	return g.cached(NumberID(n), func() ([]byte, error) {
		return g.render(strconv.Itoa(n), ballBackground, ballInk, 0.4)
	})
}

// WinPNG returns the encoded WIN label.
func (g *Generator) WinPNG() ([]byte, error) {
	return g.cached(winID, func() ([]byte, error) {
		return g.render("WIN", winBackground, winInk, 0.5)
	})
}

// PNG looks up a texture that has already been generated.
func (g *Generator) PNG(id string) ([]byte, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	b, ok := g.cache[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return b, nil
}

// Cached is the number of generated textures.
func (g *Generator) Cached() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.cache)
}

func (g *Generator) cached(id string, build func() ([]byte, error)) ([]byte, error) {
	g.mu.RLock()
	b, ok := g.cache[id]
	g.mu.RUnlock()
	if ok {
		return b, nil
	}

	b, err := build()
	if err != nil {
		return nil, fmt.Errorf("render texture %s: %w", id, err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if existing, ok := g.cache[id]; ok {
		return existing, nil
	}
	g.cache[id] = b
	return b, nil
}

// render draws text with the 7x13 bitmap face and scales it up so that it
// spans widthFraction of the square image.
func (g *Generator) render(text string, bg, ink color.Color, widthFraction float64) ([]byte, error) {
	face := basicfont.Face7x13
	textWidth := font.MeasureString(face, text).Ceil()
	metrics := face.Metrics()
	textHeight := (metrics.Ascent + metrics.Descent).Ceil()

	label := image.NewRGBA(image.Rect(0, 0, textWidth+2, textHeight+2))
	d := &font.Drawer{
		Dst:  label,
		Src:  image.NewUniform(ink),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(1), Y: metrics.Ascent + fixed.I(1)},
	}
	d.DrawString(text)

	dst := image.NewRGBA(image.Rect(0, 0, g.size, g.size))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	scale := float64(g.size) * widthFraction / float64(label.Bounds().Dx())
	w := int(float64(label.Bounds().Dx()) * scale)
	h := int(float64(label.Bounds().Dy()) * scale)
	x0 := (g.size - w) / 2
	y0 := (g.size - h) / 2
	draw.NearestNeighbor.Scale(dst, image.Rect(x0, y0, x0+w, y0+h), label, label.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
