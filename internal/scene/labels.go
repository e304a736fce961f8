package scene

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/philipparndt/armeasure/pkg/geometry"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const labelPadding = 4

// LabelFactory builds label primitives; callers only supply text and anchor
type LabelFactory interface {
	NewLabel(text string, anchor geometry.Vector3) Primitive
}

// TextureLabels rasterizes label text into RGBA textures, cached per string
type TextureLabels struct {
	mu    sync.Mutex
	face  font.Face
	scale float64
	ink   color.Color
	bg    color.Color
	cache map[string]*image.RGBA
}

// NewTextureLabels creates a factory; scale is meters per texture pixel
func NewTextureLabels(scale float64) *TextureLabels {
	return &TextureLabels{
		face:  basicfont.Face7x13,
		scale: scale,
		ink:   ColorLabel,
		bg:    color.RGBA{R: 20, G: 20, B: 20, A: 220},
		cache: make(map[string]*image.RGBA),
	}
}

// SetFace replaces the font face and drops cached textures
func (l *TextureLabels) SetFace(face font.Face) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.face = face
	l.cache = make(map[string]*image.RGBA)
}

// NewLabel implements LabelFactory
func (l *TextureLabels) NewLabel(text string, anchor geometry.Vector3) Primitive {
	img := l.texture(text)
	b := img.Bounds()
	return Primitive{
		Kind:      KindLabel,
		Transform: geometry.Translation(anchor),
		Color:     ColorLabel,
		Width:     float64(b.Dx()) * l.scale,
		Height:    float64(b.Dy()) * l.scale,
		Text:      text,
		Texture:   img,
	}
}

// Cached returns the number of cached textures
func (l *TextureLabels) Cached() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.cache)
}

func (l *TextureLabels) texture(text string) *image.RGBA {
	l.mu.Lock()
	defer l.mu.Unlock()

	if img, ok := l.cache[text]; ok {
		return img
	}

	metrics := l.face.Metrics()
	width := font.MeasureString(l.face, text).Ceil()
	height := metrics.Height.Ceil()
	ascent := metrics.Ascent.Ceil()

	img := image.NewRGBA(image.Rect(0, 0, width+labelPadding*2, height+labelPadding*2))
	draw.Draw(img, img.Bounds(), image.NewUniform(l.bg), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(l.ink),
		Face: l.face,
		Dot:  fixed.Point26_6{X: fixed.I(labelPadding), Y: fixed.I(labelPadding + ascent)},
	}
	d.DrawString(text)

	l.cache[text] = img
	return img
}
