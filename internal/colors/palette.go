package colors

import (
	"image"
	"image/color"
	"math"
	"sort"
)

// MaxSwatches is the number of colors a palette is quantized to.
const MaxSwatches = 16

// Swatch is one quantized color with the number of pixels it stands for.
type Swatch struct {
	Color      color.RGBA
	Population int
}

func (s Swatch) hsl() (h, sat, l float64) {
	return rgbToHSL(s.Color)
}

type Palette struct {
	Swatches []Swatch
}

// Target lightness and saturation windows for the named swatches.
const (
	minNormalLuma = 0.3
	maxNormalLuma = 0.7
	minVibrantSat = 0.35
	maxMutedSat   = 0.4

	blackMaxLightness = 0.05
	whiteMinLightness = 0.95
)

// NewPalette quantizes img into at most MaxSwatches colors. Pixels close to
// black or white, and transparent pixels, are ignored.
func NewPalette(img image.Image) Palette {
	type bucket struct {
		r, g, b, n int
	}
	buckets := make(map[uint16]*bucket)

	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A < 128 || !allowed(c) {
				continue
			}
			// 4 bits per channel
			key := uint16(c.R>>4)<<8 | uint16(c.G>>4)<<4 | uint16(c.B>>4)
			bk, ok := buckets[key]
			if !ok {
				bk = &bucket{}
				buckets[key] = bk
			}
			bk.r += int(c.R)
			bk.g += int(c.G)
			bk.b += int(c.B)
			bk.n++
		}
	}

	swatches := make([]Swatch, 0, len(buckets))
	for _, bk := range buckets {
		swatches = append(swatches, Swatch{
			Color: color.RGBA{
				R: uint8(bk.r / bk.n),
				G: uint8(bk.g / bk.n),
				B: uint8(bk.b / bk.n),
				A: 0xff,
			},
			Population: bk.n,
		})
	}
	sort.Slice(swatches, func(i, j int) bool {
		if swatches[i].Population != swatches[j].Population {
			return swatches[i].Population > swatches[j].Population
		}
		return packRGB(swatches[i].Color) < packRGB(swatches[j].Color)
	})
	if len(swatches) > MaxSwatches {
		swatches = swatches[:MaxSwatches]
	}
	return Palette{Swatches: swatches}
}

func allowed(c color.NRGBA) bool {
	_, _, l := rgbToHSL(color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
	return l > blackMaxLightness && l < whiteMinLightness
}

func packRGB(c color.RGBA) uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Dominant is the most populated swatch.
func (p Palette) Dominant() *Swatch {
	if len(p.Swatches) == 0 {
		return nil
	}
	s := p.Swatches[0]
	return &s
}

// Vibrant is the best saturated swatch of medium lightness.
func (p Palette) Vibrant() *Swatch {
	return p.best(func(sat, l float64) bool {
		return sat >= minVibrantSat && l >= minNormalLuma && l <= maxNormalLuma
	}, true)
}

// Muted is the best desaturated swatch of medium lightness.
func (p Palette) Muted() *Swatch {
	return p.best(func(sat, l float64) bool {
		return sat <= maxMutedSat && l >= minNormalLuma && l <= maxNormalLuma
	}, false)
}

func (p Palette) best(match func(sat, l float64) bool, preferSaturated bool) *Swatch {
	maxPop := 0
	for _, s := range p.Swatches {
		maxPop = max(maxPop, s.Population)
	}

	var (
		found *Swatch
		score = -1.0
	)
	for i := range p.Swatches {
		s := p.Swatches[i]
		_, sat, l := s.hsl()
		if !match(sat, l) {
			continue
		}
		satScore := sat
		if !preferSaturated {
			satScore = 1 - sat
		}
		v := 3*satScore + 6.5*(1-math.Abs(l-0.5)) + float64(s.Population)/float64(maxPop)
		if v > score {
			score = v
			found = &s
		}
	}
	return found
}

// Select picks vibrant, then dominant, then muted.
func (p Palette) Select() *Swatch {
	if s := p.Vibrant(); s != nil {
		return s
	}
	if s := p.Dominant(); s != nil {
		return s
	}
	return p.Muted()
}

// OnColor returns black or white, whichever has the higher contrast ratio
// against background.
func OnColor(background color.RGBA) color.RGBA {
	black := color.RGBA{A: 0xff}
	white := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	if ContrastRatio(background, white) >= ContrastRatio(background, black) {
		return white
	}
	return black
}

// ContrastRatio follows WCAG 2: (L1 + 0.05) / (L2 + 0.05).
func ContrastRatio(a, b color.RGBA) float64 {
	la, lb := relativeLuminance(a), relativeLuminance(b)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

func relativeLuminance(c color.RGBA) float64 {
	lin := func(v uint8) float64 {
		f := float64(v) / 255
		if f <= 0.03928 {
			return f / 12.92
		}
		return math.Pow((f+0.055)/1.055, 2.4)
	}
	return 0.2126*lin(c.R) + 0.7152*lin(c.G) + 0.0722*lin(c.B)
}

func rgbToHSL(c color.RGBA) (h, s, l float64) {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255

	hi := math.Max(r, math.Max(g, b))
	lo := math.Min(r, math.Min(g, b))
	l = (hi + lo) / 2

	if hi == lo {
		return 0, 0, l
	}

	d := hi - lo
	if l > 0.5 {
		s = d / (2 - hi - lo)
	} else {
		s = d / (hi + lo)
	}

	switch hi {
	case r:
		h = math.Mod((g-b)/d, 6)
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	h *= 60
	if h < 0 {
		h += 360
	}
	return h, s, l
}
