package colors

import "math"

// Accent is a named desktop accent color.
type Accent struct {
	Name  string
	Color Color
}

// Palette is the set of accent-color values the desktop accepts.
var Palette = []Accent{
	{"blue", Color{0x35, 0x84, 0xe4}},
	{"teal", Color{0x21, 0x90, 0xa4}},
	{"green", Color{0x3a, 0x94, 0x4a}},
	{"yellow", Color{0xc8, 0x88, 0x00}},
	{"orange", Color{0xed, 0x5b, 0x00}},
	{"red", Color{0xe6, 0x2d, 0x42}},
	{"pink", Color{0xd5, 0x61, 0x99}},
	{"purple", Color{0x91, 0x41, 0xac}},
	{"slate", Color{0x6f, 0x83, 0x96}},
}

// Neutral is the accent used when no color is saturated enough to choose.
const Neutral = "slate"

// minSaturation separates colorful pixels from grays.
const minSaturation = 0.25

// Nearest returns the palette accent closest in hue to c. Grays, near-black
// and near-white colors map to Neutral.
func Nearest(c Color) Accent {
	h, s, l := hsl(c)
	if s < minSaturation || l < 0.1 || l > 0.92 {
		return accentNamed(Neutral)
	}

	best := accentNamed(Neutral)
	bestDist := math.MaxFloat64
	for _, a := range Palette {
		if a.Name == Neutral {
			continue
		}
		ah, _, _ := hsl(a.Color)
		if d := hueDistance(h, ah); d < bestDist {
			best, bestDist = a, d
		}
	}
	return best
}

// Suggest picks an accent for a wallpaper from its dominant colors, most
// frequent first. The first colorful one wins.
func Suggest(dominant []Color) Accent {
	for _, c := range dominant {
		if a := Nearest(c); a.Name != Neutral {
			return a
		}
	}
	return accentNamed(Neutral)
}

func accentNamed(name string) Accent {
	for _, a := range Palette {
		if a.Name == name {
			return a
		}
	}
	return Accent{Name: name}
}

// hsl converts c to hue in degrees, saturation and lightness in [0,1].
func hsl(c Color) (h, s, l float64) {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255

	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	l = (max + min) / 2

	d := max - min
	if d == 0 {
		return 0, 0, l
	}

	if l > 0.5 {
		s = d / (2 - max - min)
	} else {
		s = d / (max + min)
	}

	switch max {
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

func hueDistance(a, b float64) float64 {
	d := math.Abs(a - b)
	return math.Min(d, 360-d)
}
