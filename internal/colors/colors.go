// Package colors extracts dominant colors from wallpapers and maps them onto
// the desktop accent palette.
package colors

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"math/rand"
	"os"
	"sort"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// sampleSize bounds the longer side of the image before clustering.
const sampleSize = 160

// Color represents an RGB color.
type Color struct {
	R, G, B uint8
}

// Hex returns the hex representation of the color.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// cluster is a k-means centroid with the number of pixels assigned to it.
type cluster struct {
	center Color
	size   int
}

// Dominant returns up to k dominant colors of the image at path, most
// frequent first.
func Dominant(path string, k int) ([]Color, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	pixels := samplePixels(downscale(img, sampleSize))
	if len(pixels) == 0 {
		return nil, fmt.Errorf("no opaque pixels in image")
	}

	clusters := kmeans(pixels, k, 20, rand.New(rand.NewSource(int64(len(pixels)))))
	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].size > clusters[j].size
	})

	colors := make([]Color, 0, len(clusters))
	for _, c := range clusters {
		if c.size > 0 {
			colors = append(colors, c.center)
		}
	}
	return colors, nil
}

// downscale fits img inside a max x max box. Smaller images are returned as is.
func downscale(img image.Image, max int) image.Image {
	b := img.Bounds()
	scale := math.Min(float64(max)/float64(b.Dx()), float64(max)/float64(b.Dy()))
	if scale >= 1 {
		return img
	}

	w := int(math.Max(1, float64(b.Dx())*scale))
	h := int(math.Max(1, float64(b.Dy())*scale))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// samplePixels returns the mostly opaque pixels of img.
func samplePixels(img image.Image) []Color {
	b := img.Bounds()
	pixels := make([]Color, 0, b.Dx()*b.Dy())

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			if a < 0x8000 {
				continue
			}
			pixels = append(pixels, Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(bl >> 8)})
		}
	}

	return pixels
}

// kmeans clusters pixels into at most k groups.
func kmeans(pixels []Color, k, maxIterations int, rng *rand.Rand) []cluster {
	k = min(k, len(pixels))
	if k <= 0 {
		return nil
	}

	centers := make([]Color, k)
	for i, idx := range rng.Perm(len(pixels))[:k] {
		centers[i] = pixels[idx]
	}

	assign := make([]int, len(pixels))
	for iter := 0; iter < maxIterations; iter++ {
		for i, p := range pixels {
			assign[i] = nearest(p, centers)
		}

		sums := make([][4]int, k)
		for i, p := range pixels {
			s := &sums[assign[i]]
			s[0] += int(p.R)
			s[1] += int(p.G)
			s[2] += int(p.B)
			s[3]++
		}

		moved := false
		for i, s := range sums {
			if s[3] == 0 {
				continue
			}
			c := Color{R: uint8(s[0] / s[3]), G: uint8(s[1] / s[3]), B: uint8(s[2] / s[3])}
			if c != centers[i] {
				centers[i] = c
				moved = true
			}
		}
		if !moved {
			break
		}
	}

	clusters := make([]cluster, k)
	for i, c := range centers {
		clusters[i].center = c
	}
	for _, p := range pixels {
		clusters[nearest(p, centers)].size++
	}
	return clusters
}

func nearest(c Color, centers []Color) int {
	best, bestDist := 0, math.MaxFloat64
	for i, center := range centers {
		if d := distance(c, center); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// distance is the Euclidean distance between two colors in RGB space.
func distance(a, b Color) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}
