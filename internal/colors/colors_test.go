package colors

import (
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeStripes writes a PNG made of horizontal stripes of the given colors.
func writeStripes(t *testing.T, path string, width, height int, stripes []color.Color) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	stripe := height / len(stripes)
	for i, c := range stripes {
		for y := i * stripe; y < (i+1)*stripe; y++ {
			for x := 0; x < width; x++ {
				img.Set(x, y, c)
			}
		}
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, png.Encode(f, img))
}

func TestColor_Hex(t *testing.T) {
	assert.Equal(t, "#000000", Color{}.Hex())
	assert.Equal(t, "#ffffff", Color{255, 255, 255}.Hex())
	assert.Equal(t, "#abcdef", Color{0xab, 0xcd, 0xef}.Hex())
}

func TestDominant(t *testing.T) {
	dir := t.TempDir()

	t.Run("single color", func(t *testing.T) {
		path := filepath.Join(dir, "red.png")
		writeStripes(t, path, 64, 64, []color.Color{color.RGBA{R: 230, G: 20, B: 30, A: 255}})

		colors, err := Dominant(path, 3)
		require.NoError(t, err)
		require.NotEmpty(t, colors)
		assert.Equal(t, Color{230, 20, 30}, colors[0])
	})

	t.Run("majority color first", func(t *testing.T) {
		path := filepath.Join(dir, "mostly-blue.png")
		blue := color.RGBA{B: 255, A: 255}
		writeStripes(t, path, 60, 60, []color.Color{blue, blue, color.RGBA{R: 255, A: 255}})

		colors, err := Dominant(path, 2)
		require.NoError(t, err)
		require.Len(t, colors, 2)
		assert.Equal(t, Color{0, 0, 255}, colors[0])
	})

	t.Run("large image is downscaled", func(t *testing.T) {
		path := filepath.Join(dir, "large.png")
		writeStripes(t, path, 800, 400, []color.Color{color.RGBA{G: 200, A: 255}})

		colors, err := Dominant(path, 1)
		require.NoError(t, err)
		require.Len(t, colors, 1)
		assert.InDelta(t, 200, int(colors[0].G), 2)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Dominant(filepath.Join(dir, "nope.jpg"), 3)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open")
	})

	t.Run("not an image", func(t *testing.T) {
		path := filepath.Join(dir, "bogus.png")
		require.NoError(t, os.WriteFile(path, []byte("not an image"), 0644))

		_, err := Dominant(path, 3)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode")
	})
}

func TestDownscale(t *testing.T) {
	small := image.NewRGBA(image.Rect(0, 0, 50, 20))
	assert.Equal(t, small, downscale(small, 100))

	big := image.NewRGBA(image.Rect(0, 0, 1000, 500))
	out := downscale(big, 100)
	assert.Equal(t, 100, out.Bounds().Dx())
	assert.Equal(t, 50, out.Bounds().Dy())
}

func TestSamplePixels_SkipsTransparent(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	img.Set(1, 0, color.RGBA{})

	assert.Equal(t, []Color{{10, 20, 30}}, samplePixels(img))
}

func TestKmeans(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	t.Run("k larger than pixels", func(t *testing.T) {
		clusters := kmeans([]Color{{1, 2, 3}}, 5, 10, rng)
		require.Len(t, clusters, 1)
		assert.Equal(t, 1, clusters[0].size)
	})

	t.Run("no pixels", func(t *testing.T) {
		assert.Empty(t, kmeans(nil, 3, 10, rng))
	})

	t.Run("separates two groups", func(t *testing.T) {
		var pixels []Color
		for i := 0; i < 30; i++ {
			pixels = append(pixels, Color{250, 0, 0}, Color{0, 0, 250})
		}
		clusters := kmeans(pixels, 2, 10, rng)
		require.Len(t, clusters, 2)
		assert.Equal(t, 30, clusters[0].size)
		assert.Equal(t, 30, clusters[1].size)
	})
}

func TestNearest(t *testing.T) {
	tests := []struct {
		name  string
		color Color
		want  string
	}{
		{"pure red", Color{255, 0, 0}, "red"},
		{"pure blue", Color{0, 0, 255}, "blue"},
		{"pure green", Color{0, 255, 0}, "green"},
		{"amber", Color{200, 136, 0}, "yellow"},
		{"pumpkin", Color{237, 91, 0}, "orange"},
		{"violet", Color{145, 65, 172}, "purple"},
		{"gray", Color{128, 128, 128}, "slate"},
		{"near black", Color{10, 5, 8}, "slate"},
		{"near white", Color{250, 248, 252}, "slate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Nearest(tt.color).Name)
		})
	}
}

func TestNearest_PaletteMapsToItself(t *testing.T) {
	for _, a := range Palette {
		t.Run(a.Name, func(t *testing.T) {
			assert.Equal(t, a.Name, Nearest(a.Color).Name)
		})
	}
}

func TestSuggest(t *testing.T) {
	assert.Equal(t, "blue", Suggest([]Color{{20, 20, 20}, {0, 0, 255}, {255, 0, 0}}).Name)
	assert.Equal(t, "slate", Suggest([]Color{{20, 20, 20}, {200, 200, 200}}).Name)
	assert.Equal(t, "slate", Suggest(nil).Name)
}

func TestHueDistance(t *testing.T) {
	assert.InDelta(t, 20, hueDistance(350, 10), 0.001)
	assert.InDelta(t, 90, hueDistance(0, 90), 0.001)
}
