package core

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/darkawower/themeshift/internal/colors"
)

// dominantColors is how many clusters the accent suggestion looks at.
const dominantColors = 5

// SuggestAccent analyzes the wallpaper of the active mode and returns the
// accent color closest to its dominant colors. Nothing is written.
func (e *Engine) SuggestAccent(ctx context.Context) (*AccentResult, error) {
	mode := e.Scheme(ctx)
	uri := e.Wallpaper(ctx, mode)
	if uri == "" {
		return nil, fmt.Errorf("no %s wallpaper set", mode)
	}

	path := wallpaperPath(uri)
	dominant, err := colors.Dominant(path, dominantColors)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze wallpaper: %w", err)
	}

	result := &AccentResult{
		Mode:      mode,
		Wallpaper: path,
		Accent:    colors.Suggest(dominant).Name,
		Current:   e.iface.String(ctx, KeyAccentColor, ""),
	}
	for _, c := range dominant {
		result.Dominant = append(result.Dominant, Color{R: c.R, G: c.G, B: c.B})
	}
	return result, nil
}

// wallpaperPath turns a file:// URI into a local path.
func wallpaperPath(uri string) string {
	if !strings.HasPrefix(uri, "file://") {
		return uri
	}
	u, err := url.Parse(uri)
	if err != nil {
		return strings.TrimPrefix(uri, "file://")
	}
	return u.Path
}
