package models

import (
	"encoding/json"
	"fmt"
	"image/color"
)

// DominantColors is the (foreground, background) pair extracted from an image.
type DominantColors struct {
	Foreground color.RGBA
	Background color.RGBA
}

// Hex formats c as #rrggbb.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHex parses #rrggbb.
func ParseHex(s string) (color.RGBA, error) {
	var c color.RGBA
	if len(s) != 7 || s[0] != '#' {
		return c, fmt.Errorf("invalid hex color %q", s)
	}
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return c, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	c.A = 0xff
	return c, nil
}

type dominantColorsJSON struct {
	Foreground string `json:"foreground"`
	Background string `json:"background"`
}

func (d DominantColors) MarshalJSON() ([]byte, error) {
	return json.Marshal(dominantColorsJSON{Foreground: Hex(d.Foreground), Background: Hex(d.Background)})
}

func (d *DominantColors) UnmarshalJSON(data []byte) error {
	var raw dominantColorsJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	fg, err := ParseHex(raw.Foreground)
	if err != nil {
		return err
	}
	bg, err := ParseHex(raw.Background)
	if err != nil {
		return err
	}
	d.Foreground, d.Background = fg, bg
	return nil
}
