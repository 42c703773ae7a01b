package generator

import (
	"fmt"
	"strings"
)

// Theme is the art style a sticker is drawn in.
type Theme string

const (
	ThemeAnime      Theme = "Anime"
	ThemeCartoon    Theme = "Cartoon"
	ThemeMarvel     Theme = "Marvel"
	ThemeDC         Theme = "DC Comics"
	ThemePixelArt   Theme = "Pixel Art"
	ThemeWatercolor Theme = "Watercolor"
	ThemeGraffiti   Theme = "Graffiti"
	ThemeKawaii     Theme = "Kawaii"
	ThemeCyberpunk  Theme = "Cyberpunk"
	ThemeRetro3D    Theme = "Retro 3D"
)

var themeDescriptions = map[Theme]string{
	ThemeAnime:      "Japanese animation style",
	ThemeCartoon:    "Classic western cartoon",
	ThemeMarvel:     "Dynamic superhero comic style",
	ThemeDC:         "Dark, gritty comic book style",
	ThemePixelArt:   "8-bit retro gaming",
	ThemeWatercolor: "Soft artistic strokes",
	ThemeGraffiti:   "Urban street art",
	ThemeKawaii:     "Super cute and bubbly",
	ThemeCyberpunk:  "Neon futuristic sci-fi",
	ThemeRetro3D:    "90s CGI aesthetic",
}

// Themes returns every theme in display order.
func Themes() []Theme {
	return []Theme{
		ThemeAnime, ThemeCartoon, ThemeMarvel, ThemeDC, ThemePixelArt,
		ThemeWatercolor, ThemeGraffiti, ThemeKawaii, ThemeCyberpunk, ThemeRetro3D,
	}
}

// DefaultTheme is used when no theme is given.
const DefaultTheme = ThemeAnime

// Description returns a short human description of the theme.
func (t Theme) Description() string {
	return themeDescriptions[t]
}

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	_, ok := themeDescriptions[t]
	return ok
}

// ParseTheme matches s against the known themes, ignoring case, spaces
// and dashes. An empty string yields DefaultTheme.
func ParseTheme(s string) (Theme, error) {
	if strings.TrimSpace(s) == "" {
		return DefaultTheme, nil
	}
	key := normalizeTheme(s)
	for _, t := range Themes() {
		if normalizeTheme(string(t)) == key {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown theme %q", s)
}

func normalizeTheme(s string) string {
	s = strings.ToLower(s)
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
}
