package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/maax3v3/diecut/internal/color"
	"github.com/maax3v3/diecut/internal/floodfill"
	"github.com/maax3v3/diecut/internal/generator"
	"github.com/maax3v3/diecut/internal/imaging"
)

// ErrHelp is returned when -h or --help was requested.
var ErrHelp = flag.ErrHelp

// Config holds the parsed arguments of the diecut command.
type Config struct {
	In        string // path, http(s) URL or data URI
	Out       string
	Target    color.RGBA
	Tolerance int
	MaxPixels int
}

// Parse parses diecut arguments (without the program name) and returns a
// validated Config.
func Parse(args []string, stderr io.Writer) (Config, error) {
	fs := flag.NewFlagSet("diecut", flag.ContinueOnError)
	fs.SetOutput(stderr)
	in := fs.String("in", "", "Input image: file path, http(s) URL or data URI (required)")
	out := fs.String("out", "", "Path to generated output image (required, must be .png)")
	target := fs.String("target", "#fff", "Hex color of the background to remove (e.g. #fff, #00FF00)")
	tolerance := fs.Int("tolerance", floodfill.DefaultTolerance, "Per-channel color distance below which a pixel is background (0-256)")
	maxPixels := fs.Int("max-pixels", imaging.DefaultMaxPixels, "Largest accepted image size in pixels")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: diecut [options]\n\nOptions:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExample:\n  diecut --in=sticker.png --out=sticker-transparent.png --tolerance=50\n")
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *in == "" {
		return Config{}, errors.New("--in is required")
	}
	if *out == "" {
		return Config{}, errors.New("--out is required")
	}
	if ext := strings.ToLower(filepath.Ext(*out)); ext != ".png" {
		return Config{}, fmt.Errorf("--out must be a .png file, got %q", ext)
	}
	if *tolerance < 0 || *tolerance > 256 {
		return Config{}, fmt.Errorf("--tolerance must be between 0 and 256, got %d", *tolerance)
	}
	if *maxPixels <= 0 {
		return Config{}, fmt.Errorf("--max-pixels must be > 0, got %d", *maxPixels)
	}

	tc, err := color.ParseHex(*target)
	if err != nil {
		return Config{}, fmt.Errorf("--target: %w", err)
	}

	return Config{
		In:        *in,
		Out:       *out,
		Target:    tc,
		Tolerance: *tolerance,
		MaxPixels: *maxPixels,
	}, nil
}

// ServeConfig holds the parsed arguments of the diecutd server.
type ServeConfig struct {
	Addr      string
	APIKey    string
	Model     string
	Target    color.RGBA
	Tolerance int
}

// APIKeyEnv lists the environment variables checked for the Gemini key.
var APIKeyEnv = []string{"GEMINI_API_KEY", "API_KEY"}

// ParseServe parses diecutd arguments. The API key is read from the
// environment through getenv (os.Getenv when nil).
func ParseServe(args []string, stderr io.Writer, getenv func(string) string) (ServeConfig, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	fs := flag.NewFlagSet("diecutd", flag.ContinueOnError)
	fs.SetOutput(stderr)
	addr := fs.String("addr", ":8080", "Listen address")
	model := fs.String("model", generator.DefaultModel, "Gemini image model")
	target := fs.String("target", "#fff", "Hex color of the background to remove")
	tolerance := fs.Int("tolerance", floodfill.DefaultTolerance, "Per-channel color distance below which a pixel is background (0-256)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: diecutd [options]\n\nRequires %s in the environment.\n\nOptions:\n", strings.Join(APIKeyEnv, " or "))
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ServeConfig{}, err
	}

	var key string
	for _, name := range APIKeyEnv {
		if key = getenv(name); key != "" {
			break
		}
	}
	if key == "" {
		return ServeConfig{}, fmt.Errorf("%s must be set", strings.Join(APIKeyEnv, " or "))
	}
	if *tolerance < 0 || *tolerance > 256 {
		return ServeConfig{}, fmt.Errorf("--tolerance must be between 0 and 256, got %d", *tolerance)
	}
	tc, err := color.ParseHex(*target)
	if err != nil {
		return ServeConfig{}, fmt.Errorf("--target: %w", err)
	}

	return ServeConfig{
		Addr:      *addr,
		APIKey:    key,
		Model:     *model,
		Target:    tc,
		Tolerance: *tolerance,
	}, nil
}
