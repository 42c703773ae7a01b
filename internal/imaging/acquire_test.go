package imaging

import (
	"context"
	"errors"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/maax3v3/diecut/internal/datauri"
)

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 80), uint8(y * 100), 50, 255})
		}
	}
	data, err := EncodePNG(img)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestAcquire_DataURI(t *testing.T) {
	uri := datauri.Encode("image/png", testPNG(t))
	img, err := Acquire(context.Background(), uri, AcquireOptions{})
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Errorf("dimensions: got %v, want 3x2", img.Bounds())
	}
}

func TestAcquire_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.png")
	img := image.NewNRGBA(image.Rect(0, 0, 5, 5))
	if err := SavePNG(path, img); err != nil {
		t.Fatal(err)
	}
	got, err := Acquire(context.Background(), path, AcquireOptions{AllowFiles: true})
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if got.Bounds().Dx() != 5 {
		t.Errorf("width: got %d, want 5", got.Bounds().Dx())
	}
}

func TestAcquire_FileRequiresAllowFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.png")
	if err := SavePNG(path, image.NewNRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatal(err)
	}
	for _, ref := range []string{path, "relative/in.png", "file://" + path} {
		if _, err := Acquire(context.Background(), ref, AcquireOptions{}); !errors.Is(err, ErrDecode) {
			t.Errorf("%q: expected ErrDecode, got %v", ref, err)
		}
	}
}

func TestAcquire_Remote(t *testing.T) {
	data := testPNG(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.Header().Set("Content-Type", "image/png")
			w.Write(data)
		case "/garbage":
			w.Write([]byte("<html>nope</html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	opts := AcquireOptions{Client: srv.Client()}

	img, err := Acquire(ctx, srv.URL+"/ok.png", opts)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if img.Bounds().Dx() != 3 {
		t.Errorf("width: got %d, want 3", img.Bounds().Dx())
	}

	for _, path := range []string{"/missing.png", "/garbage"} {
		if _, err := Acquire(ctx, srv.URL+path, opts); !errors.Is(err, ErrDecode) {
			t.Errorf("%s: expected ErrDecode, got %v", path, err)
		}
	}

	small := AcquireOptions{Client: srv.Client(), MaxBytes: 8}
	if _, err := Acquire(ctx, srv.URL+"/ok.png", small); !errors.Is(err, ErrDecode) {
		t.Errorf("oversized body: expected ErrDecode, got %v", err)
	}
}

func TestAcquire_Errors(t *testing.T) {
	tests := []struct {
		name string
		ref  string
	}{
		{"empty", ""},
		{"malformed data uri", "data:image/png;base64"},
		{"corrupt payload", datauri.Encode("image/png", []byte("not a png"))},
		{"missing file", "/nonexistent/in.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Acquire(context.Background(), tt.ref, AcquireOptions{})
			if !errors.Is(err, ErrDecode) {
				t.Fatalf("expected ErrDecode, got %v", err)
			}
		})
	}
}

func TestAcquire_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(testPNG(t))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Acquire(ctx, srv.URL, AcquireOptions{Client: srv.Client()}); !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestSurface(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 20, 14, 23))
	src.SetRGBA(10, 20, color.RGBA{1, 2, 3, 255})

	buf, err := Surface(src, 0)
	if err != nil {
		t.Fatalf("Surface: %v", err)
	}
	if buf.Bounds() != image.Rect(0, 0, 4, 3) {
		t.Errorf("bounds: got %v, want (0,0)-(4,3)", buf.Bounds())
	}
	if c := buf.NRGBAAt(0, 0); c != (color.NRGBA{1, 2, 3, 255}) {
		t.Errorf("pixel (0,0): got %+v", c)
	}

	// Writes to the surface must not reach the source.
	buf.Pix[3] = 0
	if _, _, _, a := src.At(10, 20).RGBA(); a != 0xffff {
		t.Errorf("source alpha modified: %d", a)
	}
}

func TestSurface_Errors(t *testing.T) {
	tests := []struct {
		name      string
		img       image.Image
		maxPixels int
	}{
		{"nil", nil, 0},
		{"empty", image.NewNRGBA(image.Rect(0, 0, 0, 5)), 0},
		{"too large", image.NewNRGBA(image.Rect(0, 0, 10, 10)), 99},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Surface(tt.img, tt.maxPixels); !errors.Is(err, ErrSurface) {
				t.Fatalf("expected ErrSurface, got %v", err)
			}
		})
	}
}
