package image

import (
	"bytes"
	stdimage "image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

func blank(w, h int) *stdimage.NRGBA {
	return imaging.New(w, h, color.White)
}

func TestEnhanceQuality_UpscalesSmallImages(t *testing.T) {
	// Arrange
	ip := NewImageProcessor(0)
	img := blank(100, 50)

	// Act
	out := ip.EnhanceQuality(img)

	// Assert
	if out.Bounds().Dx() != 200 || out.Bounds().Dy() != 100 {
		t.Errorf("expected 200x100, got %v", out.Bounds())
	}
}

func TestEnhanceQuality_KeepsLargeImages(t *testing.T) {
	ip := NewImageProcessor(0)

	out := ip.EnhanceQuality(blank(400, 320))

	if out.Bounds().Dx() != 400 || out.Bounds().Dy() != 320 {
		t.Errorf("expected 400x320, got %v", out.Bounds())
	}
}

func TestEnhanceQuality_Threshold(t *testing.T) {
	// Arrange
	img := imaging.New(400, 400, color.White)
	for x := 100; x < 300; x++ {
		for y := 100; y < 300; y++ {
			img.Set(x, y, color.Gray{Y: 40})
		}
	}
	ip := NewImageProcessor(150)

	// Act
	out := ip.EnhanceQuality(img)

	// Assert
	r, g, b, _ := out.At(200, 200).RGBA()
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("expected black centre, got %d %d %d", r, g, b)
	}
	r, _, _, _ = out.At(10, 10).RGBA()
	if r != 0xffff {
		t.Errorf("expected white corner, got %d", r)
	}
}

func TestEnhanceQuality_ThresholdDropsSpeckles(t *testing.T) {
	// Arrange
	img := blank(400, 400)
	img.Set(50, 50, color.Black)
	ip := NewImageProcessor(150)

	// Act
	out := ip.EnhanceQuality(img)

	// Assert
	if r, _, _, _ := out.At(50, 50).RGBA(); r != 0xffff {
		t.Errorf("expected isolated speckle removed, got %d", r)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.png")
	var buf bytes.Buffer
	if err := png.Encode(&buf, blank(20, 10)); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(good, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	bad := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	img, err := Open(good)
	if err != nil {
		t.Fatalf("open good: %v", err)
	}
	if img.Bounds().Dx() != 20 {
		t.Errorf("unexpected bounds %v", img.Bounds())
	}

	if _, err := Open(bad); err == nil {
		t.Error("expected decode error")
	}
	if _, err := Open(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("expected open error")
	}
}

func TestEncodePNG_RoundTrip(t *testing.T) {
	data, err := EncodePNG(blank(8, 8))
	if err != nil {
		t.Fatal(err)
	}

	img, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 8 {
		t.Errorf("unexpected bounds %v", img.Bounds())
	}
}
