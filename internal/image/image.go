package image

import (
	"bytes"
	"fmt"
	stdimage "image"
	"image/color"
	"image/png"
	"io"
	"os"
	"slices"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const minSide = 300

type ImageProcessor struct {
	// Threshold binarises the enhanced image when non-zero; pixels brighter
	// than it become white, the rest black.
	Threshold uint8
}

func NewImageProcessor(threshold uint8) *ImageProcessor {
	return &ImageProcessor{Threshold: threshold}
}

// Open decodes the image at path, honouring EXIF orientation.
func Open(path string) (stdimage.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image %s: %w", path, err)
	}
	defer f.Close()
	img, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding image %s: %w", path, err)
	}
	return img, nil
}

func Decode(r io.Reader) (stdimage.Image, error) {
	return imaging.Decode(r, imaging.AutoOrientation(true))
}

// EnhanceQuality upscales small images and applies grayscale, contrast and
// sharpening, followed by the optional threshold.
func (ip *ImageProcessor) EnhanceQuality(img stdimage.Image) stdimage.Image {
	bounds := img.Bounds()
	if bounds.Dx() < minSide || bounds.Dy() < minSide {
		img = imaging.Resize(img, bounds.Dx()*2, bounds.Dy()*2, imaging.Lanczos)
	}

	gray := imaging.Grayscale(img)
	contrast := imaging.AdjustContrast(gray, 10)
	sharp := imaging.Sharpen(contrast, 1.1)

	if ip.Threshold == 0 {
		return sharp
	}
	denoised := median3(sharp)
	limit := ip.Threshold
	return imaging.AdjustFunc(denoised, func(c color.NRGBA) color.NRGBA {
		if c.R > limit {
			return color.NRGBA{R: 255, G: 255, B: 255, A: c.A}
		}
		return color.NRGBA{A: c.A}
	})
}

// median3 is a 3x3 median over the red channel of a grayscale image; it
// removes isolated speckles before binarisation.
func median3(img *stdimage.NRGBA) *stdimage.NRGBA {
	b := img.Bounds()
	out := imaging.Clone(img)
	var window [9]uint8
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			n := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					px, py := clamp(x+dx, b.Min.X, b.Max.X-1), clamp(y+dy, b.Min.Y, b.Max.Y-1)
					window[n] = img.Pix[img.PixOffset(px, py)]
					n++
				}
			}
			slices.Sort(window[:])
			v := window[4]
			i := out.PixOffset(x-b.Min.X, y-b.Min.Y)
			out.Pix[i], out.Pix[i+1], out.Pix[i+2] = v, v, v
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// EncodePNG serialises img for backends that take encoded bytes.
func EncodePNG(img stdimage.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}
