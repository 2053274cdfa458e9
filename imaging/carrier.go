// Package imaging is made to handle carrier image decode and encode
package imaging

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // decode-only: JPEG carriers can be read, never written
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

const (
	// CarrierChannels is the number of samples per pixel. Carriers are
	// always flattened to RGB; alpha is dropped on load.
	CarrierChannels = 3

	BitsInByte = 8
)

// Carrier holds the flattened samples of a raster image. Samples are laid
// out in raster-major order: row, then column, then channel. The embedder
// and extractor both walk this buffer front to back, so the ordering here
// is the single source of truth for bit placement.
type Carrier struct {
	Samples  []byte
	Width    int
	Height   int
	Channels int
	Format   string // format reported by the decoder ("png", "bmp", "jpeg")
}

// SampleIndex maps a (row, column, channel) coordinate to its flat index.
func (c *Carrier) SampleIndex(row, col, channel int) int {
	return (row*c.Width+col)*c.Channels + channel
}

// CapacityBits returns the number of LSB slots in the carrier.
func (c *Carrier) CapacityBits() int {
	return len(c.Samples)
}

// WithSamples returns a new Carrier with the same geometry but replacement
// sample data, typically the output of an embed.
func (c *Carrier) WithSamples(samples []byte) (*Carrier, error) {
	if len(samples) != len(c.Samples) {
		return nil, fmt.Errorf("sample buffer length %d does not match carrier geometry %dx%dx%d",
			len(samples), c.Width, c.Height, c.Channels)
	}
	return &Carrier{
		Samples:  samples,
		Width:    c.Width,
		Height:   c.Height,
		Channels: c.Channels,
		Format:   c.Format,
	}, nil
}

// Decode reads a raster image and flattens it to RGB samples.
func Decode(r io.Reader) (*Carrier, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode carrier image: %v", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	carrier := &Carrier{
		Samples:  make([]byte, width*height*CarrierChannels),
		Width:    width,
		Height:   height,
		Channels: CarrierChannels,
		Format:   format,
	}

	// Alpha is dropped, not composited: channel values must stay straight
	// (non-premultiplied), so translucent pixels keep their raw RGB. The
	// NRGBA fast path reads Pix directly; everything else goes through the
	// straight-alpha color model instead of At().RGBA(), which would
	// premultiply.
	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				pix := src.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
				base := carrier.SampleIndex(y, x, 0)
				carrier.Samples[base] = src.Pix[pix]
				carrier.Samples[base+1] = src.Pix[pix+1]
				carrier.Samples[base+2] = src.Pix[pix+2]
			}
		}
	default:
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
				base := carrier.SampleIndex(y, x, 0)
				carrier.Samples[base] = c.R
				carrier.Samples[base+1] = c.G
				carrier.Samples[base+2] = c.B
			}
		}
	}

	return carrier, nil
}

// Load opens and decodes the carrier image at path.
func Load(path string) (*Carrier, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open carrier %s: %w", path, err)
	}
	defer f.Close()

	carrier, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("carrier %s: %w", path, err)
	}
	return carrier, nil
}

// Encode writes the carrier losslessly in the given format ("png" or "bmp").
// Lossy formats are refused: recompression rewrites the low-order bits and
// silently destroys any embedded payload.
func Encode(w io.Writer, c *Carrier, format string) error {
	img := toImage(c)

	switch strings.ToLower(format) {
	case "png":
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("failed to encode PNG: %v", err)
		}
	case "bmp":
		if err := bmp.Encode(w, img); err != nil {
			return fmt.Errorf("failed to encode BMP: %v", err)
		}
	default:
		return fmt.Errorf("unsupported output format %q: use png or bmp", format)
	}
	return nil
}

// Save writes the carrier to path, inferring the format from the file
// extension. Missing parent directories are created. The file is only
// created here, after all mutation is done, so a failed embed never leaves
// a half-written output.
func Save(c *Carrier, path string) error {
	format, err := formatForPath(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %v", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %v", path, err)
	}
	defer f.Close()

	if err := Encode(f, c, format); err != nil {
		return fmt.Errorf("output %s: %w", path, err)
	}
	return nil
}

func formatForPath(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return "png", nil
	case ".bmp":
		return "bmp", nil
	case ".jpg", ".jpeg":
		return "", fmt.Errorf("refusing lossy output format %q: JPEG recompression corrupts embedded data", ext)
	default:
		return "", fmt.Errorf("unsupported output format %q: use .png or .bmp", ext)
	}
}

// toImage rebuilds an NRGBA image from the flattened samples, with full
// alpha. The inverse of Decode for the RGB channels.
func toImage(c *Carrier) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, c.Width, c.Height))
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			base := c.SampleIndex(y, x, 0)
			pix := img.PixOffset(x, y)
			img.Pix[pix] = c.Samples[base]
			img.Pix[pix+1] = c.Samples[base+1]
			img.Pix[pix+2] = c.Samples[base+2]
			img.Pix[pix+3] = 0xFF
		}
	}
	return img
}
