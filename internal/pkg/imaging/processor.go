package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// ProcessedImage holds the encoded variants of an uploaded image.
type ProcessedImage struct {
	Original    []byte
	Thumbnail   []byte
	ContentType string
}

// Config controls resize limits and thumbnail dimensions.
type Config struct {
	MaxWidth    int
	MaxHeight   int
	ThumbWidth  int
	ThumbHeight int
	Quality     int // JPEG quality 1-100
}

// DefaultConfig fits course-card rendering: wide 3:2 thumbnails.
func DefaultConfig() Config {
	return Config{
		MaxWidth:    1600,
		MaxHeight:   1200,
		ThumbWidth:  360,
		ThumbHeight: 240,
		Quality:     85,
	}
}

// Processor resizes uploads and produces thumbnails.
type Processor struct {
	config Config
}

// NewProcessor creates an image processor.
func NewProcessor(config Config) *Processor {
	return &Processor{config: config}
}

// Process decodes the upload, fits it inside the max bounds and renders a
// center-cropped thumbnail.
func (p *Processor) Process(reader io.Reader) (*ProcessedImage, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	resized := img
	if img.Bounds().Dx() > p.config.MaxWidth || img.Bounds().Dy() > p.config.MaxHeight {
		resized = imaging.Fit(img, p.config.MaxWidth, p.config.MaxHeight, imaging.Lanczos)
	}

	original, err := p.encode(resized, format)
	if err != nil {
		return nil, fmt.Errorf("failed to encode original: %w", err)
	}

	thumb := imaging.Fill(img, p.config.ThumbWidth, p.config.ThumbHeight, imaging.Center, imaging.Lanczos)
	thumbnail, err := p.encode(thumb, format)
	if err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	return &ProcessedImage{
		Original:    original,
		Thumbnail:   thumbnail,
		ContentType: mimeFromFormat(format),
	}, nil
}

// MaxFileSize limits uploads to 10MB.
const MaxFileSize int64 = 10 * 1024 * 1024

// ValidateType reports whether filename has a supported image extension.
// The list matches what Process can both decode and re-encode.
func ValidateType(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png":
		return true
	default:
		return false
	}
}

func (p *Processor) encode(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	default:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.config.Quality}); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func mimeFromFormat(format string) string {
	if format == "png" {
		return "image/png"
	}
	return "image/jpeg"
}
