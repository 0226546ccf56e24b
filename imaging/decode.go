package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	"image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/tsawler/rtfwriter/format"
	"github.com/tsawler/rtfwriter/model"
)

// ErrUnknownFormat is returned for data that is not a supported raster
// image.
var ErrUnknownFormat = errors.New("imaging: unknown image format")

// Decode reads an encoded image from r.
func Decode(r io.Reader) (model.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return model.Image{}, fmt.Errorf("imaging: reading image: %w", err)
	}
	return DecodeBytes(data)
}

// DecodeFile reads the image stored at path.
func DecodeFile(path string) (model.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Image{}, fmt.Errorf("imaging: %w", err)
	}
	img, err := DecodeBytes(data)
	if err != nil {
		return model.Image{}, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// DecodeBytes inspects data and returns an embeddable image. JPEG and PNG
// data is kept as is; other formats are transcoded to PNG.
func DecodeBytes(data []byte) (model.Image, error) {
	f := format.DetectFromMagic(data)
	if !f.IsImage() {
		return model.Image{}, ErrUnknownFormat
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return model.Image{}, fmt.Errorf("imaging: reading %s header: %w", f, err)
	}

	if f.Embeddable() {
		return model.Image{
			Data:   data,
			Format: f.ImageFormat(),
			Width:  cfg.Width,
			Height: cfg.Height,
			DPI:    resolution(f, data),
		}, nil
	}

	pngData, err := transcode(data)
	if err != nil {
		return model.Image{}, fmt.Errorf("imaging: converting %s to PNG: %w", f, err)
	}
	return model.Image{
		Data:   pngData,
		Format: model.ImageFormatPNG,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}

// transcode decodes data and re-encodes it as PNG.
func transcode(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
