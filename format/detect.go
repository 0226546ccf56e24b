// Package format provides file format detection for the rtfwriter library.
package format

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsawler/rtfwriter/model"
)

// Format represents an input format the library can read.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// JPEG indicates a JPEG/JFIF image.
	JPEG
	// PNG indicates a PNG image.
	PNG
	// GIF indicates a GIF image.
	GIF
	// BMP indicates a Windows bitmap.
	BMP
	// TIFF indicates a TIFF image.
	TIFF
	// WebP indicates a WebP image.
	WebP
	// HTML indicates an HTML document.
	HTML
	// DOCX indicates a Microsoft Word (.docx) document.
	DOCX
	// EPUB indicates an EPUB electronic publication.
	EPUB
	// XLSX indicates a Microsoft Excel (.xlsx) workbook.
	XLSX
	// PPTX indicates a Microsoft PowerPoint (.pptx) presentation.
	PPTX
	// ODT indicates an OpenDocument text document.
	ODT
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case JPEG:
		return "JPEG"
	case PNG:
		return "PNG"
	case GIF:
		return "GIF"
	case BMP:
		return "BMP"
	case TIFF:
		return "TIFF"
	case WebP:
		return "WebP"
	case HTML:
		return "HTML"
	case DOCX:
		return "DOCX"
	case EPUB:
		return "EPUB"
	case XLSX:
		return "XLSX"
	case PPTX:
		return "PPTX"
	case ODT:
		return "ODT"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case JPEG:
		return ".jpg"
	case PNG:
		return ".png"
	case GIF:
		return ".gif"
	case BMP:
		return ".bmp"
	case TIFF:
		return ".tiff"
	case WebP:
		return ".webp"
	case HTML:
		return ".html"
	case DOCX:
		return ".docx"
	case EPUB:
		return ".epub"
	case XLSX:
		return ".xlsx"
	case PPTX:
		return ".pptx"
	case ODT:
		return ".odt"
	default:
		return ""
	}
}

// MIME returns the MIME type of the format.
func (f Format) MIME() string {
	switch f {
	case JPEG:
		return "image/jpeg"
	case PNG:
		return "image/png"
	case GIF:
		return "image/gif"
	case BMP:
		return "image/bmp"
	case TIFF:
		return "image/tiff"
	case WebP:
		return "image/webp"
	case HTML:
		return "text/html"
	case DOCX:
		return docxMIME
	case EPUB:
		return epubMIME
	case XLSX:
		return xlsxMIME
	case PPTX:
		return pptxMIME
	case ODT:
		return odtMIME
	default:
		return "application/octet-stream"
	}
}

// IsImage reports whether f is a raster image format.
func (f Format) IsImage() bool {
	return f >= JPEG && f <= WebP
}

// Embeddable reports whether images of format f can be written into an RTF
// picture without transcoding.
func (f Format) Embeddable() bool {
	return f == JPEG || f == PNG
}

// ImageFormat returns the picture format for embeddable formats and
// model.ImageFormatUnknown for everything else.
func (f Format) ImageFormat() model.ImageFormat {
	switch f {
	case JPEG:
		return model.ImageFormatJPEG
	case PNG:
		return model.ImageFormatPNG
	default:
		return model.ImageFormatUnknown
	}
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".jpe", ".jfif":
		return JPEG
	case ".png":
		return PNG
	case ".gif":
		return GIF
	case ".bmp", ".dib":
		return BMP
	case ".tif", ".tiff":
		return TIFF
	case ".webp":
		return WebP
	case ".html", ".htm", ".xhtml":
		return HTML
	case ".docx":
		return DOCX
	case ".epub":
		return EPUB
	case ".xlsx":
		return XLSX
	case ".pptx":
		return PPTX
	case ".odt":
		return ODT
	default:
		return Unknown
	}
}

// FromMIME maps a MIME type, with or without parameters, to a format.
func FromMIME(mime string) Format {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	switch mime {
	case "image/jpeg", "image/jpg", "image/pjpeg":
		return JPEG
	case "image/png":
		return PNG
	case "image/gif":
		return GIF
	case "image/bmp", "image/x-bmp", "image/x-ms-bmp":
		return BMP
	case "image/tiff":
		return TIFF
	case "image/webp":
		return WebP
	case "text/html", "application/xhtml+xml":
		return HTML
	case docxMIME:
		return DOCX
	case epubMIME:
		return EPUB
	case xlsxMIME:
		return XLSX
	case pptxMIME:
		return PPTX
	case odtMIME:
		return ODT
	default:
		return Unknown
	}
}

const (
	docxMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	epubMIME = "application/epub+zip"
	xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pptxMIME = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	odtMIME  = "application/vnd.oasis.opendocument.text"
)

var (
	zipMagic    = []byte{'P', 'K', 0x03, 0x04}
	jpegMagic   = []byte{0xFF, 0xD8, 0xFF}
	pngMagic    = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	tiffLEMagic = []byte{'I', 'I', 0x2A, 0x00}
	tiffBEMagic = []byte{'M', 'M', 0x00, 0x2A}
)

// DetectFromMagic checks file magic bytes to determine format.
// This provides more reliable detection than extension-based detection.
// Returns Unknown if the format cannot be determined from magic bytes alone;
// ZIP based formats such as DOCX, ODT and EPUB need DetectFromReader.
func DetectFromMagic(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, jpegMagic):
		return JPEG
	case bytes.HasPrefix(data, pngMagic):
		return PNG
	case bytes.HasPrefix(data, []byte("GIF87a")), bytes.HasPrefix(data, []byte("GIF89a")):
		return GIF
	case bytes.HasPrefix(data, tiffLEMagic), bytes.HasPrefix(data, tiffBEMagic):
		return TIFF
	case len(data) >= 12 && bytes.Equal(data[:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return WebP
	// BMP files start with "BM" followed by the file size; require the
	// reserved fields to be zero to avoid matching text.
	case len(data) >= 14 && data[0] == 'B' && data[1] == 'M' &&
		data[6] == 0 && data[7] == 0 && data[8] == 0 && data[9] == 0:
		return BMP
	}

	if detectHTMLMagic(data) {
		return HTML
	}
	return Unknown
}

// detectHTMLMagic checks if the data looks like HTML content.
func detectHTMLMagic(data []byte) bool {
	data = bytes.TrimLeft(data, " \t\r\n")
	if len(data) == 0 {
		return false
	}

	// Check for common HTML signatures (case-insensitive)
	head := strings.ToUpper(string(data[:min(len(data), 512)]))
	switch {
	case strings.HasPrefix(head, "<!DOCTYPE HTML"), strings.HasPrefix(head, "<HTML"):
		return true
	case strings.HasPrefix(head, "<?XML") && strings.Contains(head, "<HTML"):
		return true
	}
	return false
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// DetectFromReader inspects the content of r, which holds size bytes, to
// determine the format. Unlike DetectFromMagic it can look inside ZIP
// archives to recognize the office formats and EPUB.
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, 512)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	magic = magic[:n]

	if bytes.HasPrefix(magic, zipMagic) {
		return detectZIPFormat(r, size)
	}
	return DetectFromMagic(magic), nil
}

// detectZIPFormat inspects a ZIP archive for the main part of an Office
// Open XML package, or the mimetype or container descriptor of an
// OpenDocument file or EPUB.
func detectZIPFormat(r io.ReaderAt, size int64) (Format, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, err
	}
	for _, f := range zr.File {
		switch f.Name {
		case "word/document.xml":
			return DOCX, nil
		case "xl/workbook.xml":
			return XLSX, nil
		case "ppt/presentation.xml":
			return PPTX, nil
		case "mimetype":
			switch mimetype(f) {
			case epubMIME:
				return EPUB, nil
			case odtMIME:
				return ODT, nil
			}
		}
	}
	// Packages without a leading mimetype entry.
	for _, f := range zr.File {
		if f.Name == "META-INF/container.xml" {
			return EPUB, nil
		}
	}
	return Unknown, nil
}

// mimetype returns the content of an OpenDocument or EPUB mimetype entry.
func mimetype(f *zip.File) string {
	rc, err := f.Open()
	if err != nil {
		return ""
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, 64))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// DetectFile determines the format of the file at path from its content,
// falling back to the extension when the content is not recognized.
func DetectFile(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return Unknown, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Unknown, err
	}
	got, err := DetectFromReader(f, info.Size())
	if err != nil || got == Unknown {
		return Detect(path), nil
	}
	return got, nil
}
