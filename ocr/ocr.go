//go:build ocr

// Package ocr recognizes the text in pictures so that pictures without a
// description can be given one.
//
// This package wraps the Tesseract OCR engine via gosseract and is only
// built with the "ocr" build tag. Tesseract must be installed. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Client wraps Tesseract for OCR operations.
type Client struct {
	client *gosseract.Client
}

// New creates a new OCR client.
// The client should be closed when no longer needed to release resources.
func New() (*Client, error) {
	return &Client{client: gosseract.NewClient()}, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}

// RecognizeImage performs OCR on encoded picture data (PNG or JPEG) and
// returns the recognized text with runs of whitespace folded to single
// spaces.
func (c *Client) RecognizeImage(data []byte) (string, error) {
	if err := c.client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}
	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return strings.Join(strings.Fields(text), " "), nil
}

// SetLanguage sets the language(s) for OCR recognition.
// Multiple languages are joined with "+" (e.g., "eng+fra").
func (c *Client) SetLanguage(lang string) error {
	return c.client.SetLanguage(strings.Split(lang, "+")...)
}
