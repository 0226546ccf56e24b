package rtfwriter

import (
	"fmt"
	"strings"

	"github.com/tsawler/rtfwriter/document"
	"github.com/tsawler/rtfwriter/ocr"
)

// recognizer reads the text in an encoded picture.
type recognizer interface {
	RecognizeImage(data []byte) (string, error)
	Close() error
}

// newRecognizer opens the OCR engine for lang. Tests replace it.
var newRecognizer = func(lang string) (recognizer, error) {
	c, err := ocr.New()
	if err != nil {
		return nil, err
	}
	if lang != "" {
		if err := c.SetLanguage(lang); err != nil {
			c.Close()
			return nil, err
		}
	}
	return c, nil
}

// describeImages sets the description of every picture that has none to
// the text recognized in it. Pictures without text stay undescribed.
func describeImages(doc *document.Document, lang string) []Warning {
	var missing []*document.Image
	for _, img := range doc.Images() {
		if strings.TrimSpace(img.Source().AltText) == "" {
			missing = append(missing, img)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	r, err := newRecognizer(lang)
	if err != nil {
		return []Warning{{Message: fmt.Sprintf("%d pictures not described: %v", len(missing), err)}}
	}
	defer r.Close()

	var warnings []Warning
	for i, img := range missing {
		text, err := r.RecognizeImage(img.Source().Data)
		if err != nil {
			warnings = append(warnings, Warning{Message: fmt.Sprintf("picture %d not described: %v", i+1, err)})
			continue
		}
		if text = strings.Join(strings.Fields(text), " "); text != "" {
			img.SetAltText(text)
		}
	}
	return warnings
}
