package document

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/language"

	"github.com/tsawler/rtfwriter/locale"
	"github.com/tsawler/rtfwriter/model"
)

// lines joins its arguments with newlines and terminates the result with
// one.
func lines(ls ...string) string {
	return strings.Join(ls, "\n") + "\n"
}

func assertRTF(t *testing.T, got, want string) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rendered RTF mismatch (-want +got):\n%s", diff)
	}
}

func assertValidation(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected a validation error, got nil")
	}
	if !errors.Is(err, ErrValidation) {
		t.Errorf("error %v does not match ErrValidation", err)
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("error %v is not a *ValidationError", err)
	}
}

func englishDoc() *Document {
	return New(model.PaperA4, model.Landscape, locale.English)
}

func arabicDoc() *Document {
	return NewWithLanguage(model.PaperA4, model.Landscape, language.MustParse("ar-AE"))
}
