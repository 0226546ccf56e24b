package rtfwriter

import (
	"strings"

	"github.com/tsawler/rtfwriter/model"
)

// Warning is a non-fatal problem found while building a document, such as
// an HTML image that could not be embedded.
type Warning = model.Warning

// FormatWarnings joins the warning messages into one line each.
func FormatWarnings(warnings []Warning) string {
	msgs := make([]string, len(warnings))
	for i, w := range warnings {
		msgs[i] = w.Message
	}
	return strings.Join(msgs, "\n")
}
