package document

import (
	"strings"

	"github.com/tsawler/rtfwriter/model"
)

// HeaderFooter is the page header or page footer of a document. It holds
// paragraphs, images and fields but no tables or footnotes.
type HeaderFooter struct {
	BlockList
	typ model.HeaderFooterType
}

func newHeaderFooter(typ model.HeaderFooterType, dir model.Direction, res *resources) (*HeaderFooter, error) {
	if !typ.Valid() {
		return nil, invalid("newHeaderFooter", "type", int(typ), "must be Header or Footer")
	}
	return &HeaderFooter{
		BlockList: newBlockList(capsHeaderFooter, dir, res),
		typ:       typ,
	}, nil
}

// Type returns whether this is a header or a footer.
func (h *HeaderFooter) Type() model.HeaderFooterType { return h.typ }

func (h *HeaderFooter) render(ctx renderContext) string {
	var sb strings.Builder
	switch h.typ {
	case model.Header:
		sb.WriteString(`{\header` + "\n")
	case model.Footer:
		sb.WriteString(`{\footer` + "\n")
	default:
		panic("rtf: invalid header/footer type " + h.typ.String())
	}
	sb.WriteString(h.BlockList.render(ctx))
	sb.WriteString("}\n")
	return sb.String()
}

// Render returns the RTF of the header or footer.
func (h *HeaderFooter) Render() string {
	return h.render(renderContext{})
}
