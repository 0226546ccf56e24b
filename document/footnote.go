package document

import (
	"strings"

	"github.com/tsawler/rtfwriter/model"
)

// Footnote is the body of a footnote anchored inside a paragraph. Only
// paragraphs can be added to it.
type Footnote struct {
	BlockList
	position int
}

func newFootnote(position int, dir model.Direction, res *resources) *Footnote {
	return &Footnote{
		BlockList: newBlockList(capsFootnote, dir, res),
		position:  position,
	}
}

// Position returns the offset of the character the reference mark follows.
func (f *Footnote) Position() int { return f.position }

func (f *Footnote) render(ctx renderContext) string {
	var sb strings.Builder
	sb.WriteString(`{\super\chftn}`)
	sb.WriteString(`{\footnote\pard\plain{\super\chftn}`)
	sb.WriteString(f.BlockList.render(ctx))
	sb.WriteString("}")
	return sb.String()
}

// FieldControlWord is a field such as the current page number placed
// inside a paragraph.
type FieldControlWord struct {
	position int
	typ      model.FieldType
}

// Position returns the offset of the character the field follows.
func (w *FieldControlWord) Position() int { return w.position }

// Type returns the field type.
func (w *FieldControlWord) Type() model.FieldType { return w.typ }

func (w *FieldControlWord) render() string {
	return `{\field{\*\fldinst ` + w.typ.Instruction() + `}{\fldrslt }}`
}
