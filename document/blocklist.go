package document

import (
	"strings"

	"github.com/tsawler/rtfwriter/model"
)

// capability is the set of block kinds a BlockList accepts.
type capability uint8

const (
	allowParagraph capability = 1 << iota
	allowTable
	allowImage
	allowFootnote
	allowField
)

const (
	capsBody          = allowParagraph | allowTable | allowImage | allowFootnote
	capsHeaderFooter  = allowParagraph | allowImage | allowField
	capsSectionFooter = allowParagraph | allowTable | allowImage | allowFootnote | allowField
	capsCell          = allowParagraph | allowImage
	capsFootnote      = allowParagraph
)

// Block is one entry of a BlockList: exactly one of a paragraph, a table or
// an image.
type Block struct {
	kind      model.BlockType
	paragraph *Paragraph
	table     *Table
	image     *Image
}

// Type returns the kind of block.
func (b Block) Type() model.BlockType { return b.kind }

// Paragraph returns the paragraph, or nil if the block is not one.
func (b Block) Paragraph() *Paragraph { return b.paragraph }

// Table returns the table, or nil if the block is not one.
func (b Block) Table() *Table { return b.table }

// Image returns the image, or nil if the block is not one.
func (b Block) Image() *Image { return b.image }

// renderContext carries the inherited state a block needs to render.
type renderContext struct {
	defaults charProps
}

// with returns ctx with f overlaid on the inherited default format.
func (ctx renderContext) with(f *CharFormat) renderContext {
	ctx.defaults = ctx.defaults.overlay(f.effective())
	return ctx
}

// render dispatches on the block kind. head and tail wrap paragraphs and
// images; tables supply their own framing.
func (b Block) render(ctx renderContext, head, tail string) string {
	switch b.kind {
	case model.BlockTypeParagraph:
		return b.paragraph.render(ctx, head, tail)
	case model.BlockTypeTable:
		return b.table.render(ctx)
	case model.BlockTypeImage:
		return b.image.render(head, tail)
	default:
		panic("rtf: block with unknown type " + b.kind.String())
	}
}

const (
	blockHead = `{\pard`
	blockTail = `\par}`
)

// BlockList is an ordered sequence of paragraphs, tables and images. It is
// the body of documents, sections, headers, footers, footnotes and table
// cells.
type BlockList struct {
	blocks        []Block
	direction     model.Direction
	defaultFormat *CharFormat
	caps          capability
	res           *resources
}

func newBlockList(caps capability, dir model.Direction, res *resources) BlockList {
	return BlockList{caps: caps, direction: dir, res: res}
}

// Direction returns the direction new children inherit.
func (l *BlockList) Direction() model.Direction { return l.direction }

// SetDirection changes the direction of the list. Blocks that already exist
// keep their own direction.
func (l *BlockList) SetDirection(d model.Direction) { l.direction = d }

// Blocks returns the blocks in order.
func (l *BlockList) Blocks() []Block {
	return append([]Block(nil), l.blocks...)
}

// Len returns the number of blocks.
func (l *BlockList) Len() int { return len(l.blocks) }

// DefaultCharFormat returns the format applied beneath every block of the
// list, creating it on first use.
func (l *BlockList) DefaultCharFormat() *CharFormat {
	if l.defaultFormat == nil {
		l.defaultFormat = newCharFormat(-1, -1, l.res)
	}
	return l.defaultFormat
}

// AddParagraph appends an empty paragraph with the list's current direction.
func (l *BlockList) AddParagraph() *Paragraph {
	return l.AddParagraphDir(l.direction)
}

// AddParagraphDir appends an empty paragraph with an explicit direction.
func (l *BlockList) AddParagraphDir(dir model.Direction) *Paragraph {
	p := NewParagraph(l.caps&allowFootnote != 0, l.caps&allowField != 0, dir)
	p.res = l.res
	l.blocks = append(l.blocks, Block{kind: model.BlockTypeParagraph, paragraph: p})
	return p
}

// AddTable appends a table with the list's current direction. width is the
// total table width and fontSize the body font size, both in points.
func (l *BlockList) AddTable(rows, cols int, width, fontSize float64) (*Table, error) {
	return l.AddTableDir(rows, cols, width, fontSize, l.direction)
}

// AddTableDir appends a table with an explicit direction.
func (l *BlockList) AddTableDir(rows, cols int, width, fontSize float64, dir model.Direction) (*Table, error) {
	if l.caps&allowTable == 0 {
		return nil, ErrNotAllowed
	}
	t, err := NewTable(rows, cols, width, fontSize, dir)
	if err != nil {
		return nil, err
	}
	t.attach(l.res)
	l.blocks = append(l.blocks, Block{kind: model.BlockTypeTable, table: t})
	return t, nil
}

// AddImage appends an image with the list's current direction.
func (l *BlockList) AddImage(src model.Image) (*Image, error) {
	return l.AddImageDir(src, l.direction)
}

// AddImageDir appends an image with an explicit direction.
func (l *BlockList) AddImageDir(src model.Image, dir model.Direction) (*Image, error) {
	if l.caps&allowImage == 0 {
		return nil, ErrNotAllowed
	}
	img, err := NewImage(src, dir)
	if err != nil {
		return nil, err
	}
	l.blocks = append(l.blocks, Block{kind: model.BlockTypeImage, image: img})
	return img, nil
}

// render writes a newline followed by every block, each terminated by a
// newline.
func (l *BlockList) render(ctx renderContext) string {
	ctx = ctx.with(l.defaultFormat)

	var sb strings.Builder
	sb.WriteString("\n")
	for _, b := range l.blocks {
		sb.WriteString(b.render(ctx, blockHead, blockTail))
		sb.WriteString("\n")
	}
	return sb.String()
}

// Render returns the RTF of the list's blocks.
func (l *BlockList) Render() string {
	return l.render(renderContext{})
}
