// Package document implements the RTF document object model and its
// renderer.
//
// A [Document] is built top-down through factory methods and rendered once
// it is complete:
//
//	doc := document.New(model.PaperA4, model.Portrait, locale.English)
//	p := doc.AddParagraph().SetText("Hello, world")
//	f, _ := p.AddCharFormat(0, 4)
//	f.AddStyle(model.Bold)
//	rtf := doc.Render()
//
// # Block lists
//
// Document bodies, sections, headers, footers, section footers, footnotes
// and table cells all embed a [BlockList]: an ordered sequence of
// paragraphs, tables and images. Each container accepts a fixed subset of
// block kinds; adding a disallowed kind returns [ErrNotAllowed].
//
// # Direction
//
// Every node has a reading direction. A child copies the direction of its
// parent when it is created. Changing a node's direction later affects only
// children created afterwards.
//
// # Character formats
//
// A [Paragraph] holds text and a list of [CharFormat] ranges. At render time
// the text is cut at every range boundary and every footnote or field
// anchor; each piece gets the overlay of the inherited default format, the
// paragraph default and every covering range, later ranges winning.
// Neighbouring pieces with equal formatting are written as one run.
//
// Fonts and colors are interned in per-document tables and referenced by
// index. The same font name or color value always yields the same index.
//
// # Errors
//
// Invalid arguments to builder methods return a [*ValidationError], which
// matches [ErrValidation] under errors.Is, and leave the model unchanged.
// Broken internal invariants panic.
package document
