// Package model provides the value types shared by the RTF document object
// model and its collaborators.
//
// Nothing in this package renders anything. The types here describe layout
// and formatting choices (reading direction, alignment, borders, margins,
// paper geometry, character style flags) and the decoded raster images that
// the document package embeds as pictures.
//
// # Units
//
// All lengths accepted by the public API are in typographic points (1/72
// inch). The emitted RTF uses twips (1/20 point) for lengths and half-points
// for font sizes; [Twips] and [HalfPoints] perform those conversions.
//
// # Reading direction
//
// [Direction] is carried by every block-bearing node of a document. It is a
// plain value: children copy their parent's direction when they are created
// and never observe later changes to the parent.
//
// # Images
//
// [Image] is the hand-off point between image decoding (package imaging) and
// the document package. It holds the encoded bytes that end up in the RTF
// picture group together with the pixel size and resolution needed to scale
// the picture.
package model
