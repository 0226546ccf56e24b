package document

import "github.com/tsawler/rtfwriter/model"

// DefaultFont is the first entry of every font table.
const DefaultFont = "Times New Roman"

// ResourceTable is an append-only registry that assigns a stable index to
// every distinct value. Indices start at the table's base offset.
type ResourceTable[T comparable] struct {
	base   int
	values []T
	index  map[T]int
}

// NewResourceTable creates a table whose first index is base, pre-populated
// with seed in order.
func NewResourceTable[T comparable](base int, seed ...T) *ResourceTable[T] {
	t := &ResourceTable[T]{
		base:  base,
		index: make(map[T]int),
	}
	for _, v := range seed {
		t.Intern(v)
	}
	return t
}

// Intern returns the index of v, appending v first if it is new.
func (t *ResourceTable[T]) Intern(v T) int {
	if i, ok := t.index[v]; ok {
		return i
	}
	i := t.base + len(t.values)
	t.values = append(t.values, v)
	t.index[v] = i
	return i
}

// Lookup returns the index of v without adding it.
func (t *ResourceTable[T]) Lookup(v T) (int, bool) {
	i, ok := t.index[v]
	return i, ok
}

// At returns the value stored at index i.
func (t *ResourceTable[T]) At(i int) (T, bool) {
	var zero T
	i -= t.base
	if i < 0 || i >= len(t.values) {
		return zero, false
	}
	return t.values[i], true
}

// Len returns the number of entries
func (t *ResourceTable[T]) Len() int {
	return len(t.values)
}

// Base returns the index of the first entry
func (t *ResourceTable[T]) Base() int {
	return t.base
}

// Values returns the entries in insertion order.
func (t *ResourceTable[T]) Values() []T {
	return append([]T(nil), t.values...)
}

// FontDescriptor references an entry of a document's font table.
type FontDescriptor struct {
	index int
}

// Index returns the font table index, as written by \f.
func (f FontDescriptor) Index() int { return f.index }

// ColorDescriptor references an entry of a document's color table.
type ColorDescriptor struct {
	index int
}

// Index returns the color table index, as written by \cf.
func (c ColorDescriptor) Index() int { return c.index }

// resources bundles the font and color tables of one document. Nodes
// created from a document hold a pointer to it so that character formats can
// intern fonts and colors by value.
type resources struct {
	fonts  *ResourceTable[string]
	colors *ResourceTable[model.Color]
}

func newResources() *resources {
	return &resources{
		fonts:  NewResourceTable(0, DefaultFont),
		colors: NewResourceTable(0, model.Black),
	}
}

func (r *resources) font(name string) FontDescriptor {
	return FontDescriptor{index: r.fonts.Intern(name)}
}

func (r *resources) color(c model.Color) ColorDescriptor {
	return ColorDescriptor{index: r.colors.Intern(c)}
}
