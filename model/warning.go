package model

// Warning is a non-fatal problem found while building a document.
type Warning struct {
	Message string
}

func (w Warning) String() string { return w.Message }
