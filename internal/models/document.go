package models

// Document is the product of a parse. A nil Root is the distinguished
// "no document" state used for empty or whitespace-only input; it is not
// an error and not the same as a document whose root is JSON null.
type Document struct {
	Root *Value
}

// IsEmpty reports whether the document is the "no document" state.
func (d Document) IsEmpty() bool { return d.Root == nil }
