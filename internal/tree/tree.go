// Package tree exposes a parsed document as a collapsible tree: a
// traversal of currently-visible nodes plus per-path collapse state.
//
// Collapse state lives beside the tree, keyed by serialized path, never
// by node identity. A View is created fresh for every parsed document,
// so re-parsing always starts fully expanded and stale paths are never
// reconciled against a structurally different tree.
package tree

import (
	"github.com/mcncl/jsonview/internal/models"
)

// Node is one visible row of the tree.
type Node struct {
	// Key is the member key for object values. It is empty for the root
	// and for array elements.
	Key string
	// Value is the node's value in the document tree.
	Value *models.Value
	// Depth is the nesting depth; the root is 0.
	Depth int
	// Path locates the node from the document root.
	Path models.Path
	// Last reports whether the node is its parent's last child, for
	// guide-line rendering.
	Last bool
	// Collapsible reports whether the node is an object or array,
	// including empty ones.
	Collapsible bool
	// Collapsed reports whether the node is currently collapsed.
	Collapsed bool
}

// WalkFunc receives visible nodes in document order. Returning false
// stops the walk.
type WalkFunc func(Node) bool

// View combines a document tree with its collapse state.
type View struct {
	root      *models.Value
	collapsed models.CollapseState
}

// NewView creates a view of root with everything expanded. A nil root
// (the "no document" state) yields a view whose walk visits nothing.
func NewView(root *models.Value) *View {
	return &View{
		root:      root,
		collapsed: models.NewCollapseState(),
	}
}

// Toggle flips the collapse flag for the container at path. Toggling an
// expanded (or absent) path collapses it; toggling again expands it.
func (v *View) Toggle(path models.Path) {
	v.collapsed.Toggle(path)
}

// Collapsed reports whether the container at path is collapsed.
func (v *View) Collapsed(path models.Path) bool {
	return v.collapsed.Collapsed(path)
}

// CollapseState returns the view's collapse state.
func (v *View) CollapseState() models.CollapseState {
	return v.collapsed
}

// Extract returns the value at path for copy-out. Collapse state never
// affects the result. Resolution fails closed: a path that does not
// exist in the tree returns (nil, false).
func (v *View) Extract(path models.Path) (*models.Value, bool) {
	if v.root == nil {
		return nil, false
	}
	return v.root.Lookup(path)
}

// Walk visits every visible node in document order. Children of a
// collapsed container are skipped entirely, not visited-and-hidden, so
// the cost of a walk is proportional to what is visible.
func (v *View) Walk(fn WalkFunc) {
	if v.root == nil {
		return
	}
	v.walk(v.root, "", nil, 0, true, fn)
}

func (v *View) walk(val *models.Value, key string, path models.Path, depth int, last bool, fn WalkFunc) bool {
	node := Node{
		Key:         key,
		Value:       val,
		Depth:       depth,
		Path:        path,
		Last:        last,
		Collapsible: val.IsContainer(),
	}
	if node.Collapsible {
		node.Collapsed = v.collapsed.Collapsed(path)
	}
	if !fn(node) {
		return false
	}
	if !node.Collapsible || node.Collapsed {
		return true
	}
	switch val.Kind() {
	case models.KindArray:
		items := val.Items()
		for i, item := range items {
			if !v.walk(item, "", path.ChildIndex(i), depth+1, i == len(items)-1, fn) {
				return false
			}
		}
	case models.KindObject:
		members := val.Members()
		for i, m := range members {
			if !v.walk(m.Value, m.Key, path.Child(m.Key), depth+1, i == len(members)-1, fn) {
				return false
			}
		}
	}
	return true
}

// CollapseDeeper collapses every container at depth >= minDepth. The
// root is depth 0, so CollapseDeeper(0) collapses everything including
// the root. Already-collapsed containers are left alone.
func (v *View) CollapseDeeper(minDepth int) {
	if v.root == nil || minDepth < 0 {
		return
	}
	v.collapseDeeper(v.root, nil, 0, minDepth)
}

func (v *View) collapseDeeper(val *models.Value, path models.Path, depth, minDepth int) {
	if !val.IsContainer() {
		return
	}
	if depth >= minDepth && !v.collapsed.Collapsed(path) {
		v.collapsed.Toggle(path)
	}
	switch val.Kind() {
	case models.KindArray:
		for i, item := range val.Items() {
			v.collapseDeeper(item, path.ChildIndex(i), depth+1, minDepth)
		}
	case models.KindObject:
		for _, m := range val.Members() {
			v.collapseDeeper(m.Value, path.Child(m.Key), depth+1, minDepth)
		}
	}
}
