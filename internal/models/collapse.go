package models

// CollapseState records which containers are collapsed, keyed by the
// serialized form of their paths. A missing entry means expanded, so the
// zero-size map is the all-expanded state every new document starts in.
//
// Collapse state is view bookkeeping, never document data: it is reset
// whenever a new document is parsed and stale paths are never reconciled
// against the new tree.
type CollapseState map[string]bool

// NewCollapseState returns an empty, all-expanded state.
func NewCollapseState() CollapseState { return CollapseState{} }

// Collapsed reports whether the container at p is collapsed.
func (c CollapseState) Collapsed(p Path) bool {
	return c[p.String()]
}

// Toggle flips the collapsed flag for p. A path with no entry counts as
// expanded, so the first toggle collapses it. Toggling twice restores the
// state exactly: expanded entries are removed rather than stored as false.
func (c CollapseState) Toggle(p Path) {
	key := p.String()
	if c[key] {
		delete(c, key)
	} else {
		c[key] = true
	}
}
