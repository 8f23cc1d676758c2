package gantt

// selection is the set of selected rows plus the anchor of the last plain
// or ctrl click, used for shift ranges.
type selection struct {
	ids       map[string]bool
	lastID    string
	lastIndex int
}

// Select applies a click on row id with ctrl/shift semantics over the
// visible rows: a plain click selects only id; ctrl toggles id; shift
// selects the visible range from the last clicked row. Returns the
// selection in dataset order.
func (e *Engine) Select(id string, ctrl, shift bool) []string {
	index := -1
	for i, vid := range e.tree.VisibleIDs() {
		if vid == id {
			index = i
			break
		}
	}
	if index < 0 {
		return e.Selected()
	}
	if e.sel.ids == nil {
		e.sel.ids = make(map[string]bool)
	}
	size := len(e.sel.ids)

	if !ctrl {
		clear(e.sel.ids)
	}
	if ctrl && !shift && e.sel.ids[id] {
		delete(e.sel.ids, id)
		return e.Selected()
	}
	if shift && size > 0 && e.sel.lastID != id {
		lo, hi := min(index, e.sel.lastIndex), max(index, e.sel.lastIndex)
		visible := e.tree.VisibleIDs()
		hi = min(hi, len(visible)-1)
		for _, vid := range visible[lo : hi+1] {
			e.sel.ids[vid] = true
		}
	} else {
		e.sel.ids[id] = true
		e.sel.lastID, e.sel.lastIndex = id, index
	}
	return e.Selected()
}

// SelectRows replaces the selection.
func (e *Engine) SelectRows(ids []string) {
	e.sel.ids = make(map[string]bool, len(ids))
	for _, id := range ids {
		e.sel.ids[id] = true
	}
}

// ClearSelection empties the selection.
func (e *Engine) ClearSelection() { clear(e.sel.ids) }

// Selected returns the selected row ids in dataset order.
func (e *Engine) Selected() []string {
	var out []string
	for _, id := range e.tree.IDs() {
		if e.sel.ids[id] {
			out = append(out, id)
		}
	}
	return out
}

// IsSelected reports whether id is selected.
func (e *Engine) IsSelected(id string) bool { return e.sel.ids[id] }
