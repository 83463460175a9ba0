package flow

// ChangeKind identifies what a canvas change record does.
type ChangeKind string

const (
	ChangePosition ChangeKind = "position"
	ChangeSelect   ChangeKind = "select"
	ChangeRemove   ChangeKind = "remove"
)

// Change is a single incremental update emitted by the canvas. Position is
// only meaningful for ChangePosition, Selected only for ChangeSelect.
type Change struct {
	Kind     ChangeKind `json:"type"`
	ID       string     `json:"id"`
	Position *Position  `json:"position,omitempty"`
	Selected bool       `json:"selected,omitempty"`
}

// ChangeResult lists the ids affected by a batch. Changed holds every id
// whose state differs afterwards, in order of first change; Removed is the
// subset that was deleted.
type ChangeResult struct {
	Changed []string
	Removed []string
}

// Empty reports whether the batch changed nothing.
func (r ChangeResult) Empty() bool { return len(r.Changed) == 0 }

// ApplyVertexChanges folds changes into vs in batch order and returns the
// resulting collection. Unknown kinds and absent ids are ignored; vs is not
// modified. Incident edges of removed vertices are the caller's concern.
func ApplyVertexChanges(vs []Vertex, changes []Change) ([]Vertex, ChangeResult) {
	return applyChanges(vs, changes, func(v Vertex) string { return v.ID },
		func(v *Vertex, c Change) bool {
			switch c.Kind {
			case ChangePosition:
				if c.Position == nil || *c.Position == v.Position {
					return false
				}
				v.Position = *c.Position
				return true
			case ChangeSelect:
				if v.Selected == c.Selected {
					return false
				}
				v.Selected = c.Selected
				return true
			}
			return false
		})
}

// ApplyEdgeChanges folds changes into es in batch order. Position changes
// do not apply to edges and are ignored.
func ApplyEdgeChanges(es []Edge, changes []Change) ([]Edge, ChangeResult) {
	return applyChanges(es, changes, func(e Edge) string { return e.ID },
		func(e *Edge, c Change) bool {
			if c.Kind != ChangeSelect || e.Selected == c.Selected {
				return false
			}
			e.Selected = c.Selected
			return true
		})
}

func applyChanges[T any](items []T, changes []Change, id func(T) string, update func(*T, Change) bool) ([]T, ChangeResult) {
	var res ChangeResult
	if len(changes) == 0 {
		return items, res
	}

	out := make([]T, len(items))
	copy(out, items)
	index := make(map[string]int, len(out))
	for i, it := range out {
		index[id(it)] = i
	}

	removed := make(map[string]bool)
	seen := make(map[string]bool)
	mark := func(id string) {
		if !seen[id] {
			seen[id] = true
			res.Changed = append(res.Changed, id)
		}
	}

	for _, c := range changes {
		i, ok := index[c.ID]
		if !ok || removed[c.ID] {
			continue
		}
		if c.Kind == ChangeRemove {
			removed[c.ID] = true
			res.Removed = append(res.Removed, c.ID)
			mark(c.ID)
			continue
		}
		if update(&out[i], c) {
			mark(c.ID)
		}
	}

	if len(removed) == 0 {
		return out, res
	}
	kept := out[:0]
	for _, it := range out {
		if !removed[id(it)] {
			kept = append(kept, it)
		}
	}
	return kept, res
}
