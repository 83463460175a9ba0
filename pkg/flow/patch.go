package flow

import "fmt"

// MergePolicy decides how present patch fields are merged.
type MergePolicy int

const (
	// SkipEmpty ignores present fields holding a zero value ("", 0, false).
	// Property editors use it so a cleared input never wipes the model.
	SkipEmpty MergePolicy = iota
	// Overwrite applies every present field, including zero values.
	Overwrite
)

// String returns the policy name used on the wire and in flags.
func (p MergePolicy) String() string {
	if p == Overwrite {
		return "overwrite"
	}
	return "skip-empty"
}

// ParseMergePolicy converts a policy name. The empty string is SkipEmpty.
func ParseMergePolicy(s string) (MergePolicy, error) {
	switch s {
	case "", "skip-empty":
		return SkipEmpty, nil
	case "overwrite":
		return Overwrite, nil
	}
	return SkipEmpty, fmt.Errorf("unknown merge policy %q", s)
}

func merge[T comparable](dst *T, src *T, policy MergePolicy) {
	if src == nil {
		return
	}
	var zero T
	// NaN is the only value unequal to itself; it counts as empty.
	if policy == SkipEmpty && (*src == zero || *src != *src) {
		return
	}
	*dst = *src
}

// VertexDataPatch is a partial update of [VertexData]. Nil fields are absent.
type VertexDataPatch struct {
	Label  *string  `json:"label,omitempty"`
	Radius *float64 `json:"radius,omitempty"`
}

// Apply merges the patch into d and returns the result.
func (p VertexDataPatch) Apply(d VertexData, policy MergePolicy) VertexData {
	merge(&d.Label, p.Label, policy)
	merge(&d.Radius, p.Radius, policy)
	return d
}

// VertexStylePatch is a partial update of [VertexStyle].
type VertexStylePatch struct {
	BackgroundColor *string `json:"backgroundColor,omitempty"`
	Color           *string `json:"color,omitempty"`
}

// Apply merges the patch into s and returns the result.
func (p VertexStylePatch) Apply(s VertexStyle, policy MergePolicy) VertexStyle {
	merge(&s.BackgroundColor, p.BackgroundColor, policy)
	merge(&s.Color, p.Color, policy)
	return s
}

// EdgeDataPatch is a partial update of [EdgeData].
type EdgeDataPatch struct {
	Weight   *float64  `json:"weight,omitempty"`
	Color    *string   `json:"color,omitempty"`
	LineType *LineType `json:"lineType,omitempty"`
}

// Apply merges the patch into d and returns the result.
func (p EdgeDataPatch) Apply(d EdgeData, policy MergePolicy) EdgeData {
	merge(&d.Weight, p.Weight, policy)
	merge(&d.Color, p.Color, policy)
	merge(&d.LineType, p.LineType, policy)
	return d
}

// EdgeStylePatch is a partial update of [EdgeStyle].
type EdgeStylePatch struct {
	Stroke *string `json:"stroke,omitempty"`
}

// Apply merges the patch into s and returns the result.
func (p EdgeStylePatch) Apply(s EdgeStyle, policy MergePolicy) EdgeStyle {
	merge(&s.Stroke, p.Stroke, policy)
	return s
}
