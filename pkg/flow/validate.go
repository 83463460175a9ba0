package flow

import (
	fgerrors "github.com/matzehuels/flowgraph/pkg/errors"
)

// Validate checks the fields a user can type. Under SkipEmpty an empty label
// is skipped rather than applied, so it is not an error.
func (p VertexDataPatch) Validate(policy MergePolicy) error {
	if p.Label != nil && (*p.Label != "" || policy == Overwrite) {
		if err := fgerrors.ValidateLabel(*p.Label); err != nil {
			return err
		}
	}
	if r := p.Radius; r != nil && (*r < 0 || *r != *r) {
		return fgerrors.New(fgerrors.ErrCodeInvalidInput, "radius %v must be a non-negative number", *r)
	}
	return nil
}

// Validate checks that set colors are hex colors. An empty color clears the
// field under Overwrite.
func (p VertexStylePatch) Validate() error {
	return validateColors(p.BackgroundColor, p.Color)
}

// Validate checks the weight range, line type and color.
func (p EdgeDataPatch) Validate() error {
	if p.Weight != nil {
		if err := fgerrors.ValidateWeight(*p.Weight); err != nil {
			return err
		}
	}
	if p.LineType != nil {
		if _, err := ParseLineType(string(*p.LineType)); err != nil {
			return fgerrors.Wrap(fgerrors.ErrCodeInvalidInput, err, "line type")
		}
	}
	return validateColors(p.Color)
}

// Validate checks the stroke color.
func (p EdgeStylePatch) Validate() error {
	return validateColors(p.Stroke)
}

func validateColors(colors ...*string) error {
	for _, c := range colors {
		if c == nil || *c == "" {
			continue
		}
		if err := fgerrors.ValidateColor(*c); err != nil {
			return err
		}
	}
	return nil
}
