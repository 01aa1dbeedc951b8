package cosmic

import "slices"

// SelectAxis picks the canonical principal axis of an object.
//
// The axis producer emits the preferred axis first, so when an object has
// two axes they are put in ascending id order and the first one wins. ordered
// is that (possibly reversed) copy of axes, which the emitter associates with
// the tag. ok is false when the object has no axis and must not be tagged.
func SelectAxis(axes []PrincipalAxis) (canonical PrincipalAxis, ordered []PrincipalAxis, ok bool) {
	if len(axes) == 0 {
		return PrincipalAxis{}, nil, false
	}
	ordered = slices.Clone(axes)
	if len(ordered) > 1 && ordered[0].ID > ordered[len(ordered)-1].ID {
		slices.Reverse(ordered)
	}
	return ordered[0], ordered, true
}
