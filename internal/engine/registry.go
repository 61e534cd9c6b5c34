package engine

import (
	"errors"
	"fmt"

	"github.com/piwi3910/SlotPlan/internal/model"
)

// ErrUnknownBoxType is matched by every error raised for a type tag that is
// not in the registry.
var ErrUnknownBoxType = errors.New("unknown box type")

// UnknownBoxTypeError reports a container whose type tag is not registered.
type UnknownBoxTypeError struct {
	ContainerID string
	Tag         model.TypeTag
}

func (e *UnknownBoxTypeError) Error() string {
	if e.ContainerID == "" {
		return fmt.Sprintf("unknown box type %q", e.Tag)
	}
	return fmt.Sprintf("container %s: unknown box type %q", e.ContainerID, e.Tag)
}

// Is makes errors.Is(err, ErrUnknownBoxType) succeed.
func (e *UnknownBoxTypeError) Is(target error) bool {
	return target == ErrUnknownBoxType
}

// Registry maps type tags to box specs. It is immutable after construction
// and keeps the configured order, which is also the cross-type search order.
type Registry struct {
	order []model.TypeTag
	types map[model.TypeTag]model.BoxType
}

// NewRegistry builds a registry from an ordered box table. Later duplicates of
// a tag are ignored.
func NewRegistry(types []model.BoxType) *Registry {
	r := &Registry{types: make(map[model.TypeTag]model.BoxType, len(types))}
	for _, bt := range types {
		if _, dup := r.types[bt.Tag]; dup {
			continue
		}
		r.types[bt.Tag] = bt
		r.order = append(r.order, bt.Tag)
	}
	return r
}

// Lookup returns the box spec for a tag.
func (r *Registry) Lookup(tag model.TypeTag) (model.BoxSpec, error) {
	bt, ok := r.types[tag]
	if !ok {
		return model.BoxSpec{}, &UnknownBoxTypeError{Tag: tag}
	}
	return bt.Spec, nil
}

// Offset returns the grid center bias of a tag, zero for unknown tags.
func (r *Registry) Offset(tag model.TypeTag) model.Point2D {
	return r.types[tag].Offset
}

// Tags returns the registered tags in priority order.
func (r *Registry) Tags() []model.TypeTag {
	out := make([]model.TypeTag, len(r.order))
	copy(out, r.order)
	return out
}

// FallbackOrder returns every registered tag except own, in priority order.
func (r *Registry) FallbackOrder(own model.TypeTag) []model.TypeTag {
	out := make([]model.TypeTag, 0, len(r.order))
	for _, t := range r.order {
		if t != own {
			out = append(out, t)
		}
	}
	return out
}
