package ast

import "sync/atomic"

type handleState struct {
	refs  atomic.Int32
	owner atomic.Pointer[Module]
	id    TypeID
}

// TypeHandle is a shared reference to a Type owned by a Module.
// Clone adds a reference, Release drops one; after the last Release the
// handle no longer points at the type.
type TypeHandle struct {
	state    *handleState
	released atomic.Bool
}

func newTypeHandle(owner *Module, id TypeID) *TypeHandle {
	st := &handleState{id: id}
	st.refs.Store(1)
	st.owner.Store(owner)
	return &TypeHandle{state: st}
}

// Type returns the referenced type or nil once all references are gone.
func (h *TypeHandle) Type() *Type {
	if h == nil || h.released.Load() {
		return nil
	}
	owner := h.state.owner.Load()
	if owner == nil {
		return nil
	}
	return owner.Type(h.state.id)
}

// ID returns the declaration index inside the owning module.
func (h *TypeHandle) ID() TypeID {
	if h == nil {
		return NoTypeID
	}
	return h.state.id
}

// Clone returns a new handle sharing the same type and count.
func (h *TypeHandle) Clone() *TypeHandle {
	if h == nil {
		return nil
	}
	h.state.refs.Add(1)
	return &TypeHandle{state: h.state}
}

// Release drops this handle's reference. Releasing twice is a no-op.
func (h *TypeHandle) Release() {
	if h == nil || !h.released.CompareAndSwap(false, true) {
		return
	}
	if h.state.refs.Add(-1) == 0 {
		h.state.owner.Store(nil)
	}
}

// RefCount reports the number of live handles sharing the type.
func (h *TypeHandle) RefCount() int {
	if h == nil {
		return 0
	}
	return int(h.state.refs.Load())
}

// SameType reports whether both handles share one underlying type.
func (h *TypeHandle) SameType(other *TypeHandle) bool {
	if h == nil || other == nil {
		return false
	}
	return h.state == other.state
}
