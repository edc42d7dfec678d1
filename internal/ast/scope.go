package ast

// Scope maps local names to declarations in declaration order.
type Scope struct {
	names map[string]TypeID
	order []TypeID
}

func NewScope() *Scope {
	return &Scope{names: make(map[string]TypeID)}
}

// Lookup returns the declaration bound to name in this scope only.
func (s *Scope) Lookup(name string) (TypeID, bool) {
	if s == nil {
		return NoTypeID, false
	}
	id, ok := s.names[name]
	return id, ok
}

// IDs returns declarations in declaration order. Read-only.
func (s *Scope) IDs() []TypeID {
	if s == nil {
		return nil
	}
	return s.order
}

func (s *Scope) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

func (s *Scope) bind(name string, id TypeID) bool {
	if _, exists := s.names[name]; exists {
		return false
	}
	s.names[name] = id
	s.order = append(s.order, id)
	return true
}
