package ast

// TypeID indexes a declaration inside its Module (1-based, 0 means none).
type TypeID uint32

const NoTypeID TypeID = 0

func (id TypeID) IsValid() bool { return id != NoTypeID }
