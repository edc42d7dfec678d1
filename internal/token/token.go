package token

import (
	"hidl/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwPackage && t.Kind <= KwOneway
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsDeclStart reports whether the token opens a type declaration.
func (t Token) IsDeclStart() bool {
	switch t.Kind {
	case KwInterface, KwStruct, KwUnion, KwSafeUnion, KwEnum, KwTypedef:
		return true
	}
	return false
}

// DocComment returns the last /** ... */ block in leading trivia, if any.
func (t Token) DocComment() (string, bool) {
	for i := len(t.Leading) - 1; i >= 0; i-- {
		if t.Leading[i].Kind == TriviaDocBlock {
			return t.Leading[i].Text, true
		}
	}
	return "", false
}
