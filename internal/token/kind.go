package token

// Kind represents the category of a source token.
type Kind uint8

const (
	Invalid Kind = iota
	EOF

	Ident
	IntLit
	StringLit

	// ключевые слова
	KwPackage
	KwImport
	KwInterface
	KwExtends
	KwStruct
	KwUnion
	KwSafeUnion
	KwEnum
	KwTypedef
	KwGenerates
	KwOneway

	// пунктуация
	Semicolon  // ;
	Colon      // :
	ColonColon // ::
	Comma      // ,
	Dot        // .
	At         // @
	LBrace     // {
	RBrace     // }
	LParen     // (
	RParen     // )
	LBracket   // [
	RBracket   // ]
	Lt         // <
	Gt         // >
	Assign     // =
	// Op covers arithmetic and bitwise operators in constant expressions.
	Op
)

var kindNames = [...]string{
	Invalid:     "Invalid",
	EOF:         "EOF",
	Ident:       "Ident",
	IntLit:      "IntLit",
	StringLit:   "StringLit",
	KwPackage:   "package",
	KwImport:    "import",
	KwInterface: "interface",
	KwExtends:   "extends",
	KwStruct:    "struct",
	KwUnion:     "union",
	KwSafeUnion: "safe_union",
	KwEnum:      "enum",
	KwTypedef:   "typedef",
	KwGenerates: "generates",
	KwOneway:    "oneway",
	Semicolon:   "';'",
	Colon:       "':'",
	ColonColon:  "'::'",
	Comma:       "','",
	Dot:         "'.'",
	At:          "'@'",
	LBrace:      "'{'",
	RBrace:      "'}'",
	LParen:      "'('",
	RParen:      "')'",
	LBracket:    "'['",
	RBracket:    "']'",
	Lt:          "'<'",
	Gt:          "'>'",
	Assign:      "'='",
	Op:          "operator",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}
