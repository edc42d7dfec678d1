package token

var keywords = map[string]Kind{
	"package":    KwPackage,
	"import":     KwImport,
	"interface":  KwInterface,
	"extends":    KwExtends,
	"struct":     KwStruct,
	"union":      KwUnion,
	"safe_union": KwSafeUnion,
	"enum":       KwEnum,
	"typedef":    KwTypedef,
	"generates":  KwGenerates,
	"oneway":     KwOneway,
}

// LookupKeyword reports the keyword kind for an identifier (case-sensitive).
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
