package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedBlockComment Code = 1002
	LexUnterminatedString       Code = 1003

	// Синтаксис .hal
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynExpectSemicolon    Code = 2002
	SynExpectIdentifier   Code = 2003
	SynMissingPackage     Code = 2004
	SynBadName            Code = 2005
	SynDuplicateInterface Code = 2006
	SynDuplicateDecl      Code = 2007
	SynUnclosedBrace      Code = 2008
	SynNestedInterface    Code = 2009

	// Разрешение модулей
	ResInfo                  Code = 3000
	ResPackageMismatch       Code = 3001
	ResUnexpectedInterface   Code = 3002
	ResInterfaceNameMismatch Code = 3003
	ResExpectedInterface     Code = 3004
	ResCircularImport        Code = 3005
	ResImportFailed          Code = 3006
	ResNoPackageRoot         Code = 3007
	ResMalformedName         Code = 3008
	ResFileNotFound          Code = 3009
	ResTypeNotFound          Code = 3010
	ResParseFailed           Code = 3011

	// Ошибки проекта / DAG
	ProjInfo             Code = 4000
	ProjConfig           Code = 4001
	ProjImportCycle      Code = 4002
	ProjMissingModule    Code = 4003
	ProjSelfImport       Code = 4004
	ProjDuplicateModule  Code = 4005
	ProjDependencyFailed Code = 4006
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexUnterminatedString:       "Unterminated string",

	SynInfo:               "Syntax information",
	SynUnexpectedToken:    "Unexpected token",
	SynExpectSemicolon:    "Expected ';'",
	SynExpectIdentifier:   "Expected identifier",
	SynMissingPackage:     "Missing package declaration",
	SynBadName:            "Malformed fully-qualified name",
	SynDuplicateInterface: "More than one interface in a file",
	SynDuplicateDecl:      "Duplicate declaration",
	SynUnclosedBrace:      "Unclosed brace",
	SynNestedInterface:    "Interface declared inside another declaration",

	ResInfo:                  "Resolution information",
	ResPackageMismatch:       "File does not match expected package or version",
	ResUnexpectedInterface:   "types module declares an interface",
	ResInterfaceNameMismatch: "File does not declare the expected interface",
	ResExpectedInterface:     "File declares only types where an interface was expected",
	ResCircularImport:        "Circular import",
	ResImportFailed:          "Import could not be resolved",
	ResNoPackageRoot:         "No package root matches",
	ResMalformedName:         "Name cannot be mapped to a path",
	ResFileNotFound:          "Source file not found",
	ResTypeNotFound:          "Type not found",

	ProjInfo:             "Project information",
	ProjConfig:           "Invalid project configuration",
	ProjImportCycle:      "Import cycle",
	ProjMissingModule:    "Missing module",
	ProjSelfImport:       "Module imports itself",
	ProjDuplicateModule:  "Duplicate module",
	ProjDependencyFailed: "Dependency has errors",
}

// ID returns the stable textual identifier, e.g. "RES3001".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("RES%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return fmt.Sprintf("E%04d", int(c))
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
