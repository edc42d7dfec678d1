package driver

import "hidl/internal/ast"

//go:generate mockgen -source=parser.go -destination=mocks/mock_parser.go -package=mocks

// Parser turns a .hal path into a Module. The Coordinator owns every module
// a Parser returns.
type Parser interface {
	Parse(path string) (*ast.Module, error)
}

// ParserFunc adapts a function to Parser.
type ParserFunc func(path string) (*ast.Module, error)

func (f ParserFunc) Parse(path string) (*ast.Module, error) { return f(path) }
