package parser

import (
	"errors"
	"slices"

	"hidl/internal/ast"
	"hidl/internal/diag"
	"hidl/internal/lexer"
	"hidl/internal/source"
	"hidl/internal/token"
)

// ErrSyntax is returned by FileParser when a file produced error diagnostics.
var ErrSyntax = errors.New("syntax error")

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	Module *ast.Module
	Errors uint
}

// Parser: состояние парсера на один файл
type Parser struct {
	lx       *lexer.Lexer
	mod      *ast.Module
	opts     Options
	lastSpan source.Span // span последнего съеденного токена
	decls    bool        // встречены ли уже объявления типов
}

// ParseFile разбирает один .hal файл в ast.Module. Модуль возвращается
// всегда, даже частично построенный; Result.Errors считает ошибки.
func ParseFile(file *source.File, opts Options) Result {
	p := &Parser{
		mod:      ast.NewModule(file.Path, file.ID),
		opts:     opts,
		lastSpan: source.FileStart(file.ID),
	}
	// лексер и парсер делят один счётчик ошибок
	p.lx = lexer.New(file, lexer.Options{Reporter: countingReporter{opts: &p.opts}})

	p.parseFile()
	p.mod.Span = source.FileStart(file.ID).Cover(p.lx.Peek().Span)
	return Result{Module: p.mod, Errors: p.opts.CurrentErrors}
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

func (p *Parser) parseFile() {
	p.skipAnnotations()
	if !p.at(token.KwPackage) {
		p.err(diag.SynMissingPackage, "expected 'package' declaration")
	} else {
		p.parsePackage()
	}

	for !p.at(token.EOF) && !p.opts.Enough() {
		p.skipAnnotations()
		tok := p.lx.Peek()
		switch {
		case tok.Kind == token.KwImport:
			if p.decls {
				p.err(diag.SynUnexpectedToken, "imports must precede type declarations")
			}
			p.parseImport()
		case tok.Kind == token.KwPackage:
			p.err(diag.SynUnexpectedToken, "duplicate 'package' declaration")
			p.resyncTop()
		case tok.IsDeclStart():
			p.decls = true
			p.parseDecl(ast.NoTypeID)
		case tok.Kind == token.EOF:
		default:
			p.err(diag.SynUnexpectedToken, "unexpected "+describe(tok)+" at top level")
			p.advance()
			p.resyncTop()
		}
	}
}

// resyncTop: восстановление после ошибки на верхнем уровне:
// прокручиваем до ';' или стартового токена следующей конструкции.
func (p *Parser) resyncTop() {
	p.resyncUntil(token.Semicolon, token.KwImport, token.KwInterface, token.KwStruct,
		token.KwUnion, token.KwSafeUnion, token.KwEnum, token.KwTypedef)
	if p.at(token.Semicolon) {
		p.advance()
	}
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.Ident, token.IntLit, token.StringLit, token.Op, token.Invalid:
		return "\"" + tok.Text + "\""
	}
	return tok.Kind.String()
}
