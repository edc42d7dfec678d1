package parser

import (
	"errors"

	"hidl/internal/ast"
	"hidl/internal/diag"
	"hidl/internal/token"
)

var declKinds = map[token.Kind]ast.TypeKind{
	token.KwInterface: ast.TypeInterface,
	token.KwStruct:    ast.TypeStruct,
	token.KwUnion:     ast.TypeUnion,
	token.KwSafeUnion: ast.TypeSafeUnion,
	token.KwEnum:      ast.TypeEnum,
	token.KwTypedef:   ast.TypeTypedef,
}

// parseDecl разбирает одно объявление типа внутри parent.
func (p *Parser) parseDecl(parent ast.TypeID) {
	kw := p.advance()
	kind := declKinds[kw.Kind]

	if kind == ast.TypeTypedef {
		p.parseTypedef(parent, kw)
		return
	}

	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected "+kind.String()+" name")
	if !ok {
		p.resyncTop()
		return
	}
	decl := ast.Type{Kind: kind, Name: nameTok.Text, Span: kw.Span.Cover(nameTok.Span)}

	switch kind {
	case ast.TypeInterface:
		if p.at(token.KwExtends) {
			p.advance()
			ref, ok := p.parseName()
			if !ok {
				p.resyncTop()
				return
			}
			decl.Extends, decl.HasExtends = p.qualify(ref), true
		}
	case ast.TypeEnum:
		if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken, "enum requires a storage type"); ok {
			decl.Underlying = joinTokens(p.skipBalanced(token.LBrace, token.Semicolon))
		}
	}

	id := p.declare(parent, decl)

	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'"); !ok {
		p.resyncTop()
		return
	}
	if kind == ast.TypeEnum || !id.IsValid() {
		p.skipBalanced(token.RBrace)
	} else {
		p.parseBody(id)
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close "+nameTok.Text); !ok {
		return
	}
	if id.IsValid() {
		t := p.mod.Type(id)
		t.Span = t.Span.Cover(p.lastSpan)
	}
	p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after declaration of "+nameTok.Text)
}

// parseBody: вложенные объявления разбираются, поля и методы пропускаются.
func (p *Parser) parseBody(owner ast.TypeID) {
	for !p.atOr(token.RBrace, token.EOF) && !p.opts.Enough() {
		p.skipAnnotations()
		tok := p.lx.Peek()
		if tok.IsDeclStart() {
			p.parseDecl(owner)
			continue
		}
		if tok.Kind == token.RBrace {
			return
		}
		member := p.skipBalanced(token.Semicolon, token.RBrace)
		if len(member) == 0 && !p.at(token.Semicolon) {
			return
		}
		p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after member")
	}
}

// parseTypedef: typedef <type> Name;
func (p *Parser) parseTypedef(parent ast.TypeID, kw token.Token) {
	toks := p.skipBalanced(token.Semicolon, token.RBrace)
	if len(toks) < 2 || toks[len(toks)-1].Kind != token.Ident {
		p.report(diag.SynExpectIdentifier, diag.SevError, kw.Span.Cover(p.lastSpan), "typedef requires a type and a name")
		if p.at(token.Semicolon) {
			p.advance()
		}
		return
	}
	name := toks[len(toks)-1]
	p.declare(parent, ast.Type{
		Kind:       ast.TypeTypedef,
		Name:       name.Text,
		Underlying: joinTokens(toks[:len(toks)-1]),
		Span:       kw.Span.Cover(name.Span),
	})
	p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after typedef")
}

func (p *Parser) declare(parent ast.TypeID, decl ast.Type) ast.TypeID {
	id, err := p.mod.Declare(parent, decl)
	if err == nil {
		return id
	}
	code := diag.SynUnexpectedToken
	switch {
	case errors.Is(err, ast.ErrDuplicateInterface):
		code = diag.SynDuplicateInterface
	case errors.Is(err, ast.ErrNestedInterface):
		code = diag.SynNestedInterface
	case errors.Is(err, ast.ErrDuplicateDecl):
		code = diag.SynDuplicateDecl
	}
	p.report(code, diag.SevError, decl.Span, err.Error())
	return ast.NoTypeID
}
