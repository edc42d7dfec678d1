package parser

import (
	"strings"

	"hidl/internal/ast"
	"hidl/internal/diag"
	"hidl/internal/fqname"
	"hidl/internal/source"
	"hidl/internal/token"
)

// nameRef: разобранное имя в одной из форм:
// "a.b@1.0", "a.b@1.0::T.U", "@1.0::T", "T.U".
type nameRef struct {
	pkg     string
	version fqname.Version
	hasVer  bool
	local   string
	span    source.Span
}

func (n nameRef) fq() fqname.FQName {
	return fqname.New(n.pkg, n.version, n.local)
}

// parseName разбирает имя; ok=false, если уже выдана диагностика.
func (p *Parser) parseName() (nameRef, bool) {
	var ref nameRef
	start := p.lx.Peek().Span

	var head []string
	if p.at(token.Ident) {
		head = p.parseDotted()
		if head == nil {
			return ref, false
		}
	}

	if p.at(token.At) {
		ref.pkg = strings.Join(head, ".")
		p.advance()
		ver, ok := p.parseVersion()
		if !ok {
			return ref, false
		}
		ref.version, ref.hasVer = ver, true
		if p.at(token.ColonColon) {
			p.advance()
			local := p.parseDotted()
			if local == nil {
				return ref, false
			}
			ref.local = strings.Join(local, ".")
		}
	} else {
		if head == nil {
			p.err(diag.SynExpectIdentifier, "expected name, got "+describe(p.lx.Peek()))
			return ref, false
		}
		ref.local = strings.Join(head, ".")
	}
	ref.span = start.Cover(p.lastSpan)
	return ref, true
}

func (p *Parser) parseDotted() []string {
	var parts []string
	for {
		tok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected identifier")
		if !ok {
			return nil
		}
		parts = append(parts, tok.Text)
		if !p.at(token.Dot) {
			return parts
		}
		p.advance()
	}
}

// parseVersion: IntLit '.' IntLit сразу после '@'.
func (p *Parser) parseVersion() (fqname.Version, bool) {
	major, ok := p.expect(token.IntLit, diag.SynBadName, "expected major version")
	if !ok {
		return fqname.Version{}, false
	}
	if _, ok = p.expect(token.Dot, diag.SynBadName, "expected '.' in version"); !ok {
		return fqname.Version{}, false
	}
	minor, ok := p.expect(token.IntLit, diag.SynBadName, "expected minor version")
	if !ok {
		return fqname.Version{}, false
	}
	ver, err := fqname.ParseVersion(major.Text + "." + minor.Text)
	if err != nil {
		p.report(diag.SynBadName, diag.SevError, major.Span.Cover(minor.Span), err.Error())
		return fqname.Version{}, false
	}
	return ver, true
}

// parsePackage: package a.b.c@1.0;
func (p *Parser) parsePackage() {
	kw := p.advance()
	ref, ok := p.parseName()
	if ok && (ref.pkg == "" || !ref.hasVer || ref.local != "") {
		p.report(diag.SynBadName, diag.SevError, ref.span, "package declaration must be of the form 'package name@major.minor;'")
		ok = false
	}
	if !ok {
		p.resyncTop()
		return
	}
	p.mod.SetPackage(ref.pkg, ref.version, kw.Span.Cover(ref.span))
	p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after package declaration")
}

// parseImport: import a.b@1.0; | import a.b@1.0::IFoo;
func (p *Parser) parseImport() {
	kw := p.advance()
	ref, ok := p.parseName()
	if ok && (ref.pkg == "" || !ref.hasVer) {
		p.report(diag.SynBadName, diag.SevError, ref.span, "import requires a fully-qualified name")
		ok = false
	}
	if !ok {
		p.resyncTop()
		return
	}
	p.mod.AddImport(ast.Import{Name: ref.fq(), Span: kw.Span.Cover(ref.span)})
	p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after import")
}

// qualify дополняет относительное имя пакетом и версией модуля.
func (p *Parser) qualify(ref nameRef) fqname.FQName {
	if ref.pkg == "" {
		ref.pkg = p.mod.Package()
	}
	if !ref.hasVer {
		ref.version = p.mod.Version()
	}
	return ref.fq()
}
