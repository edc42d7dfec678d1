package parser

import (
	"hidl/internal/diag"
	"hidl/internal/source"
	"hidl/internal/token"
)

// countingReporter пропускает диагностики лексера через лимит парсера.
type countingReporter struct {
	opts *Options
}

func (r countingReporter) Report(code diag.Code, sev diag.Severity, sp source.Span, msg string, notes []diag.Note) {
	if sev == diag.SevError {
		r.opts.CurrentErrors++
	}
	if r.opts.Reporter == nil {
		return
	}
	// ошибка сверх лимита уже посчитана, но не выводится
	if sev != diag.SevError || r.opts.MaxErrors == 0 || r.opts.CurrentErrors <= r.opts.MaxErrors {
		r.opts.Reporter.Report(code, sev, sp, msg, notes)
	}
}

// advance: съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF && tok.Kind != token.Invalid {
		p.lastSpan = tok.Span
	}
	return tok
}

// diagSpan: для EOF указываем сразу за последним токеном
func (p *Parser) diagSpan() source.Span {
	peek := p.lx.Peek()
	if peek.Kind == token.EOF {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

// expect: ожидаем конкретный токен. Если нет, репортим и возвращаем false.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	sp := p.diagSpan()
	p.report(code, diag.SevError, sp, msg+", got "+describe(p.lx.Peek()))
	return token.Token{Kind: token.Invalid, Span: sp}, false
}

func (p *Parser) err(code diag.Code, msg string) {
	p.report(code, diag.SevError, p.diagSpan(), msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) {
	countingReporter{opts: &p.opts}.Report(code, sev, sp, msg, nil)
}

// resyncUntil прокручивает токены до одного из stop (не съедая его) или EOF.
func (p *Parser) resyncUntil(stop ...token.Kind) {
	for !p.at(token.EOF) && !p.atOr(stop...) {
		p.advance()
	}
}

// skipBalanced съедает токены до terminator на нулевой глубине скобок.
// Терминатор не съедается. Возвращает съеденные токены.
func (p *Parser) skipBalanced(terminators ...token.Kind) []token.Token {
	var out []token.Token
	depth := 0
	for !p.at(token.EOF) {
		if depth == 0 && p.atOr(terminators...) {
			break
		}
		tok := p.advance()
		switch tok.Kind {
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket, token.RBrace:
			if depth == 0 {
				return out
			}
			depth--
		}
		out = append(out, tok)
	}
	return out
}

// skipAnnotations пропускает @name и @name(...) перед объявлениями.
func (p *Parser) skipAnnotations() {
	for p.at(token.At) {
		p.advance()
		p.expect(token.Ident, diag.SynExpectIdentifier, "expected annotation name")
		if p.at(token.LParen) {
			p.advance()
			p.skipBalanced(token.RParen)
			p.expect(token.RParen, diag.SynUnexpectedToken, "expected ')' after annotation arguments")
		}
	}
}

func joinTokens(toks []token.Token) string {
	n := 0
	for _, t := range toks {
		n += len(t.Text)
	}
	buf := make([]byte, 0, n+len(toks))
	for i, t := range toks {
		// пробел только между двумя словами: "unsigned int", но "vec<uint8_t>"
		if i > 0 && isWord(toks[i-1]) && isWord(t) {
			buf = append(buf, ' ')
		}
		buf = append(buf, t.Text...)
	}
	return string(buf)
}

func isWord(t token.Token) bool {
	return t.Kind == token.Ident || t.Kind == token.IntLit || t.IsKeyword()
}
