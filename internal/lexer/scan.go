package lexer

import (
	"fmt"
	"unicode/utf8"

	"hidl/internal/diag"
	"hidl/internal/token"
)

// scanIdentOrKeyword сканирует [A-Za-z_][A-Za-z0-9_]* и проверяет LookupKeyword.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	tok := lx.emit(token.Ident, start)
	if k, ok := token.LookupKeyword(tok.Text); ok {
		tok.Kind = k
	}
	return tok
}

// scanNumber: десятичные и 0x-литералы с необязательными суффиксами (u, l, ull).
// Точка не входит в литерал: "1.0" в версии это IntLit Dot IntLit.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '0' && (b1 == 'x' || b1 == 'X') {
		lx.cursor.Bump()
		lx.cursor.Bump()
		for isHex(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	} else {
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	for isIntSuffix(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	return lx.emit(token.IntLit, start)
}

func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case '"':
			lx.cursor.Bump()
			return lx.emit(token.StringLit, start)
		case '\\':
			lx.cursor.Bump()
			lx.cursor.Bump()
		case '\n':
			tok := lx.emit(token.Invalid, start)
			lx.errLex(diag.LexUnterminatedString, tok.Span, "newline in string literal")
			return tok
		default:
			lx.cursor.Bump()
		}
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnterminatedString, tok.Span, "unterminated string literal")
	return tok
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == ':' && b1 == ':' {
		lx.cursor.Bump()
		lx.cursor.Bump()
		return lx.emit(token.ColonColon, start)
	}

	b := lx.cursor.Bump()
	switch b {
	case ';':
		return lx.emit(token.Semicolon, start)
	case ':':
		return lx.emit(token.Colon, start)
	case ',':
		return lx.emit(token.Comma, start)
	case '.':
		return lx.emit(token.Dot, start)
	case '@':
		return lx.emit(token.At, start)
	case '{':
		return lx.emit(token.LBrace, start)
	case '}':
		return lx.emit(token.RBrace, start)
	case '(':
		return lx.emit(token.LParen, start)
	case ')':
		return lx.emit(token.RParen, start)
	case '[':
		return lx.emit(token.LBracket, start)
	case ']':
		return lx.emit(token.RBracket, start)
	case '<':
		if lx.cursor.Eat('<') || lx.cursor.Eat('=') {
			return lx.emit(token.Op, start)
		}
		return lx.emit(token.Lt, start)
	case '>':
		if lx.cursor.Eat('>') || lx.cursor.Eat('=') {
			return lx.emit(token.Op, start)
		}
		return lx.emit(token.Gt, start)
	case '=':
		if lx.cursor.Eat('=') {
			return lx.emit(token.Op, start)
		}
		return lx.emit(token.Assign, start)
	case '&', '|':
		lx.cursor.Eat(b)
		return lx.emit(token.Op, start)
	case '!':
		lx.cursor.Eat('=')
		return lx.emit(token.Op, start)
	case '+', '-', '*', '/', '%', '^', '~', '?':
		return lx.emit(token.Op, start)
	}

	r := rune(b)
	if b >= utf8.RuneSelf {
		var size int
		r, size = utf8.DecodeRune(lx.file.Content[start:])
		lx.cursor.Reset(start + Mark(max(size, 1)))
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnknownChar, tok.Span, fmt.Sprintf("unknown character %q", r))
	return tok
}
