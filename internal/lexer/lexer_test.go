package lexer_test

import (
	"testing"

	"hidl/internal/diag"
	"hidl/internal/lexer"
	"hidl/internal/source"
	"hidl/internal/token"
)

func lex(t *testing.T, src string) ([]token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.hal", []byte(src))
	bag := diag.NewBag(32)
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return lx.All(), bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func expectKinds(t *testing.T, got []token.Token, want ...token.Kind) {
	t.Helper()
	gk := kinds(got)
	if len(gk) != len(want) {
		t.Fatalf("want %d tokens %v, got %d %v", len(want), want, len(gk), gk)
	}
	for i := range want {
		if gk[i] != want[i] {
			t.Fatalf("token %d: want %v, got %v (%q)", i, want[i], gk[i], got[i].Text)
		}
	}
}

func TestPackageDecl(t *testing.T) {
	toks, bag := lex(t, "package android.hardware.nfc@1.0;")
	expectKinds(t, toks,
		token.KwPackage, token.Ident, token.Dot, token.Ident, token.Dot, token.Ident,
		token.At, token.IntLit, token.Dot, token.IntLit, token.Semicolon)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if toks[1].Text != "android" || toks[9].Text != "0" {
		t.Fatalf("unexpected token text %q %q", toks[1].Text, toks[9].Text)
	}
}

func TestImportWithQualifiedName(t *testing.T) {
	toks, _ := lex(t, "import android.hidl.base@1.0::IBase;")
	expectKinds(t, toks,
		token.KwImport, token.Ident, token.Dot, token.Ident, token.Dot, token.Ident,
		token.At, token.IntLit, token.Dot, token.IntLit, token.ColonColon, token.Ident, token.Semicolon)
}

func TestCommentsBecomeTrivia(t *testing.T) {
	src := "// line\n/** doc */\n/* block */ interface"
	toks, bag := lex(t, src)
	expectKinds(t, toks, token.KwInterface)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics")
	}
	doc, ok := toks[0].DocComment()
	if !ok || doc != "/** doc */" {
		t.Fatalf("doc comment not attached: %q", doc)
	}
	var kindsSeen []token.TriviaKind
	for _, tr := range toks[0].Leading {
		kindsSeen = append(kindsSeen, tr.Kind)
	}
	want := []token.TriviaKind{
		token.TriviaLineComment, token.TriviaNewline, token.TriviaDocBlock,
		token.TriviaNewline, token.TriviaBlockComment, token.TriviaSpace,
	}
	if len(kindsSeen) != len(want) {
		t.Fatalf("trivia: want %v, got %v", want, kindsSeen)
	}
	for i := range want {
		if kindsSeen[i] != want[i] {
			t.Fatalf("trivia %d: want %v, got %v", i, want[i], kindsSeen[i])
		}
	}
}

func TestEnumBodyOperators(t *testing.T) {
	toks, bag := lex(t, "enum E : uint32_t { A = 1 << 2, B = 0xFFu | A };")
	expectKinds(t, toks,
		token.KwEnum, token.Ident, token.Colon, token.Ident, token.LBrace,
		token.Ident, token.Assign, token.IntLit, token.Op, token.IntLit, token.Comma,
		token.Ident, token.Assign, token.IntLit, token.Op, token.Ident,
		token.RBrace, token.Semicolon)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics")
	}
	if toks[13].Text != "0xFFu" {
		t.Fatalf("hex literal text %q", toks[13].Text)
	}
}

func TestGenericTypeTokens(t *testing.T) {
	toks, _ := lex(t, "vec<uint8_t> data;")
	expectKinds(t, toks, token.Ident, token.Lt, token.Ident, token.Gt, token.Ident, token.Semicolon)
}

func TestUnterminatedBlockComment(t *testing.T) {
	toks, bag := lex(t, "struct /* never closed")
	expectKinds(t, toks, token.KwStruct)
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexUnterminatedBlockComment {
		t.Fatalf("expected unterminated comment diagnostic, got %v", bag.Items())
	}
}

func TestUnterminatedString(t *testing.T) {
	toks, bag := lex(t, "@entry(\"abc\n)")
	if len(toks) < 4 || toks[3].Kind != token.Invalid {
		t.Fatalf("expected invalid string token, got %v", kinds(toks))
	}
	if !bag.HasErrors() || bag.Items()[0].Code != diag.LexUnterminatedString {
		t.Fatalf("expected unterminated string diagnostic")
	}
}

func TestUnknownCharacter(t *testing.T) {
	toks, bag := lex(t, "a $ b é")
	expectKinds(t, toks, token.Ident, token.Invalid, token.Ident, token.Invalid)
	if bag.Len() != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", bag.Len())
	}
	if toks[3].Text != "é" {
		t.Fatalf("multibyte rune should be one token, got %q", toks[3].Text)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("p.hal", []byte("struct S"))
	lx := lexer.New(fs.Get(id), lexer.Options{})
	if lx.Peek().Kind != token.KwStruct || lx.Next().Kind != token.KwStruct {
		t.Fatal("peek/next mismatch")
	}
	if lx.Next().Kind != token.Ident || lx.Next().Kind != token.EOF || lx.Next().Kind != token.EOF {
		t.Fatal("expected ident then sticky EOF")
	}
}
