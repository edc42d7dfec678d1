package diag

import (
	"strings"
	"testing"
)

func TestParseCode(t *testing.T) {
	cases := map[string]Code{
		"RES3001":  ResPackageMismatch,
		"res3005":  ResCircularImport,
		" 4002 ":   ProjImportCycle,
		"SYN2004":  SynMissingPackage,
		"LEX1001":  LexUnknownChar,
		"PRJ4001":  ProjConfig,
		"RES2004":  UnknownCode,
		"RES9999":  UnknownCode,
		"0":        UnknownCode,
		"RESXXXX":  UnknownCode,
		"":         UnknownCode,
		"3001-bad": UnknownCode,
	}
	for in, want := range cases {
		got, ok := ParseCode(in)
		if ok != (want != UnknownCode) || got != want {
			t.Errorf("ParseCode(%q) = %v, %v; want %v", in, got.ID(), ok, want.ID())
		}
	}
}

func TestExplain(t *testing.T) {
	md := ResPackageMismatch.Explain()
	if !strings.HasPrefix(md, "# RES3001: File does not match expected package or version\n\n") {
		t.Fatalf("unexpected heading:\n%s", md)
	}
	if !strings.Contains(md, "nfc/1.0/INfc.hal") {
		t.Fatalf("missing example path:\n%s", md)
	}
	if got := LexUnterminatedString.Explain(); got != "# LEX1003: Unterminated string\n\nUnterminated string.\n" {
		t.Fatalf("fallback = %q", got)
	}
}

func TestCodesSortedAndDescribed(t *testing.T) {
	codes := Codes()
	if len(codes) == 0 || codes[0] != LexInfo {
		t.Fatalf("unexpected codes: %v", codes)
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Fatalf("codes not sorted at %d", i)
		}
	}
	for c := range codeHelp {
		if _, ok := codeDescription[c]; !ok {
			t.Errorf("help for undescribed code %d", c)
		}
	}
}
