package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"hidl/internal/diag"
	"hidl/internal/source"
)

const mismatchSrc = "// header\npackage android.hardware.other@1.0;\ninterface IBar {};\n"

func mismatchBag(fs *source.FileSet, path string) *diag.Bag {
	fileID := fs.AddVirtual(path, []byte(mismatchSrc))
	bag := diag.NewBag(10)
	// "android.hardware.other@1.0" во второй строке
	start := uint32(len("// header\npackage "))
	d := diag.New(
		diag.SevError,
		diag.ResPackageMismatch,
		source.Span{File: fileID, Start: start, End: start + uint32(len("android.hardware.other@1.0"))},
		"file declares package android.hardware.other@1.0, expected android.hardware.bar@1.0",
	)
	bag.Add(d)
	return bag
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/home/user/aosp")
	bag := mismatchBag(fs, "/home/user/aosp/hardware/interfaces/bar/1.0/IBar.hal")

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/aosp/hardware/interfaces/bar/1.0/IBar.hal:2:9"},
		{"Relative path", PathModeRelative, "hardware/interfaces/bar/1.0/IBar.hal:2:9"},
		{"Basename only", PathModeBasename, "IBar.hal:2:9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: tt.mode})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "ERROR RES3001") {
				t.Errorf("Expected severity and code, got:\n%s", output)
			}
		})
	}
}

func TestPrettySnippetAndCaret(t *testing.T) {
	fs := source.NewFileSet()
	bag := mismatchBag(fs, "IBar.hal")

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: PathModeBasename})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("want header, two context lines and caret line, got:\n%s", buf.String())
	}
	if !strings.Contains(lines[1], "1 | // header") || !strings.Contains(lines[2], "2 | package android.hardware.other@1.0;") {
		t.Fatalf("unexpected context lines:\n%s", buf.String())
	}
	caretAt := strings.Index(lines[3], "^")
	wordAt := strings.Index(lines[2], "android")
	if caretAt != wordAt {
		t.Fatalf("caret at column %d, token at %d:\n%s", caretAt, wordAt, buf.String())
	}
	if !strings.HasSuffix(lines[3], "^"+strings.Repeat("~", len("android.hardware.other@1.0")-1)) {
		t.Fatalf("underline must cover the span:\n%s", lines[3])
	}
}

func TestPrettyWideRunes(t *testing.T) {
	fs := source.NewFileSet()
	src := "// 日本\nstruct S {};\n"
	id := fs.AddVirtual("w.hal", []byte(src))
	bag := diag.NewBag(1)
	// подчёркиваем "日本"
	bag.Add(diag.New(diag.SevWarning, diag.LexUnknownChar, source.Span{File: id, Start: 3, End: 9}, "wide"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	if !strings.Contains(buf.String(), "   ^~~~") {
		t.Fatalf("two wide runes occupy four cells:\n%s", buf.String())
	}
}

func TestPrettyWithoutLocationAndNotes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("IFoo.hal", []byte("package a.b@1.0;\nimport a.b@1.0::IMissing;\n"))
	bag := diag.NewBag(4)
	bag.Add(diag.New(diag.SevError, diag.ResNoPackageRoot, source.NoSpan, "no package root matches vendor.acme"))
	bag.Add(diag.New(diag.SevError, diag.ResImportFailed, source.Span{File: id, Start: 24, End: 42}, "cannot import a.b@1.0::IMissing").
		WithNote(source.NoSpan, "a.b@1.0::IMissing: parse failed"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{ShowNotes: true})
	out := buf.String()
	if !strings.Contains(out, "hidl: ERROR RES3007: no package root matches vendor.acme") {
		t.Errorf("location-less diagnostic must use the tool prefix:\n%s", out)
	}
	if !strings.Contains(out, "  note: a.b@1.0::IMissing: parse failed") {
		t.Errorf("expected note line:\n%s", out)
	}
}

func TestPrettyColor(t *testing.T) {
	fs := source.NewFileSet()
	bag := mismatchBag(fs, "IBar.hal")

	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{})
	Pretty(&colored, bag, fs, PrettyOpts{Color: true})
	if strings.Contains(plain.String(), "\x1b[") {
		t.Fatalf("plain output must not contain escapes:\n%q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Fatalf("colored output must contain escapes:\n%q", colored.String())
	}
}

func TestPrettyGolden(t *testing.T) {
	fs := source.NewFileSet()
	bag := mismatchBag(fs, "IBar.hal")
	ifaceAt := uint32(len("// header\npackage android.hardware.other@1.0;\ninterface "))
	first := bag.Items()[0]
	bag = diag.NewBag(10)
	bag.Add(first.WithNote(
		source.Span{File: first.Primary.File, Start: ifaceAt, End: ifaceAt + 4},
		"interface IBar is declared here",
	))
	bag.Add(diag.New(diag.SevWarning, diag.ProjConfig, source.NoSpan,
		"package root vendor.acme: directory /nonexistent does not exist"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: PathModeBasename, ShowNotes: true})
	goldie.New(t).Assert(t, "pretty_notes", buf.Bytes())
}
