package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // ограничение для тестового корпуса
)

var inlineSeeds = []string{
	"",
	"package a.b@1.0;\n",
	"package a.b@1.0;\ninterface IA {};\n",
	"package a.b@1.0;\nimport a.b@1.0::IB;\nimport a.c@2.1;\ninterface IA extends a.b@1.0::IB { struct S { int32_t x; }; };\n",
	"package a.b@1.0;\nenum E : uint8_t { A = 1 << 2, B = A | 1, };\ntypedef vec<E> Es;\n",
	"package a.b@1.0;\n@entry @exit(x=\"y\") interface IA { f() generates (vec<string> s); };\n",
	"/* unterminated",
	"package a.b@1.0; interface IA { struct S { union U { }; }; }; interface IB {};",
	"package @1.0;\nimport ::;\n",
	"package a.b@1.0;\nstruct S { struct S { }; };\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range inlineSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// все *.hal файлы из testdata
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".hal" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) > maxSeedBytes {
		src = src[:maxSeedBytes]
	}
	return append([]byte(nil), src...)
}
