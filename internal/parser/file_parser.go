package parser

import (
	"errors"
	"fmt"
	"io/fs"

	"hidl/internal/ast"
	"hidl/internal/diag"
	"hidl/internal/fsutil"
	"hidl/internal/source"
)

// FileParser loads .hal files into a shared FileSet and parses them.
type FileParser struct {
	Files     *source.FileSet
	Reporter  diag.Reporter
	MaxErrors uint
}

func NewFileParser(files *source.FileSet, reporter diag.Reporter) *FileParser {
	return &FileParser{Files: files, Reporter: reporter}
}

// Parse reads and parses path. Unreadable files wrap fs.ErrNotExist;
// files with syntax errors wrap ErrSyntax and the module is dropped.
func (fp *FileParser) Parse(path string) (*ast.Module, error) {
	if !fsutil.IsReadable(path) {
		return nil, fmt.Errorf("%s: %w", path, fs.ErrNotExist)
	}
	id, err := fp.Files.Load(path)
	if err != nil {
		return nil, err
	}
	res := ParseFile(fp.Files.Get(id), Options{
		MaxErrors: fp.MaxErrors,
		Reporter:  fp.Reporter,
	})
	if res.Errors > 0 {
		return nil, fmt.Errorf("%w: %s: %d error(s)", ErrSyntax, path, res.Errors)
	}
	return res.Module, nil
}

// IsNotFound reports whether err came from a missing or unreadable file.
func IsNotFound(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
