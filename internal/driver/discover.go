package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"hidl/internal/fqname"
	"hidl/internal/project"
	"hidl/internal/trace"
)

// listHALFiles возвращает отсортированный список всех *.hal файлов под dir.
// Отсутствующий каталог корня даёт пустой список.
func listHALFiles(ctx context.Context, dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if !d.IsDir() && strings.HasSuffix(path, project.Ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

// Discover walks every package root in parallel and maps each .hal file back
// to the module name that would resolve to it. Files that do not follow the
// <root>/<package dirs>/<major.minor>/<Name>.hal layout are skipped. The
// result is sorted and free of duplicates.
func Discover(ctx context.Context, roots *project.Roots, jobs int) ([]fqname.FQName, error) {
	entries := roots.Entries()
	if len(entries) == 0 {
		return nil, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx).SpanID

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	var (
		mu    sync.Mutex
		names = make(map[fqname.FQName]struct{})
	)
	for _, e := range entries {
		g.Go(func() error {
			span := trace.Begin(tracer, trace.ScopeModule, "walk", parent).WithExtra("root", e.Prefix)
			files, err := listHALFiles(gctx, e.Path)
			if err != nil {
				span.End(err.Error())
				return err
			}
			local := make([]fqname.FQName, 0, len(files))
			for _, path := range files {
				name, err := project.NameForPath(e, path)
				if err != nil {
					continue
				}
				// файл мог попасть под чужой корень: путь должен совпасть
				// с тем, что построит Resolve
				if owner, ferr := roots.Find(name); ferr != nil || owner != e {
					continue
				}
				local = append(local, name)
			}
			span.End(fmt.Sprintf("%d module(s) in %d file(s)", len(local), len(files)))
			mu.Lock()
			for _, n := range local {
				names[n] = struct{}{}
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]fqname.FQName, 0, len(names))
	for n := range names {
		out = append(out, n)
	}
	slices.SortFunc(out, fqname.Compare)
	return out, nil
}
