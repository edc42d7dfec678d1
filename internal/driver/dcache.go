package driver

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"hidl/internal/ast"
	"hidl/internal/fqname"
	"hidl/internal/fsutil"
	"hidl/internal/project"
	"hidl/internal/source"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит результаты разбора .hal файлов на диске по хешу содержимого.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is the declaration-level content of one parsed file.
// Spans are not cached.
type DiskPayload struct {
	Schema uint16

	HasPackage bool
	Package    string
	Major      uint32
	Minor      uint32

	Imports []string // канонические FQ-имена в порядке исходника
	Types   []DiskType

	ContentHash project.Digest
}

// DiskType mirrors ast.Type; Parent is the 1-based index into Types.
type DiskType struct {
	Kind       uint8
	Name       string
	Parent     uint32
	Extends    string
	Underlying string
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt uses dir as the cache root.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) Dir() string { return c.dir }

func (c *DiskCache) pathFor(key project.Digest) string {
	// Для удобства читаемости/очистки подкаталог "mods".
	return filepath.Join(c.dir, "mods", key.Hex()+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := fsutil.CreatePathForFile(p); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	// после Rename временного файла уже нет, RemovePath это допускает
	defer func() { _ = fsutil.RemovePath(f.Name()) }()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache.
func (c *DiskCache) Get(key project.Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// cacheKey binds the content digest to the payload schema, so a schema bump
// never reads stale entries.
func cacheKey(content []byte) (project.Digest, project.Digest) {
	var schema [2]byte
	binary.BigEndian.PutUint16(schema[:], diskCacheSchemaVersion)
	sum := project.DigestOf(content)
	return project.Combine(sum, project.DigestOf(schema[:])), sum
}

// NewDiskPayload flattens mod.
func NewDiskPayload(mod *ast.Module, content project.Digest) *DiskPayload {
	if mod == nil {
		return nil
	}
	v := mod.Version()
	payload := &DiskPayload{
		Schema:      diskCacheSchemaVersion,
		HasPackage:  mod.HasPackage(),
		Package:     mod.Package(),
		Major:       v.Major,
		Minor:       v.Minor,
		ContentHash: content,
	}
	for _, imp := range mod.Imports() {
		payload.Imports = append(payload.Imports, imp.Name.String())
	}
	for _, t := range mod.Types() {
		dt := DiskType{
			Kind:       uint8(t.Kind),
			Name:       t.Name,
			Parent:     uint32(t.Parent),
			Underlying: t.Underlying,
		}
		if t.HasExtends {
			dt.Extends = t.Extends.String()
		}
		payload.Types = append(payload.Types, dt)
	}
	return payload
}

// Module rebuilds a module for path. Declarations get the same ids they had
// when the payload was written.
func (p *DiskPayload) Module(path string) (*ast.Module, error) {
	if p == nil || p.Schema != diskCacheSchemaVersion {
		return nil, errors.New("disk cache: schema mismatch")
	}
	mod := ast.NewModule(path, source.NoFile)
	if p.HasPackage {
		mod.SetPackage(p.Package, fqname.NewVersion(p.Major, p.Minor), source.NoSpan)
	}
	for _, s := range p.Imports {
		name, err := fqname.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("disk cache: import %q: %w", s, err)
		}
		mod.AddImport(ast.Import{Name: name, Span: source.NoSpan})
	}
	for i, dt := range p.Types {
		t := ast.Type{
			Kind:       ast.TypeKind(dt.Kind),
			Name:       dt.Name,
			Span:       source.NoSpan,
			Underlying: dt.Underlying,
		}
		if dt.Extends != "" {
			ext, err := fqname.Parse(dt.Extends)
			if err != nil {
				return nil, fmt.Errorf("disk cache: extends %q: %w", dt.Extends, err)
			}
			t.Extends, t.HasExtends = ext, true
		}
		id, err := mod.Declare(ast.TypeID(dt.Parent), t)
		if err != nil {
			return nil, fmt.Errorf("disk cache: %w", err)
		}
		if int(id) != i+1 {
			return nil, fmt.Errorf("disk cache: declaration %q out of order", dt.Name)
		}
	}
	return mod, nil
}

// CachingParser answers Parse from a DiskCache when the file content was
// parsed before and delegates to Next otherwise.
type CachingParser struct {
	Next  Parser
	Cache *DiskCache

	hits, misses int
}

func NewCachingParser(next Parser, cache *DiskCache) *CachingParser {
	return &CachingParser{Next: next, Cache: cache}
}

func (p *CachingParser) Parse(path string) (*ast.Module, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		// ошибку чтения оформляет основной парсер
		return p.Next.Parse(path)
	}
	key, sum := cacheKey(content)

	var payload DiskPayload
	if ok, err := p.Cache.Get(key, &payload); err == nil && ok {
		if mod, err := payload.Module(path); err == nil {
			p.hits++
			return mod, nil
		}
	}

	p.misses++
	mod, err := p.Next.Parse(path)
	if err != nil {
		return nil, err
	}
	// кеш только ускоряет разбор, сбой записи не мешает результату
	_ = p.Cache.Put(key, NewDiskPayload(mod, sum))
	return mod, nil
}

// Stats returns cache hits and misses.
func (p *CachingParser) Stats() (hits, misses int) {
	return p.hits, p.misses
}
