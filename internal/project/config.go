package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// RootSpec is one [[root]] table of hidl.toml.
type RootSpec struct {
	Prefix string `toml:"prefix"`
	Path   string `toml:"path"`
}

// CacheSpec is the [cache] table of hidl.toml.
type CacheSpec struct {
	Disk bool   `toml:"disk"`
	Dir  string `toml:"dir"`
}

// Config is a decoded hidl.toml with root paths made absolute.
type Config struct {
	Path  string     `toml:"-"` // путь к манифесту, "" если конфиг не загружался
	Dir   string     `toml:"-"`
	Roots []RootSpec `toml:"root"`
	Cache CacheSpec  `toml:"cache"`
}

var (
	// ErrRootPrefixMissing indicates a [[root]] entry without prefix.
	ErrRootPrefixMissing = errors.New("missing [[root]].prefix")
	// ErrRootPathMissing indicates a [[root]] entry without path.
	ErrRootPathMissing = errors.New("missing [[root]].path")
	// ErrBadRootFlag indicates a -r value that is not "prefix:path".
	ErrBadRootFlag = errors.New("expected prefix:path")
)

// LoadConfig parses hidl.toml. Relative root paths resolve against the
// manifest directory; roots keep file order.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	cfg.Path = path
	cfg.Dir = filepath.Dir(path)
	for i, r := range cfg.Roots {
		prefix := strings.TrimSpace(r.Prefix)
		if prefix == "" {
			return nil, fmt.Errorf("%s: root #%d: %w", path, i+1, ErrRootPrefixMissing)
		}
		rootPath, err := resolveRootPath(cfg.Dir, r.Path)
		if err != nil {
			return nil, fmt.Errorf("%s: root %q: %w", path, prefix, err)
		}
		cfg.Roots[i] = RootSpec{Prefix: prefix, Path: rootPath}
	}
	if cfg.Cache.Dir != "" {
		dir, err := resolveRootPath(cfg.Dir, cfg.Cache.Dir)
		if err != nil {
			return nil, fmt.Errorf("%s: [cache].dir: %w", path, err)
		}
		cfg.Cache.Dir = dir
	}
	return &cfg, nil
}

// LoadConfigFrom finds hidl.toml above startDir and loads it. A missing
// manifest yields an empty config and ok=false.
func LoadConfigFrom(startDir string) (cfg *Config, ok bool, err error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return &Config{}, ok, err
	}
	cfg, err = LoadConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return cfg, true, nil
}

// ParseRootFlag parses the hidl-gen style "-r android.hardware:hardware/interfaces".
func ParseRootFlag(value string) (RootSpec, error) {
	prefix, path, ok := strings.Cut(value, ":")
	prefix, path = strings.TrimSpace(prefix), strings.TrimSpace(path)
	if !ok || prefix == "" || path == "" {
		return RootSpec{}, fmt.Errorf("invalid root %q: %w", value, ErrBadRootFlag)
	}
	return RootSpec{Prefix: prefix, Path: path}, nil
}

// BuildRoots registers flag roots first, then manifest roots, so that
// command-line roots win ties under first-match lookup.
func BuildRoots(flags []RootSpec, cfg *Config) (*Roots, error) {
	roots := NewRoots()
	for _, r := range flags {
		if err := roots.Add(r.Prefix, r.Path); err != nil {
			return nil, err
		}
	}
	if cfg != nil {
		for _, r := range cfg.Roots {
			if err := roots.Add(r.Prefix, r.Path); err != nil {
				return nil, err
			}
		}
	}
	return roots, nil
}

func resolveRootPath(baseDir, root string) (string, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return "", ErrRootPathMissing
	}
	clean := filepath.Clean(filepath.FromSlash(root))
	if !filepath.IsAbs(clean) {
		clean = filepath.Join(baseDir, clean)
	}
	info, err := os.Stat(clean)
	if err == nil && !info.IsDir() {
		return "", fmt.Errorf("%q is not a directory", root)
	}
	return clean, nil
}

func pathWithin(root, path string) bool {
	if root == "" || path == "" {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
