package modules

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/funvibe/jresolve/internal/config"
)

// isFixtureFile reports whether name has a recognized fixture extension.
func isFixtureFile(name string) bool {
	for _, ext := range config.FixtureFileExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// fixtureFiles lists the fixture files directly inside dirPath, sorted.
func fixtureFiles(dirPath string) ([]string, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && isFixtureFile(e.Name()) {
			files = append(files, filepath.Join(dirPath, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// Loader reads fixture files. Outcomes, failures included, are cached by
// absolute path; a Loader may be shared by goroutines.
type Loader struct {
	// Options is what fixtures start from before their own options block.
	Options config.Options

	mu     sync.Mutex
	loaded map[string]loadResult
}

type loadResult struct {
	fixture *Fixture
	err     error
}

// Loaded is the outcome of loading one fixture file.
type Loaded struct {
	Path    string
	Fixture *Fixture
	Err     error
}

func NewLoader() *Loader {
	return NewLoaderWith(config.DefaultOptions())
}

// NewLoaderWith returns a loader whose fixtures default to opts.
func NewLoaderWith(opts config.Options) *Loader {
	return &Loader{Options: opts, loaded: make(map[string]loadResult)}
}

// Expand turns paths into the fixture files they name. A directory stands
// for the fixture files directly inside it. The result keeps argument
// order and drops duplicates.
func Expand(paths []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		files, err := fixtureFiles(p)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no fixture files in %s", p)
		}
		for _, f := range files {
			add(f)
		}
	}
	return out, nil
}

// Load reads and decodes the fixture at path.
func (l *Loader) Load(path string) (*Fixture, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	res, ok := l.loaded[absPath]
	l.mu.Unlock()
	if ok {
		return res.fixture, res.err
	}

	res = l.read(path)

	l.mu.Lock()
	defer l.mu.Unlock()
	// Another goroutine may have won the race; keep its copy so that
	// callers see one Fixture per path.
	if prev, ok := l.loaded[absPath]; ok {
		return prev.fixture, prev.err
	}
	l.loaded[absPath] = res
	return res.fixture, res.err
}

func (l *Loader) read(path string) loadResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return loadResult{err: fmt.Errorf("reading fixture: %w", err)}
	}
	f, err := parseFixture(data, path, l.Options)
	return loadResult{fixture: f, err: err}
}

// LoadAll loads every fixture named by paths with at most parallelism
// files in flight (l.Options.Parallelism when parallelism is not
// positive, one per CPU when that is zero too). The result follows the
// order of Expand(paths). A file that fails to load is reported in its
// Loaded entry and does not stop the others; only an unusable path list
// or a cancelled context fails the whole call.
func (l *Loader) LoadAll(ctx context.Context, paths []string, parallelism int) ([]Loaded, error) {
	files, err := Expand(paths)
	if err != nil {
		return nil, err
	}
	if parallelism <= 0 {
		parallelism = l.Options.Parallelism
	}
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}

	out := make([]Loaded, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f, err := l.Load(file)
			out[i] = Loaded{Path: file, Fixture: f, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
