package driver

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"reflow/internal/assist"
	"reflow/internal/edit"
	"reflow/internal/options"
	"reflow/internal/source"
)

// SourceExt is the file extension the batch formatter picks up.
const SourceExt = ".rf"

// FormatOptions configures a batch formatting run.
type FormatOptions struct {
	// Check reports files that would change without touching them.
	Check bool
	// Stdout returns formatted content in the results instead of rewriting
	// files on disk.
	Stdout bool
	// Jobs caps formatting parallelism; <=0 means GOMAXPROCS.
	Jobs int
	// Cache is an optional result cache; nil disables caching.
	Cache *DiskCache
	// Overrides skips reflow.toml discovery and uses the given set for
	// every file.
	Overrides *options.Set
	// Progress receives per-file events; nil disables reporting.
	Progress ProgressSink
}

// FormatResult captures the outcome of formatting a single file.
type FormatResult struct {
	Path      string
	Changed   bool
	CacheHit  bool
	Err       error
	Formatted []byte
}

// FormatPaths formats the given files or directories, collecting SourceExt
// files recursively. Results come back in deterministic path order; per-file
// failures land in FormatResult.Err rather than aborting the run.
func FormatPaths(ctx context.Context, paths []string, opts FormatOptions) ([]FormatResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files, err := collectSourceFiles(ctx, paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New("format: no source files found")
	}
	for _, path := range files {
		emit(opts.Progress, Event{File: path, Stage: StageFormat, Status: StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	loader := newOptionLoader(opts.Overrides)
	// Slots are unique per goroutine, no mutex needed.
	results := make([]FormatResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			emit(opts.Progress, Event{File: path, Stage: StageFormat, Status: StatusWorking})
			results[i] = formatOne(gctx, path, loader, opts)

			res := &results[i]
			status := StatusDone
			if res.Err != nil {
				status = StatusError
			}
			emit(opts.Progress, Event{File: path, Stage: StageFormat, Status: status, Changed: res.Changed, Err: res.Err})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func formatOne(ctx context.Context, path string, loader *optionLoader, opts FormatOptions) FormatResult {
	res := FormatResult{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		res.Err = err
		return res
	}
	set, err := loader.forFile(path)
	if err != nil {
		res.Err = err
		return res
	}

	key := combineDigest(HashBytes(data), optionsDigest(set))
	if hit, payload := cacheLookup(opts.Cache, key); hit {
		res.Changed = payload.Changed
		res.CacheHit = true
		if payload.Changed {
			res.Formatted = payload.Formatted
		} else {
			res.Formatted = data
		}
		return finishOne(res, opts)
	}

	formatted, err := formatBytes(ctx, path, data, set)
	if err != nil {
		res.Err = err
		return res
	}
	res.Formatted = formatted
	res.Changed = !bytes.Equal(data, formatted)

	if opts.Cache != nil {
		payload := &DiskPayload{
			Schema:  diskCacheSchemaVersion,
			Path:    path,
			Input:   HashBytes(data),
			Changed: res.Changed,
		}
		if res.Changed {
			payload.Formatted = formatted
		}
		// Cache write failures never fail the run.
		_ = opts.Cache.Put(key, payload)
	}
	return finishOne(res, opts)
}

// finishOne applies the run mode: check and stdout modes leave disk alone,
// otherwise changed files are rewritten preserving their mode bits.
func finishOne(res FormatResult, opts FormatOptions) FormatResult {
	if opts.Check || opts.Stdout || !res.Changed {
		return res
	}
	mode := os.FileMode(0o644)
	if info, err := os.Stat(res.Path); err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(res.Path, res.Formatted, mode.Perm()); err != nil {
		res.Err = err
	}
	return res
}

// formatBytes runs a whole-document formatting pass over raw file bytes.
func formatBytes(ctx context.Context, path string, data []byte, set options.Set) ([]byte, error) {
	fileSet := source.NewFileSet()
	id := fileSet.Add(path, source.Normalize(data), 0)
	doc := assist.Document{File: fileSet.Get(id)}

	f := assist.New(assist.DefaultServices(options.Static(set)))
	edits, err := f.OnDemand(ctx, doc, nil)
	if err != nil {
		return nil, err
	}
	return edit.Apply(doc.File.Content, edits)
}

// optionLoader resolves and memoizes per-directory option sets.
type optionLoader struct {
	overrides *options.Set

	mu    sync.Mutex
	byDir map[string]options.Set
}

func newOptionLoader(overrides *options.Set) *optionLoader {
	return &optionLoader{overrides: overrides, byDir: make(map[string]options.Set)}
}

func (l *optionLoader) forFile(path string) (options.Set, error) {
	if l.overrides != nil {
		return *l.overrides, nil
	}
	dir := filepath.Dir(path)

	l.mu.Lock()
	set, ok := l.byDir[dir]
	l.mu.Unlock()
	if ok {
		return set, nil
	}

	set, err := options.Discover(path)
	if err != nil {
		return set, err
	}
	l.mu.Lock()
	l.byDir[dir] = set
	l.mu.Unlock()
	return set, nil
}

func cacheLookup(cache *DiskCache, key Digest) (bool, *DiskPayload) {
	if cache == nil {
		return false, nil
	}
	var payload DiskPayload
	ok, err := cache.Get(key, &payload)
	if err != nil || !ok {
		// A broken cache entry is recomputed, not reported.
		return false, nil
	}
	return true, &payload
}

// collectSourceFiles expands files and directories into a sorted, de-duplicated
// list of SourceExt files.
func collectSourceFiles(ctx context.Context, paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	addFile := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if err := ctx.Err(); err != nil {
					return err
				}
				if d.IsDir() {
					return nil
				}
				if filepath.Ext(path) == SourceExt {
					addFile(path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
			continue
		}

		if filepath.Ext(p) == SourceExt {
			addFile(p)
		}
	}

	sort.Strings(files)
	return files, nil
}
