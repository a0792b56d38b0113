// Package ingest resolves jsonai's input specs (file, directory, glob,
// or stdin) into parsed JSON trees, one per file, parsing independent
// files concurrently across a bounded worker pool. The pool shape --
// a semaphore-sized channel plus sync.WaitGroup, with one error slot
// per path checked in path order once every parse has finished -- is
// grounded on the teacher's internal/flow.GenerateTakehomeSummaries
// fan-out.
package ingest

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"jsonai/internal/apperr"
	"jsonai/internal/jsonvalue"
)

// File is one resolved, parsed input.
type File struct {
	Path     string
	Root     *jsonvalue.Value
	Warnings []jsonvalue.DuplicateKeyWarning
}

const stdinPath = "-"

// Resolve expands specs (file paths, directories, globs, or "-") into
// a sorted, deduplicated list of concrete file paths. Directories are
// walked recursively for
// *.json files, with symlink loops detected and skipped.
func Resolve(specs []string) ([]string, error) {
	seen := map[string]bool{}
	var out []string

	for _, spec := range specs {
		if spec == stdinPath {
			if !seen[stdinPath] {
				seen[stdinPath] = true
				out = append(out, stdinPath)
			}
			continue
		}

		info, statErr := os.Stat(spec)
		switch {
		case statErr == nil && info.IsDir():
			files, err := walkJSONDir(spec)
			if err != nil {
				return nil, apperr.Wrap(apperr.KindInput, err, "walking directory %s", spec)
			}
			for _, f := range files {
				if !seen[f] {
					seen[f] = true
					out = append(out, f)
				}
			}
		case statErr == nil:
			if !seen[spec] {
				seen[spec] = true
				out = append(out, spec)
			}
		default:
			matches, err := filepath.Glob(spec)
			if err != nil || len(matches) == 0 {
				return nil, apperr.New(apperr.KindInput, "input %q does not exist and does not match any files as a glob", spec)
			}
			for _, m := range matches {
				if !seen[m] {
					seen[m] = true
					out = append(out, m)
				}
			}
		}
	}

	sort.Strings(out)
	return out, nil
}

// walkJSONDir recursively finds every *.json regular file under root,
// detecting and skipping symlink loops via a visited-real-path set.
func walkJSONDir(root string) ([]string, error) {
	visited := map[string]bool{}
	var out []string

	var walk func(dir string) error
	walk = func(dir string) error {
		real, err := filepath.EvalSymlinks(dir)
		if err != nil {
			return err
		}
		if visited[real] {
			return nil
		}
		visited[real] = true

		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		for _, e := range entries {
			full := filepath.Join(dir, e.Name())
			if e.IsDir() {
				if err := walk(full); err != nil {
					return err
				}
				continue
			}
			if e.Type()&os.ModeSymlink != 0 {
				target, err := filepath.EvalSymlinks(full)
				if err != nil {
					continue
				}
				info, err := os.Stat(target)
				if err != nil || info.IsDir() {
					continue
				}
				full = target
			}
			if strings.HasSuffix(full, ".json") {
				out = append(out, full)
			}
		}
		return nil
	}

	if err := walk(root); err != nil {
		return nil, err
	}
	return out, nil
}

// Load parses every resolved path concurrently across a pool sized to
// min(NumCPU, len(paths)), aborting the whole batch on the first parse
// error so main.go can map
// it to exit 2 with the offending file's line/column intact.
func Load(paths []string) ([]File, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	poolSize := runtime.NumCPU()
	if poolSize > len(paths) {
		poolSize = len(paths)
	}
	sem := make(chan struct{}, poolSize)

	results := make([]File, len(paths))
	errs := make([]error, len(paths))

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			f, err := loadOne(path)
			if err != nil {
				errs[i] = err
				return
			}
			results[i] = f
		}(i, path)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

func loadOne(path string) (File, error) {
	var data []byte
	var err error
	if path == stdinPath {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return File{}, apperr.Wrap(apperr.KindInput, err, "reading %s", path)
	}

	root, warnings, perr := jsonvalue.Parse(data, path)
	if perr != nil {
		return File{}, apperr.Wrap(apperr.KindParse, perr, "parsing %s", path)
	}
	return File{Path: path, Root: root, Warnings: warnings}, nil
}
