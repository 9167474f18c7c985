package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"dmc/internal/diag"
	"dmc/internal/source"
)

// Extensions recognised when a directory is expanded.
var Extensions = []string{".dms", ".dm", ".dme"}

// ExpandUnits replaces directories by the sorted unit files below them.
func ExpandUnits(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		var found []string
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && slices.Contains(Extensions, strings.ToLower(filepath.Ext(path))) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", p, err)
		}
		// Сортируем для детерминированного порядка
		slices.Sort(found)
		out = append(out, found...)
	}
	return out, nil
}

// CheckUnits checks every unit in parallel over one shared FileSet.
// Results keep the order of paths. A unit's language errors never stop the
// others; an I/O error or cancellation does.
func CheckUnits(ctx context.Context, paths []string, opts Options) (*source.FileSet, []*Result, error) {
	fileSet := source.NewFileSet()
	results := make([]*Result, len(paths))
	if len(paths) == 0 {
		return fileSet, results, nil
	}
	for _, p := range paths {
		emit(opts.Progress, Event{Unit: p, Status: StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	if opts.Reporter != nil {
		// units sharing an include would repeat its diagnostics
		opts.Reporter = diag.NewLockedReporter(diag.NewDedupReporter(opts.Reporter))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			res, err := Check(gctx, fileSet, path, opts)
			results[i] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}
