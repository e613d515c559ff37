// Package indexer walks a library root, classifies files by extension,
// builds catalog records, and rebuilds the media catalog (§4.5).
package indexer

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/franz/vdjfix/internal/catalog"
	"github.com/franz/vdjfix/internal/util"
	"github.com/schollz/progressbar/v3"
	"github.com/sourcegraph/conc/pool"
)

// FileError records a per-file indexing failure; the walk continues past
// these (§4.5 step 4, §7 policy: per-file errors captured, counted,
// continued).
type FileError struct {
	Path    string
	Message string
}

// Report is the outcome of one Build call.
type Report struct {
	TotalFiles   int
	NewFiles     int
	Duration     time.Duration
	ErrorCount   int
	ErrorDetails []FileError
}

// Config configures an Indexer.
type Config struct {
	Catalog     *catalog.Catalog
	Concurrency int
}

// Indexer builds a Catalog from a library root.
type Indexer struct {
	cat         *catalog.Catalog
	concurrency int
}

// New constructs an Indexer.
func New(cfg Config) *Indexer {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	return &Indexer{cat: cfg.Catalog, concurrency: cfg.Concurrency}
}

// Build walks libraryRoot, classifies every file, builds a MediaRecord for
// each supported one, then replaces and saves the catalog atomically
// (§4.5). The walk may parallelize at the file level; final catalog order
// is deterministic (ReplaceAll sorts by path) regardless of scheduling.
func (ix *Indexer) Build(ctx context.Context, libraryRoot string) (*Report, error) {
	start := time.Now()

	if _, err := os.Stat(libraryRoot); err != nil {
		return nil, fmt.Errorf("%w: %s", util.ErrRootMissing, libraryRoot)
	}

	util.InfoLog("Indexing library: %s", libraryRoot)

	candidates := make(chan string, 256)
	var walkErr error
	go func() {
		defer close(candidates)
		walkErr = filepath.WalkDir(libraryRoot, func(path string, d fs.DirEntry, err error) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if err != nil {
				util.WarnLog("access error: %s: %v", path, err)
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if _, ok := catalog.ClassifyExtension(filepath.Ext(path)); !ok {
				return nil
			}
			select {
			case candidates <- path:
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		})
	}()

	var (
		mu       sync.Mutex
		records  []*catalog.MediaRecord
		errs     []FileError
		found    atomic.Int64
		isTTY    = util.IsTerminal(os.Stdout.Fd())
		bar      *progressbar.ProgressBar
	)
	if isTTY {
		barWidth := util.GetTerminalWidth() / 3
		if barWidth < 20 {
			barWidth = 20
		}
		bar = progressbar.NewOptions(-1,
			progressbar.OptionSetDescription("Indexing"),
			progressbar.OptionSetWidth(barWidth),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("files"),
			progressbar.OptionThrottle(200*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
		defer bar.Finish()
	}

	p := pool.New().WithMaxGoroutines(ix.concurrency)
	for path := range candidates {
		path := path
		p.Go(func() {
			// Library roots are routinely SMB/NFS-mounted, so a stat can
			// fail transiently under load; retry before counting it as a
			// genuine per-file error (§4.5 step 4).
			info, err := util.RetryWithBackoff(util.NASRetryConfig(), func() (os.FileInfo, error) {
				return os.Stat(path)
			}, fmt.Sprintf("stat %s", path))
			if err != nil {
				mu.Lock()
				errs = append(errs, FileError{Path: path, Message: err.Error()})
				mu.Unlock()
				return
			}
			record, ok := catalog.NewRecord(path, info)
			if !ok {
				return
			}
			mu.Lock()
			records = append(records, record)
			mu.Unlock()
			n := found.Add(1)
			if bar != nil {
				bar.Set64(n)
			}
		})
	}
	p.Wait()

	if walkErr != nil {
		return nil, fmt.Errorf("walk error: %w", walkErr)
	}

	ix.cat.ReplaceAll(records)
	if err := ix.cat.Save(); err != nil {
		return nil, fmt.Errorf("save catalog: %w", err)
	}

	util.SuccessLog("Indexed %d files (%d errors) in %s", len(records), len(errs), time.Since(start).Round(time.Millisecond))

	return &Report{
		TotalFiles:   len(records),
		NewFiles:     len(records),
		Duration:     time.Since(start),
		ErrorCount:   len(errs),
		ErrorDetails: errs,
	}, nil
}
