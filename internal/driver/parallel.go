package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"minilex/internal/diag"
	"minilex/internal/source"
	"minilex/internal/token"
	"minilex/internal/trace"
)

// SourceExt is the extension of source files picked up in directory mode.
const SourceExt = ".mlx"

// TokenizeDirResult is the outcome for one file of a directory run.
type TokenizeDirResult struct {
	Path   string
	FileID source.FileID // для незагруженного файла пустая запись в FileSet
	Loaded bool
	Tokens []token.Token
	Bag    *diag.Bag
	Cached bool
}

// ListSourceFiles walks dir and returns every SourceExt file, sorted.
func ListSourceFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		switch {
		case err != nil:
			return err
		case !d.IsDir() && filepath.Ext(path) == SourceExt:
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

// dirJob is one file of a directory run after the load pass.
type dirJob struct {
	path    string
	id      source.FileID
	loadErr error
}

// TokenizeDir tokenizes every source file under dir with up to opts.Jobs
// workers. Results keep the sorted file order. A file that cannot be read
// gets an IOLoadFileError diagnostic and does not stop the run; only
// cancellation of ctx does.
func TokenizeDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []TokenizeDirResult, error) {
	paths, err := ListSourceFiles(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	fileSet := source.NewFileSetWithBase(dir)
	if len(paths) == 0 {
		return fileSet, nil, nil
	}

	// FileSet не потокобезопасен, поэтому загрузка идёт до запуска воркеров
	stopLoad := opts.Timer.Measure("load")
	jobs := make([]dirJob, len(paths))
	for i, path := range paths {
		opts.emit(ProgressEvent{Path: path, Status: ProgressQueued})
		id, err := fileSet.Load(path)
		if err != nil {
			// пустая запись, чтобы у диагностики был путь
			id = fileSet.Add(path, nil, 0)
		}
		jobs[i] = dirJob{path: path, id: id, loadErr: err}
	}
	stopLoad()

	workers := opts.Jobs
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]TokenizeDirResult, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(workers, len(jobs)))
	for i, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = runDirJob(gctx, fileSet, job, opts)
			return nil
		})
	}
	return fileSet, results, g.Wait()
}

func runDirJob(ctx context.Context, fileSet *source.FileSet, job dirJob, opts Options) TokenizeDirResult {
	opts.emit(ProgressEvent{Path: job.path, Status: ProgressWorking})
	res := TokenizeDirResult{Path: job.path, FileID: job.id, Bag: diag.NewBag(opts.MaxDiagnostics)}

	if job.loadErr != nil {
		diag.ReportError(diag.BagReporter{Bag: res.Bag}, diag.IOLoadFileError, source.Span{File: job.id},
			"failed to load file: "+job.loadErr.Error()).Emit()
		trace.Error(trace.FromContext(ctx), trace.ScopeFile, trace.ParentFromContext(ctx), "load", job.loadErr.Error())
		opts.emit(ProgressEvent{Path: job.path, Status: ProgressFailed})
		return res
	}

	res.Loaded = true
	res.Tokens, res.Cached = tokenizeFile(ctx, fileSet.Get(job.id), res.Bag, opts)

	status := ProgressDone
	if res.Bag.HasErrors() {
		status = ProgressFailed
	}
	opts.emit(ProgressEvent{Path: job.path, Status: status, Tokens: len(res.Tokens), Cached: res.Cached})
	return res
}
