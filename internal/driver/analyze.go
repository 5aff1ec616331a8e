package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"symtab/internal/diag"
	"symtab/internal/javafront"
	"symtab/internal/observ"
	"symtab/internal/source"
	"symtab/internal/symbols"
	"symtab/internal/trace"
)

// Options configures AnalyzeFiles.
type Options struct {
	// Jobs bounds the number of files analyzed at once; <= 0 means GOMAXPROCS.
	Jobs           int
	MaxDiagnostics int
	Front          javafront.Options
	// Events, when set, receives progress updates. AnalyzeFiles closes it.
	Events  chan<- Event
	Timings bool
}

// FileResult holds the outcome for one input file. Result is nil when the
// file could not be loaded or parsed; Bag always explains why.
type FileResult struct {
	Path   string
	FileID source.FileID
	Bag    *diag.Bag
	Result *javafront.Result
	Timing *observ.Report
}

// Result is the outcome of AnalyzeFiles, in input order.
type Result struct {
	FileSet *source.FileSet
	Strings *source.Interner
	Files   []FileResult
}

// HasErrors reports whether any file produced an error diagnostic.
func (r *Result) HasErrors() bool {
	for i := range r.Files {
		if r.Files[i].Bag.HasErrors() {
			return true
		}
	}
	return false
}

// ExpandPaths replaces directories in args with the *.java files below them.
// Explicit file arguments are kept even without the extension.
func ExpandPaths(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}
		files, err := listJavaFiles(arg)
		if err != nil {
			return nil, err
		}
		out = append(out, files...)
	}
	return out, nil
}

// listJavaFiles возвращает отсортированный список всех *.java файлов в директории
func listJavaFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".java") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// AnalyzeFiles builds one symbol table per file. Files are loaded up front
// and then analyzed in parallel; each worker owns its table and bag, so
// results need no locking. Load and parse failures are reported in the
// file's bag; the returned error is reserved for cancellation.
func AnalyzeFiles(ctx context.Context, paths []string, opts Options) (*Result, error) {
	if opts.Events != nil {
		defer close(opts.Events)
	}
	tracer := trace.FromContext(ctx)
	runSpan := trace.Begin(tracer, trace.ScopeDriver, "driver.analyze", trace.CurrentSpan(ctx)).
		WithExtra("files", strconv.Itoa(len(paths)))
	ctx = trace.WithSpan(ctx, runSpan)

	fileSet := source.NewFileSet()
	strs := source.NewInterner()
	res := &Result{FileSet: fileSet, Strings: strs, Files: make([]FileResult, len(paths))}
	if len(paths) == 0 {
		runSpan.End("no files")
		return res, nil
	}

	for _, path := range paths {
		emit(opts.Events, Event{File: path, Stage: StageNone, Status: StatusQueued})
	}

	emit(opts.Events, Event{Stage: StageLoad, Status: StatusWorking})
	loadErrors := make(map[int]error)
	for i, path := range paths {
		res.Files[i] = FileResult{Path: path, Bag: diag.NewBag(opts.MaxDiagnostics)}
		fileID, err := fileSet.Load(path)
		if err != nil {
			// an empty placeholder keeps the diagnostic attached to its path
			fileID = fileSet.AddVirtual(path, nil)
			loadErrors[i] = err
		}
		res.Files[i].FileID = fileID
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	emit(opts.Events, Event{Stage: StageParse, Status: StatusWorking})
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fr := &res.Files[i]
			if err, failed := loadErrors[i]; failed {
				diag.ReportError(diag.BagReporter{Bag: fr.Bag}, diag.IOLoadFileError, source.Span{File: fr.FileID},
					"failed to load file: "+err.Error()).Emit()
				emit(opts.Events, Event{File: fr.Path, Stage: StageLoad, Status: StatusError})
				return nil
			}
			return analyzeOne(gctx, fileSet.Get(fr.FileID), strs, fr, opts)
		})
	}
	err := g.Wait()
	runSpan.End("")
	return res, err
}

func analyzeOne(ctx context.Context, file *source.File, strs *source.Interner, fr *FileResult, opts Options) error {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "driver.file", trace.CurrentSpan(ctx))
	ctx = trace.WithSpan(ctx, span)
	defer span.End(fr.Path)

	var timer *observ.Timer
	if opts.Timings {
		timer = observ.NewTimer()
	}

	emit(opts.Events, Event{File: fr.Path, Stage: StageParse, Status: StatusWorking})
	phase := timer.Begin("analyze")
	table := symbols.NewTable(symbols.Options{Strings: strs, Tracer: trace.FromContext(ctx)})
	front := opts.Front
	front.Reporter = diag.BagReporter{Bag: fr.Bag}
	result, err := javafront.Analyze(ctx, table, file, front)
	if result != nil {
		timer.End(phase, fmt.Sprintf("%d scopes, %d symbols", result.Stats.Scopes, result.Stats.Declared))
	} else {
		timer.End(phase, "failed")
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		diag.ReportError(diag.BagReporter{Bag: fr.Bag}, diag.IOLoadFileError, source.Span{File: file.ID},
			err.Error()).Emit()
		emit(opts.Events, Event{File: fr.Path, Stage: StageParse, Status: StatusError})
		return nil
	}
	fr.Result = result

	if opts.Timings {
		phase = timer.Begin("validate")
		verr := table.Validate()
		timer.End(phase, "")
		if verr != nil {
			return fmt.Errorf("%s: %w", fr.Path, verr)
		}
		report := timer.Report()
		fr.Timing = &report
	}

	status := StatusDone
	if fr.Bag.HasErrors() {
		status = StatusError
	}
	emit(opts.Events, Event{File: fr.Path, Stage: StageResolve, Status: status})
	return nil
}
