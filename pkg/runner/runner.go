package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/yaklabco/gomdpos/internal/logging"
	"github.com/yaklabco/gomdpos/pkg/config"
	"github.com/yaklabco/gomdpos/pkg/fsutil"
	"github.com/yaklabco/gomdpos/pkg/parser/goldmark"
	"github.com/yaklabco/gomdpos/pkg/position"
)

// Runner annotates files according to a resolved configuration.
type Runner struct {
	// Config selects the flavor, extensions and verification.
	Config *config.Config
}

// New creates a Runner. A nil cfg means config.NewConfig().
func New(cfg *config.Config) *Runner {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &Runner{Config: cfg}
}

// ParserOptions translates a configuration into lexer options.
func ParserOptions(cfg *config.Config) []goldmark.Option {
	return []goldmark.Option{
		goldmark.WithFlavor(string(cfg.Flavor)),
		goldmark.WithLanguageDetection(config.Enabled(cfg.DetectLanguage)),
		goldmark.WithTaggedBlocks(config.Enabled(cfg.TaggedBlocks)),
	}
}

// job is one file to annotate and its slot in the result.
type job struct {
	index int
	path  string
}

// Run discovers files under opts.Paths and annotates them on a pool of
// workers. Each worker owns its parser and position extension, so no lexer
// state is shared. Results keep discovery order whatever order the workers
// finish in.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	started := time.Now()
	logger := logging.FromContext(ctx)

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Files: make([]FileResult, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)
	if len(files) == 0 {
		return result, nil
	}

	var stdin []byte
	if files[0] == StdinPath {
		if stdin, err = readStdin(opts.Stdin); err != nil {
			return nil, err
		}
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	logger.Debug("starting annotation",
		logging.FieldFilesDiscovered, len(files),
		logging.FieldJobs, jobs,
		logging.FieldFlavor, r.Config.Flavor,
	)

	workCh := make(chan job)
	outCh := make(chan job)
	slots := make([]FileResult, len(files))
	done := make([]bool, len(files))

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, workCh, outCh, slots, stdin)
		}()
	}

	go func() {
		defer close(workCh)
		for i, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- job{index: i, path: path}:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	for j := range outCh {
		done[j.index] = true
	}

	for i, file := range slots {
		if done[i] {
			result.accumulate(file)
		}
	}
	result.Stats.Elapsed = time.Since(started)

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}

	logger.Debug("annotation finished",
		logging.FieldFilesAnnotated, result.Stats.FilesAnnotated,
		logging.FieldFilesFailed, result.Stats.FilesFailed,
		logging.FieldTokens, result.Stats.Tokens,
		logging.FieldDuration, result.Stats.Elapsed,
	)
	return result, nil
}

// worker annotates files from workCh. Each slot is written by exactly one
// worker before its job is sent on outCh.
func (r *Runner) worker(ctx context.Context, workCh <-chan job, outCh chan<- job, slots []FileResult, stdin []byte) {
	ext := position.NewExtension()
	p := goldmark.New(append(ParserOptions(r.Config), goldmark.WithHooks(ext))...)
	verify := config.Enabled(r.Config.Verify)

	for j := range workCh {
		if ctx.Err() != nil {
			return
		}

		slots[j.index] = annotateFile(ctx, p, ext, j.path, stdin, verify)

		select {
		case <-ctx.Done():
			return
		case outCh <- j:
		}
	}
}

func annotateFile(
	ctx context.Context,
	p *goldmark.Parser,
	ext *position.Extension,
	path string,
	stdin []byte,
	verify bool,
) FileResult {
	ctx = logging.WithFile(ctx, path)
	logger := logging.FromContext(ctx)
	started := time.Now()
	out := FileResult{Path: path}

	content := stdin
	if path != StdinPath {
		var err error
		if content, err = fsutil.ReadFile(ctx, path); err != nil {
			out.Err = err
			return out
		}
	}

	tokens, err := p.Lex(ctx, content)
	out.Duration = time.Since(started)
	if err != nil {
		out.Err = fmt.Errorf("annotate %s: %w", path, err)
		logger.Debug("annotation failed", logging.FieldError, err)
		return out
	}

	out.Source = ext.Source()
	out.Tokens = tokens
	if verify {
		out.Violations = position.Verify(tokens, out.Source)
	}

	logger.Debug("annotated",
		logging.FieldBytes, len(content),
		logging.FieldDuration, out.Duration,
	)
	return out
}

func readStdin(r io.Reader) ([]byte, error) {
	if r == nil {
		r = os.Stdin
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return content, nil
}
