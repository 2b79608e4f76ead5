package lox

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"
)

// ConcurrentRunner compiles and evaluates many programs in parallel. Every
// run gets its own Interpreter and output buffer; only the parsed-program
// cache is shared.
type ConcurrentRunner struct {
	workers int
	cfg     Config
	cache   *ProgramCache
}

// NewConcurrentRunner creates a runner. cfg.Output is ignored since each
// run captures its own output; cfg.Workers <= 0 means one per CPU.
func NewConcurrentRunner(cfg Config) *ConcurrentRunner {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &ConcurrentRunner{
		workers: workers,
		cfg:     cfg,
		cache:   NewProgramCache(),
	}
}

// Cache exposes the shared parsed-program cache.
func (cr *ConcurrentRunner) Cache() *ProgramCache {
	return cr.cache
}

// RunResult is the outcome of running one program
type RunResult struct {
	Index    int
	Filename string
	Tokens   []Token
	AST      *Block
	Output   string
	Error    error
}

type runJob struct {
	index    int
	filename string
	source   string
	inline   bool
}

// RunFiles reads and runs files concurrently. Results keep the order of
// files. A cancelled context stops dispatch and returns ctx.Err().
func (cr *ConcurrentRunner) RunFiles(ctx context.Context, files []string) ([]RunResult, error) {
	jobs := make([]runJob, len(files))
	for i, f := range files {
		jobs[i] = runJob{index: i, filename: f}
	}
	return cr.run(ctx, jobs)
}

// RunSources runs in-memory programs concurrently.
func (cr *ConcurrentRunner) RunSources(ctx context.Context, sources []string) ([]RunResult, error) {
	jobs := make([]runJob, len(sources))
	for i, src := range sources {
		jobs[i] = runJob{index: i, filename: fmt.Sprintf("source[%d]", i), source: src, inline: true}
	}
	return cr.run(ctx, jobs)
}

func (cr *ConcurrentRunner) run(ctx context.Context, jobs []runJob) ([]RunResult, error) {
	if len(jobs) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	jobChan := make(chan runJob)
	resultChan := make(chan RunResult, len(jobs))

	var wg sync.WaitGroup
	for i := 0; i < cr.workers && i < len(jobs); i++ {
		wg.Add(1)
		go cr.worker(ctx, &wg, jobChan, resultChan)
	}

	var cancelled error
dispatch:
	for _, job := range jobs {
		select {
		case jobChan <- job:
		case <-ctx.Done():
			cancelled = ctx.Err()
			break dispatch
		}
	}
	close(jobChan)

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]RunResult, len(jobs))
	for result := range resultChan {
		results[result.Index] = result
	}
	if cancelled != nil {
		return nil, cancelled
	}
	return results, nil
}

// worker processes jobs
func (cr *ConcurrentRunner) worker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan runJob, results chan<- RunResult) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			results <- RunResult{Index: job.index, Filename: job.filename, Error: ctx.Err()}
		default:
			results <- cr.runOne(job)
		}
	}
}

func (cr *ConcurrentRunner) runOne(job runJob) RunResult {
	result := RunResult{Index: job.index, Filename: job.filename}

	source := job.source
	if !job.inline {
		content, err := os.ReadFile(job.filename)
		if err != nil {
			result.Error = fmt.Errorf("failed to read file %s: %w", job.filename, err)
			return result
		}
		source = string(content)
	}

	cfg := cr.cfg
	cfg.Filename = job.filename
	prog, err := cr.cache.Load(source, cfg)
	if err != nil {
		result.Error = err
		return result
	}
	result.Tokens = prog.Tokens
	result.AST = prog.AST

	var out bytes.Buffer
	cfg.Output = &out
	result.Error = NewInterpreter(cfg).Evaluate(prog.AST)
	result.Output = out.String()
	return result
}

// Errors collects the failures of a batch, or nil when every run succeeded.
func Errors(results []RunResult) error {
	var errs MultiError
	for _, r := range results {
		if r.Error != nil {
			errs.Add(fmt.Errorf("%s: %w", r.Filename, r.Error))
		}
	}
	if errs.HasErrors() {
		return &errs
	}
	return nil
}
