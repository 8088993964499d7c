// Package pipeline orchestrates the source generation workflow stages.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/srcgen/internal/assembler"
	"github.com/retroenv/srcgen/internal/config"
	"github.com/retroenv/srcgen/internal/detector"
	"github.com/retroenv/srcgen/internal/loader"
	"github.com/retroenv/srcgen/internal/options"
	"github.com/retroenv/srcgen/internal/program"
	"github.com/retroenv/srcgen/internal/runner"
	"github.com/retroenv/srcgen/internal/verification"
	"golang.org/x/sync/errgroup"
)

// Pipeline orchestrates the complete source generation workflow.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
	loader   *loader.Loader
	dialects map[string]Dialect
}

// Result is the outcome of the generation for one dialect.
type Result struct {
	Dialect    string
	Version    assembler.Version
	Files      []string
	Note       string
	Invocation *assembler.InvocationResult // nil if the source was not assembled
	Verified   bool
}

// New creates a new source generation pipeline. The executables map
// contains configured assembler paths by dialect.
func New(logger *log.Logger, executables map[string]string) *Pipeline {
	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger, executables),
		loader:   loader.New(logger),
		dialects: Dialects(),
	}
}

// Execute loads the input image and runs the generation for all selected dialects.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program) ([]Result, error) {
	prog, err := p.loader.Load(opts)
	if err != nil {
		return nil, fmt.Errorf("loading input: %w", err)
	}
	return p.ExecuteWithProgram(ctx, prog, opts)
}

// ExecuteWithProgram runs the generation for all selected dialects with an
// already loaded program. The dialects are processed concurrently, the
// first failing dialect cancels the others.
func (p *Pipeline) ExecuteWithProgram(ctx context.Context, prog *program.Program, opts options.Program) ([]Result, error) {
	settings, err := opts.Settings()
	if err != nil {
		return nil, fmt.Errorf("parsing output options: %w", err)
	}

	p.printInfo(opts, prog)

	results := make([]Result, len(opts.Assemblers))
	excisions := &excisionWriter{written: map[string]bool{}}
	group, ctx := errgroup.WithContext(ctx)

	for i, name := range opts.Assemblers {
		group.Go(func() error {
			result, err := p.runDialect(ctx, prog, opts, settings, name, excisions)
			if err != nil {
				return fmt.Errorf("assembler %s: %w", name, err)
			}
			results[i] = *result
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err //nolint:wrapcheck
	}
	return results, nil
}

func (p *Pipeline) runDialect(ctx context.Context, prog *program.Program, opts options.Program,
	settings assembler.Settings, name string, excisions *excisionWriter) (*Result, error) {

	dialect, ok := p.dialects[name]
	if !ok {
		return nil, fmt.Errorf("unsupported assembler '%s'", name)
	}

	detected := p.detector.Detect(ctx, dialect.Tool)
	gen := dialect.New(p.logger)
	cfg := assembler.Config{
		Program:   prog,
		OutputDir: opts.OutputDir(),
		BaseName:  opts.BaseName(),
		Version:   detected.Version,
		Settings:  settings,
	}
	if err := gen.Configure(cfg); err != nil {
		return nil, fmt.Errorf("configuring generator: %w", err)
	}

	progress := assembler.ProgressFunc(func(message string) {
		p.logger.Debug(message, log.String("assembler", name))
	})
	generation, err := gen.GenerateSource(ctx, progress)
	if err != nil {
		return nil, fmt.Errorf("generating source: %w", err)
	}
	if generation.Note != "" {
		p.logger.Warn(generation.Note, log.String("assembler", name))
	}

	if err := excisions.write(prog, cfg.OutputDir, generation.Excisions); err != nil {
		return nil, err
	}

	result := &Result{
		Dialect: name,
		Version: detected.Version,
		Files:   generation.Files,
		Note:    generation.Note,
	}
	if !opts.Assemble && !opts.Verify {
		return result, nil
	}
	if detected.Executable == "" {
		p.logger.Warn("Assembler executable not found, skipping assembly",
			log.String("assembler", name),
			log.String("env", config.ExecutableEnv(name)))
		return result, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("assembling: %w", err)
	}
	progress.Report("Assembling source")
	invocation := runner.Run(ctx, dialect.Command(detected.Executable, generation.Files[0]))
	result.Invocation = invocation

	if !opts.Verify {
		if invocation.ExitCode != 0 {
			return nil, fmt.Errorf("running '%s' failed with exit code %d: %s",
				invocation.CommandLine, invocation.ExitCode, invocation.Stderr)
		}
		return result, nil
	}

	if err := verification.VerifyOutput(p.logger, prog.Data, invocation); err != nil {
		return nil, fmt.Errorf("verification failed: %w", err)
	}
	result.Verified = true
	p.logger.Info("Verification successful", log.String("assembler", name))
	return result, nil
}

// printInfo prints information about the image being processed.
func (p *Pipeline) printInfo(opts options.Program, prog *program.Program) {
	if opts.Quiet {
		return
	}

	p.logger.Info("Processing image",
		log.String("file", opts.Input),
		log.Int("size", len(prog.Data)),
		log.String("cpu", string(prog.CPU)),
		log.Int("assemblers", len(opts.Assemblers)),
	)
}

// excisionWriter writes the file ranges of binary includes. Dialects that
// reference the same file share it.
type excisionWriter struct {
	mu      sync.Mutex
	written map[string]bool
}

func (w *excisionWriter) write(prog *program.Program, dir string, excisions []assembler.BinaryIncludeExcision) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, excision := range excisions {
		path := excision.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		if w.written[path] {
			continue
		}

		end := excision.Offset + excision.Length
		if excision.Offset < 0 || excision.Length <= 0 || end > len(prog.Data) {
			return fmt.Errorf("binary include '%s' exceeds the file", excision.Path)
		}
		if err := os.WriteFile(path, prog.Data[excision.Offset:end], 0o644); err != nil {
			return fmt.Errorf("writing binary include file: %w", err)
		}
		w.written[path] = true
	}
	return nil
}
