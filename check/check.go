// Package check runs the proof engine over files and directories.
package check

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/gnoswap-labs/fitch/internal"
	tt "github.com/gnoswap-labs/fitch/internal/types"
)

const maxShowRecentFiles = 10

// DefaultConfigName is the configuration file looked up when none is given.
const DefaultConfigName = ".fitch.yaml"

// Output receives the progress display of directory scans.
var Output io.Writer = os.Stderr

type Engine interface {
	Run(filePath string) ([]tt.Issue, error)
	RunSource(source []byte) ([]tt.Issue, error)
	IgnoreRule(rule string)
	IgnorePath(path string)
}

// New creates an engine configured from the file at configurationPath. An
// empty path uses the defaults.
func New(configurationPath string) (*internal.Engine, error) {
	var config Config
	if configurationPath != "" {
		var err error
		if config, err = parseConfigurationFile(configurationPath); err != nil {
			return nil, err
		}
	}
	return internal.NewEngine(config.Rules)
}

func ProcessSources(
	ctx context.Context,
	logger *zap.Logger,
	engine Engine,
	sources [][]byte,
	processor func(Engine, []byte) ([]tt.Issue, error),
) ([]tt.Issue, error) {
	var allIssues []tt.Issue
	for i, source := range sources {
		if err := ctx.Err(); err != nil {
			return allIssues, err
		}
		issues, err := processor(engine, source)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing source", zap.Int("source", i), zap.Error(err))
			}
			return nil, err
		}
		allIssues = append(allIssues, issues...)
	}

	return allIssues, nil
}

func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine Engine,
	paths []string,
	processor func(Engine, string) ([]tt.Issue, error),
) ([]tt.Issue, error) {
	var allIssues []tt.Issue
	for _, path := range paths {
		issues, err := ProcessPath(ctx, logger, engine, path, processor)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			return nil, err
		}
		allIssues = append(allIssues, issues...)
	}

	return allIssues, nil
}

// ProcessPath checks a single file, or every proof file under a directory.
// Files that fail to load are logged and skipped when scanning a directory.
// On cancellation the issues collected so far are returned with ctx.Err().
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine Engine,
	path string,
	processor func(Engine, string) ([]tt.Issue, error),
) ([]tt.Issue, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		if !hasDesiredExtension(path) {
			return nil, nil
		}
		return processor(engine, path)
	}

	files, err := collectFiles(path)
	if err != nil {
		return nil, err
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(Output),
		progressbar.OptionSetDescription(path),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
	recent := newRecentFiles(Output, maxShowRecentFiles)

	type fileResult struct {
		issues []tt.Issue
		err    error
	}
	results := make(chan fileResult, len(files))

	// limit the number of workers
	sem := make(chan struct{}, runtime.NumCPU())
	var wg sync.WaitGroup

	var ctxErr error
dispatch:
	for _, filePath := range files {
		if ctxErr = ctx.Err(); ctxErr != nil {
			break
		}
		select {
		case <-ctx.Done():
			ctxErr = ctx.Err()
			break dispatch
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(fp string) {
			defer wg.Done()
			defer func() { <-sem }()

			recent.push(filepath.Base(fp))

			fileIssues, err := processor(engine, fp)
			if err != nil && logger != nil {
				logger.Error("Error processing file", zap.String("file", fp), zap.Error(err))
			}
			results <- fileResult{issues: fileIssues, err: err}
			_ = bar.Add(1)
		}(filePath)
	}
	wg.Wait()
	close(results)

	issues := []tt.Issue{}
	for r := range results {
		if r.err == nil {
			issues = append(issues, r.issues...)
		}
	}
	fmt.Fprintln(Output)
	return issues, ctxErr
}

func collectFiles(root string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(filePath string, fileInfo os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !fileInfo.IsDir() && hasDesiredExtension(filePath) {
			files = append(files, filePath)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}

// recentFiles keeps a rolling list of the files most recently started.
type recentFiles struct {
	mu    sync.Mutex
	out   io.Writer
	names []string
	shown bool
}

func newRecentFiles(out io.Writer, n int) *recentFiles {
	return &recentFiles{out: out, names: make([]string, n)}
}

func (r *recentFiles) push(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	copy(r.names[1:], r.names)
	r.names[0] = name

	if r.shown {
		// move the cursor back over the previous list
		fmt.Fprintf(r.out, "\033[%dA", len(r.names))
	}
	r.shown = true
	for _, n := range r.names {
		// \033[2K: clear the line
		fmt.Fprintf(r.out, "\033[2K\r%s\n", n)
	}
}

func ProcessFile(engine Engine, filePath string) ([]tt.Issue, error) {
	return engine.Run(filePath)
}

func ProcessSource(engine Engine, source []byte) ([]tt.Issue, error) {
	return engine.RunSource(source)
}

var desiredExtensions = map[string]bool{
	internal.ProofExt: true,
}

func hasDesiredExtension(path string) bool {
	return desiredExtensions[filepath.Ext(path)]
}

// Config represents the overall configuration with a name and a set of rules.
type Config struct {
	Name  string                   `yaml:"name"`
	Rules map[string]tt.ConfigRule `yaml:"rules"`
}

// DefaultConfig lists every check at its default severity.
func DefaultConfig() Config {
	engine, _ := internal.NewEngine(nil)
	config := Config{Name: "fitch", Rules: make(map[string]tt.ConfigRule)}
	for _, name := range internal.CheckNames() {
		config.Rules[name] = tt.ConfigRule{Severity: engine.CheckSeverity(name)}
	}
	return config
}

// WriteConfigurationFile writes config as YAML to path.
func WriteConfigurationFile(path string, config Config) error {
	d, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, d, 0o644)
}

func parseConfigurationFile(configurationPath string) (Config, error) {
	var config Config

	f, err := os.Open(configurationPath)
	if err != nil {
		return config, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return config, fmt.Errorf("error parsing %s: %w", configurationPath, err)
	}

	return config, nil
}
