package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/fitch/check"
	"github.com/gnoswap-labs/fitch/formatter"
	"github.com/gnoswap-labs/fitch/internal"
	tt "github.com/gnoswap-labs/fitch/internal/types"
)

var (
	ignoreRules     string
	ignorePaths     string
	checkJSONOutput bool
	outPath         string
	cacheDir        string
)

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Check proof files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		engine, err := newEngine()
		if err != nil {
			return err
		}

		issues, err := check.ProcessFiles(ctx, logger, engine, args, check.ProcessFile)
		if err != nil {
			return fmt.Errorf("error processing files: %w", err)
		}

		if err := printIssues(cmd.OutOrStdout(), issues, checkJSONOutput, outPath); err != nil {
			return err
		}
		if hasErrors(issues) {
			return ErrIssuesFound
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().StringVar(&ignoreRules, "ignore", "", "Comma-separated list of checks to ignore")
	checkCmd.Flags().StringVar(&ignorePaths, "ignore-paths", "", "Comma-separated list of paths to ignore")
	checkCmd.Flags().BoolVar(&checkJSONOutput, "json", false, "Output issues in JSON format")
	checkCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
	checkCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "Cache results in this directory")
}

// newEngine builds an engine from the configuration and the check flags.
func newEngine() (*internal.Engine, error) {
	config := configPath()
	engine, err := check.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize engine: %w", err)
	}
	logger.Debug("engine ready", zap.String("config", config))

	for _, rule := range splitList(ignoreRules) {
		engine.IgnoreRule(rule)
	}
	for _, path := range splitList(ignorePaths) {
		engine.IgnorePath(path)
	}

	if cacheDir != "" {
		cache, err := internal.NewCache(cacheDir)
		if err != nil {
			return nil, err
		}
		if config != "" {
			if err := cache.AddDependency(config); err != nil {
				return nil, err
			}
		}
		engine.SetCache(cache)
	}
	return engine, nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func hasErrors(issues []tt.Issue) bool {
	for _, issue := range issues {
		if issue.Severity == tt.SeverityError {
			return true
		}
	}
	return false
}

func printIssues(w io.Writer, issues []tt.Issue, isJSON bool, jsonOutput string) error {
	issuesByFile := make(map[string][]tt.Issue)
	for _, issue := range issues {
		issuesByFile[issue.Filename] = append(issuesByFile[issue.Filename], issue)
	}

	if isJSON {
		d, err := json.Marshal(issuesByFile)
		if err != nil {
			return fmt.Errorf("error marshalling issues to JSON: %w", err)
		}
		if jsonOutput == "" {
			_, err = fmt.Fprintln(w, string(d))
			return err
		}
		if err := os.WriteFile(jsonOutput, d, 0o644); err != nil {
			return fmt.Errorf("error writing JSON output file: %w", err)
		}
		return nil
	}

	sortedFiles := make([]string, 0, len(issuesByFile))
	for filename := range issuesByFile {
		sortedFiles = append(sortedFiles, filename)
	}
	sort.Strings(sortedFiles)

	for _, filename := range sortedFiles {
		if _, err := fmt.Fprint(w, formatter.GenerateFormattedIssue(issuesByFile[filename])); err != nil {
			return err
		}
	}
	return nil
}
