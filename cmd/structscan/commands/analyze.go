package commands

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/structscan/structscan/engine/analyzer"
	"github.com/structscan/structscan/engine/core"
	"github.com/structscan/structscan/engine/export"
	"github.com/structscan/structscan/engine/manifest"
	"github.com/structscan/structscan/engine/parser"
	"github.com/structscan/structscan/pkg/config"
	"github.com/structscan/structscan/pkg/errors"
	"github.com/structscan/structscan/pkg/logger"
	"github.com/structscan/structscan/pkg/progress"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Analyze a Java project and print its coupling report",
	Long: `Analyze parses every eligible Java source file under the project root,
resolves inter-class references, and computes coupling metrics.

The analysis runs in three strictly ordered passes:
  • Registry: one record per declared class or interface, project-wide
  • Collection: outgoing dependency edges per class, resolved heuristically
  • Aggregation: incoming edges, project summaries, and ranking

The resulting report lists every class with its dependencies, afferent and
efferent coupling, and CBO/DIT/LCOM/RFC metrics, sorted by total coupling.
Files under test or build-output directories are excluded. Individual files
that fail to parse are skipped with a warning; only a missing project or a
project without any eligible source files fails the run.`,
	Example: `  # Analyze the current directory
  structscan analyze .

  # CSV output to a file
  structscan analyze /path/to/project --format csv --output coupling.csv

  # Plain logs instead of a spinner (for CI)
  structscan analyze /path/to/project --no-progress`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectPath := args[0]

		return errors.WithRecover("analyze_command", func() error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			if err := applyAnalyzeFlags(cmd, cfg); err != nil {
				return err
			}

			noProgress, err := cmd.Flags().GetBool("no-progress")
			if err != nil {
				return fmt.Errorf("failed to get no-progress flag: %w", err)
			}
			outputPath, err := cmd.Flags().GetString("output")
			if err != nil {
				return fmt.Errorf("failed to get output flag: %w", err)
			}

			return runAnalysis(projectPath, cfg, outputPath, noProgress)
		})
	},
}

// applyAnalyzeFlags lets command-line flags win over file/env configuration
func applyAnalyzeFlags(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("format") {
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			return err
		}
		cfg.Output.Format = format
	}
	if cmd.Flags().Changed("pretty") {
		pretty, err := cmd.Flags().GetBool("pretty")
		if err != nil {
			return err
		}
		cfg.Output.Pretty = pretty
	}
	if cmd.Flags().Changed("include-tests") {
		includeTests, err := cmd.Flags().GetBool("include-tests")
		if err != nil {
			return err
		}
		cfg.Analysis.IncludeTests = includeTests
	}
	if cmd.Flags().Changed("deterministic") {
		deterministic, err := cmd.Flags().GetBool("deterministic")
		if err != nil {
			return err
		}
		cfg.Output.Deterministic = deterministic
	}
	return nil
}

func runAnalysis(projectPath string, cfg *config.Config, outputPath string, noProgress bool) error {
	ctx := context.Background()
	startTime := time.Now()
	runID := core.NewID()
	logger.Debug("starting analysis run", "run_id", runID.String(), "path", projectPath)

	info, err := os.Stat(projectPath)
	if err != nil || !info.IsDir() {
		return core.NewError(
			fmt.Errorf("not a readable directory: %s", projectPath),
			core.ErrorCodeInvalidPath,
			map[string]any{"path": projectPath},
		)
	}

	format, err := export.ParseFormat(cfg.Output.Format)
	if err != nil {
		return core.NewError(err, core.ErrorCodeConfigInvalid, nil)
	}

	withPhase := progress.WithProgress
	if noProgress {
		withPhase = func(message string, fn func() error) error {
			logger.Info(message)
			return fn()
		}
	}

	// -----
	// Manifest Phase
	// -----
	project := manifest.Load(projectPath)
	if cfg.Project.Name != "" {
		project.Name = cfg.Project.Name
	}
	if cfg.Project.GroupID != "" {
		project.GroupID = cfg.Project.GroupID
	}

	// -----
	// Parsing Phase
	// -----
	var parseResult *parser.ParseResult
	err = withPhase("Parsing source files", func() error {
		parserService := parser.NewService(cfg.ParserConfig())
		var err error
		parseResult, err = parserService.ParseProject(ctx, projectPath, nil)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to parse project: %w", err)
	}
	logger.Info("parsing completed",
		"files", len(parseResult.Files),
		"skipped", len(parseResult.FailedFiles),
		"duration_ms", parseResult.ParseTime)

	// -----
	// Analysis Phase
	// -----
	var analysis *core.ProjectAnalysis
	err = withPhase("Analyzing coupling structure", func() error {
		analyzerService := analyzer.NewAnalyzer(cfg.AnalyzerConfig())
		input := &analyzer.AnalysisInput{
			ProjectName:    project.Name,
			ProjectPath:    projectPath,
			ProjectGroupID: project.GroupID,
			ParseResult:    parseResult,
		}
		var err error
		analysis, err = analyzerService.AnalyzeProject(ctx, input)
		return err
	})
	if err != nil {
		return err
	}

	// -----
	// Export Phase
	// -----
	options := export.DefaultOptions(format)
	options.Pretty = cfg.Output.Pretty
	options.Deterministic = cfg.Output.Deterministic

	out := os.Stdout
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return core.NewError(
				fmt.Errorf("failed to create output file: %w", err),
				core.ErrorCodeExportFailed,
				map[string]any{"path": outputPath},
			)
		}
		defer file.Close()
		out = file
	}

	if err := export.NewExporter(options).Export(out, analysis); err != nil {
		return core.NewError(err, core.ErrorCodeExportFailed, nil)
	}

	logger.Info("✓ analysis completed successfully",
		"classes", analysis.TotalClasses,
		"highly_coupled", analysis.HighlyCoupledClasses,
		"duration", time.Since(startTime).Round(time.Millisecond))
	return nil
}

var initAnalyzeOnce sync.Once

// InitAnalyzeCommand registers the analyze command
func InitAnalyzeCommand() {
	initAnalyzeOnce.Do(func() {
		rootCmd.AddCommand(analyzeCmd)

		analyzeCmd.Flags().Bool("no-progress", false, "Disable progress indicators")
		analyzeCmd.Flags().String("format", "json", "Output format: json, csv or tsv")
		analyzeCmd.Flags().Bool("pretty", true, "Pretty-print JSON output")
		analyzeCmd.Flags().Bool("include-tests", false, "Include files under test directories")
		analyzeCmd.Flags().Bool("deterministic", false, "Omit the run timestamp and duration from the report")
		analyzeCmd.Flags().StringP("output", "o", "", "Write the report to a file instead of stdout")
	})
}
