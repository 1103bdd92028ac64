package commands

import (
	"sync"

	"github.com/spf13/cobra"
	"github.com/structscan/structscan/pkg/logger"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "structscan",
	Short: "A structural coupling analyzer for Java codebases",
	Long: `Structscan analyzes the structural coupling of a Java codebase. It parses
source files into declaration facts, resolves type references against the
project's own classes, builds the dependency graph, and computes
object-oriented metrics (CBO, DIT, LCOM, RFC) together with project-level
coupling summaries that flag highly-coupled classes.

Example workflow:
  1. Analyze a project:          structscan analyze /path/to/project
  2. Export CSV for spreadsheets: structscan analyze . --format csv
  3. Write to a file:            structscan analyze . --output report.json`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetDebug(debugMode)
	},
}

var (
	initRootOnce sync.Once
	cfgFile      string
	debugMode    bool
)

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main() and only needs to happen
// once.
func Execute() {
	InitRootFlags()
	InitAnalyzeCommand()
	InitVersionCommand()

	cobra.CheckErr(rootCmd.Execute())
}

// InitRootFlags registers the global flags
func InitRootFlags() {
	initRootOnce.Do(func() {
		rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./structscan.yaml)")
		rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")
	})
}
