package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structscan/structscan/engine/core"
	"github.com/structscan/structscan/pkg/logger"
)

const sampleProject = "../../../testdata/sample_project"

// executeCommand runs the fully wired root command with the given arguments
// and captures cobra's own output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	InitRootFlags()
	InitAnalyzeCommand()
	InitVersionCommand()
	logger.Disable()
	t.Cleanup(logger.Enable)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestAnalyzeCommand(t *testing.T) {
	t.Run("Should require exactly one project path argument", func(t *testing.T) {
		_, err := executeCommand(t, "analyze")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "arg")

		_, err = executeCommand(t, "analyze", "a", "b")
		require.Error(t, err)
	})

	t.Run("Should fail on a nonexistent project path", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "report.json")
		_, err := executeCommand(t, "analyze", filepath.Join(t.TempDir(), "missing"),
			"--no-progress", "--output", out)
		require.Error(t, err)

		var typed *core.Error
		require.ErrorAs(t, err, &typed)
		assert.Equal(t, core.ErrorCodeInvalidPath, typed.Code)
	})

	t.Run("Should fail on a project without source files", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "report.json")
		_, err := executeCommand(t, "analyze", t.TempDir(),
			"--no-progress", "--output", out)
		require.Error(t, err)

		var typed *core.Error
		require.ErrorAs(t, err, &typed)
		assert.Equal(t, core.ErrorCodeNoSourceFiles, typed.Code)
	})

	t.Run("Should reject an unknown output format", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "report.json")
		_, err := executeCommand(t, "analyze", sampleProject,
			"--no-progress", "--format", "xml", "--output", out)
		require.Error(t, err)

		var typed *core.Error
		require.ErrorAs(t, err, &typed)
		assert.Equal(t, core.ErrorCodeConfigInvalid, typed.Code)
	})

	t.Run("Should analyze the sample project end to end", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "report.json")
		_, err := executeCommand(t, "analyze", sampleProject,
			"--no-progress", "--format", "json", "--output", out)
		require.NoError(t, err)

		data, err := os.ReadFile(out)
		require.NoError(t, err)

		var doc struct {
			ProjectName          string  `json:"projectName"`
			ProjectGroupID       string  `json:"projectGroupId"`
			TotalClasses         int     `json:"totalClasses"`
			AverageCoupling      float64 `json:"averageCoupling"`
			MaxCoupling          int     `json:"maxCoupling"`
			HighlyCoupledClasses int     `json:"highlyCoupledClasses"`
			Classes              []struct {
				ClassName   string   `json:"className"`
				DependsOn   []string `json:"dependsOn"`
				CouplingOut int      `json:"couplingOut"`
				CouplingIn  int      `json:"couplingIn"`
			} `json:"classes"`
		}
		require.NoError(t, json.Unmarshal(data, &doc))
		assert.Contains(t, string(data), `"analyzedAt"`)

		assert.Equal(t, "Acme Store", doc.ProjectName)
		assert.Equal(t, "com.acme", doc.ProjectGroupID)
		assert.Equal(t, 6, doc.TotalClasses)
		assert.Equal(t, 7, doc.MaxCoupling)
		assert.Equal(t, 2, doc.HighlyCoupledClasses)
		assert.InDelta(t, 16.0/6.0, doc.AverageCoupling, 1e-9)

		require.NotEmpty(t, doc.Classes)
		top := doc.Classes[0]
		assert.Equal(t, "com.acme.store.Order", top.ClassName)
		assert.Equal(t, 5, top.CouplingOut)
		assert.Equal(t, 2, top.CouplingIn)
		assert.Equal(t, []string{
			"com.acme.store.Auditable",
			"com.acme.store.BaseEntity",
			"com.acme.store.Customer",
			"com.acme.store.Invoice",
			"com.acme.store.OrderLine",
		}, top.DependsOn)
	})

	t.Run("Should export CSV when requested", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "report.csv")
		_, err := executeCommand(t, "analyze", sampleProject,
			"--no-progress", "--format", "csv", "--output", out)
		require.NoError(t, err)

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
		// Header plus one row per class.
		assert.Len(t, lines, 7)
		assert.True(t, bytes.HasPrefix(lines[0], []byte("className,")))
	})

	t.Run("Should serialize byte-identically across runs with --deterministic", func(t *testing.T) {
		first := filepath.Join(t.TempDir(), "first.json")
		_, err := executeCommand(t, "analyze", sampleProject,
			"--no-progress", "--format", "json", "--deterministic", "--output", first)
		require.NoError(t, err)

		second := filepath.Join(t.TempDir(), "second.json")
		_, err = executeCommand(t, "analyze", sampleProject,
			"--no-progress", "--format", "json", "--deterministic", "--output", second)
		require.NoError(t, err)

		firstData, err := os.ReadFile(first)
		require.NoError(t, err)
		secondData, err := os.ReadFile(second)
		require.NoError(t, err)

		assert.Equal(t, firstData, secondData)
		assert.NotContains(t, string(firstData), `"analyzedAt"`)
		assert.NotContains(t, string(firstData), `"durationMs"`)
	})
}

func TestVersionCommand(t *testing.T) {
	t.Run("Should run without error", func(t *testing.T) {
		_, err := executeCommand(t, "version")
		require.NoError(t, err)
	})
}
