package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madankc71/Credit-Card-Approval-Prediction/pipeline"
	"github.com/madankc71/Credit-Card-Approval-Prediction/pkg/errors"
	"github.com/madankc71/Credit-Card-Approval-Prediction/pkg/log"
)

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags restores flag defaults, which stick between invocations.
func resetFlags() {
	for _, fs := range []*pflag.FlagSet{rootCmd.PersistentFlags(), runCmd.Flags(), describeCmd.Flags()} {
		fs.VisitAll(func(f *pflag.Flag) {
			if sv, ok := f.Value.(pflag.SliceValue); ok {
				_ = sv.Replace(nil)
			} else {
				_ = f.Value.Set(f.DefValue)
			}
			f.Changed = false
		})
	}
}

func writeCredit(t *testing.T, n int) string {
	t.Helper()
	var b strings.Builder
	for i := 0; i < n; i++ {
		debt := fmt.Sprintf("%.2f", float64(i)*0.25)
		if i%9 == 4 {
			debt = "?"
		}
		label := "-"
		if i%10 >= 5 {
			label = "+"
		}
		fmt.Fprintf(&b, "%s,%s,%d,%s\n", []string{"a", "b"}[i%2], debt, (i%10)*100, label)
	}
	path := filepath.Join(t.TempDir(), "crx.data")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func TestRunCommandJSON(t *testing.T) {
	data := writeCredit(t, 60)
	out, err := execute(t, "run", "--data", data, "--models", "decision_tree,logistic_regression",
		"--format", "json", "--progress=false")
	require.NoError(t, err)

	var report struct {
		DataPath  string `json:"data_path"`
		TrainRows int    `json:"train_rows"`
		Results   []struct {
			Model   string `json:"model"`
			Variant string `json:"variant"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, data, report.DataPath)
	assert.Equal(t, 45, report.TrainRows)
	require.Len(t, report.Results, 3)
	assert.Equal(t, pipeline.ModelDecisionTree, report.Results[0].Model)
	assert.Equal(t, pipeline.VariantNormalized, report.Results[2].Variant)
}

func TestRunCommandText(t *testing.T) {
	data := writeCredit(t, 40)
	out, err := execute(t, "run", "--data", data, "--models", "decision_tree",
		"--no-normalize", "--seed", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "confusion matrix: decision_tree (raw)")
	assert.NotContains(t, out, "normalized")
}

func TestRunCommandErrors(t *testing.T) {
	_, err := execute(t, "run", "--data", filepath.Join(t.TempDir(), "none.data"), "--progress=false")
	assert.Error(t, err)

	data := writeCredit(t, 40)
	_, err = execute(t, "run", "--data", data, "--test-size", "1.5", "--progress=false")
	assert.Error(t, err)

	_, err = execute(t, "run", "--data", data, "--models", "decision_tree", "--format", "xml", "--progress=false")
	assert.Error(t, err)
}

func TestDescribeCommand(t *testing.T) {
	data := writeCredit(t, 20)
	sanitized := filepath.Join(t.TempDir(), "clean.csv")
	out, err := execute(t, "describe", "--data", data, "--sanitized-out", sanitized)
	require.NoError(t, err)
	assert.Contains(t, out, "rows=20 columns=4")
	assert.Contains(t, out, "labels:")

	b, err := os.ReadFile(sanitized)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(b)), "\n"), 20)

	out, err = execute(t, "describe", "--data", data, "--format", "json")
	require.NoError(t, err)
	var summary map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, float64(20), summary["rows"])
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credit.yaml")
	out, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	loaded, err := pipeline.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, pipeline.DefaultConfig(), loaded)

	out, err = execute(t, "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "test_size: 0.25")
	assert.Contains(t, out, "gradient_boosting")
}

func TestProgressEnabled(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, progressEnabled(false, false, &buf))
	assert.True(t, progressEnabled(true, true, &buf))
	assert.False(t, progressEnabled(true, false, &buf))
}

func TestRunCommandNoProgressWhenPiped(t *testing.T) {
	data := writeCredit(t, 40)
	var stderr bytes.Buffer
	rootCmd.SetErr(&stderr)
	defer rootCmd.SetErr(nil)

	resetFlags()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"run", "--data", data, "--models", "decision_tree", "--format", "json", "--log-level", "error"})
	require.NoError(t, rootCmd.Execute())
	assert.Empty(t, stderr.String())
	assert.True(t, json.Valid(out.Bytes()))
}

func TestReportFailure(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)
	defer log.SetProvider(nil)

	var buf bytes.Buffer
	require.NoError(t, log.SetupLogger("error", &buf))
	reportFailure(&buf, errors.NewDataAccessError("crx.data", 0, os.ErrNotExist))

	out := buf.String()
	assert.Contains(t, out, "Command failed")
	assert.Contains(t, out, log.StacktraceAttrKey)
	assert.Contains(t, out, "Error: ")
	assert.Contains(t, out, "crx.data")
}
