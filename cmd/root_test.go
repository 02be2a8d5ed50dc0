package main

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"check", "analyze", "serve"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "install-check", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.True(t, rootCmd.SilenceUsage)
}

func TestRootCommand_OutputFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("output")
	require.NotNil(t, flag)
	assert.Equal(t, "o", flag.Shorthand)
	assert.Equal(t, "", flag.DefValue)
}

func TestCheckCommand_Flags(t *testing.T) {
	f := checkCmd.Flags()
	for _, name := range []string{"url", "network", "facade-length", "aerial-height", "public-dig", "save", "case-id"} {
		assert.NotNil(t, f.Lookup(name), "check command should have --%s flag", name)
	}
	assert.Equal(t, "auto", f.Lookup("network").DefValue)
	assert.Equal(t, "unknown", f.Lookup("public-dig").DefValue)
	assert.Equal(t, "false", f.Lookup("save").DefValue)
}

func TestAnalyzeCommand_Flags(t *testing.T) {
	f := analyzeCmd.Flags()
	for _, name := range []string{"address", "save", "case-id"} {
		assert.NotNil(t, f.Lookup(name), "analyze command should have --%s flag", name)
	}
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestAnalyzeCommand_RequiresAddress(t *testing.T) {
	chdirTemp(t)
	rootCmd.SetArgs([]string{"analyze"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address is required")
}

func TestCheckCommand_Execute(t *testing.T) {
	chdirTemp(t)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{
		"check",
		"--url", "https://www.google.com/maps/@50.85,4.35,17z",
		"--network", "facade",
		"--facade-length", "30",
	})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())

	var got struct {
		Result struct {
			Entry    string `json:"entry"`
			Decision struct {
				Label string `json:"label"`
			} `json:"decision"`
		} `json:"result"`
		Record json.RawMessage `json:"record"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "check", got.Result.Entry)
	assert.Equal(t, "simple", got.Result.Decision.Label)
	assert.Nil(t, got.Record)
}

// chdirTemp changes into a fresh temp dir for the test and restores the
// previous working directory on cleanup (stand-in for t.Chdir, Go 1.24+).
func chdirTemp(t *testing.T) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
