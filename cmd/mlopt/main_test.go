package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/nickng/mlpass/config"
	"github.com/nickng/mlpass/ir"
	"github.com/nickng/mlpass/irfile"
	"github.com/nickng/mlpass/loop"
	"github.com/nickng/mlpass/pass"
	"github.com/pkg/errors"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xyproto/env/v2"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := newRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestOptText(t *testing.T) {
	out, err := run(t, "opt", "-p", "loop-unroll", "testdata/loop.yaml")
	require.NoError(t, err)

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "opt_text", []byte(out))
}

func TestOptNoPasses(t *testing.T) {
	out, err := run(t, "opt", "testdata/loop.yaml")
	require.NoError(t, err)
	m, err := irfile.LoadFile("testdata/loop.yaml")
	require.NoError(t, err)
	assert.Equal(t, m.String(), out)
}

func TestOptYAMLOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	out, err := run(t, "opt", "-p", "loop-unroll", "--emit", "yaml", "-o", path, "testdata/loop.yaml")
	require.NoError(t, err)
	assert.Empty(t, out)

	m, err := irfile.LoadFile(path)
	require.NoError(t, err)
	f := m.Func("f").(*ir.MLFunction)
	assert.Equal(t, 4, f.Body().Len())
	assert.Empty(t, loop.InnermostLoops(f))
}

func TestOptPipelineFile(t *testing.T) {
	out, err := run(t, "opt", "--pipeline", "testdata/pipeline.cue", "testdata/loop.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "functions:")
	assert.NotContains(t, out, "for:")

	// Flags take precedence over the pipeline file.
	out, err = run(t, "opt", "--pipeline", "testdata/pipeline.cue", "-p", "quant-lower-tf", "--emit", "text", "testdata/loop.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "for %i = 0 to 1 step 1 {")
}

func TestOptGoSource(t *testing.T) {
	out, err := run(t, "opt", "-p", "loop-unroll", "testdata/loop.go")
	require.NoError(t, err)
	assert.Contains(t, out, `"go.expr"(0, %n) {src = "println(i + n)"} : (index, i64) -> ()`)
	assert.Contains(t, out, `"go.expr"(1, %n) {src = "println(i + n)"} : (index, i64) -> ()`)
	assert.Contains(t, out, "cfgfunc @main")
}

func TestOptErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"UnknownPass", []string{"opt", "-p", "nope", "testdata/loop.yaml"}, "unknown pass"},
		{"BadEmit", []string{"opt", "--emit", "json", "testdata/loop.yaml"}, "unknown output format"},
		{"Unsupported", []string{"opt", "testdata/pipeline.cue"}, "unsupported input"},
		{"Missing", []string{"opt", "testdata/missing.yaml"}, "cannot open"},
		{"NoArgs", []string{"opt"}, "accepts 1 arg"},
		{"MissingPipeline", []string{"opt", "--pipeline", "testdata/missing.cue", "testdata/loop.yaml"}, "pipeline file"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := run(t, test.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), test.msg)
		})
	}
}

func TestOptUnrollFailure(t *testing.T) {
	_, err := run(t, "opt", "-p", "loop-unroll", "testdata/nested.yaml")
	require.Error(t, err)
	_, ok := errors.Cause(err).(*loop.UnsupportedStmtError)
	assert.True(t, ok, "want *loop.UnsupportedStmtError, got %v", err)
	assert.True(t, strings.HasPrefix(err.Error(), "pass loop-unroll: @g: "), err.Error())
}

func TestPrint(t *testing.T) {
	out, err := run(t, "print", "testdata/nested.yaml")
	require.NoError(t, err)
	assert.Equal(t, `mlfunc @g() {
  for %i = 0 to 1 step 1 {
    %c = "cmp"(%i) : (index) -> i1
    if %c {
      "work"() : () -> ()
    }
  }
}
`, out)
}

func TestSSA(t *testing.T) {
	out, err := run(t, "ssa", "--func", "f", "testdata/loop.go")
	require.NoError(t, err)
	assert.Contains(t, out, "func f(n int):")
	assert.NotContains(t, out, "func main()")

	out, err = run(t, "ssa", "testdata/loop.go")
	require.NoError(t, err)
	assert.Contains(t, out, "func main()")

	_, err = run(t, "ssa", "--func", "nope", "testdata/loop.go")
	assert.Error(t, err)
}

func TestPasses(t *testing.T) {
	out, err := run(t, "passes")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "loop-unroll "))
}

func TestLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opt.log")
	_, err := run(t, "--log", path, "opt", "-p", "loop-unroll", "testdata/loop.yaml")
	require.NoError(t, err)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "pass finished")
	assert.Contains(t, string(b), "pipeline finished")
}

func TestLogFileKeepsColor(t *testing.T) {
	if !plainLog {
		t.Skip("development log is not JSON")
	}
	t.Cleanup(env.Load)
	t.Setenv(config.EnvNoColor, "")
	env.Load()
	noColor := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = noColor })

	path := filepath.Join(t.TempDir(), "opt.log")
	_, err := run(t, "--log", path, "opt", "-p", "loop-unroll", "testdata/loop.yaml")
	require.NoError(t, err)
	assert.False(t, color.NoColor, "log file should not disable colour on the terminal")
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"module":"pipe "`)
	assert.NotContains(t, string(b), "\x1b[")
	assert.NotContains(t, string(b), `\u001b[`)
}

func TestSetupLoggerDefault(t *testing.T) {
	cfg, err := loadConfig(newRootCommand(), &rootOptions{}, "")
	require.NoError(t, err)
	cfg.LogPath = ""
	l, sync, err := setupLogger(cfg)
	require.NoError(t, err)
	defer sync()
	assert.IsType(t, &pass.Logger{}, l)
}
