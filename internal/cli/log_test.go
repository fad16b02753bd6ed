package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

// runLogged executes args with a logger writing to a buffer at level.
func runLogged(t *testing.T, level log.Level, args ...string) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var logs bytes.Buffer
	c := New(&logs, level)
	c.Out = io.Discard
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return logs.String()
}

func TestSolveLogsProgress(t *testing.T) {
	out := runLogged(t, LogInfo, "solve", "--variable", "4.6")

	for _, want := range []string{"Resolved ring", "elapsed=", "links=22", "drive=variable", "iterations="} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "iterations=0") {
		t.Errorf("variable drive should report bisection iterations:\n%s", out)
	}
}

func TestVerboseLogsRunnerDetail(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want bool
	}{
		{"info hides runner debug", []string{"solve", "--radius", "43"}, false},
		{"verbose shows runner debug", []string{"--verbose", "solve", "--radius", "43"}, true},
		{"short flag", []string{"solve", "-v", "--radius", "43"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := runLogged(t, LogInfo, tt.args...)
			if got := strings.Contains(out, "resolved ring"); got != tt.want {
				t.Errorf("runner debug line present = %v, want %v:\n%s", got, tt.want, out)
			}
		})
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	c.Logger.Debug("hidden")
	c.SetLogLevel(LogDebug)
	c.Logger.Debug("shown")

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("unexpected log output:\n%s", buf.String())
	}
}

func TestResolveUsesContextLogger(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var cliLogs, ctxLogs bytes.Buffer
	c := New(&cliLogs, LogInfo)
	cmd := c.solveCommand()
	if err := cmd.ParseFlags(nil); err != nil {
		t.Fatal(err)
	}

	ctx := withLogger(context.Background(), newLogger(&ctxLogs, log.InfoLevel))
	if _, err := c.resolve(ctx, cmd); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !strings.Contains(ctxLogs.String(), "Resolved ring") {
		t.Errorf("progress should go to the context logger, got %q", ctxLogs.String())
	}
	if strings.Contains(cliLogs.String(), "Resolved ring") {
		t.Error("progress should not go to the CLI logger")
	}
}

func TestLoggerFromContextDefault(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext should fall back to log.Default()")
	}
}
