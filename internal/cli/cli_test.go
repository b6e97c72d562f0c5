package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/RCorpy/presupuestatorvoice/internal/ipc"
	"github.com/RCorpy/presupuestatorvoice/internal/logging"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.jsonc")
	out := filepath.Join(t.TempDir(), "out")
	content := fmt.Sprintf(`{"catalog": {"driver": "memory"}, "export": {"output_dir": %q}, "session": {"initial_rows": 2}}`, out)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	streams := Streams{In: strings.NewReader(stdin), Out: &out, Err: &errOut}
	err := Execute(context.Background(), args, streams, logging.Discard())
	return out.String(), errOut.String(), err
}

func TestWriteRowsMarksActiveRow(t *testing.T) {
	var buf bytes.Buffer
	rows := []ipc.Row{
		{Kind: "TITLE", Cols: []string{"", "IMPRIMACIÓN"}},
		{Kind: "PRODUCT", Cols: []string{"1 kit 15kg", "KIT EPOXI PRIMER", "1", "95", "95"}},
	}
	require.NoError(t, writeRows(&buf, rows, 2))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	require.Contains(t, lines[0], "PRODUCTO")
	require.False(t, strings.HasPrefix(lines[1], ">"))
	require.True(t, strings.HasPrefix(lines[2], ">"))
	require.Contains(t, lines[2], "KIT EPOXI PRIMER")
}

func TestWriteStateTruncatesCandidates(t *testing.T) {
	candidates := make([]string, maxCandidates+3)
	for i := range candidates {
		candidates[i] = fmt.Sprintf("KIT %02d", i)
	}
	var buf bytes.Buffer
	require.NoError(t, writeState(&buf, ipc.Response{Mode: "PRODUCT", ActiveRow: 1, Candidates: candidates}))

	out := buf.String()
	require.Contains(t, out, "modo=PRODUCT fila=1")
	require.Contains(t, out, "candidatos (13):")
	require.Contains(t, out, "KIT 09")
	require.NotContains(t, out, "KIT 10")
	require.Contains(t, out, "... y 3 más")
}

func TestExecuteUsageErrorPrintsUsage(t *testing.T) {
	_, stderr, err := execute(t, "", "say")
	require.True(t, IsUsage(err))
	require.Contains(t, stderr, "error: requires at least 1 arg(s)")
	require.Contains(t, stderr, "Usage:")
}

func TestExecuteRuntimeErrorIsNotUsage(t *testing.T) {
	_, stderr, err := execute(t, "", "--config", writeConfig(t), "--socket", filepath.Join(t.TempDir(), "none.sock"), "cancel")
	require.ErrorIs(t, err, ErrNoSession)
	require.False(t, IsUsage(err))
	require.NotContains(t, stderr, "Usage:")
}

func TestStatusIdleWithMissingSocket(t *testing.T) {
	out, _, err := execute(t, "", "--config", writeConfig(t), "--socket", filepath.Join(t.TempDir(), "none.sock"), "status")
	require.NoError(t, err)
	require.Equal(t, "idle\n", out)
}

func TestMissingConfigWarns(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.jsonc")
	_, stderr, err := execute(t, "", "--config", missing, "--socket", filepath.Join(t.TempDir(), "none.sock"), "status")
	require.NoError(t, err)
	require.Contains(t, stderr, "warning: config file")
}

func TestReplMetaCommands(t *testing.T) {
	input := strings.Join([]string{
		"/ayuda",
		"/elegir kit politop",
		"/insertar",
		"título",
		"cancelar",
		"/estado",
	}, "\n")
	out, stderr, err := execute(t, input, "--config", writeConfig(t), "repl", "--no-socket")
	require.NoError(t, err, stderr)

	require.Contains(t, out, "/exportar")
	require.Contains(t, out, "Producto KIT POLITOP asignado")
	require.Contains(t, out, "Fila nueva creada: 2")
	require.Contains(t, out, "modo=IDLE")
	require.Contains(t, out, "KIT POLITOP")
	require.Contains(t, out, "TITLE")
}

func TestGenerateSendLoadsRunningSession(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "s.sock")
	listener, err := net.Listen("unix", socketPath)
	require.NoError(t, err)

	got := make(chan ipc.Request, 1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ipc.Serve(ctx, listener, ipc.HandlerFunc(func(_ context.Context, req ipc.Request) ipc.Response {
			got <- req
			return ipc.Response{OK: true, Message: "Proforma cargada"}
		}))
	}()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})

	out, stderr, err := execute(t, "", "--config", writeConfig(t), "--socket", socketPath,
		"generate", "--resin", "politop", "--work", "capa", "--area", "10", "--send")
	require.NoError(t, err, stderr)
	require.Contains(t, out, "Proforma cargada")

	req := <-got
	require.Equal(t, ipc.CommandLoad, req.Command)
	require.NotEmpty(t, req.Rows)
	require.Equal(t, "TITLE", req.Rows[0].Kind)
}

func TestCatalogInitMemoryFails(t *testing.T) {
	_, stderr, err := execute(t, "", "--config", writeConfig(t), "catalog", "init")
	require.Error(t, err)
	require.False(t, IsUsage(err))
	require.Contains(t, stderr, "memory catalog cannot be initialized")
}

func TestDoctorFailureIsReported(t *testing.T) {
	t.Setenv("PULSE_SERVER", "unix:/tmp/definitely-missing-pulse-server")
	out, _, err := execute(t, "", "--config", writeConfig(t), "doctor")
	require.True(t, errors.Is(err, ErrDoctorFailed))
	require.Contains(t, out, "[OK] catalog")
}
