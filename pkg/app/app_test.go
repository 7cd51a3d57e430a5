package app

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LucasJalles/controle-vendas/pkg/settings"
	"github.com/LucasJalles/controle-vendas/pkg/version"
)

func TestConfigDefaults(t *testing.T) {
	cfg, err := configFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 8765, cfg.Port)
	assert.Equal(t, "vendas.db", cfg.SettingsPath)
	assert.True(t, cfg.SheetsOpaque)
	assert.Equal(t, "America/Sao_Paulo", cfg.Location)
	assert.Equal(t, "development", cfg.LogMode)
	assert.Empty(t, cfg.LogFile)
}

func TestConfigFromEnvironment(t *testing.T) {
	t.Setenv("VENDAS_PORT", "9000")
	t.Setenv("VENDAS_SHEETS_OPAQUE", "false")
	t.Setenv("VENDAS_SESSION_SECRET", "s3cret")

	cfg, err := configFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.False(t, cfg.SheetsOpaque)

	secret, err := cfg.sessionSecret()
	require.NoError(t, err)
	assert.Equal(t, []byte("s3cret"), secret)
}

func TestConfigRejectsBadPort(t *testing.T) {
	t.Setenv("VENDAS_PORT", "not-a-port")
	_, err := configFromEnv()
	assert.Error(t, err)
}

func TestRandomSessionSecret(t *testing.T) {
	a, err := Config{}.sessionSecret()
	require.NoError(t, err)
	b, err := Config{}.sessionSecret()
	require.NoError(t, err)
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestLocationFallsBackToLocal(t *testing.T) {
	assert.Equal(t, "America/Sao_Paulo", Config{Location: "America/Sao_Paulo"}.location().String())
	assert.Equal(t, time.Local, Config{Location: "Nowhere/Special"}.location())
}

func TestLoggerWritesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vendas.log")
	logger, err := newLogger(Config{LogMode: "production", LogFile: path})
	require.NoError(t, err)
	logger.Info("hello")
	_ = logger.Sync()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"msg":"hello"`)
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cliApp := newCLI()
	cliApp.Writer = &out
	require.NoError(t, cliApp.Run([]string{"vendas", "version"}))
	assert.Equal(t, version.Version()+"\n", out.String())
}

func TestConfigureCommandStoresURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vendas.db")
	var out bytes.Buffer
	cliApp := newCLI()
	cliApp.Writer = &out

	err := cliApp.Run([]string{"vendas", "--settings-path", path, "configure", "--sheets-url", " https://example.test/exec "})
	require.NoError(t, err)
	assert.Contains(t, out.String(), path)

	store, err := settings.Open(path)
	require.NoError(t, err)
	defer store.Close()
	assert.Equal(t, "https://example.test/exec", store.SheetsURL())
}

func TestListenStopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	server := &http.Server{Addr: addr, Handler: http.NotFoundHandler()}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- listen(ctx, server) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusNotFound
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
