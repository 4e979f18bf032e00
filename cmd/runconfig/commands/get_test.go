package commands

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/runconfig/internal/config"
	"github.com/erraggy/runconfig/internal/fileutil"
	"github.com/erraggy/runconfig/internal/testutil"
)

func writeFixtureSpecs(t *testing.T) (string, string) {
	t.Helper()
	return testutil.WriteTempSpec(t, "system.yaml", testutil.SystemSpecYAML),
		testutil.WriteTempSpec(t, "services.yaml", testutil.ServiceSpecYAML)
}

func TestGet_Stdout(t *testing.T) {
	clearEnv(t)
	srv, url := testutil.NewConfigServer(t, testutil.DefaultRoutes())
	sys, svc := writeFixtureSpecs(t)

	code, stdout, stderr := run(t, "get", "--server", url, "-s", sys, "-s", svc)
	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, testutil.ExpectedOutput, stdout)
	assert.Equal(t, []string{"/system", "/services"}, srv.Paths())
}

func TestGet_PositionalSpecs(t *testing.T) {
	clearEnv(t)
	_, url := testutil.NewConfigServer(t, testutil.DefaultRoutes())
	sys, svc := writeFixtureSpecs(t)

	code, stdout, stderr := run(t, "get", "--server", url, sys, svc)
	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, testutil.ExpectedOutput, stdout)
}

func TestGet_UnixSocket(t *testing.T) {
	clearEnv(t)
	_, socket := testutil.NewUnixConfigServer(t, testutil.DefaultRoutes())
	sys, svc := writeFixtureSpecs(t)

	code, stdout, stderr := run(t, "get", "--socket", socket, "-s", sys, "-s", svc)
	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, testutil.ExpectedOutput, stdout)
}

func TestGet_OutputFile(t *testing.T) {
	clearEnv(t)
	_, url := testutil.NewConfigServer(t, testutil.DefaultRoutes())
	sys, svc := writeFixtureSpecs(t)
	out := filepath.Join(t.TempDir(), "running.yaml")

	code, stdout, stderr := run(t, "get", "--server", url, "-s", sys, "-s", svc, "-o", out)
	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, testutil.ExpectedOutput, string(data))
	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Equal(t, fileutil.OwnerReadWrite, info.Mode().Perm())
}

func TestGet_OutputSymlinkRefused(t *testing.T) {
	clearEnv(t)
	_, url := testutil.NewConfigServer(t, testutil.DefaultRoutes())
	sys, _ := writeFixtureSpecs(t)
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	require.NoError(t, os.WriteFile(target, nil, 0o600))
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(target, link))

	code, _, stderr := run(t, "get", "--server", url, "-s", sys, "-o", link)
	assert.Equal(t, ExitCodeError, code)
	assert.Contains(t, stderr, "refusing to write to symlink")
}

func TestGet_Prefix(t *testing.T) {
	clearEnv(t)
	srv, url := testutil.NewConfigServer(t, testutil.DefaultRoutes())
	sys, svc := writeFixtureSpecs(t)

	code, stdout, stderr := run(t, "get", "--server", url, "--prefix", "/system", "-s", sys, "-s", svc)
	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, "---\nsystem:\n  hostname: UT\n  timezone: Asia/Shanghai\n", stdout)
	assert.Equal(t, []string{"/system"}, srv.Paths())
}

func TestGet_ConfigFileEnvAndFlagPrecedence(t *testing.T) {
	clearEnv(t)
	srv, url := testutil.NewConfigServer(t, testutil.DefaultRoutes())
	sys, svc := writeFixtureSpecs(t)

	cfgFile := testutil.WriteTempYAML(t, map[string]any{
		"server":     "http://127.0.0.1:1",
		"specs":      []string{sys, svc},
		"pathPrefix": "/nothing",
		"headers":    map[string]string{"X-Token": "abc"},
	})

	// Env overrides the file's server; the flag overrides the file's prefix.
	t.Setenv(config.EnvServer, url)
	code, stdout, stderr := run(t, "--config", cfgFile, "get", "--prefix", "")
	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, testutil.ExpectedOutput, stdout)

	reqs := srv.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "abc", reqs[0].Header.Get("X-Token"))
}

func TestGet_HeaderFlag(t *testing.T) {
	clearEnv(t)
	srv, url := testutil.NewConfigServer(t, testutil.DefaultRoutes())
	sys, _ := writeFixtureSpecs(t)

	code, _, stderr := run(t, "get", "--server", url, "-s", sys, "-H", "Authorization: Bearer t0k")
	require.Equal(t, ExitCodeSuccess, code, stderr)
	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "Bearer t0k", reqs[0].Header.Get("Authorization"))

	code, _, stderr = run(t, "get", "--server", url, "-s", sys, "-H", "no-colon")
	assert.Equal(t, ExitCodeConfig, code)
	assert.Contains(t, stderr, "expected 'Name: value'")
}

func TestGet_Concurrency(t *testing.T) {
	clearEnv(t)
	_, url := testutil.NewConfigServer(t, testutil.DefaultRoutes())
	sys, svc := writeFixtureSpecs(t)

	code, stdout, stderr := run(t, "get", "--server", url, "--concurrency", "2", sys, svc)
	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, testutil.ExpectedOutput, stdout)
}

func TestGet_Logging(t *testing.T) {
	clearEnv(t)
	_, url := testutil.NewConfigServer(t, testutil.DefaultRoutes())
	sys, _ := writeFixtureSpecs(t)

	code, _, stderr := run(t, "--log-level", "debug", "--log-format", "json", "get", "--server", url, sys)
	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Contains(t, stderr, `"msg":"collecting running configuration"`)
	assert.Contains(t, stderr, `"msg":"fetched endpoint"`)
}

func TestGet_ExitCodes(t *testing.T) {
	clearEnv(t)
	sys, svc := writeFixtureSpecs(t)

	t.Run("missing settings", func(t *testing.T) {
		code, stdout, stderr := run(t, "get")
		assert.Equal(t, ExitCodeConfig, code)
		assert.Empty(t, stdout)
		assert.Contains(t, stderr, "specs")
		assert.Contains(t, stderr, "server address or unix socket is required")
	})

	t.Run("unreadable spec", func(t *testing.T) {
		code, _, stderr := run(t, "get", "--server", "http://127.0.0.1:1", "-s", filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Equal(t, ExitCodeConfig, code)
		assert.Contains(t, stderr, "cannot load OpenAPI document")
	})

	t.Run("status error", func(t *testing.T) {
		routes := testutil.DefaultRoutes()
		routes["/services"] = testutil.Route{Status: http.StatusServiceUnavailable, Body: "down"}
		_, url := testutil.NewConfigServer(t, routes)

		code, stdout, stderr := run(t, "get", "--server", url, sys, svc)
		assert.Equal(t, ExitCodeFetch, code)
		assert.Empty(t, stdout, "no partial output")
		assert.Contains(t, stderr, "503")
	})

	t.Run("unreachable server", func(t *testing.T) {
		code, _, _ := run(t, "get", "--socket", filepath.Join(t.TempDir(), "none.sock"), sys)
		assert.Equal(t, ExitCodeFetch, code)
	})

	t.Run("validation error", func(t *testing.T) {
		routes := testutil.DefaultRoutes()
		routes["/services"] = testutil.JSONRoute(`{"networking":{"enable":"yes"}}`)
		_, url := testutil.NewConfigServer(t, routes)

		code, stdout, stderr := run(t, "get", "--server", url, "--validate", sys, svc)
		assert.Equal(t, ExitCodeValidation, code)
		assert.Empty(t, stdout)
		assert.Contains(t, stderr, "/services")
	})

	t.Run("invalid body", func(t *testing.T) {
		routes := testutil.DefaultRoutes()
		routes["/system"] = testutil.JSONRoute(`{"hostname":`)
		_, url := testutil.NewConfigServer(t, routes)

		code, _, stderr := run(t, "get", "--server", url, sys)
		assert.Equal(t, ExitCodeError, code)
		assert.True(t, strings.Contains(stderr, "invalid JSON"), stderr)
	})
}
