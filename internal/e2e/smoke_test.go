package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmokeFlow(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)
	api := startAPI(t)

	stdout, stderr, err := runWA(t, binaryPath, home, api, "open", "/")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "/login (Login)")

	_, stderr, err = runWA(t, binaryPath, home, api, "login", "--username", "alice", "--password", "secret")
	require.NoError(t, err, "stderr: %s", stderr)

	stdout, stderr, err = runWA(t, binaryPath, home, api, "warehouse", "list", "-o", "json")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, `"name": "North"`)

	_, stderr, err = runWA(t, binaryPath, home, api, "logout")
	require.NoError(t, err, "stderr: %s", stderr)

	_, _, err = runWA(t, binaryPath, home, api, "warehouse", "list")
	require.Error(t, err)
}

func TestSmokeRoutes(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)

	stdout, stderr, err := runWA(t, binaryPath, home, "", "routes")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "/dashboard/warehouses")
}

func startAPI(t *testing.T) string {
	t.Helper()

	reply := func(w http.ResponseWriter, data any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"code": 200, "data": data})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/iot-warehouse/user/login", func(w http.ResponseWriter, _ *http.Request) {
		reply(w, map[string]any{"userId": 1, "username": "alice", "token": "tok-1"})
	})
	mux.HandleFunc("/iot-warehouse/warehouse/getAllWarehouses", func(w http.ResponseWriter, _ *http.Request) {
		reply(w, []map[string]any{{"warehouseId": 1, "name": "North"}})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server.URL
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "wa-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/wa")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build wa binary: %s", string(output))
	return binaryPath
}

func runWA(t *testing.T, binaryPath, home, apiURL string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), "HOME="+home)
	if apiURL != "" {
		cmd.Env = append(cmd.Env, "WA_API_BASE_URL="+apiURL+"/iot-warehouse")
	}

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}
