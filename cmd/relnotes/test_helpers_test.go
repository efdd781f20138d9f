package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

type cliTestEnv struct {
	baseDir     string
	configPath  string
	templateDir string
	metadataDir string
	outputDir   string
	cachePath   string
	metricsPath string
	server      *httptest.Server
	searches    *atomic.Int32
}

const channel9JSON = `{
  "latest-release": "9.0.5",
  "release-type": "sts",
  "eol-date": "2099-05-12",
  "releases": [
    {"release-version": "9.0.5", "release-date": "2025-05-13", "cve-list": [{"cve-id": "CVE-2025-26646"}]}
  ]
}`

func setupCLITestEnv(t *testing.T, extraConfig string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("GITHUB_TOKEN", "")

	searches := &atomic.Int32{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/search/issues":
			searches.Add(1)
			q := r.URL.Query().Get("q")
			if strings.HasPrefix(q, "CVE-2099-") {
				_, _ = w.Write([]byte(`{"items":[]}`))
				return
			}
			id, _, _ := strings.Cut(q, " ")
			fmt.Fprintf(w, `{"items":[{"html_url":"https://github.com/dotnet/announcements/issues/1","title":"Microsoft Security Advisory %s | .NET Spoofing Vulnerability"}]}`, id)
		case "/rate_limit":
			_, _ = w.Write([]byte(`{"resources":{"search":{"limit":30,"remaining":29,"reset":1700000000}}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	env := &cliTestEnv{
		baseDir:     base,
		configPath:  filepath.Join(base, "relnotes.toml"),
		templateDir: filepath.Join(base, "templates"),
		metadataDir: filepath.Join(base, "release-notes"),
		outputDir:   filepath.Join(base, "out"),
		cachePath:   filepath.Join(base, "cache", "lookups.db"),
		metricsPath: filepath.Join(base, "metrics", "relnotes.prom"),
		server:      srv,
		searches:    searches,
	}

	content := fmt.Sprintf(`[paths]
template_dir = %q
metadata_dir = %q
output_dir = %q
log_dir = %q
cache_path = %q

[github]
token = "test-token"
base_url = %q

[generate]
channel_versions = ["9.0"]
cve_versions = ["9.0"]
pages = ["cve"]

[metrics]
textfile = %q

[logging]
level = "error"
%s`, env.templateDir, env.metadataDir, env.outputDir, filepath.Join(base, "logs"), env.cachePath, srv.URL, env.metricsPath, extraConfig)
	writeFile(t, env.configPath, content)
	writeFile(t, filepath.Join(env.templateDir, "major-cve-template.md"), "# .NET {ID-VERSION} CVEs\n\nSECTION-CVETABLE\n")
	writeFile(t, filepath.Join(env.metadataDir, "9.0", "releases.json"), channel9JSON)
	return env
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
