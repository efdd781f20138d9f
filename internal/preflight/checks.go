package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"relnotes/internal/config"
	"relnotes/internal/cvelookup"
	"relnotes/internal/pages"
	"relnotes/internal/releases"
)

// RateLimiter reports the GitHub search quota. *cvelookup.Client satisfies it.
type RateLimiter interface {
	RateLimit(ctx context.Context) (cvelookup.RateLimitStatus, error)
}

// CheckGitHub verifies that the search API is reachable and reports the
// remaining quota. It uses a 10-second timeout and a single attempt.
func CheckGitHub(ctx context.Context, limiter RateLimiter, authenticated bool) Result {
	const name = "GitHub search"

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	status, err := limiter.RateLimit(checkCtx)
	if err != nil {
		return Result{Name: name, Detail: summarizeGitHubError(err)}
	}
	auth := "authenticated"
	if !authenticated {
		auth = "unauthenticated"
	}
	if status.Remaining <= 0 {
		detail := fmt.Sprintf("quota exhausted (%s, limit %d)", auth, status.Limit)
		if !status.ResetAt.IsZero() {
			detail += fmt.Sprintf(", resets %s", status.ResetAt.Local().Format("15:04:05"))
		}
		return Result{Name: name, Detail: detail}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d/%d searches remaining (%s)", status.Remaining, status.Limit, auth)}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.W_OK|unix.X_OK, "read/write ok")
}

// CheckDirectoryReadable verifies that the directory exists and can be listed.
func CheckDirectoryReadable(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.X_OK, "readable")
}

func checkDirectory(name, path string, mode uint32, okDetail string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, okDetail)}
}

// CheckParentWritable verifies that a file can be created at path, creating
// missing parent directories on the way.
func CheckParentWritable(name, path string) Result {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", dir, err)}
	}
	if err := unix.Access(dir, unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", dir, err)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// CheckTemplates reports which templates for enabled pages are missing.
// Missing templates are skipped during generation, so this only warns.
func CheckTemplates(cfg *config.Config) Result {
	const name = "Templates"

	var found, missing []string
	for _, kind := range cfg.Generate.Pages {
		tmpl, ok := pages.TemplateFor(kind)
		if !ok {
			continue
		}
		if _, err := os.Stat(filepath.Join(cfg.Paths.TemplateDir, tmpl)); err != nil {
			missing = append(missing, tmpl)
			continue
		}
		found = append(found, tmpl)
	}
	if len(missing) > 0 {
		return Result{Name: name, Advisory: true, Detail: fmt.Sprintf("missing %s (pages will be skipped)", strings.Join(missing, ", "))}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d present", len(found))}
}

// CheckChannelMetadata reports channels whose releases.json is missing.
func CheckChannelMetadata(cfg *config.Config) Result {
	const name = "Channel metadata"

	var missing []string
	for _, version := range cfg.Generate.ChannelVersions {
		if _, err := os.Stat(releases.MetadataPath(cfg.Paths.MetadataDir, version)); err != nil {
			missing = append(missing, version)
		}
	}
	total := len(cfg.Generate.ChannelVersions)
	if len(missing) == total && total > 0 {
		return Result{Name: name, Detail: "no releases.json found for any configured channel"}
	}
	if len(missing) > 0 {
		return Result{Name: name, Advisory: true, Detail: fmt.Sprintf("missing %s (channels will be omitted)", strings.Join(missing, ", "))}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d channels", total)}
}

func summarizeGitHubError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "rate limit check timed out (GitHub API unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "rate limit check timed out (GitHub API unreachable)"
	}
	var statusErr *cvelookup.StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == 401 {
		return "token rejected (401 Unauthorized)"
	}
	return err.Error()
}
