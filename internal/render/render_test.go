package render_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relnotes/internal/cvelookup"
	"relnotes/internal/releases"
	"relnotes/internal/render"
)

var testNow = time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

type stubResolver struct {
	results map[string]cvelookup.Result
	errs    map[string]error
	calls   []cvelookup.Request
}

func (s *stubResolver) Resolve(_ context.Context, req cvelookup.Request) (cvelookup.Result, error) {
	s.calls = append(s.calls, req)
	if err, ok := s.errs[req.Identifier]; ok {
		return cvelookup.Result{}, err
	}
	if res, ok := s.results[req.Identifier]; ok {
		return res, nil
	}
	return cvelookup.Redacted(), nil
}

func strPtr(s string) *string { return &s }

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func sampleChannels() []releases.Channel {
	return []releases.Channel{
		{Version: "9.0", LatestRelease: "9.0.5", ReleaseType: "STS", EOLDate: date(2026, time.May, 12)},
		{Version: "8.0", LatestRelease: "8.0.16", ReleaseType: "LTS", EOLDate: date(2026, time.November, 10)},
		{Version: "7.0", LatestRelease: "7.0.20", ReleaseType: "STS", EOLDate: date(2024, time.May, 14)},
		{Version: "3.1", LatestRelease: "3.1.32", ReleaseType: "LTS", EOLDate: date(2022, time.December, 13)},
	}
}

func TestRenderSubstitutesTokensAndSections(t *testing.T) {
	lines := render.SplitLines("# .NET {ID-VERSION} CVEs\r\n\r\nSECTION-CVETABLE\nFooter {ID-VERSION}\nSECTION-UNKNOWN\n")
	sections := map[string]render.Section{
		render.SectionCVETable: func(context.Context) ([]string, error) {
			return []string{"- row 1", "- row 2"}, nil
		},
	}

	out, err := render.Render(context.Background(), lines, map[string]string{render.VersionToken: "8"}, sections)
	require.NoError(t, err)
	assert.Equal(t, []string{"# .NET 8 CVEs", "", "- row 1", "- row 2", "Footer 8", "SECTION-UNKNOWN"}, out)
	assert.Equal(t, "a\nb\n", render.Join([]string{"a", "b"}))
	assert.Empty(t, render.Join(nil))
}

func TestRenderPropagatesSectionError(t *testing.T) {
	boom := errors.New("boom")
	_, err := render.Render(context.Background(), []string{"SECTION-RELEASE"}, nil, map[string]render.Section{
		render.SectionRelease: func(context.Context) ([]string, error) { return nil, boom },
	})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), render.SectionRelease)
}

func TestRenderDistinguishesSupportedPlaceholders(t *testing.T) {
	out, err := render.Render(context.Background(), []string{"SECTION-SUPPORTED", "SECTION-UNSUPPORTED"}, nil, map[string]render.Section{
		render.SectionSupported:   func(context.Context) ([]string, error) { return []string{"supported"}, nil },
		render.SectionUnsupported: func(context.Context) ([]string, error) { return []string{"unsupported"}, nil },
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"supported", "unsupported"}, out)
}

func TestReadTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tmpl.md")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\n"), 0o644))
	lines, err := render.ReadTemplate(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, lines)

	_, err = render.ReadTemplate(filepath.Join(t.TempDir(), "missing.md"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSupportedTable(t *testing.T) {
	builder := render.NewBuilder(render.Options{Now: func() time.Time { return testNow }})
	lines, err := builder.SupportedTable(sampleChannels(), render.TableOptions{
		LinkBase: "release-notes",
		Trailer:  []string{render.PoliciesReference},
	})(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"|  Version  | Release Date | Support | Latest Patch Version | End of Support |",
		"| :-- | :-- | :-- | :-- | :-- |",
		"| [.NET 9](release-notes/9.0/README.md) | [November 12, 2024](https://devblogs.microsoft.com/dotnet/announcing-dotnet-9/) | [STS][policies] | [9.0.5][9.0.5] | May 12, 2026 |",
		"| [.NET 8](release-notes/8.0/README.md) | [November 14, 2023](https://devblogs.microsoft.com/dotnet/announcing-dotnet-8/) | [LTS][policies] | [8.0.16][8.0.16] | November 10, 2026 |",
		"",
		"[9.0.5]: release-notes/9.0/9.0.5/9.0.5.md",
		"[8.0.16]: release-notes/8.0/8.0.16/8.0.16.md",
		"[policies]: release-policies.md",
	}, lines)
}

func TestUnsupportedTable(t *testing.T) {
	builder := render.NewBuilder(render.Options{Now: func() time.Time { return testNow }})
	lines, err := builder.UnsupportedTable(sampleChannels(), render.TableOptions{LinkBase: "release-notes"})(context.Background())
	require.NoError(t, err)

	require.Len(t, lines, 7)
	assert.Equal(t, "|  Version  | Release Date | Support | Final Patch Version | End of Support |", lines[0])
	assert.Equal(t, "| [.NET 7](release-notes/7.0/README.md) | [November 08, 2022](https://devblogs.microsoft.com/dotnet/announcing-dotnet-7/) | [STS][policies] | [7.0.20][7.0.20] | [May 14, 2024](https://devblogs.microsoft.com/dotnet/dotnet-7-end-of-support/) |", lines[2])
	assert.Equal(t, "| [.NET Core 3.1](release-notes/3.1/README.md) | [December 03, 2019](https://devblogs.microsoft.com/dotnet/announcing-net-core-3-1/) | [LTS][policies] | [3.1.32][3.1.32] | [December 13, 2022](https://devblogs.microsoft.com/dotnet/net-core-3-1-will-reach-end-of-support-on-december-13-2022/) |", lines[3])
	assert.Equal(t, "", lines[4])
	assert.Equal(t, "[3.1.32]: release-notes/3.1/3.1.32/3.1.32.md", lines[6])
}

func TestTablesWithRelativeLinksAndUnknownChannel(t *testing.T) {
	builder := render.NewBuilder(render.Options{Now: func() time.Time { return testNow }})
	channels := []releases.Channel{{Version: "10.0", LatestRelease: "10.0.0", ReleaseType: "LTS", EOLDate: date(2028, time.November, 14)}}

	lines, err := builder.SupportedTable(channels, render.TableOptions{LinkBase: "."})(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "| [.NET 10](./10.0/README.md) | TBD | [LTS][policies] | [10.0.0][10.0.0] | November 14, 2028 |", lines[2])
	assert.Equal(t, "[10.0.0]: ./10.0/10.0.0/10.0.0.md", lines[4])
}

func TestMarkdownFiles(t *testing.T) {
	builder := render.NewBuilder(render.Options{Now: func() time.Time { return testNow }})
	lines, err := builder.MarkdownFiles(sampleChannels())(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"* [9.0/9.0.5/9.0.5.md](./9.0/9.0.5/9.0.5.md)",
		"* [8.0/8.0.16/8.0.16.md](./8.0/8.0.16/8.0.16.md)",
	}, lines)
}

func cveChannel() releases.Channel {
	return releases.Channel{
		Version: "8.0",
		Releases: []releases.Release{
			{
				Version: strPtr("8.0.11"),
				Date:    strPtr("2024-11-12"),
				CVEs: []releases.CVE{
					{ID: strPtr("CVE-2024-43498")},
					{},
					{ID: strPtr("CVE-2024-43499")},
				},
			},
			{Version: strPtr("8.0.0-rc.2"), Date: strPtr("2023-10-10"), CVEs: []releases.CVE{{ID: strPtr("CVE-2023-0001")}}},
			{Version: strPtr("8.0.10"), CVEs: []releases.CVE{}},
			{Version: strPtr("8.0.9"), Date: strPtr("someday"), CVEs: []releases.CVE{}},
			{Version: strPtr("8.0.8"), Date: strPtr("2024-08-13"), CVEs: []releases.CVE{}},
		},
	}
}

func TestCVETable(t *testing.T) {
	resolver := &stubResolver{results: map[string]cvelookup.Result{
		"CVE-2024-43498": {URL: "https://github.com/dotnet/announcements/issues/327", Title: ".NET Remote Code Execution Vulnerability"},
	}}
	builder := render.NewBuilder(render.Options{Resolver: resolver, Credential: "tok"})

	lines, err := builder.CVETable(cveChannel())(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"- 8.0.11 (November 2024)",
		"  - [CVE-2024-43498 | .NET Remote Code Execution Vulnerability](https://github.com/dotnet/announcements/issues/327)",
		"  - [CVE-2024-43499 | An external link was removed to protect your privacy.](An external link was removed to protect your privacy.)",
		"- 8.0.8 (August 2024)",
	}, lines)

	require.Len(t, resolver.calls, 2)
	assert.Equal(t, "tok", resolver.calls[0].Credential)
}

func TestCVETableLookupFailureRendersRedactedRow(t *testing.T) {
	resolver := &stubResolver{errs: map[string]error{
		"CVE-2024-43498": &cvelookup.RetryBudgetError{Identifier: "CVE-2024-43498", Attempts: 5},
	}}
	builder := render.NewBuilder(render.Options{Resolver: resolver})

	lines, err := builder.CVETable(cveChannel())(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "  - [CVE-2024-43498 | An external link was removed to protect your privacy.](An external link was removed to protect your privacy.)", lines[1])
	assert.Len(t, resolver.calls, 2)
}

func TestCVETableFailFastAborts(t *testing.T) {
	resolver := &stubResolver{errs: map[string]error{
		"CVE-2024-43498": &cvelookup.StatusError{StatusCode: 500, Status: "500 Internal Server Error"},
	}}
	builder := render.NewBuilder(render.Options{Resolver: resolver, FailFast: true})

	_, err := builder.CVETable(cveChannel())(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, cvelookup.ErrRemoteFailure)
	assert.Len(t, resolver.calls, 1)
}

func TestCVETableStopsOnCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	resolver := &stubResolver{errs: map[string]error{"CVE-2024-43498": context.Canceled}}
	builder := render.NewBuilder(render.Options{Resolver: resolver})

	_, err := builder.CVETable(cveChannel())(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCVETableRequiresResolver(t *testing.T) {
	_, err := render.NewBuilder(render.Options{}).CVETable(cveChannel())(context.Background())
	assert.Error(t, err)
}
