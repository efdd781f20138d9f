package releases_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"relnotes/internal/logging"
	"relnotes/internal/releases"
)

const sampleReleasesJSON = `{
  "channel-version": "8.0",
  "latest-release": "8.0.11",
  "latest-release-date": "2024-11-12",
  "latest-runtime": "8.0.11",
  "latest-sdk": "8.0.404",
  "support-phase": "active",
  "release-type": "lts",
  "eol-date": "2026-11-10",
  "lifecycle-policy": "https://aka.ms/dotnetcoresupport",
  "releases": [
    {
      "release-version": "8.0.11",
      "release-date": "2024-11-12",
      "cve-list": [{"cve-id": "CVE-2024-43498", "cve-url": "https://example.com"}]
    },
    {
      "release-version": "8.0.0-rc.2",
      "release-date": "2023-10-10",
      "cve-list": []
    },
    {
      "release-date": "2023-01-01"
    }
  ]
}`

func writeChannel(t *testing.T, dir, version, body string) {
	t.Helper()
	path := releases.MetadataPath(dir, version)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestLoadChannelParsesFields(t *testing.T) {
	dir := t.TempDir()
	writeChannel(t, dir, "8.0", sampleReleasesJSON)

	channel, err := releases.LoadChannel(dir, "8.0")
	if err != nil {
		t.Fatalf("LoadChannel: %v", err)
	}
	if channel.Version != "8.0" || channel.LatestRelease != "8.0.11" || channel.LatestSDK != "8.0.404" {
		t.Fatalf("unexpected channel: %+v", channel)
	}
	if channel.ReleaseType != "LTS" {
		t.Fatalf("expected upper-cased release type, got %q", channel.ReleaseType)
	}
	wantEOL := time.Date(2026, time.November, 10, 0, 0, 0, 0, time.UTC)
	if !channel.EOLDate.Equal(wantEOL) {
		t.Fatalf("unexpected eol date: %s", channel.EOLDate)
	}
	if len(channel.Releases) != 3 {
		t.Fatalf("expected 3 releases, got %d", len(channel.Releases))
	}
	first := channel.Releases[0]
	if first.Version == nil || *first.Version != "8.0.11" || len(first.CVEs) != 1 || *first.CVEs[0].ID != "CVE-2024-43498" {
		t.Fatalf("unexpected first release: %+v", first)
	}
	last := channel.Releases[2]
	if last.Version != nil || last.CVEs != nil {
		t.Fatalf("expected missing fields to stay nil, got %+v", last)
	}
}

func TestLoadChannelMissingFile(t *testing.T) {
	_, err := releases.LoadChannel(t.TempDir(), "7.0")
	if !errors.Is(err, releases.ErrChannelNotFound) {
		t.Fatalf("expected ErrChannelNotFound, got %v", err)
	}
}

func TestLoadChannelMalformed(t *testing.T) {
	dir := t.TempDir()
	writeChannel(t, dir, "6.0", "{not json")
	_, err := releases.LoadChannel(dir, "6.0")
	if err == nil || errors.Is(err, releases.ErrChannelNotFound) {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestLoadChannelsSkipsMissingAndSorts(t *testing.T) {
	dir := t.TempDir()
	writeChannel(t, dir, "2.1", `{"latest-release":"2.1.30","eol-date":"2021-08-21"}`)
	writeChannel(t, dir, "10.0", `{"latest-release":"10.0.0","eol-date":"2028-11-14"}`)
	writeChannel(t, dir, "9.0", `{"latest-release":"9.0.0","eol-date":"2026-05-12"}`)

	channels, err := releases.LoadChannels(dir, []string{"2.1", "5.0", "9.0", "10.0"}, logging.NewNop())
	if err != nil {
		t.Fatalf("LoadChannels: %v", err)
	}
	got := make([]string, 0, len(channels))
	for _, c := range channels {
		got = append(got, c.Version)
	}
	want := []string{"10.0", "9.0", "2.1"}
	if len(got) != len(want) {
		t.Fatalf("unexpected channels: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected order: got %v want %v", got, want)
		}
	}
}

func TestPartition(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	channels := []releases.Channel{
		{Version: "9.0", EOLDate: now.AddDate(1, 0, 0)},
		{Version: "7.0", EOLDate: now.AddDate(-1, 0, 0)},
		{Version: "6.0", EOLDate: now},
		{Version: "5.0"},
	}
	supported, unsupported := releases.Partition(channels, now)
	if len(supported) != 1 || supported[0].Version != "9.0" {
		t.Fatalf("unexpected supported: %+v", supported)
	}
	if len(unsupported) != 3 || unsupported[0].Version != "7.0" {
		t.Fatalf("unexpected unsupported: %+v", unsupported)
	}
}

func TestVersionHelpers(t *testing.T) {
	if releases.CompareVersions("10.0", "9.0") <= 0 {
		t.Fatal("expected 10.0 > 9.0")
	}
	if releases.CompareVersions("2.1", "2.10") >= 0 {
		t.Fatal("expected 2.1 < 2.10")
	}
	if releases.CompareVersions("3.0", "3") != 0 {
		t.Fatal("expected 3.0 == 3")
	}
	cases := []struct {
		version string
		legacy  bool
		want    string
	}{
		{"8.0", false, ".NET 8"},
		{"8.0", true, ".NET 8"},
		{"3.1", true, ".NET Core 3.1"},
		{"3.1", false, ".NET 3.1"},
		{"1.0", true, ".NET Core 1.0"},
		{"5.0", true, ".NET 5"},
	}
	for _, tc := range cases {
		if got := releases.DisplayName(tc.version, tc.legacy); got != tc.want {
			t.Fatalf("DisplayName(%q, %v) = %q, want %q", tc.version, tc.legacy, got, tc.want)
		}
	}
	if !releases.IsPrerelease("9.0.0-preview.1") || !releases.IsPrerelease("8.0.0-rc.2") || releases.IsPrerelease("8.0.1") {
		t.Fatal("unexpected prerelease classification")
	}
	if releases.Major("10.0") != "10" {
		t.Fatalf("unexpected major: %q", releases.Major("10.0"))
	}
}

func TestCatalogueDefaultsAndOverrides(t *testing.T) {
	defaults := releases.DefaultCatalogue()
	info, ok := defaults.Lookup("8.0")
	if !ok || info.LaunchDate.Format("2006-01-02") != "2023-11-14" {
		t.Fatalf("unexpected default 8.0 entry: %+v", info)
	}
	if versions := defaults.Versions(); len(versions) != 12 || versions[0] != "9.0" || versions[len(versions)-1] != "1.0" {
		t.Fatalf("unexpected default versions: %v", versions)
	}

	path := filepath.Join(t.TempDir(), "channels.yaml")
	content := `channels:
  "10.0":
    launch_date: 2025-11-11
    announcement: https://devblogs.microsoft.com/dotnet/announcing-dotnet-10/
  "8.0":
    end_of_support: https://example.com/eos-8
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write catalogue: %v", err)
	}
	catalogue, err := releases.LoadCatalogue(path)
	if err != nil {
		t.Fatalf("LoadCatalogue: %v", err)
	}
	ten, ok := catalogue.Lookup("10.0")
	if !ok || ten.LaunchDate.Format("2006-01-02") != "2025-11-11" || ten.Announcement == "" {
		t.Fatalf("unexpected 10.0 entry: %+v", ten)
	}
	eight, _ := catalogue.Lookup("8.0")
	if eight.EndOfSupport != "https://example.com/eos-8" || eight.Announcement != info.Announcement {
		t.Fatalf("expected merged 8.0 entry, got %+v", eight)
	}
}

func TestLoadCatalogueMissingFileUsesDefaults(t *testing.T) {
	catalogue, err := releases.LoadCatalogue(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadCatalogue: %v", err)
	}
	if _, ok := catalogue.Lookup("1.0"); !ok {
		t.Fatal("expected built-in entries")
	}
}

func TestLoadCatalogueRejectsBadDate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channels.yaml")
	if err := os.WriteFile(path, []byte("channels:\n  \"10.0\":\n    launch_date: soon\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := releases.LoadCatalogue(path); err == nil {
		t.Fatal("expected error for invalid launch_date")
	}
}
