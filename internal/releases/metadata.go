package releases

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"relnotes/internal/logging"
)

// MetadataFileName is the per-channel metadata file.
const MetadataFileName = "releases.json"

const dateLayout = "2006-01-02"

// ErrChannelNotFound reports a channel without a metadata file.
var ErrChannelNotFound = errors.New("channel metadata not found")

// Channel is the parsed releases.json of one channel version.
type Channel struct {
	Version           string
	LatestRelease     string
	LatestReleaseDate time.Time
	LatestRuntime     string
	LatestSDK         string
	SupportPhase      string
	// ReleaseType is upper-cased (LTS, STS).
	ReleaseType     string
	EOLDate         time.Time
	LifecyclePolicy string
	Releases        []Release
}

// Release is one entry of the releases array. Pointer and nil fields mark
// values absent from the file.
type Release struct {
	Version *string `json:"release-version"`
	Date    *string `json:"release-date"`
	CVEs    []CVE   `json:"cve-list"`
}

// CVE is one entry of a release's cve-list.
type CVE struct {
	ID  *string `json:"cve-id"`
	URL string  `json:"cve-url"`
}

type channelFile struct {
	LatestRelease     string    `json:"latest-release"`
	LatestReleaseDate string    `json:"latest-release-date"`
	LatestRuntime     string    `json:"latest-runtime"`
	LatestSDK         string    `json:"latest-sdk"`
	SupportPhase      string    `json:"support-phase"`
	ReleaseType       string    `json:"release-type"`
	EOLDate           string    `json:"eol-date"`
	LifecyclePolicy   string    `json:"lifecycle-policy"`
	Releases          []Release `json:"releases"`
}

// MetadataPath returns the releases.json path for a channel.
func MetadataPath(metadataDir, version string) string {
	return filepath.Join(metadataDir, version, MetadataFileName)
}

// LoadChannel reads and parses one channel's releases.json.
func LoadChannel(metadataDir, version string) (*Channel, error) {
	path := MetadataPath(metadataDir, version)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrChannelNotFound, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	channel, err := ParseChannel(version, data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return channel, nil
}

// ParseChannel decodes releases.json content. Unparseable dates become the
// zero time, which makes a channel unsupported.
func ParseChannel(version string, data []byte) (*Channel, error) {
	var file channelFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	return &Channel{
		Version:           version,
		LatestRelease:     strings.TrimSpace(file.LatestRelease),
		LatestReleaseDate: parseDate(file.LatestReleaseDate),
		LatestRuntime:     strings.TrimSpace(file.LatestRuntime),
		LatestSDK:         strings.TrimSpace(file.LatestSDK),
		SupportPhase:      strings.TrimSpace(file.SupportPhase),
		ReleaseType:       cases.Upper(language.Und).String(strings.TrimSpace(file.ReleaseType)),
		EOLDate:           parseDate(file.EOLDate),
		LifecyclePolicy:   strings.TrimSpace(file.LifecyclePolicy),
		Releases:          file.Releases,
	}, nil
}

// LoadChannels loads every listed channel, skipping the ones without a
// metadata file, and returns them newest first.
func LoadChannels(metadataDir string, versions []string, logger *slog.Logger) ([]Channel, error) {
	logger = logging.NewComponentLogger(logger, "releases")
	channels := make([]Channel, 0, len(versions))
	for _, version := range versions {
		channel, err := LoadChannel(metadataDir, version)
		if err != nil {
			if errors.Is(err, ErrChannelNotFound) {
				logging.WarnWithContext(logger, "channel metadata missing; channel skipped", "channel_metadata_missing",
					logging.String("channel", version),
					logging.String("path", MetadataPath(metadataDir, version)),
					logging.String(logging.FieldErrorHint, "check paths.metadata_dir or remove the channel from generate.channel_versions"),
					logging.String(logging.FieldImpact, "channel omitted from generated tables"),
				)
				continue
			}
			return nil, err
		}
		channels = append(channels, *channel)
	}
	SortDescending(channels)
	return channels, nil
}

// Supported reports whether the channel's end of life is still ahead of now.
func (c Channel) Supported(now time.Time) bool {
	return c.EOLDate.After(now)
}

// Partition splits channels into supported and unsupported, keeping order.
func Partition(channels []Channel, now time.Time) (supported, unsupported []Channel) {
	for _, channel := range channels {
		if channel.Supported(now) {
			supported = append(supported, channel)
		} else {
			unsupported = append(unsupported, channel)
		}
	}
	return supported, unsupported
}

// IsPrerelease reports whether a release version is a preview or release candidate.
func IsPrerelease(version string) bool {
	return strings.Contains(version, "rc") || strings.Contains(version, "preview")
}

// ParseDate parses a metadata date, returning false when it is not a valid
// yyyy-mm-dd value.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if ts, err := time.Parse(dateLayout, value); err == nil {
		return ts, true
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts, true
	}
	return time.Time{}, false
}

func parseDate(value string) time.Time {
	ts, _ := ParseDate(value)
	return ts
}
