package releases

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ChannelInfo holds the per-channel facts that releases.json does not carry.
type ChannelInfo struct {
	LaunchDate   time.Time
	Announcement string
	EndOfSupport string
}

// Catalogue maps channel versions to their ChannelInfo.
type Catalogue struct {
	channels map[string]ChannelInfo
}

type catalogueFile struct {
	Channels map[string]catalogueEntry `yaml:"channels"`
}

type catalogueEntry struct {
	LaunchDate   string `yaml:"launch_date"`
	Announcement string `yaml:"announcement"`
	EndOfSupport string `yaml:"end_of_support"`
}

// DefaultCatalogue returns the built-in entries for channels 1.0 through 9.0.
func DefaultCatalogue() *Catalogue {
	channels := make(map[string]ChannelInfo, len(builtinChannels))
	for version, info := range builtinChannels {
		channels[version] = info
	}
	return &Catalogue{channels: channels}
}

// LoadCatalogue merges the YAML file at path over the built-in entries. An
// empty path or a missing file yields the defaults. Fields left empty in the
// file keep the built-in value.
func LoadCatalogue(path string) (*Catalogue, error) {
	catalogue := DefaultCatalogue()
	path = strings.TrimSpace(path)
	if path == "" {
		return catalogue, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return catalogue, nil
		}
		return nil, fmt.Errorf("read channel catalogue: %w", err)
	}
	var file catalogueFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse channel catalogue %s: %w", path, err)
	}
	for version, entry := range file.Channels {
		version = strings.TrimSpace(version)
		info := catalogue.channels[version]
		if raw := strings.TrimSpace(entry.LaunchDate); raw != "" {
			launch, ok := ParseDate(raw)
			if !ok {
				return nil, fmt.Errorf("channel catalogue %s: channel %s: invalid launch_date %q", path, version, raw)
			}
			info.LaunchDate = launch
		}
		if link := strings.TrimSpace(entry.Announcement); link != "" {
			info.Announcement = link
		}
		if link := strings.TrimSpace(entry.EndOfSupport); link != "" {
			info.EndOfSupport = link
		}
		catalogue.channels[version] = info
	}
	return catalogue, nil
}

// Lookup returns the entry for a channel version.
func (c *Catalogue) Lookup(version string) (ChannelInfo, bool) {
	if c == nil {
		return ChannelInfo{}, false
	}
	info, ok := c.channels[version]
	return info, ok
}

// Versions lists the catalogued channel versions newest first.
func (c *Catalogue) Versions() []string {
	if c == nil {
		return nil
	}
	versions := make([]string, 0, len(c.channels))
	for version := range c.channels {
		versions = append(versions, version)
	}
	slices.SortFunc(versions, func(a, b string) int { return CompareVersions(b, a) })
	return versions
}
