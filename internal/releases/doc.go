// Package releases loads per-channel release metadata and the channel
// catalogue used to render release index pages.
//
// Each channel version (for example "8.0") has a releases.json under the
// metadata directory. Missing files are logged and skipped so one absent
// channel never blocks a page. Channel launch dates and announcement links do
// not live in releases.json; they come from a Catalogue, which ships with
// built-in entries and can be extended from a YAML file.
package releases
