// Package render turns markdown templates and release metadata into page
// content.
//
// Templates are plain markdown. A line that starts with a registered
// SECTION- placeholder is replaced by the lines its Section produces; every
// other line is copied with {ID-VERSION} substituted. The Builder produces the
// sections relnotes knows about: the supported and unsupported channel
// tables, the release-notes file list, and the per-version CVE list, which
// asks a Resolver for each CVE's announcement link.
package render
