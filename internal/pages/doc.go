// Package pages drives one generate run: it takes the output lock, loads
// channel metadata, and writes every enabled page kind in a fixed order.
//
// Page kinds and their defaults:
//
//	releases   core-releases-template.md       -> releases.md
//	readme     core-README-template.md         -> README.md
//	rn-readme  releasenote-README-template.md  -> release-notes/README.md
//	cve        major-cve-template.md           -> cve<major>.md (per cve version)
//	scaffold   install/runtime/sdk templates   -> release-notes/<channel>/...
//
// A missing template skips its page and a missing metadata file skips its
// channel; both are logged. Outputs are written atomically.
package pages
