// Package lookupcache keeps resolved CVE announcement links in SQLite so
// repeated generate runs do not spend GitHub search quota on identifiers that
// were already resolved.
//
// Only authoritative results are stored: a redaction pair means "no match
// yet" and is always looked up again. Entries older than the configured TTL
// are treated as misses and removed by Prune.
package lookupcache
