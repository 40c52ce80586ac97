// Package normalize reduces raw transaction descriptions to a canonical
// matching key: lowercase, long digit runs stripped, whitespace collapsed,
// dangling hyphens removed.
//
// Normalization deliberately stops short of merchant extraction; that
// belongs to the AI collaborator.
package normalize

import (
	"regexp"
	"strings"
)

var (
	// Digit runs of three or more cover zip codes, phone numbers and store
	// numbers while keeping short numeric tokens that may identify a
	// merchant (76, 7-eleven).
	digitRun = regexp.MustCompile(`\d{3,}`)

	dashRun        = regexp.MustCompile(`-{3,}`)
	standaloneDash = regexp.MustCompile(`\s-+\s`)
	leadingDash    = regexp.MustCompile(`^\s*-+\s*`)
	trailingDash   = regexp.MustCompile(`\s*-+\s*$`)
	spaceRun       = regexp.MustCompile(`\s+`)
)

// Normalize returns the canonical form of a raw transaction description.
// It is deterministic, total and idempotent: passes are applied until the
// text stabilizes, so artifacts produced by one step (a hyphen orphaned by
// digit stripping, doubled spaces) are caught by the next pass.
func Normalize(raw string) string {
	prev := ""
	cur := raw
	for cur != prev {
		prev = cur
		cur = pass(cur)
	}
	return cur
}

func pass(s string) string {
	s = strings.ToLower(s)
	s = digitRun.ReplaceAllString(s, "")
	s = dashRun.ReplaceAllString(s, " ")
	s = standaloneDash.ReplaceAllString(s, " ")
	s = leadingDash.ReplaceAllString(s, "")
	s = trailingDash.ReplaceAllString(s, "")
	s = spaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
