// Package idutil derives deterministic, bounded, human-readable logical
// ids from construct paths (spec §4.A).
package idutil

import (
	"crypto/md5"
	"encoding/hex"
	"strings"

	"github.com/apparentlymart/go-textseg/v15/textseg"
)

const (
	// sentinel is the synthetic path component name that is always dropped.
	sentinel = "Default"
	// resourceSentinel is dropped from the human-readable part only.
	resourceSentinel = "Resource"
	maxLogicalIDLen  = 255
	maxHumanPartLen  = 240
	hashLen          = 8
)

// LogicalID derives the logical id for a construct path, per spec §4.A.
// path is relative to the nearest enclosing stack (real cdktf computes
// this as scopes.slice(stackIndex+1)) -- callers drop every ancestor up
// through the owning stack, including the app root, before calling this
// function. Any remaining component equal to "Default" is dropped too.
func LogicalID(path []string) string {
	components := filterComponents(path)

	if len(components) == 0 {
		return ""
	}

	if len(components) == 1 {
		stripped := stripToIDChars(components[0])
		if len(stripped) <= maxLogicalIDLen {
			return stripped
		}
	}

	hash := hashComponents(components)
	human := humanPart(components)
	if len(human) > maxHumanPartLen {
		human = truncateGraphemes(human, maxHumanPartLen)
	}
	if human == "" {
		return hash
	}
	return human + "_" + hash
}

func filterComponents(path []string) []string {
	out := make([]string, 0, len(path))
	for _, c := range path {
		if c == sentinel {
			continue
		}
		out = append(out, c)
	}
	return out
}

func hashComponents(components []string) string {
	sum := md5.Sum([]byte(strings.Join(components, "/")))
	return strings.ToUpper(hex.EncodeToString(sum[:])[:hashLen])
}

func humanPart(components []string) string {
	collapsed := collapseAdjacent(components)

	kept := make([]string, 0, len(collapsed))
	for _, c := range collapsed {
		if c == resourceSentinel {
			continue
		}
		stripped := stripToAlnum(c)
		if stripped == "" {
			continue
		}
		kept = append(kept, stripped)
	}
	return strings.Join(kept, "_")
}

// collapseAdjacent merges a component into its predecessor when the
// component ends with the predecessor's text, so e.g. ["Bucket", "MyBucket"]
// collapses to ["MyBucket"] instead of the redundant "Bucket_MyBucket".
func collapseAdjacent(components []string) []string {
	out := make([]string, 0, len(components))
	for _, c := range components {
		if len(out) > 0 && c != "" && strings.HasSuffix(c, out[len(out)-1]) {
			out[len(out)-1] = c
			continue
		}
		out = append(out, c)
	}
	return out
}

func stripToIDChars(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isIDChar(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isIDChar(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	case r == '_' || r == '-':
		return true
	default:
		return false
	}
}

func stripToAlnum(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// truncateGraphemes truncates s to at most n grapheme clusters, never
// splitting a multi-byte cluster in half.
func truncateGraphemes(s string, n int) string {
	clusters, err := textseg.SplitAllGraphemeClusters([]byte(s))
	if err != nil {
		// best-effort fallback: truncate on rune boundaries instead of
		// panicking on malformed input.
		r := []rune(s)
		if len(r) > n {
			r = r[:n]
		}
		return string(r)
	}
	if len(clusters) <= n {
		return s
	}
	var b strings.Builder
	for _, c := range clusters[:n] {
		b.Write(c)
	}
	return b.String()
}
