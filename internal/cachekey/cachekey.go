// Package cachekey derives stable document identifiers from source video URLs.
package cachekey

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

// contentCode matches the short-code path convention of social video platforms,
// e.g. /reel/DAbc123, /reels/DAbc123 or /p/DAbc123.
var contentCode = regexp.MustCompile(`/(?:reels?|p)/([^/?#]+)`)

// Derive returns a fixed-length identifier for a source URL. URLs that address
// the same content through different query strings or fragments collapse to
// the same key.
func Derive(sourceURL string) string {
	key := sourceURL
	if m := contentCode.FindStringSubmatch(sourceURL); m != nil {
		key = m[1]
	} else {
		key, _, _ = strings.Cut(key, "?")
		key, _, _ = strings.Cut(key, "#")
	}
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])[:32]
}
