// Package triage groups, orders and annotates the diagnostics collected from
// one build invocation. All state is scoped to a single invocation; nothing
// here persists across runs.
package triage

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"cargomate/internal/cargo"
)

// identifierPlaceholder collapses backtick-quoted identifiers so that
// diagnostics differing only in the referenced name share a fingerprint.
const identifierPlaceholder = "`<identifier>`"

// lineBucket is the size of the line-number bucket mixed into fingerprints.
// Errors within the same ten-line window of a file collapse together.
const lineBucket = 10

// Fingerprint returns a stable content hash identifying the class of
// equivalent diagnostics the error belongs to. The message is normalized
// first; the file path and a coarse line bucket are mixed in when known.
func Fingerprint(err cargo.Diagnostic) string {
	h := sha256.New()
	h.Write([]byte(normalizeMessage(err.Message)))
	if err.File != "" {
		h.Write([]byte(err.File))
		if err.Line > 0 {
			h.Write([]byte(strconv.Itoa(err.Line / lineBucket)))
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

func normalizeMessage(msg string) string {
	words := strings.Fields(msg)
	for i, word := range words {
		if strings.HasPrefix(word, "`") && strings.HasSuffix(word, "`") {
			words[i] = identifierPlaceholder
		}
	}
	return strings.Join(words, " ")
}
