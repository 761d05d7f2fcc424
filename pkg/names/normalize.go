// CLAUDE:SUMMARY Deterministic company name canonicalization: punctuation folding, parenthesis unwrapping, legal-entity suffix stripping.
package names

import (
	"regexp"
	"strings"
)

// suffixPatterns is the fixed rule table of legal-entity suffixes removed
// during normalization. Whole-word matches only; the punctuated forms
// tolerate an optional period after each letter (L.L.P., LTD., P.L.C).
// The table is compiled once at startup and never mutated.
var suffixPatterns = compileSuffixes([]string{
	`\bLTD\b`,
	`\bLIMITED\b`,
	`\bLLP\b`,
	`\bPLC\b`,
	`\bINC\b`,
	`\bCORP\b`,
	`\bL\.?L\.?P\.?(?:\b|$)`,
	`\bL\.?T\.?D\.?(?:\b|$)`,
	`\bP\.?L\.?C\.?(?:\b|$)`,
})

func compileSuffixes(exprs []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		patterns = append(patterns, regexp.MustCompile(e))
	}
	return patterns
}

var (
	// \s alone is ASCII-only in RE2; \p{Z} picks up NBSP, thin space,
	// and the other Unicode separators common in Excel exports and
	// scraped data, keeping this consistent with the Unicode-aware
	// TrimSpace above it.
	whitespace = regexp.MustCompile(`[\s\p{Z}]+`)
	parenGroup = regexp.MustCompile(`\s*\(([^)]+)\)\s*`)

	// Typographic variants folded to their ASCII equivalents before any
	// other processing. Extend this table when new variants show up in
	// source data; unrecognized punctuation is never silently dropped.
	punctuation = strings.NewReplacer(
		"’", "'", // right single quotation mark
		"–", "-", // en dash
		"—", "-", // em dash
	)
)

// edgePunctuation is the character set trimmed from both ends after
// suffix removal. Parentheses are absent: they were already unwrapped.
const edgePunctuation = " .,-_[]{}"

// Normalize maps a raw company name to its canonical form. The function
// is pure and total: same input and flags always give the same output,
// and no input fails. Empty, whitespace-only, and suffix-only names
// (e.g. "LTD") all normalize to "" — callers that need a non-empty key
// must handle that themselves.
//
// The step order is load-bearing; reordering changes outputs.
func Normalize(name string, stripSuffixes bool) string {
	s := punctuation.Replace(strings.TrimSpace(name))
	s = strings.ToUpper(whitespace.ReplaceAllString(s, " "))

	// Unwrap parentheses but keep content:
	// "ACME (HOLDINGS) PLC" -> "ACME HOLDINGS PLC".
	// Single level only; a lone unmatched paren stays as-is.
	s = parenGroup.ReplaceAllString(s, " $1 ")

	if stripSuffixes {
		// Pad so edge suffixes still match on word boundaries.
		pad := " " + s + " "
		for _, pat := range suffixPatterns {
			pad = pat.ReplaceAllString(pad, " ")
		}
		s = strings.TrimSpace(pad)
	}

	s = strings.Trim(s, edgePunctuation)
	return whitespace.ReplaceAllString(s, " ")
}
