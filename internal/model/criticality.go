package model

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Criticality is the ordinal severity label attached to every issue.
//
// Design decision: Criticality is a string type rather than an iota enum
// because the labels themselves are part of the report output and because
// the input may carry labels we do not know (for example a crawler-provided
// mixed content risk). Unknown labels are preserved verbatim and rank after
// every known one instead of being rejected.
type Criticality string

const (
	// CriticalityMaximum marks pages that are effectively invisible to search
	// engines, such as a page with neither H1 nor H2.
	CriticalityMaximum Criticality = "CRÍTICO MÁXIMO"

	// CriticalityCritical marks issues that block indexing or ranking.
	CriticalityCritical Criticality = "CRÍTICO"

	// CriticalityHigh marks issues with a strong ranking impact.
	CriticalityHigh Criticality = "ALTO"

	// CriticalityMedium marks issues worth fixing in the normal backlog.
	CriticalityMedium Criticality = "MÉDIO"

	// CriticalityLow marks cosmetic or opportunistic improvements.
	CriticalityLow Criticality = "BAIXO"
)

// UnrankedRank is the rank of any label that is not one of the five known criticalities.
const UnrankedRank = 5

// Criticalities lists the known labels from most to least severe.
var Criticalities = []Criticality{
	CriticalityMaximum,
	CriticalityCritical,
	CriticalityHigh,
	CriticalityMedium,
	CriticalityLow,
}

// canonicalRank maps each canonical label to its index in Criticalities.
var canonicalRank = map[Criticality]int{
	CriticalityMaximum:  0,
	CriticalityCritical: 1,
	CriticalityHigh:     2,
	CriticalityMedium:   3,
	CriticalityLow:      4,
}

// criticalityByKey maps the folded form of each label to its canonical value.
var criticalityByKey = map[string]Criticality{
	"CRITICO MAXIMO": CriticalityMaximum,
	"CRITICO":        CriticalityCritical,
	"ALTO":           CriticalityHigh,
	"MEDIO":          CriticalityMedium,
	"BAIXO":          CriticalityLow,
}

// String returns the label.
func (c Criticality) String() string {
	return string(c)
}

// Rank returns 0 for the most severe label up to 4 for BAIXO, and
// UnrankedRank for anything else. Ascending rank means more severe first.
// Canonical labels are looked up directly; only other spellings are folded.
func (c Criticality) Rank() int {
	if rank, ok := canonicalRank[c]; ok {
		return rank
	}
	canonical, ok := ParseCriticality(string(c))
	if !ok {
		return UnrankedRank
	}
	return canonicalRank[canonical]
}

// Known reports whether c is one of the five ranked labels.
func (c Criticality) Known() bool {
	return c.Rank() != UnrankedRank
}

// ParseCriticality folds s into a canonical label. It accepts the labels with
// or without accents, in any letter case, with underscores instead of spaces
// ("CRITICO_MAXIMO") and with a trailing explanation after " - "
// ("CRÍTICO - Bloqueado pelo browser").
func ParseCriticality(s string) (Criticality, bool) {
	if head, _, found := strings.Cut(s, " - "); found {
		s = head
	}
	c, ok := criticalityByKey[foldLabel(s)]
	return c, ok
}

// foldLabel strips accents, upper-cases and normalizes separators.
func foldLabel(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	upper := cases.Upper(language.Und).String(stripped)
	upper = strings.NewReplacer("_", " ", "-", " ").Replace(upper)
	return strings.Join(strings.Fields(upper), " ")
}
