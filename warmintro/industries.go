// ABOUTME: Related-industry families used for partial industry matches
// ABOUTME: Short terms match whole words only so "it" does not match "hospitality"
package warmintro

import "strings"

type industryFamily struct {
	name    string
	related []string
}

var industryFamilies = []industryFamily{
	{name: "financial services", related: []string{"banking", "finance", "investment", "insurance"}},
	{name: "aerospace & defense", related: []string{"defense", "aerospace", "military", "government"}},
	{name: "technology", related: []string{"software", "tech", "it", "saas"}},
	{name: "government services", related: []string{"government", "public sector", "federal"}},
	{name: "healthcare", related: []string{"medical", "health", "pharmaceutical", "biotech"}},
}

const wholeWordMaxLen = 3

func (f industryFamily) covers(industry string) bool {
	if strings.Contains(industry, f.name) {
		return true
	}
	for _, term := range f.related {
		if containsTerm(industry, term) {
			return true
		}
	}
	return false
}

// relatedIndustry reports whether both lowercase industries fall in one family.
func relatedIndustry(a, b string) bool {
	for _, f := range industryFamilies {
		if f.covers(a) && f.covers(b) {
			return true
		}
	}
	return false
}

func containsTerm(s, term string) bool {
	if len(term) > wholeWordMaxLen {
		return strings.Contains(s, term)
	}
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	for _, w := range words {
		if w == term {
			return true
		}
	}
	return false
}
