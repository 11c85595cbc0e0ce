package logos

import (
	"strings"

	"stock-movers/names"
	"stock-movers/sources"
)

// Candidate kinds, in the order they are tried.
const (
	KindSymbol    = "symbol"
	KindGuess     = "guess"
	KindVariation = "variation"
	KindOverride  = "override"
)

// Candidate is one logo location to try.
type Candidate struct {
	URL    string
	Kind   string
	Domain string
}

// stopwords are skipped when looking for the first meaningful word of a name.
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "of": true, "and": true, "&": true,
	"group": true, "holding": true, "holdings": true, "international": true,
	"global": true, "company": true, "companies": true, "corporation": true,
	"inc": true, "co": true, "trust": true, "fund": true, "partners": true,
}

// Candidates lists logo locations for symbol in a fixed order: symbol-keyed
// templates, a domain guessed from the name, name variations, then the static
// domain override. Duplicates are dropped, keeping the first occurrence.
func Candidates(set *sources.Set, symbol, name string) []Candidate {
	symbol = sources.Key(symbol)

	var out []Candidate
	seen := map[string]bool{}
	add := func(url, kind, domain string) {
		if url == "" || seen[url] {
			return
		}
		seen[url] = true
		out = append(out, Candidate{URL: url, Kind: kind, Domain: domain})
	}
	addDomain := func(domain, kind string) {
		for _, tmpl := range set.DomainLogos() {
			add(sources.Fill(tmpl, "domain", domain), kind, domain)
		}
	}

	for _, tmpl := range set.SymbolLogos() {
		add(sources.Fill(tmpl, "symbol", symbol), KindSymbol, "")
	}

	// A name that is just the symbol carries no information about the domain.
	if name != "" && !strings.EqualFold(strings.TrimSpace(name), symbol) {
		if d := GuessDomain(name); d != "" {
			addDomain(d, KindGuess)
		}
		for _, v := range NameVariations(name) {
			addDomain(v+".com", KindVariation)
		}
	}

	if d, ok := set.Domain(symbol); ok {
		addDomain(d, KindOverride)
	}
	return out
}

// GuessDomain lower-cases the normalized name, drops everything but letters
// and digits and appends ".com".
func GuessDomain(name string) string {
	clean := alnum(names.Normalize(name))
	if clean == "" {
		return ""
	}
	return clean + ".com"
}

// NameVariations returns the full cleaned name, the first word, and the
// first word that is not a stopword, without duplicates.
func NameVariations(name string) []string {
	words := strings.Fields(strings.ToLower(names.Normalize(name)))
	if len(words) == 0 {
		return nil
	}

	var out []string
	seen := map[string]bool{}
	add := func(v string) {
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}

	add(alnum(strings.Join(words, "")))
	add(alnum(words[0]))
	for _, w := range words {
		if !stopwords[w] && alnum(w) != "" {
			add(alnum(w))
			break
		}
	}
	return out
}

func alnum(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
