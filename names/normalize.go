// Package names resolves ticker symbols to display names.
package names

import (
	"regexp"
	"strings"
)

// corporateSuffix matches one trailing legal-entity designation. It must be
// preceded by whitespace or a comma so that words merely ending in the same
// letters ("Boise", "Disco") are left alone.
var corporateSuffix = regexp.MustCompile(`(?i)[\s,]+(?:` +
	`class [a-c](?: common stock| ordinary shares| shares)?|` +
	`(?:american depositary|ordinary) shares?|` +
	`common stock|` +
	`incorporated|inc|corporation|corp|company|co|` +
	`limited|ltd|l\.?l\.?c|l\.?p|plc|` +
	`s\.?p\.?a|s\.?a|n\.?v|a\.?g|gmbh|se|` +
	`\(the\)` +
	`)\.?$`)

// Normalize strips corporate suffixes until none remain, then trims trailing
// commas and whitespace. Normalize(Normalize(s)) == Normalize(s).
func Normalize(name string) string {
	s := strings.Join(strings.Fields(name), " ")
	for {
		next := strings.TrimRight(corporateSuffix.ReplaceAllString(s, ""), " ,;")
		if next == s || next == "" {
			return s
		}
		s = next
	}
}
