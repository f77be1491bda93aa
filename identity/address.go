// Package identity derives known-set keys from extracted addresses.
//
// The watcher has always matched apartments on the exact rendered address
// string. That is fragile (a whitespace or abbreviation change makes the same
// unit look new) but it is the behavior operators have calibrated against, so
// normalization is opt-in and off by default.
package identity

import "strings"

var streetReplacements = map[string]string{
	"street":    "st",
	"avenue":    "ave",
	"drive":     "dr",
	"road":      "rd",
	"boulevard": "blvd",
	"lane":      "ln",
	"court":     "ct",
	"place":     "pl",
	"terrace":   "ter",
	"north":     "n",
	"south":     "s",
	"east":      "e",
	"west":      "w",
	"apartment": "apt",
	"suite":     "ste",
	"floor":     "fl",
}

// Key returns the known-set key for an address. With normalize false (the
// default) the address is used verbatim.
func Key(address string, normalize bool) string {
	if !normalize {
		return address
	}
	return Normalize(address)
}

// Normalize lowercases, collapses whitespace, strips trailing punctuation
// from tokens, and folds common street-suffix spellings.
func Normalize(address string) string {
	fields := strings.Fields(strings.ToLower(address))

	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimRight(f, ".,")
		if f == "" {
			continue
		}
		if short, ok := streetReplacements[f]; ok {
			f = short
		}
		out = append(out, f)
	}

	return strings.Join(out, " ")
}
