package services

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// unitPrefixes are stripped from the front of a normalised unit name.
// Longer prefixes come first so "thanh pho" wins over "tp".
var unitPrefixes = []string{
	"thanh pho ", "thi tran ", "thi xa ",
	"phuong ", "huyen ", "quan ", "tinh ", "xa ",
	"tp. ", "tp ", "tx. ", "tx ", "tt. ", "tt ", "p. ", "q. ", "h. ", "x. ",
}

// Fold lowercases s, removes Vietnamese diacritics and collapses whitespace.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	out = strings.NewReplacer("đ", "d", "Đ", "d").Replace(out)
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

// NormalizeUnit folds a unit name and drops its level prefix, so
// "Phường Bến Nghé", "P. Ben Nghe" and "ben nghe" compare equal.
func NormalizeUnit(s string) string {
	f := Fold(s)
	for _, p := range unitPrefixes {
		if rest, ok := strings.CutPrefix(f, p); ok && rest != "" {
			f = rest
			break
		}
	}
	// "p.ben nghe" without a space after the dot.
	if i := strings.IndexByte(f, '.'); i > 0 && i <= 2 {
		f = strings.TrimSpace(f[i+1:])
	}
	return f
}

// NormalizeDetail folds a street-level detail and strips trailing punctuation.
func NormalizeDetail(s string) string {
	return strings.Trim(Fold(s), " ,.;")
}
