// Package naming derives the canonical directory and identifier names used
// for generated apps, components and pages.
package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Words splits input into words. Word boundaries are case changes, the end
// of an acronym ("HTTPServer" -> "HTTP", "Server"), changes between letters
// and digits, and any rune that is neither a letter, a digit nor a
// combining mark. Combining marks stay with the rune they follow.
func Words(input string) []string {
	runes := []rune(input)
	words := []string{}
	var cur []rune

	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}

	for i, r := range runes {
		if unicode.Is(unicode.Mn, r) {
			cur = append(cur, r)
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if len(cur) > 0 {
			prev := cur[len(cur)-1]
			switch {
			case unicode.IsDigit(prev) != unicode.IsDigit(r):
				flush()
			case unicode.IsLower(prev) && unicode.IsUpper(r):
				flush()
			case unicode.IsUpper(prev) && unicode.IsUpper(r) &&
				i+1 < len(runes) && unicode.IsLower(runes[i+1]):
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()

	return words
}

// DirName returns the kebab-cased form of input wrapped in prefix and suffix,
// e.g. DirName("Hello World", "", "") == "hello-world".
func DirName(input, prefix, suffix string) string {
	lower := cases.Lower(language.Und)
	words := Words(input)
	for i, w := range words {
		words[i] = lower.String(w)
	}
	return prefix + strings.Join(words, "-") + suffix
}

// IdentifierName returns the Pascal-cased form of input wrapped in prefix and
// suffix, e.g. IdentifierName("hello world", "", "Controller") ==
// "HelloWorldController". Only the first rune of each word changes case, so
// Pascal-cased input comes back unchanged.
func IdentifierName(input, prefix, suffix string) string {
	title := cases.Title(language.Und, cases.NoLower)
	var b strings.Builder
	for _, w := range Words(input) {
		b.WriteString(title.String(w))
	}
	return prefix + b.String() + suffix
}
