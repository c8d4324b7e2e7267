// Package wildcard implements fnmatch-style pattern matching with an
// optional case-fold flag. Patterns are compiled to regular expressions
// so that behavior is identical on every platform: unlike filepath.Match,
// a "*" here matches path separators too.
package wildcard

import (
	"regexp"
	"strings"
)

// Pattern is a compiled wildcard pattern
type Pattern struct {
	raw      string
	foldCase bool
	re       *regexp.Regexp
}

// Compile translates a wildcard pattern into a Pattern. Supported syntax:
//
//	*        matches any run of characters (including separators)
//	?        matches any single character
//	[seq]    matches any character in seq; [!seq] negates
//
// Any other character matches itself. A malformed character class is
// treated as a literal "[".
func Compile(pattern string, foldCase bool) (*Pattern, error) {
	expr := translate(pattern, foldCase)
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &Pattern{raw: pattern, foldCase: foldCase, re: re}, nil
}

// MustCompile is like Compile but panics on error. Only for patterns
// known at compile time.
func MustCompile(pattern string, foldCase bool) *Pattern {
	p, err := Compile(pattern, foldCase)
	if err != nil {
		panic(err)
	}
	return p
}

// Match reports whether the value matches the compiled pattern
func (p *Pattern) Match(value string) bool {
	return p.re.MatchString(value)
}

// String returns the original pattern text
func (p *Pattern) String() string {
	return p.raw
}

// Match is a one-shot case-sensitive match
func Match(pattern, value string) bool {
	p, err := Compile(pattern, false)
	if err != nil {
		return false
	}
	return p.Match(value)
}

// MatchFold is a one-shot case-insensitive match
func MatchFold(pattern, value string) bool {
	p, err := Compile(pattern, true)
	if err != nil {
		return false
	}
	return p.Match(value)
}

// translate converts a wildcard pattern into an anchored regexp expression
func translate(pattern string, foldCase bool) string {
	var sb strings.Builder
	sb.WriteString("\\A")
	if foldCase {
		sb.WriteString("(?i)")
	}

	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		switch c := runes[i]; c {
		case '*':
			sb.WriteString(".*")
		case '?':
			sb.WriteString(".")
		case '[':
			end := classEnd(runes, i)
			if end < 0 {
				sb.WriteString(regexp.QuoteMeta("["))
				continue
			}
			sb.WriteString(translateClass(runes[i+1 : end]))
			i = end
		default:
			sb.WriteString(regexp.QuoteMeta(string(c)))
		}
	}

	sb.WriteString("\\z")
	return sb.String()
}

// classEnd returns the index of the closing bracket of the character class
// opening at idx, or -1 if the class never closes
func classEnd(runes []rune, idx int) int {
	i := idx + 1
	if i < len(runes) && (runes[i] == '!' || runes[i] == '^') {
		i++
	}
	// a "]" directly after the opening bracket is a literal member
	if i < len(runes) && runes[i] == ']' {
		i++
	}
	for ; i < len(runes); i++ {
		if runes[i] == ']' {
			return i
		}
	}
	return -1
}

// translateClass renders the inside of a character class, escaping regexp
// metacharacters that are not class syntax
func translateClass(body []rune) string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, c := range body {
		switch {
		case c == '!' && i == 0:
			sb.WriteString("^")
		case c == '^' && i == 0:
			sb.WriteString(`\^`)
		case c == '\\':
			sb.WriteString(`\\`)
		case c == ']':
			sb.WriteString(`\]`)
		default:
			sb.WriteRune(c)
		}
	}
	sb.WriteString("]")
	return sb.String()
}
