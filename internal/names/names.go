// Package names locates instructor first names in scraped text. Given a known
// last name it finds a name-shaped token sequence ending in that last name and
// returns the leading token, rejecting honorifics and malformed captures.
package names

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// letterClass matches a single Unicode letter. Digits and underscores are
	// excluded so tokens like "room2" never read as name parts.
	letterClass = `\p{L}`
	// upperClass matches a single uppercase Unicode letter.
	upperClass = `\p{Lu}`
)

// tokenPattern matches one name token: letters with interior apostrophes or
// hyphens allowed when followed by another letter ("O'Brien", "Garcia-Lopez").
const tokenPattern = letterClass + `(?:` + letterClass + `|['’\-]` + letterClass + `)*`

// middleTokenPattern matches a middle-name token. Middles must start with an
// uppercase letter so filler words between unrelated tokens and the last name
// ("is", "for") are never absorbed; initials like "J." still are.
const middleTokenPattern = upperClass + `(?:` + letterClass + `|['’\-]` + letterClass + `)*`

var trailingParenthetical = regexp.MustCompile(`\s*\([^)]*\)\s*$`)

// structuralHints license the relaxed (capitalization-agnostic) matching pass
// when present in the same chunk as the last-name match.
var structuralHints = []string{
	"feedback",
	"instructor",
	"course head",
	"primary instructor",
	"lecturer",
}

// invalidFirstTokens are honorifics and role words that are never a first name.
var invalidFirstTokens = map[string]struct{}{
	"professor":  {},
	"prof":       {},
	"doctor":     {},
	"dr":         {},
	"mr":         {},
	"mrs":        {},
	"ms":         {},
	"mx":         {},
	"coach":      {},
	"dean":       {},
	"chair":      {},
	"director":   {},
	"instructor": {},
}

// NormalizeLastName strips a trailing parenthetical qualifier such as
// "(she/her)" and surrounding whitespace from a last name.
func NormalizeLastName(lastName string) string {
	return strings.TrimSpace(trailingParenthetical.ReplaceAllString(lastName, ""))
}

// Pattern is a compiled name matcher anchored on a normalized last name.
// It is stateless and safe to reuse across chunks of one request.
type Pattern struct {
	re *regexp.Regexp
}

// NewPattern compiles a matcher for name sequences ending in lastName, which
// must already be normalized. Returns nil when lastName is empty.
//
// The sequence is: first token, optional trailing period, whitespace, zero to
// three middle tokens, then the last name matched case-insensitively. The
// trailing group stands in for a negative lookahead (unsupported in RE2): the
// last name must not run straight into more letters, so "Smith" never matches
// inside "Smithson". The leading word boundary is enforced by a rune check in
// Extract because RE2's \b is ASCII-only.
func NewPattern(lastName string) *Pattern {
	last := strings.TrimSpace(lastName)
	if last == "" {
		return nil
	}
	expr := `(` + tokenPattern + `)\.?\s+` +
		`(?:` + middleTokenPattern + `\.?\s+){0,3}` +
		`(?i:` + regexp.QuoteMeta(last) + `)` +
		`(?:[^` + letterClass + `]|\z)`
	return &Pattern{re: regexp.MustCompile(expr)}
}

// Extract returns the cleaned first valid captured token in text, scanning
// candidate occurrences left to right. When requireCapitalized is set, the raw
// captured token must begin with an uppercase letter.
//
// A rejected candidate (boundary violation, lowercase in strict mode,
// blocklisted or malformed token) resumes the scan one rune past its start,
// so nested candidates are still found: in "Dr. Jane Smith" the blocklisted
// "Dr" gives way to "Jane".
func (p *Pattern) Extract(text string, requireCapitalized bool) (string, bool) {
	if p == nil {
		return "", false
	}
	pos := 0
	for pos < len(text) {
		loc := p.re.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		start := pos + loc[0]
		raw := text[pos+loc[2] : pos+loc[3]]

		_, width := utf8.DecodeRuneInString(text[start:])
		pos = start + width

		if !boundaryBefore(text, start) {
			continue
		}
		if requireCapitalized && !startsUpper(raw) {
			continue
		}
		cleaned, ok := Clean(raw)
		if !ok {
			continue
		}
		if _, blocked := invalidFirstTokens[strings.ToLower(cleaned)]; blocked {
			continue
		}
		return cleaned, true
	}
	return "", false
}

// FindInText locates a first name adjacent to lastName in a text chunk.
// A strict pass requiring a capitalized first token runs first; when the same
// chunk carries a structural hint ("instructor", "feedback", ...) a relaxed
// pass without the capitalization requirement follows.
func FindInText(text, lastName string) (string, bool) {
	if text == "" {
		return "", false
	}
	last := NormalizeLastName(lastName)
	if last == "" {
		return "", false
	}
	lower := strings.ToLower(text)
	if !strings.Contains(lower, strings.ToLower(last)) {
		return "", false
	}
	pattern := NewPattern(last)
	if first, ok := pattern.Extract(text, true); ok {
		return first, true
	}
	if !hasStructuralHint(lower) {
		return "", false
	}
	return pattern.Extract(text, false)
}

// Clean normalizes a raw captured token: whitespace trimmed, periods removed,
// leading letter uppercased. Interior capitalization is preserved so "McKay"
// and "O'Brien" survive intact. Tokens containing digits or underscores are
// rejected.
func Clean(raw string) (string, bool) {
	token := strings.TrimSpace(raw)
	token = strings.ReplaceAll(token, ".", "")
	if token == "" {
		return "", false
	}
	for _, r := range token {
		if unicode.IsDigit(r) || r == '_' {
			return "", false
		}
	}
	runes := []rune(token)
	if len(runes) == 1 {
		return strings.ToUpper(token), true
	}
	return string(unicode.ToUpper(runes[0])) + string(runes[1:]), true
}

// boundaryBefore reports whether position i sits on a word boundary: the
// preceding rune must not be a letter, digit, or underscore.
func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

func hasStructuralHint(lowerText string) bool {
	for _, hint := range structuralHints {
		if strings.Contains(lowerText, hint) {
			return true
		}
	}
	return false
}
