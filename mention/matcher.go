package mention

import (
	"puppet-lab/domain"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Separator is the four-per-em space chat clients put after an at-mention.
const Separator = '\u2005'

// Matcher finds "@name" mentions of a known set of contacts in message content.
type Matcher struct {
	matcher *goahocorasick.Machine
	byName  map[string][]*domain.Contact
}

type span struct {
	start, end int
	name       string
}

// NewMatcher initializes the Aho-Corasick automaton with the lower-cased "@name" and "@alias"
// patterns of the given contacts. Contacts sharing a name are all reported for that name.
func NewMatcher(contacts []*domain.Contact) (*Matcher, error) {
	byName := make(map[string][]*domain.Contact)
	for _, c := range contacts {
		for _, name := range names(c) {
			key := normalize(name)
			if !slices.ContainsFunc(byName[key], c.Equal) {
				byName[key] = append(byName[key], c)
			}
		}
	}
	if len(byName) == 0 {
		return &Matcher{byName: byName}, nil
	}

	keys := make([]string, 0, len(byName))
	for key := range byName {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	patterns := make([][]rune, len(keys))
	for i, key := range keys {
		patterns[i] = []rune("@" + key)
	}
	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Matcher{matcher: m, byName: byName}, nil
}

// Match returns the mentioned contacts in order of first appearance, without duplicates.
// A match must end the content or be followed by a space, the mention separator or punctuation,
// and the longest name wins when several start at the same position.
func (m *Matcher) Match(content string) []*domain.Contact {
	res := make([]*domain.Contact, 0)
	for _, s := range m.spans(content) {
		for _, c := range m.byName[s.name] {
			if !slices.ContainsFunc(res, c.Equal) {
				res = append(res, c)
			}
		}
	}
	return res
}

// Strip removes every recognised mention and its trailing separator, then trims the result.
func (m *Matcher) Strip(content string) string {
	spans := m.spans(content)
	if len(spans) == 0 {
		return strings.TrimSpace(content)
	}
	runes := []rune(content)
	var b strings.Builder
	last := 0
	for _, s := range spans {
		b.WriteString(string(runes[last:s.start]))
		last = s.end
		if last < len(runes) && isSeparator(runes[last]) {
			last++
		}
	}
	b.WriteString(string(runes[last:]))
	return strings.TrimSpace(b.String())
}

// Index returns the byte offset of the first occurrence of the "@name" text at in content
// that ends on a boundary, or -1. "@Al" is not found inside "@Alice".
func Index(content, at string) int {
	if at == "" {
		return -1
	}
	for from := 0; from < len(content); {
		i := strings.Index(content[from:], at)
		if i < 0 {
			return -1
		}
		start := from + i
		end := start + len(at)
		if r, _ := utf8.DecodeRuneInString(content[end:]); end == len(content) || isBoundary(r) {
			return start
		}
		from = start + 1
	}
	return -1
}

func (m *Matcher) spans(content string) []span {
	if m.matcher == nil || content == "" {
		return nil
	}
	normalized := []rune(content)
	for i, r := range normalized {
		normalized[i] = unicode.ToLower(r)
	}

	terms := m.matcher.MultiPatternSearch(normalized, false)
	candidates := make([]span, 0, len(terms))
	for _, term := range terms {
		start := term.Pos
		end := start + len(term.Word)
		if start < 0 || end > len(normalized) {
			continue
		}
		if end < len(normalized) && !isBoundary(normalized[end]) {
			continue
		}
		candidates = append(candidates, span{start: start, end: end, name: string(term.Word[1:])})
	}

	// Earliest first, longest first on ties, then drop overlaps.
	slices.SortFunc(candidates, func(a, b span) int {
		if a.start != b.start {
			return a.start - b.start
		}
		return b.end - a.end
	})
	res := make([]span, 0, len(candidates))
	cursor := 0
	for _, c := range candidates {
		if c.start < cursor {
			continue
		}
		res = append(res, c)
		cursor = c.end
	}
	return res
}

func names(c *domain.Contact) []string {
	var res []string
	if c.Name != "" {
		res = append(res, c.Name)
	}
	if c.Alias != "" && c.Alias != c.Name {
		res = append(res, c.Alias)
	}
	return res
}

func normalize(name string) string {
	return strings.Map(unicode.ToLower, strings.TrimSpace(name))
}

func isSeparator(r rune) bool {
	return r == Separator || r == ' '
}

func isBoundary(r rune) bool {
	return isSeparator(r) || unicode.IsSpace(r) || unicode.IsPunct(r)
}
