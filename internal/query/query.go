// Package query implements the feed search mini-language:
//
//	[tag]               any tag contains tag
//	user:name           author contains name
//	collective:"name"   category equals name
//	"phrase"            title or content contains phrase
//	text                title, content, author or any tag contains text
//
// Matching is case-insensitive and the first rule that accepts the query wins.
package query

import (
	"strings"

	"github.com/prompthub/prompthub/internal/models"
)

// Matcher reports whether a prompt satisfies a parsed query.
type Matcher func(p *models.Prompt) bool

// Rule turns a normalized (trimmed, lower-cased) query into a Matcher when it
// recognizes the syntax.
type Rule struct {
	Name  string
	Parse func(q string) (Matcher, bool)
}

// Rules in precedence order. The last rule accepts everything.
var Rules = []Rule{
	{Name: "tag", Parse: parseTag},
	{Name: "user", Parse: parseUser},
	{Name: "collective", Parse: parseCollective},
	{Name: "phrase", Parse: parsePhrase},
	{Name: "text", Parse: parseText},
}

// Query is a parsed search string.
type Query struct {
	Raw   string
	Rule  string // empty for a blank query
	Match Matcher
}

// Parse normalizes raw and selects the first rule that accepts it. A blank
// query matches everything.
func Parse(raw string) Query {
	q := strings.ToLower(strings.TrimSpace(raw))
	if q == "" {
		return Query{Raw: raw, Match: func(*models.Prompt) bool { return true }}
	}
	for _, r := range Rules {
		if m, ok := r.Parse(q); ok {
			return Query{Raw: raw, Rule: r.Name, Match: m}
		}
	}
	// unreachable: the text rule accepts any input
	return Query{Raw: raw, Rule: "text", Match: textMatcher(q)}
}

// Filter returns the prompts matching raw, preserving order. A blank query
// returns list itself.
func Filter(list []*models.Prompt, raw string) []*models.Prompt {
	q := Parse(raw)
	if q.Rule == "" {
		return list
	}
	out := make([]*models.Prompt, 0, len(list))
	for _, p := range list {
		if q.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

func enclosed(q, open, close string) (string, bool) {
	if len(q) < len(open)+len(close) || !strings.HasPrefix(q, open) || !strings.HasSuffix(q, close) {
		return "", false
	}
	return q[len(open) : len(q)-len(close)], true
}

func contains(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), sub)
}

func anyTag(p *models.Prompt, sub string) bool {
	for _, t := range p.Tags {
		if contains(t, sub) {
			return true
		}
	}
	return false
}

func parseTag(q string) (Matcher, bool) {
	tag, ok := enclosed(q, "[", "]")
	if !ok {
		return nil, false
	}
	return func(p *models.Prompt) bool { return anyTag(p, tag) }, true
}

func parseUser(q string) (Matcher, bool) {
	if !strings.HasPrefix(q, "user:") {
		return nil, false
	}
	name := strings.TrimSpace(strings.TrimPrefix(q, "user:"))
	return func(p *models.Prompt) bool { return contains(p.Author, name) }, true
}

func parseCollective(q string) (Matcher, bool) {
	name, ok := enclosed(q, `collective:"`, `"`)
	if !ok {
		return nil, false
	}
	return func(p *models.Prompt) bool { return strings.ToLower(p.Category) == name }, true
}

func parsePhrase(q string) (Matcher, bool) {
	phrase, ok := enclosed(q, `"`, `"`)
	if !ok {
		return nil, false
	}
	return func(p *models.Prompt) bool {
		return contains(p.Title, phrase) || contains(p.Content, phrase)
	}, true
}

func parseText(q string) (Matcher, bool) {
	return textMatcher(q), true
}

func textMatcher(q string) Matcher {
	return func(p *models.Prompt) bool {
		return contains(p.Title, q) || contains(p.Content, q) || contains(p.Author, q) || anyTag(p, q)
	}
}
