// Package redact scrubs secrets and PII from notebook sources and outputs
// before they are rendered or shared.
package redact

import (
	"fmt"
	"regexp"
)

// Rule detects sensitive data in a string and provides a replacement.
type Rule interface {
	Name() string
	Kind() string
	Detect(s string) []Match
	Replacement(m Match) string
}

// Match represents a detected occurrence within a string.
type Match struct {
	Start int
	End   int
	Value string
}

// Rule kinds.
const (
	KindSecret = "secret"
	KindPII    = "pii"
)

type regexRule struct {
	name    string
	kind    string
	pattern *regexp.Regexp
}

func (r *regexRule) Name() string { return r.name }
func (r *regexRule) Kind() string { return r.kind }

func (r *regexRule) Detect(s string) []Match {
	locs := r.pattern.FindAllStringIndex(s, -1)
	matches := make([]Match, len(locs))
	for i, loc := range locs {
		matches[i] = Match{Start: loc[0], End: loc[1], Value: s[loc[0]:loc[1]]}
	}
	return matches
}

func (r *regexRule) Replacement(_ Match) string {
	return fmt.Sprintf("[REDACTED:%s]", r.name)
}

// NewRegexRule builds a Rule from a pattern. It panics if the pattern does
// not compile.
func NewRegexRule(name, kind, pattern string) Rule {
	return &regexRule{name: name, kind: kind, pattern: regexp.MustCompile(pattern)}
}

var secretRules = []Rule{
	NewRegexRule("aws_key", KindSecret, `AKIA[0-9A-Z]{16}`),
	NewRegexRule("api_key", KindSecret, `(?:sk-[a-zA-Z0-9]{32,}|ghp_[a-zA-Z0-9]{36,}|gho_[a-zA-Z0-9]{36,}|glpat-[a-zA-Z0-9\-]{20,}|hf_[a-zA-Z0-9]{30,})`),
	NewRegexRule("bearer_token", KindSecret, `Bearer [A-Za-z0-9\-_.=]{20,}`),
	NewRegexRule("private_key", KindSecret, `-----BEGIN [A-Z ]+PRIVATE KEY-----`),
	NewRegexRule("connection_string", KindSecret, `(?:postgres|postgresql|mongodb|mysql|redis|snowflake)://[^\s"'`+"`"+`]+`),
	NewRegexRule("jwt", KindSecret, `eyJ[A-Za-z0-9\-_]+\.eyJ[A-Za-z0-9\-_]+\.[A-Za-z0-9\-_.+/=]+`),
}

var piiRules = []Rule{
	NewRegexRule("email", KindPII, `[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`),
	NewRegexRule("ipv4", KindPII, `\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}\b`),
	NewRegexRule("phone", KindPII, `(?:\+\d{1,3}[\s\-]?)?\(?\d{3}\)?[\s\-]?\d{3}[\s\-]?\d{4}`),
}

// SecretRules returns the built-in secret detection rules.
func SecretRules() []Rule {
	return append([]Rule(nil), secretRules...)
}

// PIIRules returns the built-in PII detection rules.
func PIIRules() []Rule {
	return append([]Rule(nil), piiRules...)
}
