package redact

import (
	"regexp"
	"sort"
	"strings"

	"github.com/sonnes/nbout/core"
)

// Config controls which rules the Redactor applies.
type Config struct {
	Secrets    bool
	PII        bool
	ExtraRules []Rule
	Allowlist  []string // regex patterns to skip
}

// Redactor applies redaction rules to every textual part of a Notebook:
// cell sources, stream text, error values and tracebacks, textual MIME
// payloads, and output metadata. Binary image payloads are left alone.
type Redactor struct {
	rules     []Rule
	allowlist []*regexp.Regexp
}

// New creates a Redactor from the given config.
func New(cfg Config) *Redactor {
	var rules []Rule
	if cfg.Secrets {
		rules = append(rules, SecretRules()...)
	}
	if cfg.PII {
		rules = append(rules, PIIRules()...)
	}
	rules = append(rules, cfg.ExtraRules...)

	allowlist := make([]*regexp.Regexp, 0, len(cfg.Allowlist))
	for _, pattern := range cfg.Allowlist {
		if re, err := regexp.Compile(pattern); err == nil {
			allowlist = append(allowlist, re)
		}
	}

	return &Redactor{rules: rules, allowlist: allowlist}
}

// Transform implements core.Transformer.
func (r *Redactor) Transform(nb *core.Notebook) error {
	for i := range nb.Cells {
		cell := &nb.Cells[i]
		cell.Source = r.redactString(cell.Source)
		for j, o := range cell.Outputs {
			cell.Outputs[j] = r.RedactOutput(o)
		}
	}
	return nil
}

// RedactOutput returns a redacted copy of o. The input is not modified.
func (r *Redactor) RedactOutput(o core.Output) core.Output {
	switch v := o.(type) {
	case core.Stream:
		v.Text = r.redactString(v.Text)
		return v
	case core.DisplayData:
		v.Data = r.redactBundle(v.Data)
		v.Metadata = r.redactMetadata(v.Metadata)
		return v
	case core.ExecuteResult:
		v.Data = r.redactBundle(v.Data)
		v.Metadata = r.redactMetadata(v.Metadata)
		return v
	case core.Error:
		v.EValue = r.redactString(v.EValue)
		if v.Traceback != nil {
			tb := make([]string, len(v.Traceback))
			for i, line := range v.Traceback {
				tb[i] = r.redactString(line)
			}
			v.Traceback = tb
		}
		return v
	default:
		return o
	}
}

func (r *Redactor) redactBundle(b core.Bundle) core.Bundle {
	out := b.Clone()
	for mime, payload := range out {
		if isTextual(mime) {
			out[mime] = r.redactString(payload)
		}
	}
	return out
}

// maxMetadataDepth bounds recursion into nested output metadata.
const maxMetadataDepth = 16

// redactMetadata redacts output metadata. nbformat keys it by MIME type
// (e.g. {"image/png": {"width": 640}}) next to flat keys like "isolated";
// only string leaves can carry secrets.
func (r *Redactor) redactMetadata(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for key, v := range m {
		out[key] = r.redactValue(v, 1)
	}
	return out
}

func (r *Redactor) redactValue(v any, depth int) any {
	if depth > maxMetadataDepth {
		return v
	}
	switch val := v.(type) {
	case string:
		return r.redactString(val)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[k] = r.redactValue(child, depth+1)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = r.redactValue(child, depth+1)
		}
		return out
	}
	return v
}

// isTextual reports whether a payload of this MIME type is text rather
// than base64-encoded binary.
func isTextual(mime string) bool {
	switch mime {
	case core.MimeConsoleText, core.MimeJavaScript, core.MimeJSON, core.MimeSVG:
		return true
	}
	return strings.HasPrefix(mime, "text/") || strings.HasSuffix(mime, "+json")
}

// redactString applies all rules to s. Overlapping matches resolve to
// earliest start, then longest. Allowlisted values are skipped.
func (r *Redactor) redactString(s string) string {
	if len(s) == 0 {
		return s
	}

	type replacement struct {
		start int
		end   int
		text  string
	}

	var reps []replacement
	for _, rule := range r.rules {
		for _, m := range rule.Detect(s) {
			if r.isAllowed(m.Value) {
				continue
			}
			reps = append(reps, replacement{
				start: m.Start,
				end:   m.End,
				text:  rule.Replacement(m),
			})
		}
	}

	if len(reps) == 0 {
		return s
	}

	sort.Slice(reps, func(i, j int) bool {
		if reps[i].start != reps[j].start {
			return reps[i].start < reps[j].start
		}
		return reps[i].end > reps[j].end
	})

	var result []byte
	pos := 0
	for _, rep := range reps {
		if rep.start < pos {
			continue // overlaps with a previous replacement
		}
		result = append(result, s[pos:rep.start]...)
		result = append(result, rep.text...)
		pos = rep.end
	}
	result = append(result, s[pos:]...)
	return string(result)
}

func (r *Redactor) isAllowed(value string) bool {
	for _, re := range r.allowlist {
		if re.MatchString(value) {
			return true
		}
	}
	return false
}
