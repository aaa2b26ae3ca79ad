// Package verdict maps the backend's fact-check payload into a
// renderable shape. The /check result field is dynamically typed on
// the wire (a structured verdict object on the happy path, a plain
// string when the model produced unstructured text); that ambiguity is
// resolved here, once, so render sites only ever see a Verdict.
package verdict

import (
	"encoding/json"
	"strings"
)

// Class is the categorical outcome of a fact check.
type Class string

const (
	True    Class = "TRUE"
	Partial Class = "PARTIAL"
	False   Class = "FALSE"

	// Indeterminate covers a missing or unrecognized verdict label and
	// every failure path, so rendering can always select a badge.
	Indeterminate Class = "INDETERMINATE"
)

// FallbackExplanation is rendered when the payload carried no usable
// text at all.
const FallbackExplanation = "The service could not generate a response for this query."

// ParseClass maps a backend verdict label to a Class. Unknown and
// empty labels are Indeterminate.
func ParseClass(label string) Class {
	switch Class(strings.ToUpper(strings.TrimSpace(label))) {
	case True:
		return True
	case Partial:
		return Partial
	case False:
		return False
	default:
		return Indeterminate
	}
}

// Verdict is one renderable AI response.
type Verdict struct {
	Class       Class
	Explanation string

	// Optional sections; empty means omitted from rendering.
	ExampleCase string
	CautionNote string
	Sources     []string
}

// payload is the structured shape of the result field. Explanation
// sometimes arrives under "content" when the backend relays plain
// model output.
type payload struct {
	Verdict     string `json:"verdict"`
	Explanation string `json:"explanation"`
	ExampleCase string `json:"example_case"`
	CautionNote string `json:"caution_note"`
	Content     string `json:"content"`
}

// Parse builds a Verdict from the raw result field and the response's
// source citations. It never fails: unparseable input degrades to an
// indeterminate verdict with whatever text could be salvaged.
func Parse(raw json.RawMessage, sources []string) Verdict {
	v := Verdict{Class: Indeterminate, Sources: trimSources(sources)}
	if len(raw) == 0 {
		v.Explanation = FallbackExplanation
		return v
	}

	var p payload
	if err := json.Unmarshal(raw, &p); err == nil && (p.Verdict != "" || p.Explanation != "" || p.Content != "") {
		v.Class = ParseClass(p.Verdict)
		v.Explanation = firstNonEmpty(p.Explanation, p.Content, FallbackExplanation)
		v.ExampleCase = strings.TrimSpace(p.ExampleCase)
		v.CautionNote = strings.TrimSpace(p.CautionNote)
		return v
	}

	// Plain string payload.
	var s string
	if err := json.Unmarshal(raw, &s); err == nil && strings.TrimSpace(s) != "" {
		v.Explanation = s
		return v
	}

	v.Explanation = FallbackExplanation
	return v
}

// ErrorTurn is the failure-shaped verdict appended when a submission
// does not settle successfully. Only the explanation is populated.
func ErrorTurn(message string) Verdict {
	if strings.TrimSpace(message) == "" {
		message = FallbackExplanation
	}
	return Verdict{Class: Indeterminate, Explanation: message}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// trimSources drops empty citations and normalizes a nil slice and an
// empty slice to the same rendering outcome (no sources section).
func trimSources(sources []string) []string {
	var out []string
	for _, s := range sources {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
