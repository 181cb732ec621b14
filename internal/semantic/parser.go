// Package semantic scores headlines through a language model and parses its
// free-text verdicts.
package semantic

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"HeadlineScorer/internal/domain"
)

const (
	fence   = "```"
	jsonTag = "json"
)

// Required keys of a model verdict.
var requiredKeys = []string{
	"audience_score",
	"interest_score",
	"simplicity_score",
	"total_score",
	"reason",
	"ad_direction",
}

// Assessment is a validated model verdict. Total is recomputed, never copied.
type Assessment struct {
	Dimensions     domain.DimensionScore
	Total          int
	Reason         string
	AdDirection    string
	TargetAudience string
	Sentiment      domain.Sentiment
}

// Extractor pulls a candidate JSON payload out of a model response.
type Extractor struct {
	Name    string
	Extract func(text string) (string, bool)
}

// Extractors are tried in order until one yields a JSON object.
var Extractors = []Extractor{
	{Name: "json-fence", Extract: extractTaggedFence},
	{Name: "any-fence", Extract: extractAnyFence},
	{Name: "raw", Extract: extractRaw},
	{Name: "braces", Extract: extractBraces},
}

func extractTaggedFence(text string) (string, bool) {
	for offset := 0; ; {
		idx := strings.Index(text[offset:], fence)
		if idx < 0 {
			return "", false
		}
		tag := offset + idx + len(fence)
		if tag+len(jsonTag) <= len(text) && strings.EqualFold(text[tag:tag+len(jsonTag)], jsonTag) {
			rest := text[tag+len(jsonTag):]
			if end := strings.Index(rest, fence); end >= 0 {
				rest = rest[:end]
			}
			return strings.TrimSpace(rest), true
		}
		offset = tag
	}
}

func extractAnyFence(text string) (string, bool) {
	idx := strings.Index(text, fence)
	if idx < 0 {
		return "", false
	}
	rest := text[idx+len(fence):]
	if end := strings.Index(rest, fence); end >= 0 {
		rest = rest[:end]
	}
	// Drop a bare language tag such as "javascript" on the opening line.
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		if tag := strings.TrimSpace(rest[:nl]); tag != "" && !strings.ContainsAny(tag, "{[\"") {
			rest = rest[nl+1:]
		}
	}
	return strings.TrimSpace(rest), true
}

func extractRaw(text string) (string, bool) {
	return strings.TrimSpace(text), true
}

// extractBraces recovers an object wrapped in unfenced chatter.
func extractBraces(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// Parse extracts, validates and repairs a verdict from arbitrary model text.
func Parse(text string) (Assessment, error) {
	fields, err := decodeObject(text)
	if err != nil {
		return Assessment{}, err
	}

	for _, key := range requiredKeys {
		if _, ok := fields[key]; !ok {
			return Assessment{}, &domain.ParseError{Reason: fmt.Sprintf("missing required field %q", key)}
		}
	}

	var dims domain.DimensionScore
	for _, f := range []struct {
		key string
		dst *int
	}{
		{"audience_score", &dims.Audience},
		{"interest_score", &dims.Interest},
		{"simplicity_score", &dims.Simplicity},
	} {
		v, err := scoreValue(fields[f.key])
		if err != nil {
			return Assessment{}, &domain.ParseError{Reason: "field " + f.key, Err: err}
		}
		*f.dst = v
	}
	dims = dims.Clamped()

	return Assessment{
		Dimensions:     dims,
		Total:          dims.Total(),
		Reason:         textValue(fields["reason"]),
		AdDirection:    textValue(fields["ad_direction"]),
		TargetAudience: textValue(fields["target_audience"]),
		Sentiment:      domain.ParseSentiment(textValue(fields["emotion"])),
	}, nil
}

func decodeObject(text string) (map[string]json.RawMessage, error) {
	var lastErr error
	for _, ex := range Extractors {
		candidate, ok := ex.Extract(text)
		if !ok || candidate == "" {
			continue
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal([]byte(candidate), &fields); err != nil {
			lastErr = fmt.Errorf("%s: %w", ex.Name, err)
			continue
		}
		if fields == nil {
			lastErr = fmt.Errorf("%s: payload is not an object", ex.Name)
			continue
		}
		return fields, nil
	}
	if lastErr == nil {
		return nil, &domain.ParseError{Reason: "empty response"}
	}
	return nil, &domain.ParseError{Reason: "no JSON object found", Err: lastErr}
}

// scoreValue accepts a JSON number or a numeric string and rounds it.
func scoreValue(raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return 0, errors.New("value is null")
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if sErr := json.Unmarshal(raw, &s); sErr != nil {
			return 0, fmt.Errorf("not a number: %s", raw)
		}
		f, err = strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", s)
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a finite number: %s", raw)
	}
	f = math.Round(f)
	// Keep the conversion defined; clamping follows.
	f = math.Max(-1000, math.Min(1000, f))
	return int(f), nil
}

// textValue keeps non-string values verbatim rather than rejecting them.
func textValue(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return string(raw)
}
