package generator

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

type reportField struct {
	Key       string
	Label     string
	Directive string
	tag       *regexp.Regexp
	value     func(*ReportContent) *string
}

func newReportField(key, label, directive string, value func(*ReportContent) *string) reportField {
	return reportField{
		Key:       key,
		Label:     label,
		Directive: directive,
		tag:       regexp.MustCompile(`^\[` + regexp.QuoteMeta(label) + `\]\s*`),
		value:     value,
	}
}

// reportFields is ordered as the sections appear in the report.
var reportFields = []reportField{
	newReportField("content_form", "형태", "형태와 구성에 대한 관찰 (최소 3문장)",
		func(c *ReportContent) *string { return &c.Form }),
	newReportField("content_color", "색채", "색 사용과 색감에 대한 관찰 (최소 3문장)",
		func(c *ReportContent) *string { return &c.Color }),
	newReportField("content_expression", "표현", "표현 방식과 아이디어에 대한 관찰 (최소 3문장)",
		func(c *ReportContent) *string { return &c.Expression }),
	newReportField("content_strength", "강점", "이 학생만의 강점 (2~3문장)",
		func(c *ReportContent) *string { return &c.Strength }),
	newReportField("content_attitude", "태도", "수업 태도와 집중도 (2~3문장)",
		func(c *ReportContent) *string { return &c.Attitude }),
	newReportField("content_direction", "방향", "앞으로의 지도 방향 (최소 3문장)",
		func(c *ReportContent) *string { return &c.Direction }),
}

// Section is one labelled part of a report, in display order.
type Section struct {
	Key   string
	Label string
	Text  string
}

// Sections lists the report body in display order.
func (c ReportContent) Sections() []Section {
	out := make([]Section, 0, len(reportFields))
	for _, f := range reportFields {
		out = append(out, Section{Key: f.Key, Label: f.Label, Text: *f.value(&c)})
	}
	return out
}

// ParseDailyMessage returns the reply verbatim minus surrounding space.
// The sentence and length rules in the prompt are advisory only.
func ParseDailyMessage(raw string) (string, error) {
	msg := strings.TrimSpace(raw)
	if msg == "" {
		return "", newError(KindMalformedResponse, errors.New("model returned empty message"))
	}
	return msg, nil
}

// greedy on purpose: first '{' through last '}'
var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// ParseReportContent extracts the JSON object from the reply, checks that
// all six fields are strings and strips each field's own leading tag.
func ParseReportContent(raw string) (ReportContent, error) {
	span := jsonObjectPattern.FindString(raw)
	if span == "" {
		return ReportContent{}, newError(KindJSONExtraction, errors.New("no JSON object in model reply"))
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(span), &obj); err != nil {
		return ReportContent{}, &Error{Kind: KindInvalidJSON, Body: span, Err: errors.Wrap(err, "decoding report JSON")}
	}

	var content ReportContent
	for _, f := range reportFields {
		rawValue, ok := obj[f.Key]
		if !ok || string(rawValue) == "null" {
			return ReportContent{}, &Error{Kind: KindMissingField, Field: f.Key, Err: errors.Errorf("report reply has no %s", f.Key)}
		}
		var text string
		if err := json.Unmarshal(rawValue, &text); err != nil {
			return ReportContent{}, &Error{Kind: KindInvalidJSON, Field: f.Key, Err: errors.Wrapf(err, "decoding %s", f.Key)}
		}
		*f.value(&content) = f.tag.ReplaceAllString(text, "")
	}
	return content, nil
}
