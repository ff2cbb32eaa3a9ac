package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDailyMessage(t *testing.T) {
	msg, err := ParseDailyMessage("\n  오늘 주빈이는 나무를 그렸습니다. 🌳 \n")
	require.NoError(t, err)
	assert.Equal(t, "오늘 주빈이는 나무를 그렸습니다. 🌳", msg)

	_, err = ParseDailyMessage(" \n ")
	assert.Equal(t, KindMalformedResponse, KindOf(err))
}

const fullReply = `네, 작성했습니다.
{"content_form":"[형태] 큰 모양을 먼저 잡았습니다.",
 "content_color":"[색채]따뜻한 색을 골랐습니다.",
 "content_expression":"[형태] 표현 칸에 잘못 붙은 태그는 남습니다.",
 "content_strength":"집중력이 좋습니다.",
 "content_attitude":"[태도] 끝까지 앉아 있었습니다.",
 "content_direction":"[방향]  다음에는 명암을 연습합니다. [방향] 본문 태그는 유지."}
감사합니다 :)`

func TestParseReportContent(t *testing.T) {
	got, err := ParseReportContent(fullReply)
	require.NoError(t, err)
	assert.Equal(t, ReportContent{
		Form:       "큰 모양을 먼저 잡았습니다.",
		Color:      "따뜻한 색을 골랐습니다.",
		Expression: "[형태] 표현 칸에 잘못 붙은 태그는 남습니다.",
		Strength:   "집중력이 좋습니다.",
		Attitude:   "끝까지 앉아 있었습니다.",
		Direction:  "다음에는 명암을 연습합니다. [방향] 본문 태그는 유지.",
	}, got)
}

func TestParseReportContentFailures(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantKind  Kind
		wantField string
	}{
		{name: "no braces", raw: "죄송합니다. 작성할 수 없습니다.", wantKind: KindJSONExtraction},
		{name: "only opening brace", raw: "{ 미완성", wantKind: KindJSONExtraction},
		{name: "broken json", raw: `{"content_form": "a", }`, wantKind: KindInvalidJSON},
		{name: "greedy span covers two objects", raw: `{"a":"1"} 그리고 {"b":"2"}`, wantKind: KindInvalidJSON},
		{
			name:      "missing field",
			raw:       `{"content_form":"a","content_color":"b","content_expression":"c","content_strength":"d","content_attitude":"e"}`,
			wantKind:  KindMissingField,
			wantField: "content_direction",
		},
		{
			name:      "null field",
			raw:       `{"content_form":null}`,
			wantKind:  KindMissingField,
			wantField: "content_form",
		},
		{
			name:      "non string field",
			raw:       `{"content_form":3}`,
			wantKind:  KindInvalidJSON,
			wantField: "content_form",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseReportContent(tt.raw)
			require.Error(t, err)
			var gerr *Error
			require.ErrorAs(t, err, &gerr)
			assert.Equal(t, tt.wantKind, gerr.Kind)
			assert.Equal(t, tt.wantField, gerr.Field)
		})
	}
}

func TestReportContentSections(t *testing.T) {
	c := ReportContent{Form: "f", Color: "c", Expression: "e", Strength: "s", Attitude: "a", Direction: "d"}
	sections := c.Sections()
	require.Len(t, sections, 6)
	assert.Equal(t, Section{Key: "content_form", Label: "형태", Text: "f"}, sections[0])
	assert.Equal(t, Section{Key: "content_direction", Label: "방향", Text: "d"}, sections[5])
}
