package generator

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Progress statuses accepted by the daily message pipeline.
const (
	ProgressStarted   = "started"
	ProgressNone      = "none"
	ProgressCompleted = "completed"
)

// Age is the student's age as sent by the client. Both JSON strings and
// numbers are accepted; the raw text is kept so that banding can apply
// integer-prefix parsing to it.
type Age string

func (a *Age) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Age(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*a = Age(n.String())
	return nil
}

// Int parses the age the way a lenient integer prefix parser would:
// leading spaces and an optional sign, then digits up to the first
// non-digit. ok is false when no digit is found.
func (a Age) Int() (n int, ok bool) {
	s := []byte(a)
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	start := i
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == digits {
		return 0, false
	}
	v, err := strconv.Atoi(string(s[start:i]))
	if err != nil {
		// out of range; saturate so banding still sees the sign
		if s[start] == '-' {
			return math.MinInt, true
		}
		return math.MaxInt, true
	}
	return v, true
}

// DailyMessageRequest is the input of the daily parent message pipeline.
type DailyMessageRequest struct {
	StudentName    string `json:"studentName" validate:"required"`
	StudentAge     Age    `json:"studentAge"`
	Subject        string `json:"subject" validate:"required"`
	Materials      string `json:"materials,omitempty"`
	ProgressStatus string `json:"progressStatus,omitempty"`
	TeacherMemo    string `json:"teacherMemo,omitempty"`
}

// ReportRequest is the input of the growth report pipeline. Images are
// data URLs; vision content is sent only when both are present.
type ReportRequest struct {
	StudentName       string `json:"studentName"`
	StudentAge        Age    `json:"studentAge"`
	ClassName         string `json:"className"`
	TeacherMemo       string `json:"teacherMemo"`
	ParentRequest     string `json:"parentRequest,omitempty"`
	ImageBeforeBase64 string `json:"imageBeforeBase64,omitempty"`
	ImageAfterBase64  string `json:"imageAfterBase64,omitempty"`
}

// HasImagePair reports whether both comparison images were supplied.
func (r ReportRequest) HasImagePair() bool {
	return r.ImageBeforeBase64 != "" && r.ImageAfterBase64 != ""
}

// ReportContent is the six-section body of a growth report.
type ReportContent struct {
	Form       string `json:"content_form"`
	Color      string `json:"content_color"`
	Expression string `json:"content_expression"`
	Strength   string `json:"content_strength"`
	Attitude   string `json:"content_attitude"`
	Direction  string `json:"content_direction"`
}
