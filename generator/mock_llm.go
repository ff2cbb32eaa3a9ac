package generator

import (
	"context"
	"encoding/json"
	"strings"
)

// MockLLM 는 외부 모델을 호출하지 않는 로컬 디버깅용 구현이다.
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	if prompt.ExpectJSON {
		reply := make(map[string]string, len(reportFields))
		for _, f := range reportFields {
			reply[f.Key] = "[" + f.Label + "] " + f.Directive + " 예시 문장입니다."
		}
		data, err := json.Marshal(reply)
		if err != nil {
			return "", err
		}
		return "다음은 리포트입니다.\n" + string(data), nil
	}

	var sb strings.Builder
	sb.WriteString("오늘도 즐겁게 수업에 참여했습니다. ")
	sb.WriteString("(mock) ")
	sb.WriteString(firstLine(prompt.User))
	sb.WriteString(" 😊")
	return sb.String(), nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
