package generator

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const completionReply = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-4o-mini",
  "choices": [{"index": 0, "message": {"role": "assistant", "content": "주빈이는 오늘 즐거웠습니다."}, "finish_reason": "stop"}]
}`

func newFakeUpstream(t *testing.T, handler http.HandlerFunc) *OpenAILLM {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	llm, err := NewOpenAILLMFromConfig(&LLMSettings{
		Provider: "openai",
		Model:    "gpt-4o-mini",
		APIKey:   "test-key",
		BaseURL:  srv.URL + "/v1/",
	})
	require.NoError(t, err)
	return llm
}

func TestNewOpenAILLMFromConfig(t *testing.T) {
	_, err := NewOpenAILLMFromConfig(nil)
	assert.Error(t, err)

	_, err = NewOpenAILLMFromConfig(&LLMSettings{Model: "gpt-4o-mini"})
	assert.ErrorContains(t, err, "api key")

	_, err = NewOpenAILLMFromConfig(&LLMSettings{APIKey: "k"})
	assert.ErrorContains(t, err, "model")
}

func TestOpenAILLMCompleteText(t *testing.T) {
	var body map[string]any
	llm := newFakeUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		data, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(data, &body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, completionReply)
	})

	got, err := llm.Complete(context.Background(), Prompt{
		System: "시스템",
		User:   "사용자",
		Params: ModelParams{Temperature: 0.7, MaxTokens: 500},
	})
	require.NoError(t, err)
	assert.Equal(t, "주빈이는 오늘 즐거웠습니다.", got)

	assert.Equal(t, "gpt-4o-mini", body["model"])
	assert.InDelta(t, 0.7, body["temperature"], 1e-9)
	assert.EqualValues(t, 500, body["max_tokens"])

	msgs, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "시스템", msgs[0].(map[string]any)["content"])
	assert.Equal(t, "user", msgs[1].(map[string]any)["role"])
	assert.Equal(t, "사용자", msgs[1].(map[string]any)["content"])
}

func TestOpenAILLMCompleteVision(t *testing.T) {
	var body struct {
		Messages []struct {
			Role    string          `json:"role"`
			Content json.RawMessage `json:"content"`
		} `json:"messages"`
	}
	llm := newFakeUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, completionReply)
	})

	_, err := llm.Complete(context.Background(), Prompt{
		System: "s",
		User:   "비교해 주세요",
		Images: []string{"data:image/png;base64,AAA", "data:image/png;base64,BBB"},
	})
	require.NoError(t, err)
	require.Len(t, body.Messages, 2)

	var parts []struct {
		Type     string `json:"type"`
		Text     string `json:"text"`
		ImageURL struct {
			URL    string `json:"url"`
			Detail string `json:"detail"`
		} `json:"image_url"`
	}
	require.NoError(t, json.Unmarshal(body.Messages[1].Content, &parts))
	require.Len(t, parts, 3)
	assert.Equal(t, "text", parts[0].Type)
	assert.Equal(t, "비교해 주세요", parts[0].Text)
	assert.Equal(t, "image_url", parts[1].Type)
	assert.Equal(t, "data:image/png;base64,AAA", parts[1].ImageURL.URL)
	assert.Equal(t, "low", parts[1].ImageURL.Detail)
	assert.Equal(t, "data:image/png;base64,BBB", parts[2].ImageURL.URL)
}

func TestOpenAILLMUpstreamError(t *testing.T) {
	calls := 0
	llm := newFakeUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":{"message":"model overloaded","type":"server_error"}}`)
	})

	_, err := llm.Complete(context.Background(), Prompt{System: "s", User: "u"})
	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, KindUpstream, gerr.Kind)
	assert.Equal(t, http.StatusInternalServerError, gerr.Status)
	assert.Contains(t, gerr.Body, "model overloaded")
	assert.Equal(t, 1, calls, "no retries")
}

func TestOpenAILLMEmptyChoices(t *testing.T) {
	llm := newFakeUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`)
	})

	_, err := llm.Complete(context.Background(), Prompt{System: "s", User: "u"})
	assert.Equal(t, KindMalformedResponse, KindOf(err))
}

func TestOpenAILLMDeadline(t *testing.T) {
	llm := newFakeUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := llm.Complete(ctx, Prompt{System: "s", User: "u"})
	assert.Equal(t, KindTimeout, KindOf(err))
}
