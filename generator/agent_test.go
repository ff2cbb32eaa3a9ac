package generator

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeLLM struct {
	calls  atomic.Int32
	reply  string
	err    error
	block  bool
	prompt Prompt
	done   chan struct{}
}

func (f *fakeLLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	f.calls.Add(1)
	f.prompt = prompt
	if f.block {
		<-ctx.Done()
		if f.done != nil {
			close(f.done)
		}
		return "", ctx.Err()
	}
	return f.reply, f.err
}

func newTestAgent(t *testing.T, llm LLMClient, opts Options) *Agent {
	t.Helper()
	agent, err := NewAgent(llm, opts, nil)
	require.NoError(t, err)
	return agent
}

func TestNewAgentRequiresLLM(t *testing.T) {
	_, err := NewAgent(nil, DefaultOptions(), nil)
	assert.Error(t, err)
}

func TestGenerateDailyMessageValidation(t *testing.T) {
	tests := []struct {
		name      string
		req       DailyMessageRequest
		wantField string
	}{
		{name: "missing name", req: DailyMessageRequest{Subject: "수채화"}, wantField: "studentName"},
		{name: "missing subject", req: DailyMessageRequest{StudentName: "김주빈"}, wantField: "subject"},
		{name: "empty", req: DailyMessageRequest{}, wantField: "studentName"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &fakeLLM{reply: "안녕하세요"}
			agent := newTestAgent(t, llm, DefaultOptions())

			_, err := agent.GenerateDailyMessage(context.Background(), tt.req)
			var gerr *Error
			require.ErrorAs(t, err, &gerr)
			assert.Equal(t, KindBadRequest, gerr.Kind)
			assert.Equal(t, tt.wantField, gerr.Field)
			assert.Zero(t, llm.calls.Load(), "no upstream call on invalid input")
		})
	}
}

func TestGenerateDailyMessage(t *testing.T) {
	llm := &fakeLLM{reply: "  주빈이는 오늘 나무를 그렸습니다. 🌳\n"}
	opts := DefaultOptions()
	opts.Prompt.AcademyName = "무지개 미술학원"
	agent := newTestAgent(t, llm, opts)

	msg, err := agent.GenerateDailyMessage(context.Background(), DailyMessageRequest{
		StudentName: "김주빈", StudentAge: "6", Subject: "나무",
	})
	require.NoError(t, err)
	assert.Equal(t, "주빈이는 오늘 나무를 그렸습니다. 🌳", msg)
	assert.EqualValues(t, 1, llm.calls.Load())
	assert.Equal(t, ModelParams{Temperature: 0.7, MaxTokens: 500}, llm.prompt.Params)
	assert.Contains(t, llm.prompt.System, "무지개 미술학원")
}

func TestGenerateDailyMessageTimeout(t *testing.T) {
	defer goleak.VerifyNone(t)

	llm := &fakeLLM{block: true, done: make(chan struct{})}
	opts := DefaultOptions()
	opts.DailyTimeout = 30 * time.Millisecond
	agent := newTestAgent(t, llm, opts)

	start := time.Now()
	_, err := agent.GenerateDailyMessage(context.Background(), DailyMessageRequest{StudentName: "주빈", Subject: "점토"})
	assert.Equal(t, KindTimeout, KindOf(err))
	assert.Less(t, time.Since(start), 5*time.Second)

	select {
	case <-llm.done:
	default:
		t.Fatal("pending call was not cancelled")
	}
}

func TestGenerateDailyMessageUpstreamErrors(t *testing.T) {
	upstream := &Error{Kind: KindUpstream, Status: 503}
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "typed upstream", err: upstream, want: KindUpstream},
		{name: "wrapped typed", err: errors.Wrap(upstream, "calling"), want: KindUpstream},
		{name: "deadline", err: errors.Wrap(context.DeadlineExceeded, "post"), want: KindTimeout},
		{name: "other", err: errors.New("connection refused"), want: KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agent := newTestAgent(t, &fakeLLM{err: tt.err}, DefaultOptions())
			_, err := agent.GenerateDailyMessage(context.Background(), DailyMessageRequest{StudentName: "주빈", Subject: "점토"})
			assert.Equal(t, tt.want, KindOf(err))
		})
	}
}

func TestGenerateReport(t *testing.T) {
	llm := &fakeLLM{reply: fullReply}
	agent := newTestAgent(t, llm, DefaultOptions())

	// no mandatory fields on the report pipeline
	content, err := agent.GenerateReport(context.Background(), ReportRequest{
		ImageBeforeBase64: "data:image/png;base64,AA",
		ImageAfterBase64:  "data:image/png;base64,BB",
	})
	require.NoError(t, err)
	assert.Equal(t, "큰 모양을 먼저 잡았습니다.", content.Form)
	assert.Equal(t, ModelParams{Temperature: 0.75, MaxTokens: 2000}, llm.prompt.Params)
	assert.Len(t, llm.prompt.Images, 2)
	assert.True(t, llm.prompt.ExpectJSON)
}

func TestGenerateReportTimeout(t *testing.T) {
	defer goleak.VerifyNone(t)

	opts := DefaultOptions()
	opts.ReportTimeout = 20 * time.Millisecond
	agent := newTestAgent(t, &fakeLLM{block: true}, opts)

	_, err := agent.GenerateReport(context.Background(), ReportRequest{StudentName: "서아"})
	assert.Equal(t, KindTimeout, KindOf(err))
}

func TestGenerateReportParseFailure(t *testing.T) {
	agent := newTestAgent(t, &fakeLLM{reply: "JSON 없이 답합니다"}, DefaultOptions())
	_, err := agent.GenerateReport(context.Background(), ReportRequest{StudentName: "서아"})
	assert.Equal(t, KindJSONExtraction, KindOf(err))
}

func TestMockLLMSatisfiesParsers(t *testing.T) {
	agent := newTestAgent(t, MockLLM{}, DefaultOptions())

	msg, err := agent.GenerateDailyMessage(context.Background(), DailyMessageRequest{StudentName: "주빈", Subject: "점토"})
	require.NoError(t, err)
	assert.NotEmpty(t, msg)

	content, err := agent.GenerateReport(context.Background(), ReportRequest{StudentName: "서아"})
	require.NoError(t, err)
	for _, s := range content.Sections() {
		assert.NotEmpty(t, s.Text, s.Key)
		assert.NotContains(t, s.Text, "["+s.Label+"]")
	}
}
