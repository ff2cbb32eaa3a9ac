package generator

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Options configures the two pipelines.
type Options struct {
	Prompt        PromptOptions
	DailyTimeout  time.Duration
	ReportTimeout time.Duration
	Daily         ModelParams
	Report        ModelParams
}

// DefaultOptions returns the production defaults.
func DefaultOptions() Options {
	return Options{
		DailyTimeout:  20 * time.Second,
		ReportTimeout: 60 * time.Second,
		Daily:         ModelParams{Temperature: 0.7, MaxTokens: 500},
		Report:        ModelParams{Temperature: 0.75, MaxTokens: 2000},
	}
}

// Agent runs validation, prompt assembly, the upstream call and reply
// parsing for both pipelines. It holds no per-request state.
type Agent struct {
	llm      LLMClient
	opts     Options
	validate *validator.Validate
	logger   *zap.Logger
}

func NewAgent(llm LLMClient, opts Options, logger *zap.Logger) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	defaults := DefaultOptions()
	if opts.DailyTimeout <= 0 {
		opts.DailyTimeout = defaults.DailyTimeout
	}
	if opts.ReportTimeout <= 0 {
		opts.ReportTimeout = defaults.ReportTimeout
	}
	return &Agent{
		llm:      llm,
		opts:     opts,
		validate: newValidator(),
		logger:   logger,
	}, nil
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// GenerateDailyMessage 는 학부모에게 보낼 오늘의 메시지를 생성한다.
func (a *Agent) GenerateDailyMessage(ctx context.Context, req DailyMessageRequest) (string, error) {
	if err := a.validate.Struct(req); err != nil {
		return "", badRequest(err)
	}
	a.checkAge(req.StudentAge, "daily")

	prompt := BuildDailyPrompt(req, a.opts.Prompt)
	prompt.Params = a.opts.Daily

	raw, err := a.complete(ctx, prompt, a.opts.DailyTimeout)
	if err != nil {
		return "", err
	}
	return ParseDailyMessage(raw)
}

// GenerateReport 는 성장 리포트 여섯 항목을 생성한다.
func (a *Agent) GenerateReport(ctx context.Context, req ReportRequest) (ReportContent, error) {
	a.checkAge(req.StudentAge, "report")

	prompt := BuildReportPrompt(req, a.opts.Prompt)
	prompt.Params = a.opts.Report

	raw, err := a.complete(ctx, prompt, a.opts.ReportTimeout)
	if err != nil {
		return ReportContent{}, err
	}
	return ParseReportContent(raw)
}

// complete bounds the upstream call by timeout. The deferred cancel
// releases the call on every exit path.
func (a *Agent) complete(ctx context.Context, prompt Prompt, timeout time.Duration) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	raw, err := a.llm.Complete(callCtx, prompt)
	if err != nil {
		return "", classify(callCtx, err)
	}
	a.logger.Debug("llm call finished",
		zap.Duration("elapsed", time.Since(start)),
		zap.Bool("vision", len(prompt.Images) > 0),
		zap.Int("reply_len", len(raw)))
	return raw, nil
}

func classify(callCtx context.Context, err error) error {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return newError(KindTimeout, err)
	}
	return newError(KindInternal, err)
}

func badRequest(err error) error {
	gerr := newError(KindBadRequest, err)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		gerr.Field = verrs[0].Field()
	}
	return gerr
}

// checkAge only logs: unparseable ages still fall into the oldest band.
func (a *Agent) checkAge(age Age, pipeline string) {
	if _, ok := age.Int(); !ok {
		a.logger.Warn("student age is not numeric; using oldest age band",
			zap.String("pipeline", pipeline), zap.String("age", string(age)))
	}
}
