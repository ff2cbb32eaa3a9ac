package server

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"art_academy_writer/generator"
)

const (
	msgDraftNotFound  = "초안을 찾을 수 없습니다."
	msgInvalidRequest = "유효하지 않은 요청입니다."
	msgTimeout        = "AI 응답 시간이 초과되었습니다. 다시 시도해주세요."
	msgServerError    = "서버 오류가 발생했습니다."
)

type failure struct {
	status  int
	message string
}

// pipeline holds the fixed client-facing messages of one endpoint.
type pipeline struct {
	name     string
	failures map[generator.Kind]failure
	fallback failure
}

var dailyPipeline = pipeline{
	name: "daily",
	failures: map[generator.Kind]failure{
		generator.KindBadRequest:        {http.StatusBadRequest, msgInvalidRequest},
		generator.KindTimeout:           {http.StatusGatewayTimeout, msgTimeout},
		generator.KindUpstream:          {http.StatusInternalServerError, "AI 생성에 실패했습니다. 다시 시도해주세요."},
		generator.KindMalformedResponse: {http.StatusInternalServerError, "AI 응답이 올바르지 않습니다."},
	},
	fallback: failure{http.StatusInternalServerError, msgServerError},
}

// Kinds not listed, parse failures included, get the generic message.
var reportPipeline = pipeline{
	name: "report",
	failures: map[generator.Kind]failure{
		generator.KindUpstream:       {http.StatusInternalServerError, "AI 생성 실패"},
		generator.KindJSONExtraction: {http.StatusInternalServerError, "JSON 파싱 실패"},
		generator.KindTimeout:        {http.StatusGatewayTimeout, msgTimeout},
	},
	fallback: failure{http.StatusInternalServerError, "서버 오류"},
}

func (p pipeline) resolve(kind generator.Kind) failure {
	if f, ok := p.failures[kind]; ok {
		return f
	}
	return p.fallback
}

// pipelineError ties a handler failure to the endpoint that produced it.
type pipelineError struct {
	pipeline pipeline
	err      error
}

func (e *pipelineError) Error() string { return e.pipeline.name + ": " + e.err.Error() }
func (e *pipelineError) Unwrap() error { return e.err }

func (p pipeline) fail(err error) error {
	return &pipelineError{pipeline: p, err: err}
}

// handleError writes every failure as {"error": message}. Diagnostics go to
// the log only.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		code    int
		message string
	)
	fields := []zap.Field{
		zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
		zap.String("path", c.Path()),
		zap.Error(err),
	}

	var perr *pipelineError
	var herr *echo.HTTPError
	switch {
	case errors.As(err, &perr):
		kind := generator.KindOf(perr.err)
		f := perr.pipeline.resolve(kind)
		code, message = f.status, f.message
		fields = append(fields, zap.String("pipeline", perr.pipeline.name), zap.Stringer("kind", kind))
		var gerr *generator.Error
		if errors.As(perr.err, &gerr) {
			if gerr.Status != 0 {
				fields = append(fields, zap.Int("upstream_status", gerr.Status))
			}
			if gerr.Field != "" {
				fields = append(fields, zap.String("field", gerr.Field))
			}
			if gerr.Body != "" {
				fields = append(fields, zap.String("upstream_body", gerr.Body))
			}
		}
	case errors.As(err, &herr):
		code, message = herr.Code, fmt.Sprint(herr.Message)
	default:
		code, message = http.StatusInternalServerError, msgServerError
	}

	if code >= http.StatusInternalServerError {
		s.logger.Error("request error", append(fields, zap.Int("status", code))...)
	} else {
		s.logger.Info("request rejected", append(fields, zap.Int("status", code))...)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, echo.Map{"error": message})
	}
	if err != nil {
		s.logger.Error("writing error response", zap.Error(err))
	}
}
