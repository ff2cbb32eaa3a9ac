package generator

import (
	"context"
	"net/http"
)

// LLMClient 는 채팅 완성 모델 클라이언트를 추상화한다. 테스트에서 교체할 수 있다.
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// LLMSettings 는 구체 구현에 넘기는 기본 설정이다.
type LLMSettings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
	// HTTPClient overrides the transport; nil means the SDK default.
	HTTPClient *http.Client
}
