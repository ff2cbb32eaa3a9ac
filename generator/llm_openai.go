package generator

import (
	"context"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/pkg/errors"
)

// vision parts are always sent at low fidelity
const imageDetail = "low"

// OpenAILLM implements LLMClient using the official openai-go SDK (chat completions).
type OpenAILLM struct {
	Model string
	Opts  []option.RequestOption
}

func NewOpenAILLMFromConfig(cfg *LLMSettings) (*OpenAILLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key missing; provide llm.api_key")
	}
	if cfg.Model == "" {
		return nil, errors.New("llm model is required")
	}
	// no automatic retries; a failed call is reported as is
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}
	return &OpenAILLM{Model: cfg.Model, Opts: opts}, nil
}

func (o *OpenAILLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	client := openai.NewClient(o.Opts...)

	msgs := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(prompt.System),
	}
	if len(prompt.Images) == 0 {
		msgs = append(msgs, openai.UserMessage(prompt.User))
	} else {
		parts := []openai.ChatCompletionContentPartUnionParam{
			openai.TextContentPart(prompt.User),
		}
		for _, img := range prompt.Images {
			parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
				URL:    img,
				Detail: imageDetail,
			}))
		}
		msgs = append(msgs, openai.UserMessage(parts))
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(o.Model),
		Messages: msgs,
	}
	if prompt.Params.Temperature > 0 {
		params.Temperature = openai.Float(prompt.Params.Temperature)
	}
	if prompt.Params.MaxTokens > 0 {
		params.MaxTokens = openai.Int(prompt.Params.MaxTokens)
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", &Error{Kind: KindUpstream, Status: apiErr.StatusCode, Body: apiErr.Error(), Err: err}
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return "", newError(KindTimeout, err)
		}
		return "", errors.Wrap(err, "openai chat completion")
	}
	if len(resp.Choices) == 0 {
		return "", &Error{Kind: KindMalformedResponse, Body: resp.RawJSON(), Err: errors.New("openai: empty choices")}
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", &Error{Kind: KindMalformedResponse, Body: resp.RawJSON(), Err: errors.New("openai: reply has no content")}
	}
	return content, nil
}
