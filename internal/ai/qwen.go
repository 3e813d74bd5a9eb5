package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"
)

const (
	qwenAPIURL       = "https://dashscope.aliyuncs.com/api/v1/services/aigc/text-generation/generation"
	defaultQwenModel = "qwen-max"
	qwenMaxRetries   = 2
)

// QwenProvider implements the Provider interface for Alibaba Cloud's Qwen
// models via the DashScope generation API.
type QwenProvider struct {
	apiKey string
	model  string
	client *http.Client
}

// NewQwenProvider creates a new Qwen provider with the given API key and model.
func NewQwenProvider(apiKey, model string) *QwenProvider {
	if model == "" {
		model = defaultQwenModel
	}
	return &QwenProvider{
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

// Name returns the provider identifier.
func (p *QwenProvider) Name() string {
	return "qwen"
}

type qwenRequest struct {
	Model      string         `json:"model"`
	Input      qwenInput      `json:"input"`
	Parameters qwenParameters `json:"parameters"`
}

type qwenInput struct {
	Messages []qwenMessage `json:"messages"`
}

type qwenMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type qwenParameters struct {
	ResultFormat string  `json:"result_format"`
	MaxTokens    int     `json:"max_tokens,omitempty"`
	Temperature  float64 `json:"temperature,omitempty"`
	TopP         float64 `json:"top_p,omitempty"`
}

type qwenResponse struct {
	Output struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	} `json:"output"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// Infer sends a prompt to Qwen and returns the complete response. Rate limits
// and server errors are retried with exponential backoff.
func (p *QwenProvider) Infer(ctx context.Context, system string, messages []Message, opts InferOptions) (*InferResult, error) {
	model := p.model
	if opts.Model != "" {
		model = opts.Model
	}
	maxTokens := 4000
	if opts.MaxTokens > 0 {
		maxTokens = opts.MaxTokens
	}
	temperature := 0.7
	if opts.Temperature > 0 {
		temperature = opts.Temperature
	}
	topP := 0.9
	if opts.TopP > 0 {
		topP = opts.TopP
	}

	msgs := make([]qwenMessage, 0, len(messages)+1)
	if system != "" {
		msgs = append(msgs, qwenMessage{Role: "system", Content: system})
	}
	for _, m := range messages {
		msgs = append(msgs, qwenMessage(m))
	}

	reqBody := qwenRequest{
		Model: model,
		Input: qwenInput{Messages: msgs},
		Parameters: qwenParameters{
			ResultFormat: "message",
			MaxTokens:    maxTokens,
			Temperature:  temperature,
			TopP:         topP,
		},
	}

	var lastErr error
	for attempt := 0; attempt < qwenMaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt))) * time.Second
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		result, err := p.doRequest(ctx, reqBody)
		if err != nil {
			lastErr = err
			if isRetryable(err) {
				continue
			}
			return nil, err
		}
		return result, nil
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", qwenMaxRetries, lastErr)
}

func (p *QwenProvider) doRequest(ctx context.Context, reqBody qwenRequest) (*InferResult, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("could not marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", qwenAPIURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &retryableError{msg: "rate limited by DashScope API"}
	}
	if resp.StatusCode >= 500 {
		return nil, &retryableError{msg: fmt.Sprintf("server error (HTTP %d)", resp.StatusCode)}
	}

	var apiResp qwenResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("could not parse API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if apiResp.Code == "InvalidApiKey" {
			return nil, fmt.Errorf("invalid API key — check your DASHSCOPE_API_KEY environment variable")
		}
		return nil, fmt.Errorf("API error (%s): %s", apiResp.Code, apiResp.Message)
	}

	if len(apiResp.Output.Choices) == 0 {
		return nil, fmt.Errorf("API returned empty response")
	}

	return &InferResult{
		Content:      apiResp.Output.Choices[0].Message.Content,
		Model:        reqBody.Model,
		InputTokens:  apiResp.Usage.InputTokens,
		OutputTokens: apiResp.Usage.OutputTokens,
	}, nil
}
