package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	supplegen "github.com/Paranoid-AF/supplegen"
)

// Completer turns a prompt into generated text.
type Completer interface {
	Complete(ctx context.Context, prompt string, opts Options) (string, error)
}

// Options tunes a single completion request. Zero values are left out of
// the request so the endpoint defaults apply.
type Options struct {
	MaxTokens   int
	Temperature float64
}

// Client performs text generation via an OpenAI-compatible API.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	apiType string // "responses" or "chat_completions"
	client  *http.Client
}

// NewClient creates a client for the given endpoint. A zero timeout leaves
// requests bounded only by ctx.
func NewClient(baseURL, apiKey, model, apiType string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		apiType: apiType,
		client:  &http.Client{Timeout: timeout},
	}
}

// NewClientFromConfig creates a client from the generation settings.
func NewClientFromConfig(cfg supplegen.GenerationConfig) *Client {
	return NewClient(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.APIType, cfg.Timeout)
}

// Model returns the model name sent with every request.
func (c *Client) Model() string { return c.model }

// BaseURL returns the endpoint base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Complete sends prompt as a single user message and returns the response text.
func (c *Client) Complete(ctx context.Context, prompt string, opts Options) (string, error) {
	if c.apiType == "responses" {
		return c.completeResponses(ctx, prompt, opts)
	}
	return c.completeChat(ctx, prompt, opts)
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// --- Chat Completions API ---

type chatCompletionsRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionsResponse struct {
	Choices []chatChoice `json:"choices"`
	Error   *apiError    `json:"error,omitempty"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

func (c *Client) completeChat(ctx context.Context, prompt string, opts Options) (string, error) {
	reqBody := chatCompletionsRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}

	var result chatCompletionsResponse
	if err := c.post(ctx, "/chat/completions", reqBody, &result); err != nil {
		return "", err
	}

	if result.Error != nil {
		return "", fmt.Errorf("API error: %s", result.Error.Message)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return result.Choices[0].Message.Content, nil
}

// --- Responses API ---

type responsesRequest struct {
	Model       string           `json:"model"`
	Input       []responsesInput `json:"input"`
	MaxTokens   int              `json:"max_output_tokens,omitempty"`
	Temperature float64          `json:"temperature,omitempty"`
}

type responsesInput struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responsesResponse struct {
	Output []responsesOutput `json:"output"`
	Error  *apiError         `json:"error,omitempty"`
}

type responsesOutput struct {
	Type    string             `json:"type"`
	Content []responsesContent `json:"content,omitempty"`
}

type responsesContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (c *Client) completeResponses(ctx context.Context, prompt string, opts Options) (string, error) {
	reqBody := responsesRequest{
		Model:       c.model,
		Input:       []responsesInput{{Role: "user", Content: prompt}},
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}

	var result responsesResponse
	if err := c.post(ctx, "/responses", reqBody, &result); err != nil {
		return "", err
	}

	if result.Error != nil {
		return "", fmt.Errorf("API error: %s", result.Error.Message)
	}

	for _, out := range result.Output {
		if out.Type != "message" {
			continue
		}
		for _, content := range out.Content {
			if content.Type == "output_text" {
				return content.Text, nil
			}
		}
	}

	return "", fmt.Errorf("no text content in response")
}

// post sends body as JSON to path and decodes a 200 response into out.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	c.setHeaders(httpReq)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w (body: %s)", err, string(respBody))
	}
	return nil
}

// setHeaders sets common headers for API requests.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}
