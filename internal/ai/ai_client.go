package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kaptinlin/jsonrepair"

	"inboxpilot/internal/assistant"
	"inboxpilot/internal/logger"
	"inboxpilot/internal/model"
)

type aiClient struct {
	provider   string
	apiKey     string
	baseURL    string
	httpClient *http.Client
	retryPause time.Duration
	logger     *logger.Logger
}

const (
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"
	ProviderGemini   = "gemini"
)

// maxBodyChars bounds how much of the email body is sent in a prompt.
const maxBodyChars = 1500

// rateLimitPause is how long to wait before the single retry after a 429.
const rateLimitPause = 5 * time.Second

func NewAIClient(provider, apiKey string, logger *logger.Logger) assistant.AIClient {
	return &aiClient{
		provider:   provider,
		apiKey:     apiKey,
		baseURL:    getBaseURL(provider),
		httpClient: &http.Client{},
		retryPause: rateLimitPause,
		logger:     logger,
	}
}

// getBaseURL returns the appropriate API base URL based on the provider
func getBaseURL(provider string) string {
	switch provider {
	case ProviderDeepSeek:
		return "https://api.deepseek.com"
	case ProviderGemini:
		return "https://generativelanguage.googleapis.com/v1beta"
	default:
		return "https://api.openai.com/v1"
	}
}

// getModel returns the appropriate model based on the provider
func getModel(provider string) string {
	switch provider {
	case ProviderDeepSeek:
		return "deepseek-chat"
	case ProviderGemini:
		return "gemini-2.0-flash-lite"
	default:
		return "gpt-4o"
	}
}

// OpenAI/DeepSeek API request/response structures
type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []choice `json:"choices"`
}

type choice struct {
	Index        int     `json:"index"`
	Message      message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// Gemini API request/response structures
type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float64 `json:"temperature,omitempty"`
}

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiCandidate struct {
	Content      geminiCandidateContent `json:"content"`
	FinishReason string                 `json:"finishReason"`
}

type geminiCandidateContent struct {
	Parts []geminiPart `json:"parts"`
}

// ClassifyIntent asks the model for the single primary intent of a message,
// constrained to the closed label set. The raw label text is returned for
// the caller to normalize.
func (a *aiClient) ClassifyIntent(ctx context.Context, subject, body string) (string, error) {
	prompt := fmt.Sprintf(`Read the following email subject and body. What is the single primary intent? Choose ONLY ONE category from the list: [%s]. Respond with only the chosen category name.

Subject: %s

Body:
%s

Primary Intent: `,
		strings.Join(model.IntentNames(), ", "),
		subject,
		truncateBody(body))

	raw, err := a.generate(ctx, prompt, 50, 0.5)
	if err != nil {
		return "", fmt.Errorf("failed to classify intent: %w", err)
	}

	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return "", fmt.Errorf("empty intent response from model")
	}

	a.logger.Info("Classified intent as:", cleaned)
	return cleaned, nil
}

// ExtractMeetingDetails asks the model for a fenced-JSON object with the
// fields needed to schedule a meeting. Unparseable output is not an error:
// the details are simply absent.
func (a *aiClient) ExtractMeetingDetails(ctx context.Context, subject, body string) (*model.MeetingDetails, error) {
	prompt := fmt.Sprintf(`The following email is a meeting request. Extract the key details needed to schedule it. Provide the output ONLY as a JSON object with keys "event_summary", "date", "time", "duration_minutes", and "attendees" (list of potential email addresses mentioned, if any). If a detail cannot be found, use null or an empty string/list.

Subject: %s

Body:
%s

JSON Output:
`+"```json\n",
		subject,
		truncateBody(body))

	raw, err := a.generate(ctx, prompt, 150, 0.3)
	if err != nil {
		a.logger.Warn("Failed to get meeting details from model:", err)
		return nil, nil
	}

	details := decodeMeetingDetails(raw)
	if details == nil {
		a.logger.Warn("Could not parse meeting details from model output")
		return nil, nil
	}

	a.logger.Info("Extracted meeting details for:", details.EventSummary)
	return details, nil
}

// DraftReply synthesizes a reply body from the narrative describing how the
// message was handled.
func (a *aiClient) DraftReply(ctx context.Context, subject, sender, narrative string) (string, error) {
	prompt := fmt.Sprintf(`Draft a polite and concise reply email based on the provided context about how an incoming email was handled. Address the original sender.

Original Email Subject: %s
Original Sender: %s
Action Taken / Context: %s

Draft Reply Email Body:
`,
		subject,
		sender,
		narrative)

	reply, err := a.generate(ctx, prompt, 200, 0.7)
	if err != nil {
		return "", fmt.Errorf("failed to draft reply: %w", err)
	}
	return strings.TrimSpace(reply), nil
}

// generate issues a single completion request to the configured provider.
func (a *aiClient) generate(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	switch a.provider {
	case ProviderGemini:
		return a.generateWithGemini(ctx, prompt, maxTokens, temperature)
	default:
		return a.generateWithOpenAIStyle(ctx, prompt, maxTokens, temperature)
	}
}

func (a *aiClient) generateWithOpenAIStyle(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	request := chatCompletionRequest{
		Model: getModel(a.provider),
		Messages: []message{
			{
				Role:    "user",
				Content: prompt,
			},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	resp, err := a.makeRequest(ctx, request)
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from AI")
	}

	return resp.Choices[0].Message.Content, nil
}

func (a *aiClient) generateWithGemini(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	request := geminiRequest{
		Contents: []geminiContent{
			{
				Role: "user",
				Parts: []geminiPart{
					{
						Text: prompt,
					},
				},
			},
		},
		GenerationConfig: &geminiGenerationConfig{
			MaxOutputTokens: maxTokens,
			Temperature:     temperature,
		},
	}

	resp, err := a.makeGeminiRequest(ctx, request)
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}

	if len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content parts in Gemini response")
	}

	return resp.Candidates[0].Content.Parts[0].Text, nil
}

// makeRequest makes an HTTP request to the OpenAI/DeepSeek AI API. A 429
// response triggers a fixed pause and exactly one retry.
func (a *aiClient) makeRequest(ctx context.Context, request chatCompletionRequest) (*chatCompletionResponse, error) {
	jsonData, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := a.baseURL + "/chat/completions"
	newRequest := func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonData))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+a.apiKey)
		return req, nil
	}

	resp, err := a.doWithRetry(newRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &chatResp, nil
}

// makeGeminiRequest makes an HTTP request to the Google Gemini API.
func (a *aiClient) makeGeminiRequest(ctx context.Context, request geminiRequest) (*geminiResponse, error) {
	jsonData, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	modelName := getModel(a.provider)
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", a.baseURL, modelName, a.apiKey)

	newRequest := func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonData))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}

	resp, err := a.doWithRetry(newRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Gemini API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var geminiResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &geminiResp, nil
}

// doWithRetry issues the request, retrying once after a pause when the
// provider signals rate limiting.
func (a *aiClient) doWithRetry(newRequest func() (*http.Request, error)) (*http.Response, error) {
	req, err := newRequest()
	if err != nil {
		return nil, err
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}

	if resp.StatusCode != http.StatusTooManyRequests {
		return resp, nil
	}
	resp.Body.Close()

	a.logger.Warn("AI provider rate limit hit, retrying once after pause")
	time.Sleep(a.retryPause)

	req, err = newRequest()
	if err != nil {
		return nil, err
	}
	resp, err = a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	return resp, nil
}

// decodeMeetingDetails strips code fences from raw model output and decodes
// it defensively. Malformed JSON gets one repair attempt; anything that
// still fails, or that is not a JSON object, yields nil.
func decodeMeetingDetails(raw string) *model.MeetingDetails {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return nil
	}

	var details model.MeetingDetails
	if err := json.Unmarshal([]byte(cleaned), &details); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(cleaned)
		if repairErr != nil {
			return nil
		}
		if err := json.Unmarshal([]byte(repaired), &details); err != nil {
			return nil
		}
		cleaned = strings.TrimSpace(repaired)
	}

	// A bare null or scalar decodes without error but is not an object.
	if !strings.HasPrefix(cleaned, "{") {
		return nil
	}
	return &details
}

func truncateBody(body string) string {
	if body == "" {
		return "(No body content)"
	}
	if len(body) > maxBodyChars {
		return body[:maxBodyChars]
	}
	return body
}
