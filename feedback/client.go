package feedback

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/jsphweid/midicritic/constants"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var (
	ErrNotConfigured = errors.New("feedback API key is not configured")
	ErrRateLimited   = errors.New("rate limit exceeded")
	ErrUpstream      = errors.New("AI analysis failed")
)

const NoAnalysis = "No analysis generated."

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Client struct {
	URL    string
	APIKey string
	Model  string
	HTTP   *http.Client
}

func NewClientFromEnv() (*Client, error) {
	key := constants.GetFeedbackAPIKey()
	if key == "" {
		return nil, ErrNotConfigured
	}
	return &Client{
		URL:    constants.GetFeedbackAPIURL(),
		APIKey: key,
		Model:  constants.GetFeedbackModel(),
		HTTP:   &http.Client{Timeout: 2 * time.Minute},
	}, nil
}

// Generate sends prompt to the chat completions endpoint and returns the
// first choice's text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model: c.Model,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   2048,
		Temperature: 0.5,
	})
	if err != nil {
		return "", errors.Wrap(err, "could not encode completion request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "could not build completion request")
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "completion request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", ErrRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(resp.Body)
		log.WithField("status", resp.StatusCode).Errorf("AI error: %s", text)
		return "", errors.Wrapf(ErrUpstream, "status %d", resp.StatusCode)
	}

	var parsed completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", errors.Wrap(err, "could not decode completion response")
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return NoAnalysis, nil
	}
	return parsed.Choices[0].Message.Content, nil
}
