// Package inference calls a hosted text-generation endpoint.
package inference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/mohammad-safakhou/learntabs/internal/httpclient"
)

const (
	DefaultBaseURL      = "https://api-inference.huggingface.co/models"
	DefaultModel        = "Qwen/Qwen2.5-0.5B-Instruct"
	DefaultMaxNewTokens = 400
	DefaultTemperature  = 0.7
)

// ErrEmptyCompletion is returned when the endpoint answers without text.
var ErrEmptyCompletion = errors.New("inference: empty completion")

type Config struct {
	BaseURL      string
	Model        string
	MaxNewTokens int
	// Temperature nil means DefaultTemperature; zero is sent as is.
	Temperature *float64
}

// Client posts prompts to <BaseURL>/<model>.
type Client struct {
	cfg  Config
	http *httpclient.Client
}

func New(cfg Config, client *httpclient.Client) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxNewTokens <= 0 {
		cfg.MaxNewTokens = DefaultMaxNewTokens
	}
	if cfg.Temperature == nil {
		t := DefaultTemperature
		cfg.Temperature = &t
	}
	return &Client{cfg: cfg, http: client}
}

type request struct {
	Inputs     string     `json:"inputs"`
	Parameters parameters `json:"parameters"`
}

type parameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	ReturnFullText bool    `json:"return_full_text"`
}

type generation struct {
	GeneratedText string `json:"generated_text"`
	Error         string `json:"error,omitempty"`
}

// Generate sends prompt with a bearer token and returns the generated text.
// An empty model uses the configured default.
func (c *Client) Generate(ctx context.Context, token, model, prompt string) (string, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		model = c.cfg.Model
	}
	headers := map[string]string{
		"Authorization": "Bearer " + token,
		"Accept":        "application/json",
	}
	body := request{
		Inputs: prompt,
		Parameters: parameters{
			MaxNewTokens:   c.cfg.MaxNewTokens,
			Temperature:    *c.cfg.Temperature,
			ReturnFullText: false,
		},
	}

	var raw json.RawMessage
	if err := c.http.DoJSON(ctx, http.MethodPost, c.cfg.BaseURL+"/"+escapeModel(model), headers, body, &raw); err != nil {
		return "", fmt.Errorf("inference %s: %w", model, err)
	}
	text, err := decodeGeneration(raw)
	if err != nil {
		return "", fmt.Errorf("inference %s: %w", model, err)
	}
	return text, nil
}

// escapeModel keeps the owner/name separator of hub model ids.
func escapeModel(model string) string {
	parts := strings.Split(model, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

// decodeGeneration accepts [{"generated_text":...}] or {"generated_text":...}.
func decodeGeneration(raw json.RawMessage) (string, error) {
	var gen generation
	var list []generation
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) == 0 {
			return "", ErrEmptyCompletion
		}
		gen = list[0]
	} else if err := json.Unmarshal(raw, &gen); err != nil {
		return "", fmt.Errorf("decode completion: %w", err)
	}
	if gen.Error != "" {
		return "", errors.New(gen.Error)
	}
	if strings.TrimSpace(gen.GeneratedText) == "" {
		return "", ErrEmptyCompletion
	}
	return gen.GeneratedText, nil
}
