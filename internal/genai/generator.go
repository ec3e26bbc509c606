// Package genai wraps the external image generation collaborator. The service
// is a black box: no retries, no fallback content. Failures surface as
// model.ErrGeneration for callers to classify.
package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/allana0-dev/refynely-backend/internal/model"
)

// Generator produces an image for a prompt and returns it as a data URI or an
// external URL.
type Generator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// promptSuffix steers the generator toward deck-appropriate imagery.
const promptSuffix = ". Professional business style, clean and modern, suitable for investor presentation."

// Unconfigured returns a Generator for deployments without an image provider.
// Every call fails with model.ErrGeneration.
func Unconfigured() Generator { return unconfigured{} }

type unconfigured struct{}

func (unconfigured) GenerateImage(context.Context, string) (string, error) {
	return "", fmt.Errorf("%w: image generation is not configured", model.ErrGeneration)
}

// Client calls an OpenAI-compatible images endpoint.
type Client struct {
	http  *resty.Client
	model string
}

// NewClient builds a Client for the given base URL and API key.
func NewClient(baseURL, apiKey, imageModel string) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(apiKey).
		SetTimeout(2 * time.Minute)
	return &Client{http: c, model: imageModel}
}

type imageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	Size           string `json:"size"`
	ResponseFormat string `json:"response_format"`
	N              int    `json:"n"`
}

type imageResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
		URL     string `json:"url"`
	} `json:"data"`
}

// GenerateImage requests one 1024x1024 image and returns it as a PNG data URI
// (or the provider's URL when no inline payload is returned).
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	req := imageRequest{
		Model:          c.model,
		Prompt:         prompt + promptSuffix,
		Size:           "1024x1024",
		ResponseFormat: "b64_json",
		N:              1,
	}
	resp, err := c.http.R().SetContext(ctx).SetBody(&req).Post("/v1/images/generations")
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrGeneration, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("%w: provider returned %d", model.ErrGeneration, resp.StatusCode())
	}
	var out imageResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", model.ErrGeneration, err)
	}
	if len(out.Data) == 0 {
		return "", fmt.Errorf("%w: empty response", model.ErrGeneration)
	}
	if out.Data[0].B64JSON != "" {
		return "data:image/png;base64," + out.Data[0].B64JSON, nil
	}
	if out.Data[0].URL != "" {
		return out.Data[0].URL, nil
	}
	return "", fmt.Errorf("%w: no image payload", model.ErrGeneration)
}
