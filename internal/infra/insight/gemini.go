package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"tubo/internal/domain/listings"
)

// Client generates marketplace copy through Gemini. Every method is
// best-effort: on any error or timeout it returns the static fallback, never
// an error; generated text is decoration, not data.
type Client struct {
	model   *genai.GenerativeModel
	timeout time.Duration
	logger  *slog.Logger
}

// New connects to Gemini. Returns an error only on client construction; call
// failures later degrade to fallbacks.
func New(ctx context.Context, apiKey string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("insight: gemini client: %w", err)
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		model:   client.GenerativeModel("gemini-1.5-flash"),
		timeout: timeout,
		logger:  logger,
	}, nil
}

func (c *Client) CarHighlights(ctx context.Context, car *listings.Car) []string {
	fallback := []string{"Perfect for city driving", "Fuel efficient", "Host recommended"}
	prompt := fmt.Sprintf(
		"Give 3 short punchy highlights (max 5 words each) for this rental car as a JSON object"+
			` {"highlights": [...]}. Car: %d %s %s. Features: %s. Location: %s.`,
		car.Year, car.Make, car.Model, strings.Join(car.Features, ", "), car.Location)
	text, err := c.generate(ctx, prompt)
	if err != nil {
		return fallback
	}
	var parsed struct {
		Highlights []string `json:"highlights"`
	}
	if err := json.Unmarshal([]byte(extractJSON(text)), &parsed); err != nil || len(parsed.Highlights) == 0 {
		c.warn("highlights parse", err)
		return fallback
	}
	if len(parsed.Highlights) > 3 {
		parsed.Highlights = parsed.Highlights[:3]
	}
	return parsed.Highlights
}

func (c *Client) ListingDescription(ctx context.Context, car *listings.Car) string {
	prompt := fmt.Sprintf(
		"Write a short, attractive listing description for a car rental app. "+
			"Car: %d %s %s. Location: %s. Tone: welcoming and trustworthy. Max 2 sentences.",
		car.Year, car.Make, car.Model, car.Location)
	text, err := c.generate(ctx, prompt)
	if err != nil || strings.TrimSpace(text) == "" {
		return fmt.Sprintf("Experience the comfort of this %d %s %s in %s. Perfect for your trip!",
			car.Year, car.Make, car.Model, car.Location)
	}
	return strings.TrimSpace(text)
}

func (c *Client) NearbyDestinations(ctx context.Context, location string) string {
	prompt := fmt.Sprintf(
		"Suggest 3 popular driving destinations near %s for a rental-car trip, "+
			"one sentence each.", location)
	text, err := c.generate(ctx, prompt)
	if err != nil || strings.TrimSpace(text) == "" {
		return "Explore the city with your car!"
	}
	return strings.TrimSpace(text)
}

func (c *Client) ParseSearchLocation(ctx context.Context, query string) string {
	prompt := fmt.Sprintf(
		`Extract the location from this car rental search query: %q. `+
			`Return JSON {"location": "..."} with an empty string if none.`, query)
	text, err := c.generate(ctx, prompt)
	if err != nil {
		return query
	}
	var parsed struct {
		Location string `json:"location"`
	}
	if err := json.Unmarshal([]byte(extractJSON(text)), &parsed); err != nil || parsed.Location == "" {
		return query
	}
	return parsed.Location
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		c.warn("generate", err)
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("insight: empty response")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

func (c *Client) warn(stage string, err error) {
	if c.logger != nil && err != nil {
		c.logger.Warn("insight degraded to fallback", "stage", stage, "error", err)
	}
}

// extractJSON trims markdown fences the model sometimes wraps around JSON.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
