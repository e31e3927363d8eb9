package gemini

import (
	"context"
	"errors"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// SafetySettings turns off blocking for every adjustable harm category. It is
// applied to the shared model, so diagnosis and ping calls both use it.
var SafetySettings = []*genai.SafetySetting{
	{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockNone},
	{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockNone},
	{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockNone},
	{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockNone},
}

// Client owns the SDK connection. Build it once at startup and Close it on
// shutdown; the model is safe for concurrent use.
type Client struct {
	cl    *genai.Client
	model *genai.GenerativeModel
}

func New(ctx context.Context, apiKey, model string) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("GOOGLE_API_KEY is empty")
	}
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, errors.New("gemini: model name is empty")
	}

	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	m := cl.GenerativeModel(model)
	if m == nil {
		_ = cl.Close()
		return nil, errors.New("gemini: model is nil")
	}
	Configure(m)

	return &Client{cl: cl, model: m}, nil
}

// Configure applies the gateway's generation policy to m.
func Configure(m *genai.GenerativeModel) {
	m.SafetySettings = append([]*genai.SafetySetting(nil), SafetySettings...)
}

func (c *Client) Model() *genai.GenerativeModel { return c.model }

func (c *Client) Close() error { return c.cl.Close() }
