package assistant

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"
)

// Model is the slice of the generative API the assistant needs.
type Model interface {
	GenerateJSON(ctx context.Context, model, system, prompt string, schema *genai.Schema, temperature float32) (string, error)
	GenerateImage(ctx context.Context, model, prompt string) ([]byte, error)
}

type genaiModel struct {
	client *genai.Client
}

// NewGenAIModel connects to the Gemini API with apiKey.
func NewGenAIModel(ctx context.Context, apiKey string) (Model, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &genaiModel{client: client}, nil
}

func (m *genaiModel) GenerateJSON(ctx context.Context, model, system, prompt string, schema *genai.Schema, temperature float32) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    schema,
	}
	if temperature > 0 {
		cfg.Temperature = genai.Ptr[float32](temperature)
	}
	resp, err := m.client.Models.GenerateContent(ctx, model, genai.Text(prompt), cfg)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("model returned no text")
	}
	return text, nil
}

func (m *genaiModel) GenerateImage(ctx context.Context, model, prompt string) ([]byte, error) {
	resp, err := m.client.Models.GenerateImages(ctx, model, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: "image/png",
	})
	if err != nil {
		return nil, err
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil || len(resp.GeneratedImages[0].Image.ImageBytes) == 0 {
		return nil, errors.New("image generation returned no image")
	}
	return resp.GeneratedImages[0].Image.ImageBytes, nil
}
