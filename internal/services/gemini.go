package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"

	"google.golang.org/genai"

	"alfredoptarigan/ats-resume-expert/internal/models"
)

type GeminiService interface {
	GenerateEvaluation(ctx context.Context, req *models.EvaluationRequest) (string, error)
}

type geminiService struct {
	client    *genai.Client
	modelName string
}

// NewGeminiService builds the client for the Gemini API. Without an API key
// the service is still returned so the page can render, but every call fails
// with ErrMissingCredential.
func NewGeminiService(ctx context.Context, apiKey, modelName string) (GeminiService, error) {
	if apiKey == "" {
		log.Println("⚠️  Gemini API key is empty, evaluations will fail")
		return &geminiService{modelName: modelName}, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:    client,
		modelName: modelName,
	}, nil
}

// GenerateEvaluation implements GeminiService. It makes exactly one blocking
// call; there is no retry.
func (g *geminiService) GenerateEvaluation(ctx context.Context, req *models.EvaluationRequest) (string, error) {
	if g.client == nil {
		return "", ErrMissingCredential
	}

	parts, err := toGenaiParts(req)
	if err != nil {
		return "", err
	}

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if resp == nil {
		return "", fmt.Errorf("%w: nil response", ErrEmptyResponse)
	}

	text := resp.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}

	return text, nil
}

func toGenaiParts(req *models.EvaluationRequest) ([]*genai.Part, error) {
	if req == nil || len(req.Parts) == 0 {
		return nil, fmt.Errorf("empty evaluation request")
	}

	parts := make([]*genai.Part, 0, len(req.Parts))
	for i, part := range req.Parts {
		switch part.Kind {
		case models.PartText:
			// An empty text part has no data field on the wire and is rejected.
			if part.Text == "" {
				continue
			}
			parts = append(parts, genai.NewPartFromText(part.Text))
		case models.PartImage:
			if part.Image == nil {
				return nil, fmt.Errorf("part %d: %w", i, ErrNoDocument)
			}
			data, err := base64.StdEncoding.DecodeString(part.Image.Data)
			if err != nil {
				return nil, fmt.Errorf("part %d: failed to decode image: %w", i, err)
			}
			parts = append(parts, genai.NewPartFromBytes(data, part.Image.MIMEType))
		default:
			return nil, fmt.Errorf("part %d: unknown part kind %q", i, part.Kind)
		}
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty evaluation request")
	}

	return parts, nil
}
