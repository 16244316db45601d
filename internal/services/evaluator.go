package services

import (
	"context"
	"fmt"
	"log"

	"alfredoptarigan/ats-resume-expert/internal/models"
)

type EvaluatorService interface {
	Evaluate(ctx context.Context, action models.Action, jobDescription string, document []byte) (string, error)
}

type evaluatorService struct {
	extractor     PageExtractor
	promptBuilder *PromptBuilder
	geminiService GeminiService
}

func NewEvaluatorService(extractor PageExtractor, geminiService GeminiService) EvaluatorService {
	return &evaluatorService{
		extractor:     extractor,
		promptBuilder: NewPromptBuilder(),
		geminiService: geminiService,
	}
}

// Evaluate renders the resume's first page, builds the request for the
// action and returns the model's answer.
func (e *evaluatorService) Evaluate(ctx context.Context, action models.Action, jobDescription string, document []byte) (string, error) {
	log.Printf("📄 Rendering first page for %s...\n", action)
	page, err := e.extractor.Extract(document)
	if err != nil {
		return "", fmt.Errorf("failed to prepare resume: %w", err)
	}

	req, err := e.promptBuilder.BuildEvaluationRequest(jobDescription, page, action)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	log.Printf("🤖 Sending %s request to Gemini (job description: %d characters)\n", action, len(jobDescription))
	response, err := e.geminiService.GenerateEvaluation(ctx, req)
	if err != nil {
		log.Printf("❌ %s evaluation failed: %v\n", action, err)
		return "", fmt.Errorf("failed to generate %s evaluation: %w", action, err)
	}

	log.Printf("✅ %s response received: %d characters\n", action, len(response))
	return response, nil
}
