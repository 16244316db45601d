package services

import (
	"fmt"

	"alfredoptarigan/ats-resume-expert/internal/models"
)

const evaluatePrompt = `You are an experienced Technical Human Resource Manager. Your task is to review the provided resume against the job description.
Please share your professional evaluation on whether the candidate's profile aligns with the role.
Highlight the strengths and weaknesses of the applicant in relation to the specified job requirements.`

const matchScorePrompt = `You are a skilled ATS (Applicant Tracking System) scanner with a deep understanding of data science and ATS functionality.
Your task is to evaluate the resume against the provided job description. Give me the percentage of match if the resume matches
the job description. First, the output should come as a percentage, followed by keywords missing, and finally, your overall thoughts.`

var actionPrompts = map[models.Action]string{
	models.ActionEvaluate:   evaluatePrompt,
	models.ActionMatchScore: matchScorePrompt,
}

// PromptFor returns the fixed task prompt for an action.
func PromptFor(action models.Action) (string, error) {
	prompt, ok := actionPrompts[action]
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnknownAction, action)
	}
	return prompt, nil
}

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildEvaluationRequest assembles the three-part message: the job
// description as instruction context, the resume page image, and the task
// prompt for the action. An empty job description is passed through as is.
func (pb *PromptBuilder) BuildEvaluationRequest(jobDescription string, page *models.EncodedPage, action models.Action) (*models.EvaluationRequest, error) {
	if page == nil {
		return nil, ErrNoDocument
	}

	prompt, err := PromptFor(action)
	if err != nil {
		return nil, err
	}

	return &models.EvaluationRequest{
		Action: action,
		Parts: []models.Part{
			models.TextPart(jobDescription),
			models.ImagePart(page),
			models.TextPart(prompt),
		},
	}, nil
}
