package services

import "errors"

var (
	ErrNoDocument        = errors.New("no file uploaded")
	ErrInvalidDocument   = errors.New("invalid PDF document")
	ErrUnsupportedFile   = errors.New("unsupported file type")
	ErrUnknownAction     = errors.New("unknown evaluation action")
	ErrMissingCredential = errors.New("gemini API key is not configured")
	ErrEmptyResponse     = errors.New("no text content in response")
)
