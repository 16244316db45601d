package models

type PartKind string

const (
	PartText  PartKind = "text"
	PartImage PartKind = "image"
)

type Part struct {
	Kind  PartKind
	Text  string
	Image *EncodedPage
}

func TextPart(text string) Part {
	return Part{Kind: PartText, Text: text}
}

func ImagePart(page *EncodedPage) Part {
	return Part{Kind: PartImage, Image: page}
}

// EvaluationRequest is the ordered message sent to the model:
// instruction context, page image, task prompt.
type EvaluationRequest struct {
	Action Action
	Parts  []Part
}
