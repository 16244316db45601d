package models

const MIMETypeJPEG = "image/jpeg"

// EncodedPage is a rendered document page in transport form: the image bytes
// base64-encoded and paired with their media type.
type EncodedPage struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

// DocumentInfo describes an uploaded resume for the upload confirmation.
type DocumentInfo struct {
	PageCount int    `json:"page_count"`
	Excerpt   string `json:"excerpt"`
}
