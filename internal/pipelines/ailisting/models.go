package ailisting

import "kalastra-backend/internal/models"

// UploadPart is one file field from the multipart submission, before
// classification.
type UploadPart struct {
	Field    string
	Filename string
	Data     []byte
}

// AnswerClip is one recorded answer. Index is the onboarding question index
// and the ordering key for transcript assembly; arrival order is irrelevant.
type AnswerClip struct {
	Index int
	Data  []byte
}

// ImagePart is one attached product photo. Accepted and stored, but not fed
// into enrichment.
type ImagePart struct {
	Index    int
	Filename string
	Data     []byte
}

// Submission is one validated seller upload: the ordered answer set plus any
// attached images. Raw audio is discarded once the pipeline completes.
type Submission struct {
	ID      string
	Answers []AnswerClip
	Images  []ImagePart
}

// Output is the pipeline result returned to the HTTP caller.
type Output struct {
	models.StructuredListing
	ImageURLs []string `json:"imageUrls,omitempty"`
}
