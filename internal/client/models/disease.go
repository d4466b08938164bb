package models

import "strings"

// MaxImageSize bounds the size of an uploaded image (10 MiB).
const MaxImageSize = 10 << 20

// UploadRequest carries one image to be analyzed. It is sent as the
// multipart form field "file".
type UploadRequest struct {
	Filename string `form:"file" validate:"required"`
	Image    []byte `form:"image" validate:"required,min=1,max=10485760,image"`
}

// AnalysisResult is the server verdict for an uploaded image. It is kept in
// view state only.
type AnalysisResult struct {
	DiseaseName    string `json:"diseases_name" validate:"required"`
	Reason         string `json:"reason"`
	Recommendation string `json:"recommendation"`
	ImageURL       string `json:"image_url,omitempty"`
}

// DisplayName is the disease name with underscores replaced by spaces,
// e.g. "Tomato__Late_blight" becomes "Tomato  Late blight".
func (r AnalysisResult) DisplayName() string {
	return DisplayName(r.DiseaseName)
}

// DisplayName renders a class label returned by the model for people.
func DisplayName(label string) string {
	return strings.ReplaceAll(label, "_", " ")
}

// HistoryEntry is one past analysis of the signed-in user. Fields are
// shown exactly as the server sent them.
type HistoryEntry struct {
	Time           string `json:"time" validate:"required"`
	DiseaseName    string `json:"diseases_name" validate:"required"`
	Reason         string `json:"reason"`
	Recommendation string `json:"recommendation"`
	ImageURL       string `json:"image_url"`
}

// Disease is an entry of the public disease catalogue.
type Disease struct {
	ID          int64  `json:"id"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}
