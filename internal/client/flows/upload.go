package flows

import (
	"context"

	"github.com/dmitrijs2005/plantdetector/internal/client/models"
	"github.com/dmitrijs2005/plantdetector/internal/client/services"
)

type UploadFlow = Flow[models.UploadRequest, *models.AnalysisResult]

// NewUpload keeps the analysis of the last successful upload in Result.
func NewUpload(diseases services.DiseaseService, opts Options) *UploadFlow {
	return newFlow[models.UploadRequest, *models.AnalysisResult]("upload", func(ctx context.Context, in models.UploadRequest) (*models.AnalysisResult, error) {
		return diseases.Analyze(ctx, in)
	}, "Image analyzed successfully!", "Failed to analyze image", opts)
}
