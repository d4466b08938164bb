package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/plantdetector/internal/client/client"
	"github.com/dmitrijs2005/plantdetector/internal/client/models"
	"github.com/dmitrijs2005/plantdetector/internal/filex"
)

// DiseaseService covers image analysis and the read-only lists.
type DiseaseService interface {
	// Analyze uploads one image and returns the detector's verdict.
	Analyze(ctx context.Context, req models.UploadRequest) (*models.AnalysisResult, error)
	Diseases(ctx context.Context) ([]models.Disease, error)
	History(ctx context.Context) ([]models.HistoryEntry, error)
}

type diseaseService struct {
	client client.Client
}

func NewDiseaseService(c client.Client) DiseaseService {
	return &diseaseService{client: c}
}

func (d *diseaseService) Analyze(ctx context.Context, req models.UploadRequest) (*models.AnalysisResult, error) {
	res, err := d.client.Upload(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", req.Filename, err)
	}
	return res, nil
}

func (d *diseaseService) Diseases(ctx context.Context) ([]models.Disease, error) {
	list, err := d.client.Diseases(ctx)
	if err != nil {
		return nil, fmt.Errorf("list diseases: %w", err)
	}
	return list, nil
}

func (d *diseaseService) History(ctx context.Context) ([]models.HistoryEntry, error) {
	list, err := d.client.History(ctx)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return list, nil
}

// LoadUpload reads the image at path into an UploadRequest.
func LoadUpload(path string) (models.UploadRequest, error) {
	name, data, err := filex.ReadImage(path, models.MaxImageSize)
	if err != nil {
		return models.UploadRequest{}, err
	}
	return models.UploadRequest{Filename: name, Image: data}, nil
}
