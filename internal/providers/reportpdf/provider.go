package reportpdf

import (
	"context"
	"io"
)

type Provider interface {
	GenerateCampaignReport(ctx context.Context, data ReportData) (io.Reader, error)
}

type NoOpProvider struct{}

func (p *NoOpProvider) GenerateCampaignReport(ctx context.Context, data ReportData) (io.Reader, error) {
	return nil, nil
}
