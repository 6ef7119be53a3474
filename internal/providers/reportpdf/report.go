package reportpdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// ReportData carries everything the PDF needs, already formatted. The
// caller decides number formatting so the layout stays dumb.
type ReportData struct {
	Title       string
	CampaignID  string
	Status      string
	CreatedAt   string
	GeneratedAt string

	Sent    int
	Opened  int
	Clicked int
	Failed  int

	Metrics []MetricRow
	Cities  []DistributionRow
	Devices []DistributionRow
}

type MetricRow struct {
	Name  string
	Value string
}

type DistributionRow struct {
	Name  string
	Share string
}

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) GenerateCampaignReport(ctx context.Context, data ReportData) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, "Campaign Report", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(10,
		text.NewCol(12, data.Title, props.Text{Size: 14, Style: fontstyle.Bold}),
	)

	// Campaign Meta
	m.AddRow(22,
		col.New(6).Add(
			text.New("Campaign: "+data.CampaignID, props.Text{Top: 0, Size: 9}),
			text.New("Status: "+data.Status, props.Text{Top: 4, Size: 9}),
			text.New("Created: "+data.CreatedAt, props.Text{Top: 8, Size: 9}),
			text.New("Generated: "+data.GeneratedAt, props.Text{Top: 12, Size: 9}),
		),
		col.New(6).Add(
			text.New(fmt.Sprintf("Emails sent: %d", data.Sent), props.Text{Top: 0, Size: 9}),
			text.New(fmt.Sprintf("Opened: %d", data.Opened), props.Text{Top: 4, Size: 9}),
			text.New(fmt.Sprintf("Clicked: %d", data.Clicked), props.Text{Top: 8, Size: 9}),
			text.New(fmt.Sprintf("Failed: %d", data.Failed), props.Text{Top: 12, Size: 9}),
		),
	)

	// Metrics Table
	m.AddRow(10,
		text.NewCol(8, "Metric", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(4, "Value", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	for _, metric := range data.Metrics {
		m.AddRow(8,
			text.NewCol(8, metric.Name, props.Text{Size: 9}),
			text.NewCol(4, metric.Value, props.Text{Size: 9, Align: align.Right}),
		)
	}

	if len(data.Cities) > 0 {
		m.AddRow(12,
			text.NewCol(12, "Geographic distribution", props.Text{Size: 12, Style: fontstyle.Bold, Top: 4}),
		)
		m.AddRow(10,
			text.NewCol(8, "City", props.Text{Style: fontstyle.Bold, Size: 9}),
			text.NewCol(4, "Emails", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		)
		for _, city := range data.Cities {
			m.AddRow(8,
				text.NewCol(8, city.Name, props.Text{Size: 9}),
				text.NewCol(4, city.Share, props.Text{Size: 9, Align: align.Right}),
			)
		}
	}

	if len(data.Devices) > 0 {
		m.AddRow(12,
			text.NewCol(12, "Device breakdown", props.Text{Size: 12, Style: fontstyle.Bold, Top: 4}),
		)
		m.AddRow(10,
			text.NewCol(8, "Device", props.Text{Style: fontstyle.Bold, Size: 9}),
			text.NewCol(4, "Share", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		)
		for _, device := range data.Devices {
			m.AddRow(8,
				text.NewCol(8, device.Name, props.Text{Size: 9}),
				text.NewCol(4, device.Share, props.Text{Size: 9, Align: align.Right}),
			)
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}
