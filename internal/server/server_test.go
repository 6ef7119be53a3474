package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	analyticsdomain "github.com/kampahq/kampa/internal/analytics/domain"
	campaigndomain "github.com/kampahq/kampa/internal/campaign/domain"
	"github.com/kampahq/kampa/internal/clock"
	customerdomain "github.com/kampahq/kampa/internal/customer/domain"
	"github.com/kampahq/kampa/internal/providers/reportpdf"
	"github.com/kampahq/kampa/internal/providers/sender"
	segmentdomain "github.com/kampahq/kampa/internal/segment/domain"
	"github.com/kampahq/kampa/pkg/isotime"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testTime = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type fakeCustomerService struct {
	customers []customerdomain.Customer
	createErr error
	created   []customerdomain.CreateCustomerRequest
	deleted   []string
}

func (f *fakeCustomerService) Create(ctx context.Context, req customerdomain.CreateCustomerRequest) (customerdomain.Customer, error) {
	if f.createErr != nil {
		return customerdomain.Customer{}, f.createErr
	}
	f.created = append(f.created, req)
	return customerdomain.Customer{
		ID:            "cus_test",
		Name:          req.Name,
		Email:         req.Email,
		City:          req.City,
		Age:           req.Age,
		SpendingScore: req.SpendingScore,
		TotalSpent:    req.TotalSpent,
		IsActive:      req.IsActive,
	}, nil
}

func (f *fakeCustomerService) List(ctx context.Context) ([]customerdomain.Customer, error) {
	return f.customers, nil
}

func (f *fakeCustomerService) GetByID(ctx context.Context, id string) (customerdomain.Customer, error) {
	for _, c := range f.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return customerdomain.Customer{}, customerdomain.ErrNotFound
}

func (f *fakeCustomerService) Delete(ctx context.Context, id string) error {
	for _, c := range f.customers {
		if c.ID == id {
			f.deleted = append(f.deleted, id)
			return nil
		}
	}
	return customerdomain.ErrNotFound
}

type fakeSegmentService struct {
	customers []customerdomain.Customer
	cities    []string
}

func (f *fakeSegmentService) Filter(ctx context.Context, criteria segmentdomain.Criteria) ([]customerdomain.Customer, error) {
	matched := []customerdomain.Customer{}
	for _, c := range f.customers {
		if criteria.Matches(c) {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

func (f *fakeSegmentService) Statistics(customers []customerdomain.Customer) segmentdomain.Statistics {
	return segmentdomain.Statistics{TotalCount: len(customers)}
}

func (f *fakeSegmentService) Cities(ctx context.Context) ([]string, error) {
	return f.cities, nil
}

type fakeCampaignService struct {
	campaigns []campaigndomain.Campaign
	createErr error
	launch    campaigndomain.LaunchResult
	launchErr error
	launched  []string
}

func (f *fakeCampaignService) Create(ctx context.Context, req campaigndomain.CreateCampaignRequest) (campaigndomain.Campaign, error) {
	if f.createErr != nil {
		return campaigndomain.Campaign{}, f.createErr
	}
	campaign := campaigndomain.Campaign{
		ID:              "cmp_test",
		Title:           req.Title,
		ContentTemplate: req.ContentTemplate,
		Criteria:        req.Criteria,
		Status:          campaigndomain.StatusDraft,
		CreatedAt:       isotime.New(testTime),
	}
	f.campaigns = append(f.campaigns, campaign)
	return campaign, nil
}

func (f *fakeCampaignService) Launch(ctx context.Context, id string, snd sender.Sender) (campaigndomain.LaunchResult, error) {
	if f.launchErr != nil {
		return campaigndomain.LaunchResult{}, f.launchErr
	}
	f.launched = append(f.launched, id)
	return f.launch, nil
}

func (f *fakeCampaignService) List(ctx context.Context) ([]campaigndomain.Campaign, error) {
	return f.campaigns, nil
}

func (f *fakeCampaignService) GetByID(ctx context.Context, id string) (campaigndomain.Campaign, error) {
	for _, c := range f.campaigns {
		if c.ID == id {
			return c, nil
		}
	}
	return campaigndomain.Campaign{}, campaigndomain.ErrNotFound
}

func (f *fakeCampaignService) Drafts(ctx context.Context) ([]campaigndomain.Campaign, error) {
	return f.byStatus(campaigndomain.StatusDraft), nil
}

func (f *fakeCampaignService) SentCampaigns(ctx context.Context) ([]campaigndomain.Campaign, error) {
	return f.byStatus(campaigndomain.StatusSent), nil
}

func (f *fakeCampaignService) byStatus(status campaigndomain.Status) []campaigndomain.Campaign {
	matched := []campaigndomain.Campaign{}
	for _, c := range f.campaigns {
		if c.Status == status {
			matched = append(matched, c)
		}
	}
	return matched
}

type fakeAnalyticsService struct {
	performance analyticsdomain.Performance
	simulated   campaigndomain.Campaign
	geography   map[string]int
	devices     map[string]float64
	err         error
}

func (f *fakeAnalyticsService) Performance(ctx context.Context, campaignID string) (analyticsdomain.Performance, error) {
	if f.err != nil {
		return analyticsdomain.Performance{}, f.err
	}
	return f.performance, nil
}

func (f *fakeAnalyticsService) SimulateEngagement(ctx context.Context, campaignID string) (campaigndomain.Campaign, error) {
	if f.err != nil {
		return campaigndomain.Campaign{}, f.err
	}
	return f.simulated, nil
}

func (f *fakeAnalyticsService) GeographicDistribution(ctx context.Context, campaignID string) (map[string]int, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.geography, nil
}

func (f *fakeAnalyticsService) DeviceDistribution(ctx context.Context, campaignID string) (map[string]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.devices, nil
}

type fakeReportProvider struct {
	last reportpdf.ReportData
}

func (f *fakeReportProvider) GenerateCampaignReport(ctx context.Context, data reportpdf.ReportData) (io.Reader, error) {
	f.last = data
	return strings.NewReader("%PDF-1.7 test"), nil
}

func attachRoutes(srv *Server) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	if srv.log == nil {
		srv.log = zap.NewNop()
	}
	if srv.clock == nil {
		srv.clock = clock.NewFakeClock(testTime)
	}
	if srv.snd == nil {
		srv.snd = sender.NoOpSender{}
	}

	srv.engine = engine
	srv.RegisterAPIRoutes()
	return engine
}

func performRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func decodeData(t *testing.T, resp *httptest.ResponseRecorder, out any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func decodeErrorType(t *testing.T, resp *httptest.ResponseRecorder) (string, []ValidationError) {
	t.Helper()
	var envelope errorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Error.Type, envelope.Error.Errors
}
