package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kampahq/kampa/internal/analytics"
	"github.com/kampahq/kampa/internal/campaign"
	"github.com/kampahq/kampa/internal/clock"
	"github.com/kampahq/kampa/internal/config"
	"github.com/kampahq/kampa/internal/customer"
	"github.com/kampahq/kampa/internal/ids"
	"github.com/kampahq/kampa/internal/observability"
	"github.com/kampahq/kampa/internal/providers"
	"github.com/kampahq/kampa/internal/segment"
	"github.com/kampahq/kampa/internal/server"
	"github.com/kampahq/kampa/pkg/docstore"
	"github.com/kampahq/kampa/pkg/log"
	"go.uber.org/fx"
)

type testEnv struct {
	app     *fx.App
	server  *server.Server
	store   *docstore.Store
	cfg     config.Config
	baseURL string
	httpSrv *httptest.Server
}

var env *testEnv

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	dataDir, err := os.MkdirTemp("", "kampa-e2e-")
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create data dir:", err)
		os.Exit(1)
	}
	setDefaultEnv(dataDir)

	env, err = startEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to start test environment:", err)
		os.RemoveAll(dataDir)
		os.Exit(1)
	}

	code := m.Run()
	env.shutdown()
	os.RemoveAll(dataDir)
	os.Exit(code)
}

func TestE2E_HealthCheck(t *testing.T) {
	resetStore(t)

	resp, err := http.Get(env.baseURL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
}

func TestE2E_CustomerLifecycle(t *testing.T) {
	resetStore(t)
	client := newHTTPClient()

	customerID := createCustomer(t, client, map[string]any{
		"name":           "  Ayşe Yılmaz  ",
		"email":          "ayse@example.com",
		"city":           "Ankara",
		"age":            31,
		"spending_score": 72,
		"total_spent":    1540.50,
	})
	createCustomer(t, client, map[string]any{
		"name":           "Mehmet Demir",
		"email":          "mehmet@example.com",
		"city":           "Istanbul",
		"age":            45,
		"spending_score": 40,
		"total_spent":    320,
		"is_active":      false,
	})

	resp, body := doJSON(t, client, http.MethodGet, env.baseURL+"/api/v1/customers", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list customers failed: %d: %s", resp.StatusCode, string(body))
	}
	var listPayload struct {
		Data []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &listPayload); err != nil {
		t.Fatalf("decode customer list: %v", err)
	}
	if len(listPayload.Data) != 2 {
		t.Fatalf("expected 2 customers, got %d", len(listPayload.Data))
	}

	resp, body = doJSON(t, client, http.MethodGet, env.baseURL+"/api/v1/customers/"+customerID, nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get customer failed: %d: %s", resp.StatusCode, string(body))
	}
	var getPayload struct {
		Data struct {
			Name     string `json:"name"`
			IsActive bool   `json:"is_active"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &getPayload); err != nil {
		t.Fatalf("decode customer: %v", err)
	}
	if getPayload.Data.Name != "Ayşe Yılmaz" {
		t.Fatalf("expected trimmed name, got %q", getPayload.Data.Name)
	}
	if !getPayload.Data.IsActive {
		t.Fatalf("expected customer active by default")
	}

	resp, body = doJSON(t, client, http.MethodDelete, env.baseURL+"/api/v1/customers/"+customerID, nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete customer failed: %d: %s", resp.StatusCode, string(body))
	}

	resp, _ = doJSON(t, client, http.MethodGet, env.baseURL+"/api/v1/customers/"+customerID, nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status 404 after delete, got %d", resp.StatusCode)
	}
}

func TestE2E_CustomerValidationEnvelope(t *testing.T) {
	resetStore(t)
	client := newHTTPClient()

	req := map[string]any{
		"name":           "No At Sign",
		"email":          "not-an-email",
		"city":           "Izmir",
		"age":            30,
		"spending_score": 50,
		"total_spent":    10,
	}
	resp, body := doJSON(t, client, http.MethodPost, env.baseURL+"/api/v1/customers", req, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Error struct {
			Type   string `json:"type"`
			Errors []struct {
				Field string `json:"field"`
				Code  string `json:"code"`
			} `json:"errors"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if payload.Error.Type != "validation_error" {
		t.Fatalf("expected validation_error, got %s", payload.Error.Type)
	}
	if len(payload.Error.Errors) != 1 || payload.Error.Errors[0].Code != "invalid_email" {
		t.Fatalf("expected invalid_email detail, got %+v", payload.Error.Errors)
	}
}

func TestE2E_SegmentPreview(t *testing.T) {
	resetStore(t)
	client := newHTTPClient()

	seedSegmentFixture(t, client)

	req := map[string]any{"city": "ankara", "max_age": 35}
	resp, body := doJSON(t, client, http.MethodPost, env.baseURL+"/api/v1/segments/preview", req, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("preview failed: %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Data struct {
			MatchedCount int `json:"matched_count"`
			Statistics   struct {
				TotalCount  int `json:"total_count"`
				ActiveCount int `json:"active_count"`
			} `json:"statistics"`
			Preview []struct {
				ID   string `json:"id"`
				City string `json:"city"`
			} `json:"preview"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decode preview: %v", err)
	}
	if payload.Data.MatchedCount != 2 {
		t.Fatalf("expected 2 matches, got %d", payload.Data.MatchedCount)
	}
	if payload.Data.Statistics.TotalCount != 2 {
		t.Fatalf("expected statistics over 2 customers, got %d", payload.Data.Statistics.TotalCount)
	}
	if len(payload.Data.Preview) != 2 {
		t.Fatalf("expected 2 preview entries, got %d", len(payload.Data.Preview))
	}

	resp, body = doJSON(t, client, http.MethodGet, env.baseURL+"/api/v1/segments/cities", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cities failed: %d: %s", resp.StatusCode, string(body))
	}
	var citiesPayload struct {
		Data []string `json:"data"`
	}
	if err := json.Unmarshal(body, &citiesPayload); err != nil {
		t.Fatalf("decode cities: %v", err)
	}
	if len(citiesPayload.Data) != 2 {
		t.Fatalf("expected 2 distinct cities, got %v", citiesPayload.Data)
	}
}

func TestE2E_CampaignDelivery(t *testing.T) {
	resetStore(t)
	client := newHTTPClient()

	for i := 0; i < 3; i++ {
		createCustomer(t, client, map[string]any{
			"name":           fmt.Sprintf("Ankara Customer %d", i+1),
			"email":          fmt.Sprintf("ankara%d@example.com", i+1),
			"city":           "Ankara",
			"age":            30,
			"spending_score": 60,
			"total_spent":    500,
		})
	}
	createCustomer(t, client, map[string]any{
		"name":           "Istanbul Customer",
		"email":          "istanbul@example.com",
		"city":           "Istanbul",
		"age":            28,
		"spending_score": 55,
		"total_spent":    700,
	})

	campaignID := createCampaign(t, client, "Delivery Test", "Hi {name} from {city}", map[string]any{"city": "Ankara"})

	resp, body := doJSON(t, client, http.MethodGet, env.baseURL+"/api/v1/campaigns/"+campaignID, nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get campaign failed: %d: %s", resp.StatusCode, string(body))
	}
	var detail struct {
		Data struct {
			AudienceSize int `json:"audience_size"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &detail); err != nil {
		t.Fatalf("decode campaign detail: %v", err)
	}
	if detail.Data.AudienceSize != 3 {
		t.Fatalf("expected audience of 3, got %d", detail.Data.AudienceSize)
	}

	result := launchCampaign(t, client, campaignID)
	if !result.Success {
		t.Fatalf("expected launch success: %+v", result)
	}
	if result.EmailsSent != 3 || result.TargetAudienceSize != 3 {
		t.Fatalf("expected 3 emails sent to 3 recipients, got %+v", result)
	}
	if strings.TrimSpace(result.LaunchID) == "" {
		t.Fatalf("expected launch id")
	}

	status, sent := getCampaignStatus(t, client, campaignID)
	if status != "Sent" {
		t.Fatalf("expected status Sent, got %s", status)
	}
	if sent != 3 {
		t.Fatalf("expected 3 recorded sends, got %d", sent)
	}

	resp, body = doJSON(t, client, http.MethodPost, env.baseURL+"/api/v1/campaigns/"+campaignID+"/launch", nil, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected status 409 on relaunch, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = doJSON(t, client, http.MethodGet, env.baseURL+"/api/v1/dashboard", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dashboard failed: %d: %s", resp.StatusCode, string(body))
	}
	var dashboard struct {
		Data struct {
			Customers struct {
				Total int `json:"total"`
			} `json:"customers"`
			Campaigns struct {
				Sent       int `json:"sent"`
				EmailsSent int `json:"emails_sent"`
			} `json:"campaigns"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &dashboard); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}
	if dashboard.Data.Customers.Total != 4 {
		t.Fatalf("expected 4 customers on dashboard, got %d", dashboard.Data.Customers.Total)
	}
	if dashboard.Data.Campaigns.Sent != 1 || dashboard.Data.Campaigns.EmailsSent != 3 {
		t.Fatalf("expected dashboard to reflect the launch, got %+v", dashboard.Data.Campaigns)
	}
}

func TestE2E_EmptyAudienceStaysDraft(t *testing.T) {
	resetStore(t)
	client := newHTTPClient()

	createCustomer(t, client, map[string]any{
		"name":           "Istanbul Customer",
		"email":          "istanbul@example.com",
		"city":           "Istanbul",
		"age":            28,
		"spending_score": 55,
		"total_spent":    700,
	})

	campaignID := createCampaign(t, client, "Nobody Home", "Hi {name}", map[string]any{"city": "Bursa"})

	result := launchCampaign(t, client, campaignID)
	if result.Success {
		t.Fatalf("expected launch to report no audience: %+v", result)
	}
	if result.EmailsSent != 0 {
		t.Fatalf("expected zero emails sent, got %d", result.EmailsSent)
	}

	status, _ := getCampaignStatus(t, client, campaignID)
	if status != "Draft" {
		t.Fatalf("expected campaign to stay Draft, got %s", status)
	}
}

func TestE2E_AnalyticsAndReport(t *testing.T) {
	resetStore(t)
	client := newHTTPClient()

	const population = 40
	for i := 0; i < population; i++ {
		createCustomer(t, client, map[string]any{
			"name":           fmt.Sprintf("Reader %02d", i+1),
			"email":          fmt.Sprintf("reader%02d@example.com", i+1),
			"city":           "Ankara",
			"age":            25 + i%20,
			"spending_score": 50,
			"total_spent":    250,
		})
	}

	campaignID := createCampaign(t, client, "Analytics Test", "Hi {name}", map[string]any{"city": "Ankara"})
	result := launchCampaign(t, client, campaignID)
	if result.EmailsSent != population {
		t.Fatalf("expected %d emails sent, got %d", population, result.EmailsSent)
	}

	resp, body := doJSON(t, client, http.MethodPost, env.baseURL+"/api/v1/campaigns/"+campaignID+"/simulate", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("simulate failed: %d: %s", resp.StatusCode, string(body))
	}
	var simulated struct {
		Data struct {
			Stats struct {
				Sent    int `json:"sent"`
				Opened  int `json:"opened"`
				Clicked int `json:"clicked"`
			} `json:"stats"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &simulated); err != nil {
		t.Fatalf("decode simulated campaign: %v", err)
	}
	opened := simulated.Data.Stats.Opened
	clicked := simulated.Data.Stats.Clicked
	if opened < population/4 || opened > population*65/100 {
		t.Fatalf("expected opens within simulation bounds, got %d of %d", opened, population)
	}
	if clicked > opened/5 {
		t.Fatalf("expected clicks at most a fifth of opens, got %d of %d", clicked, opened)
	}

	resp, body = doJSON(t, client, http.MethodGet, env.baseURL+"/api/v1/campaigns/"+campaignID+"/performance", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("performance failed: %d: %s", resp.StatusCode, string(body))
	}
	var perf struct {
		Data struct {
			DeliveryRate    float64 `json:"delivery_rate"`
			OpenRate        float64 `json:"open_rate"`
			EngagementScore float64 `json:"engagement_score"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &perf); err != nil {
		t.Fatalf("decode performance: %v", err)
	}
	if perf.Data.DeliveryRate != 100 {
		t.Fatalf("expected full delivery, got %v", perf.Data.DeliveryRate)
	}
	if opened > 0 && perf.Data.OpenRate == 0 {
		t.Fatalf("expected open rate to reflect simulated opens")
	}

	resp, body = doJSON(t, client, http.MethodGet, env.baseURL+"/api/v1/campaigns/"+campaignID+"/distribution/geography", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("geography failed: %d: %s", resp.StatusCode, string(body))
	}
	var geo struct {
		Data map[string]int `json:"data"`
	}
	if err := json.Unmarshal(body, &geo); err != nil {
		t.Fatalf("decode geography: %v", err)
	}
	if geo.Data["Ankara"] != population {
		t.Fatalf("expected targeted city to hold all sends, got %v", geo.Data)
	}

	resp, body = doJSON(t, client, http.MethodGet, env.baseURL+"/api/v1/campaigns/"+campaignID+"/distribution/devices", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("devices failed: %d: %s", resp.StatusCode, string(body))
	}
	var devices struct {
		Data map[string]float64 `json:"data"`
	}
	if err := json.Unmarshal(body, &devices); err != nil {
		t.Fatalf("decode devices: %v", err)
	}
	if len(devices.Data) != 3 {
		t.Fatalf("expected 3 device buckets, got %v", devices.Data)
	}
	total := 0.0
	for _, share := range devices.Data {
		total += share
	}
	if math.Abs(total-100) > 0.05 {
		t.Fatalf("expected device shares to sum to 100, got %v", total)
	}

	reportResp, err := http.Get(env.baseURL + "/api/v1/campaigns/" + campaignID + "/report")
	if err != nil {
		t.Fatalf("report request failed: %v", err)
	}
	defer reportResp.Body.Close()
	if reportResp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200 for report, got %d", reportResp.StatusCode)
	}
	if ct := reportResp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("expected pdf content type, got %s", ct)
	}
	raw, err := io.ReadAll(reportResp.Body)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !bytes.HasPrefix(raw, []byte("%PDF")) {
		t.Fatalf("expected pdf payload, got %q", string(raw[:min(len(raw), 8)]))
	}
}

type launchResult struct {
	LaunchID           string `json:"launch_id"`
	Success            bool   `json:"success"`
	EmailsSent         int    `json:"emails_sent"`
	EmailsFailed       int    `json:"emails_failed"`
	TargetAudienceSize int    `json:"target_audience_size"`
}

func startEnv() (*testEnv, error) {
	var (
		srv   *server.Server
		store *docstore.Store
		cfg   config.Config
	)

	app := fx.New(
		config.Module,
		log.Module,
		observability.Module,
		docstore.Module,
		clock.Module,
		ids.Module,
		customer.Module,
		segment.Module,
		campaign.Module,
		analytics.Module,
		providers.Module,
		fx.Provide(server.NewEngine),
		fx.Provide(server.NewServer),
		fx.Invoke(func(s *server.Server) {
			s.RegisterAPIRoutes()
		}),
		fx.Populate(&srv, &store, &cfg),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.Start(ctx); err != nil {
		return nil, err
	}

	httpSrv := httptest.NewServer(srv.Engine())

	return &testEnv{
		app:     app,
		server:  srv,
		store:   store,
		cfg:     cfg,
		baseURL: httpSrv.URL,
		httpSrv: httpSrv,
	}, nil
}

func (e *testEnv) shutdown() {
	if e == nil {
		return
	}
	if e.httpSrv != nil {
		e.httpSrv.Close()
	}
	if e.app != nil {
		_ = e.app.Stop(context.Background())
	}
}

func setDefaultEnv(dataDir string) {
	// The data dir always points at the scratch space, even when the
	// shell exports its own.
	_ = os.Setenv("DATA_DIR", dataDir)
	setEnvIfEmpty("ENVIRONMENT", "test")
	setEnvIfEmpty("SENDER_MODE", "noop")
	setEnvIfEmpty("TRACING_ENABLED", "false")
}

func setEnvIfEmpty(key, value string) {
	if strings.TrimSpace(os.Getenv(key)) != "" {
		return
	}
	_ = os.Setenv(key, value)
}

func resetStore(t *testing.T) {
	t.Helper()
	for _, file := range []string{env.cfg.CustomersFile, env.cfg.CampaignsFile} {
		path := filepath.Join(env.store.Dir(), file)
		if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
			t.Fatalf("reset %s: %v", file, err)
		}
	}
}

func seedSegmentFixture(t *testing.T, client *http.Client) {
	t.Helper()
	fixtures := []map[string]any{
		{"name": "Young Ankara", "email": "young.ankara@example.com", "city": "Ankara", "age": 24, "spending_score": 80, "total_spent": 900},
		{"name": "Mid Ankara", "email": "mid.ankara@example.com", "city": "Ankara", "age": 33, "spending_score": 60, "total_spent": 400},
		{"name": "Old Ankara", "email": "old.ankara@example.com", "city": "Ankara", "age": 58, "spending_score": 30, "total_spent": 2500},
		{"name": "Istanbul", "email": "istanbul@example.com", "city": "Istanbul", "age": 29, "spending_score": 70, "total_spent": 1200},
	}
	for _, fixture := range fixtures {
		createCustomer(t, client, fixture)
	}
}

func createCustomer(t *testing.T, client *http.Client, req map[string]any) string {
	t.Helper()
	resp, body := doJSON(t, client, http.MethodPost, env.baseURL+"/api/v1/customers", req, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create customer failed: %d: %s", resp.StatusCode, string(body))
	}
	var payload struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decode customer response: %v", err)
	}
	if strings.TrimSpace(payload.Data.ID) == "" {
		t.Fatalf("expected customer id")
	}
	return payload.Data.ID
}

func createCampaign(t *testing.T, client *http.Client, title, template string, criteria map[string]any) string {
	t.Helper()
	req := map[string]any{
		"title":                   title,
		"content_template":        template,
		"target_segment_criteria": criteria,
	}
	resp, body := doJSON(t, client, http.MethodPost, env.baseURL+"/api/v1/campaigns", req, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create campaign failed: %d: %s", resp.StatusCode, string(body))
	}
	var payload struct {
		Data struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decode campaign response: %v", err)
	}
	if payload.Data.Status != "Draft" {
		t.Fatalf("expected new campaign Draft, got %s", payload.Data.Status)
	}
	return payload.Data.ID
}

func launchCampaign(t *testing.T, client *http.Client, campaignID string) launchResult {
	t.Helper()
	resp, body := doJSON(t, client, http.MethodPost, env.baseURL+"/api/v1/campaigns/"+campaignID+"/launch", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("launch failed: %d: %s", resp.StatusCode, string(body))
	}
	var payload struct {
		Data launchResult `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decode launch result: %v", err)
	}
	return payload.Data
}

func getCampaignStatus(t *testing.T, client *http.Client, campaignID string) (string, int) {
	t.Helper()
	resp, body := doJSON(t, client, http.MethodGet, env.baseURL+"/api/v1/campaigns/"+campaignID, nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get campaign failed: %d: %s", resp.StatusCode, string(body))
	}
	var payload struct {
		Data struct {
			Campaign struct {
				Status string `json:"status"`
				Stats  struct {
					Sent int `json:"sent"`
				} `json:"stats"`
			} `json:"campaign"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decode campaign: %v", err)
	}
	return payload.Data.Campaign.Status, payload.Data.Campaign.Stats.Sent
}

func doJSON(t *testing.T, client *http.Client, method, reqURL string, payload any, headers map[string]string) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("encode json: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, reqURL, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp, data
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 15 * time.Second}
}
