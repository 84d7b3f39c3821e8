package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/foodbuddy/backend/config"
	"github.com/foodbuddy/backend/internal/domain"
	"github.com/foodbuddy/backend/internal/infrastructure/cache"
	"github.com/foodbuddy/backend/internal/infrastructure/storage"
	"github.com/foodbuddy/backend/internal/usecase"
	"github.com/gin-gonic/gin"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	// Set Gin to test mode once for all tests
	gin.SetMode(gin.TestMode)

	// Run tests
	exitCode := m.Run()

	// Exit with the test result code
	os.Exit(exitCode)
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"chrome-extension://*", "http://localhost:3000"},
		},
		Cache: config.CacheConfig{
			Type: "memory",
		},
	}
}

// setupTestRouter creates a test router with no services wired
func setupTestRouter() *gin.Engine {
	// Every API endpoint returns 501 without services
	handler := NewHandler(Services{})
	if handler == nil {
		panic("setupTestRouter: NewHandler returned nil")
	}

	router := SetupRouter(testConfig(), handler)
	if router == nil {
		panic("setupTestRouter: SetupRouter returned nil *gin.Engine")
	}

	return router
}

// TestHealthCheckEndpoint tests the health check endpoint
func TestHealthCheckEndpoint(t *testing.T) {
	t.Run("returns healthy status", func(t *testing.T) {
		router := setupTestRouter()

		req, _ := http.NewRequest("GET", "/health", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		if err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}

		if response["status"] != "healthy" {
			t.Errorf("status = %v, want healthy", response["status"])
		}
		if response["service"] != "foodbuddy-backend" {
			t.Errorf("service = %v, want foodbuddy-backend", response["service"])
		}
		version, ok := response["version"].(string)
		if !ok || strings.TrimSpace(version) == "" {
			t.Errorf("version = %v, want non-empty string", response["version"])
		}
	})

	t.Run("accepts GET requests only", func(t *testing.T) {
		router := setupTestRouter()

		methods := []string{"POST", "PUT", "DELETE", "PATCH"}

		for _, method := range methods {
			req, _ := http.NewRequest(method, "/health", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != http.StatusNotFound {
				t.Errorf("Method %s: Status = %d, want %d", method, w.Code, http.StatusNotFound)
			}
		}
	})
}

// TestUnconfiguredServices tests that every API endpoint answers 501 without its service
func TestUnconfiguredServices(t *testing.T) {
	endpoints := []struct {
		method string
		path   string
	}{
		{"POST", "/api/v1/analyze"},
		{"POST", "/api/v1/analyze/image"},
		{"POST", "/api/v1/compare"},
		{"POST", "/api/v1/compare/sessions"},
		{"GET", "/api/v1/compare/sessions/abc"},
		{"POST", "/api/v1/compare/sessions/abc/submit"},
		{"DELETE", "/api/v1/compare/sessions/abc"},
		{"GET", "/api/v1/history"},
		{"GET", "/api/v1/history/stats"},
		{"GET", "/api/v1/history/abc"},
		{"GET", "/api/v1/history/abc/export"},
		{"DELETE", "/api/v1/history"},
		{"GET", "/api/v1/shopping-list"},
		{"POST", "/api/v1/shopping-list"},
		{"DELETE", "/api/v1/shopping-list/items"},
		{"DELETE", "/api/v1/shopping-list"},
	}

	router := setupTestRouter()
	for _, endpoint := range endpoints {
		t.Run(endpoint.method+" "+endpoint.path, func(t *testing.T) {
			req, _ := http.NewRequest(endpoint.method, endpoint.path, nil)
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != http.StatusNotImplemented {
				t.Errorf("Status = %d, want %d", w.Code, http.StatusNotImplemented)
			}
			gotContentType := w.Header().Get("Content-Type")
			if gotContentType != "application/json; charset=utf-8" {
				t.Errorf("Content-Type = %q, want application/json", gotContentType)
			}
			var response map[string]interface{}
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				t.Errorf("Response should be valid JSON, got error: %v", err)
			}
			if msg, _ := response["error"].(string); !strings.Contains(msg, "not configured") {
				t.Errorf("error = %q, want not configured message", msg)
			}
		})
	}
}

// TestCORSIntegration tests CORS headers through the full router
func TestCORSIntegration(t *testing.T) {
	t.Run("health endpoint has CORS for Chrome extension", func(t *testing.T) {
		router := setupTestRouter()

		req, _ := http.NewRequest("GET", "/health", nil)
		req.Header.Set("Origin", "chrome-extension://abcdefghijklmnop")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		gotOrigin := w.Header().Get("Access-Control-Allow-Origin")
		if gotOrigin != "chrome-extension://abcdefghijklmnop" {
			t.Errorf("Access-Control-Allow-Origin = %q, want %q", gotOrigin, "chrome-extension://abcdefghijklmnop")
		}

		gotCreds := w.Header().Get("Access-Control-Allow-Credentials")
		if gotCreds != "true" {
			t.Errorf("Access-Control-Allow-Credentials = %q, want %q", gotCreds, "true")
		}
	})

	t.Run("analyze endpoint has CORS for localhost", func(t *testing.T) {
		router := setupTestRouter()

		req, _ := http.NewRequest("POST", "/api/v1/analyze", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		gotOrigin := w.Header().Get("Access-Control-Allow-Origin")
		if gotOrigin != "http://localhost:3000" {
			t.Errorf("Access-Control-Allow-Origin = %q, want %q", gotOrigin, "http://localhost:3000")
		}
	})
}

// TestRecoveryMiddleware tests panic recovery
func TestRecoveryMiddleware(t *testing.T) {
	t.Run("recovers from panic without crashing server", func(t *testing.T) {
		router := setupTestRouter()

		// Add a test route that panics
		router.GET("/panic", func(c *gin.Context) {
			panic("test panic")
		})

		req, _ := http.NewRequest("GET", "/panic", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusInternalServerError)
		}
	})
}

// TestAPIVersioning tests that API v1 routes are correctly versioned
func TestAPIVersioning(t *testing.T) {
	t.Run("v1 routes are accessible", func(t *testing.T) {
		router := setupTestRouter()

		req, _ := http.NewRequest("POST", "/api/v1/analyze", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		// Should return 501 Not Implemented, not 404 Not Found
		if w.Code != http.StatusNotImplemented {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusNotImplemented)
		}
	})

	t.Run("non-versioned routes return 404", func(t *testing.T) {
		router := setupTestRouter()

		req, _ := http.NewRequest("POST", "/api/analyze", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})
}

func TestMetricsEndpoint(t *testing.T) {
	router := setupTestRouter()

	// One request so the HTTP counter has a sample
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/health", nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "foodbuddy_http_requests_total") {
		t.Error("expected foodbuddy_http_requests_total in metrics output")
	}
}

func TestMaintenanceMode(t *testing.T) {
	cfg := testConfig()
	cfg.Server.MaintenanceMode = true
	router := SetupRouter(cfg, NewHandler(Services{}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/history", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("health Status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}

func TestRateLimitIntegration(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{PerIP: 60, Burst: 1}
	router := SetupRouter(cfg, NewHandler(Services{}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/history", nil))
	if w.Code != http.StatusNotImplemented {
		t.Fatalf("first request Status = %d, want %d", w.Code, http.StatusNotImplemented)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/history", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("second request Status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}

	for i := 0; i < 3; i++ {
		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
		if w.Code != http.StatusOK {
			t.Errorf("health Status = %d, want %d", w.Code, http.StatusOK)
		}
	}
}

// --- Service-backed tests ---

// stubAnalysisClient is a stub implementation of domain.AnalysisClient
type stubAnalysisClient struct {
	analyze func(ctx context.Context, ingredients string) (*domain.RawAnalysis, error)
}

func (s *stubAnalysisClient) Analyze(ctx context.Context, ingredients string) (*domain.RawAnalysis, error) {
	return s.analyze(ctx, ingredients)
}

// fakeModel answers like the analysis service: sugar is a risk, "hello"
// is not an ingredient list, "fail" and "slow" produce errors.
func fakeModel(_ context.Context, ingredients string) (*domain.RawAnalysis, error) {
	lower := strings.ToLower(ingredients)
	switch {
	case strings.Contains(lower, "fail"):
		return nil, fmt.Errorf("%w: status 401 from provider, key sk-test-secret", domain.ErrUpstreamFailure)
	case strings.Contains(lower, "slow"):
		return nil, context.DeadlineExceeded
	case strings.Contains(lower, "hello"):
		return &domain.RawAnalysis{Intent: domain.InvalidInputIntent, Risks: []domain.Risk{}, Summary: "Not an ingredient list."}, nil
	case strings.Contains(lower, "sugar"):
		return &domain.RawAnalysis{
			Intent:     "Sweet snack",
			Risks:      []domain.Risk{{Title: "Added Sugar", Description: "Linked to obesity"}},
			Tradeoffs:  []domain.Tradeoff{{Title: "Taste", Description: "Tasty but empty"}},
			Summary:    "Treat, not a staple.",
			Disclaimer: "Not medical advice.",
		}, nil
	default:
		return &domain.RawAnalysis{Intent: "Whole food", Risks: []domain.Risk{}, Summary: "Looks good."}, nil
	}
}

// setupTestRouterWithServices wires real use cases over a memory cache,
// a temporary SQLite store and a stub analysis client
func setupTestRouterWithServices(t *testing.T) *gin.Engine {
	t.Helper()

	memCache := cache.NewMemoryCache(time.Minute)
	t.Cleanup(func() { _ = memCache.Close() })

	store, err := storage.New(storage.Config{Path: filepath.Join(t.TempDir(), "foodbuddy.db")})
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	enricher := usecase.NewEnricher(usecase.DefaultRules())
	analysis := usecase.NewAnalysisService(memCache, &stubAnalysisClient{analyze: fakeModel}, store, nil, enricher, usecase.AnalysisServiceConfig{})
	compare := usecase.NewCompareService(analysis, usecase.NewComparator(enricher.SeverityClassifier()))

	handler := NewHandler(Services{
		Analysis:     analysis,
		Compare:      compare,
		Sessions:     usecase.NewCompareSessions(compare, usecase.CompareSessionsConfig{}),
		History:      usecase.NewHistoryService(store),
		ShoppingList: usecase.NewShoppingListService(store.ShoppingList()),
	})
	return SetupRouter(testConfig(), handler)
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("Failed to unmarshal response %q: %v", w.Body.String(), err)
	}
}

func TestAnalyzeWithService(t *testing.T) {
	router := setupTestRouterWithServices(t)

	t.Run("analyzes then serves from cache", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/v1/analyze", gin.H{"ingredients": "Sugar, Oats", "context": "kids"})
		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
		}

		var result domain.AnalysisResult
		decode(t, w, &result)
		if result.Source != "LLM" {
			t.Errorf("Source = %q, want LLM", result.Source)
		}
		if result.HealthScore != 80 {
			t.Errorf("HealthScore = %d, want 80", result.HealthScore)
		}
		if result.Result.Breakdown == nil || result.Result.Breakdown.Processed != 50 {
			t.Errorf("Breakdown = %+v, want 50%% processed", result.Result.Breakdown)
		}
		if len(result.Result.Alternatives) == 0 || result.Result.Alternatives[0].Title != "Diluted Juice" {
			t.Errorf("Alternatives = %+v, want kids sweetener swap first", result.Result.Alternatives)
		}

		w = doJSON(t, router, "POST", "/api/v1/analyze", gin.H{"ingredients": "sugar,  oats"})
		decode(t, w, &result)
		if result.Source != "Cache" {
			t.Errorf("second Source = %q, want Cache", result.Source)
		}
	})

	t.Run("rejects a missing body", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/v1/analyze", gin.H{})
		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("rejects blank ingredients", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/v1/analyze", gin.H{"ingredients": "Ingredients:"})
		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("passes invalid input through", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/v1/analyze", gin.H{"ingredients": "hello there"})
		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}
		var response map[string]interface{}
		decode(t, w, &response)
		result := response["result"].(map[string]interface{})
		if result["intent"] != domain.InvalidInputIntent {
			t.Errorf("intent = %v", result["intent"])
		}
		if _, ok := result["breakdown"]; ok {
			t.Error("invalid input should carry no breakdown")
		}
	})

	t.Run("hides upstream details", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/v1/analyze", gin.H{"ingredients": "fail"})
		if w.Code != http.StatusBadGateway {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadGateway)
		}
		var response map[string]string
		decode(t, w, &response)
		if response["error"] != "Analysis failed, please try again" {
			t.Errorf("error = %q", response["error"])
		}
	})

	t.Run("maps timeouts to 504", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/v1/analyze", gin.H{"ingredients": "slow"})
		if w.Code != http.StatusGatewayTimeout {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusGatewayTimeout)
		}
	})
}

func TestAnalyzeImageWithService(t *testing.T) {
	router := setupTestRouterWithServices(t)

	t.Run("requires an image file", func(t *testing.T) {
		req, _ := http.NewRequest("POST", "/api/v1/analyze/image", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("answers 501 without OCR", func(t *testing.T) {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		part, err := mw.CreateFormFile("image", "label.jpg")
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		_, _ = part.Write([]byte{0xFF, 0xD8, 0xFF})
		_ = mw.WriteField("context", "kids")
		_ = mw.Close()

		req, _ := http.NewRequest("POST", "/api/v1/analyze/image", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotImplemented {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusNotImplemented)
		}
	})
}

func TestHistoryWithService(t *testing.T) {
	router := setupTestRouterWithServices(t)

	w := doJSON(t, router, "POST", "/api/v1/analyze", gin.H{"ingredients": "Sugar, Oats", "save": true})
	var result domain.AnalysisResult
	decode(t, w, &result)
	if result.ID == "" {
		t.Fatal("expected a history ID for a saved analysis")
	}

	// Invalid input is never saved
	doJSON(t, router, "POST", "/api/v1/analyze", gin.H{"ingredients": "hello", "save": true})

	w = doJSON(t, router, "GET", "/api/v1/history", nil)
	var list struct {
		Items []domain.HistoryItem `json:"items"`
	}
	decode(t, w, &list)
	if len(list.Items) != 1 || list.Items[0].ID != result.ID {
		t.Fatalf("history = %+v, want the saved analysis only", list.Items)
	}

	w = doJSON(t, router, "GET", "/api/v1/history/"+result.ID, nil)
	if w.Code != http.StatusOK {
		t.Errorf("get Status = %d, want %d", w.Code, http.StatusOK)
	}

	w = doJSON(t, router, "GET", "/api/v1/history/"+result.ID+"/export", nil)
	if w.Code != http.StatusOK {
		t.Errorf("export Status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.HasPrefix(w.Body.String(), "Intent:\nSweet snack\n") {
		t.Errorf("export = %q", w.Body.String())
	}
	if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain") {
		t.Errorf("export Content-Type = %q, want text/plain", w.Header().Get("Content-Type"))
	}

	w = doJSON(t, router, "GET", "/api/v1/history/stats", nil)
	var stats domain.HistoryStats
	decode(t, w, &stats)
	if stats.Count != 1 || stats.BestScore != 80 {
		t.Errorf("stats = %+v", stats)
	}

	w = doJSON(t, router, "GET", "/api/v1/history/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing Status = %d, want %d", w.Code, http.StatusNotFound)
	}

	w = doJSON(t, router, "DELETE", "/api/v1/history", nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("clear Status = %d, want %d", w.Code, http.StatusNoContent)
	}
	w = doJSON(t, router, "GET", "/api/v1/history", nil)
	decode(t, w, &list)
	if len(list.Items) != 0 {
		t.Errorf("history after clear = %+v", list.Items)
	}
}

func TestCompareWithService(t *testing.T) {
	router := setupTestRouterWithServices(t)

	t.Run("compares two products", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/v1/compare", gin.H{"productA": "Sugar, Oats", "productB": "Oats, Water"})
		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
		}
		var result domain.CompareResult
		decode(t, w, &result)
		if result.Comparison.Winner != domain.ProductB {
			t.Errorf("Winner = %q, want Product B", result.Comparison.Winner)
		}
		if result.Comparison.ScoreA != 80 || result.Comparison.ScoreB != 100 {
			t.Errorf("scores = %d/%d, want 80/100", result.Comparison.ScoreA, result.Comparison.ScoreB)
		}
	})

	t.Run("requires both products", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/v1/compare", gin.H{"productA": "Oats"})
		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("fails together", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/v1/compare", gin.H{"productA": "Oats", "productB": "fail"})
		if w.Code != http.StatusBadGateway {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadGateway)
		}
	})

	t.Run("rejects a non-ingredient side", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/v1/compare", gin.H{"productA": "hello", "productB": "Oats"})
		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}

func TestCompareSessionsWithService(t *testing.T) {
	router := setupTestRouterWithServices(t)

	t.Run("full flow", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/v1/compare/sessions", gin.H{"ingredients": "Sugar, Oats", "context": "kids"})
		if w.Code != http.StatusCreated {
			t.Fatalf("start Status = %d, want %d", w.Code, http.StatusCreated)
		}
		var session domain.CompareSession
		decode(t, w, &session)
		if session.State != domain.CompareAwaitingItem {
			t.Errorf("State = %q, want awaiting-second-item", session.State)
		}
		base := "/api/v1/compare/sessions/" + session.ID

		w = doJSON(t, router, "GET", base, nil)
		if w.Code != http.StatusOK {
			t.Errorf("get Status = %d, want %d", w.Code, http.StatusOK)
		}

		w = doJSON(t, router, "POST", base+"/submit", gin.H{"ingredients": "Oats"})
		if w.Code != http.StatusOK {
			t.Fatalf("submit Status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
		}
		decode(t, w, &session)
		if session.State != domain.CompareShowingResult || session.Result == nil {
			t.Fatalf("session = %+v, want a result", session)
		}
		if session.Result.Comparison.Winner != domain.ProductB {
			t.Errorf("Winner = %q, want Product B", session.Result.Comparison.Winner)
		}

		w = doJSON(t, router, "POST", base+"/submit", gin.H{"ingredients": "Oats"})
		if w.Code != http.StatusConflict {
			t.Errorf("resubmit Status = %d, want %d", w.Code, http.StatusConflict)
		}

		w = doJSON(t, router, "DELETE", base, nil)
		if w.Code != http.StatusNoContent {
			t.Errorf("exit Status = %d, want %d", w.Code, http.StatusNoContent)
		}

		w = doJSON(t, router, "GET", base, nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("get after exit Status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})

	t.Run("failed submit returns to idle", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/v1/compare/sessions", gin.H{"ingredients": "Oats"})
		var session domain.CompareSession
		decode(t, w, &session)

		w = doJSON(t, router, "POST", "/api/v1/compare/sessions/"+session.ID+"/submit", gin.H{"ingredients": "fail"})
		if w.Code != http.StatusBadGateway {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusBadGateway)
		}
		var response struct {
			Error   string                `json:"error"`
			Session domain.CompareSession `json:"session"`
		}
		decode(t, w, &response)
		if response.Session.State != domain.CompareIdle {
			t.Errorf("State = %q, want idle", response.Session.State)
		}
		if response.Session.Error != "Analysis failed, please try again" {
			t.Errorf("session error = %q, want the sanitized message", response.Session.Error)
		}

		w = doJSON(t, router, "GET", "/api/v1/compare/sessions/"+session.ID, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("get Status = %d, want %d", w.Code, http.StatusOK)
		}
		if strings.Contains(w.Body.String(), "sk-test-secret") || strings.Contains(w.Body.String(), "401") {
			t.Errorf("get body leaks upstream detail: %s", w.Body.String())
		}
		var stored domain.CompareSession
		decode(t, w, &stored)
		if stored.State != domain.CompareIdle {
			t.Errorf("stored State = %q, want idle", stored.State)
		}
		if stored.Error != "Analysis failed, please try again" {
			t.Errorf("stored error = %q, want the generic message", stored.Error)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/v1/compare/sessions/nope/submit", gin.H{"ingredients": "Oats"})
		if w.Code != http.StatusNotFound {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})
}

func TestShoppingListWithService(t *testing.T) {
	router := setupTestRouterWithServices(t)

	var list struct {
		Items []string `json:"items"`
	}

	w := doJSON(t, router, "GET", "/api/v1/shopping-list", nil)
	decode(t, w, &list)
	if list.Items == nil || len(list.Items) != 0 {
		t.Errorf("initial items = %#v, want empty list", list.Items)
	}

	for _, item := range []string{"Natural Sweeteners", "Air-Popped Snacks"} {
		w = doJSON(t, router, "POST", "/api/v1/shopping-list", gin.H{"item": item})
		if w.Code != http.StatusCreated {
			t.Fatalf("add Status = %d, want %d", w.Code, http.StatusCreated)
		}
	}
	decode(t, w, &list)
	if len(list.Items) != 2 || list.Items[1] != "Air-Popped Snacks" {
		t.Errorf("items = %v", list.Items)
	}

	w = doJSON(t, router, "DELETE", "/api/v1/shopping-list/items?item=Natural+Sweeteners", nil)
	if w.Code != http.StatusOK {
		t.Errorf("remove Status = %d, want %d", w.Code, http.StatusOK)
	}
	decode(t, w, &list)
	if len(list.Items) != 1 || list.Items[0] != "Air-Popped Snacks" {
		t.Errorf("items after remove = %v", list.Items)
	}

	w = doJSON(t, router, "DELETE", "/api/v1/shopping-list/items?item=Nope", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("remove missing Status = %d, want %d", w.Code, http.StatusNotFound)
	}

	w = doJSON(t, router, "POST", "/api/v1/shopping-list", gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("add empty Status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	w = doJSON(t, router, "DELETE", "/api/v1/shopping-list", nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("clear Status = %d, want %d", w.Code, http.StatusNoContent)
	}
}
