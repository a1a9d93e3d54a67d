//go:build integration

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/suite"

	database "github.com/RezenkovD/TravelAiApi/app/db"
	"github.com/RezenkovD/TravelAiApi/app/observability/metrics"
	"github.com/RezenkovD/TravelAiApi/config"
	generativeAI "github.com/RezenkovD/TravelAiApi/internal/api/generative_ai"
	"github.com/RezenkovD/TravelAiApi/internal/container"
	"github.com/RezenkovD/TravelAiApi/internal/types"
)

// E2ETestSuite drives the full HTTP stack against a real Postgres and a fake
// OpenAI endpoint.
type E2ETestSuite struct {
	suite.Suite
	pool     *pgxpool.Pool
	openai   *httptest.Server
	server   *httptest.Server
	failures atomic.Int32
	calls    atomic.Int32
}

func TestMain(m *testing.M) {
	_ = godotenv.Load(".env.test")
	os.Exit(m.Run())
}

func (s *E2ETestSuite) SetupSuite() {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		s.T().Skip("TEST_DATABASE_URL not set")
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s.Require().NoError(database.RunMigrations(dsn, logger))
	pool, err := database.Init(context.Background(), &database.DatabaseConfig{ConnectionURL: dsn}, logger)
	s.Require().NoError(err)
	s.pool = pool

	s.openai = httptest.NewServer(http.HandlerFunc(s.fakeChatCompletion))

	client, err := generativeAI.NewOpenAIClient(generativeAI.OpenAIOptions{
		APIKey:  "sk-test",
		BaseURL: s.openai.URL + "/v1",
	}, logger)
	s.Require().NoError(err)

	var cfg config.Config
	cfg.Retry.MaxAttempts = 3
	cfg.Retry.Wait = 10 * time.Millisecond
	cfg.Cache.TTL = time.Minute
	cfg.Cache.CleanupInterval = time.Minute

	c := container.Wire(&cfg, logger, pool, client, metrics.Noop())
	s.server = httptest.NewServer(c.Router)
}

func (s *E2ETestSuite) TearDownSuite() {
	if s.server != nil {
		s.server.Close()
	}
	if s.openai != nil {
		s.openai.Close()
	}
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *E2ETestSuite) SetupTest() {
	_, err := s.pool.Exec(context.Background(), `TRUNCATE travel_requests RESTART IDENTITY`)
	s.Require().NoError(err)
	s.failures.Store(0)
	s.calls.Store(0)
}

// fakeChatCompletion answers with as many places as the prompt asks for,
// after failing s.failures times with a 500.
func (s *E2ETestSuite) fakeChatCompletion(w http.ResponseWriter, r *http.Request) {
	s.calls.Add(1)
	if s.failures.Load() > 0 {
		s.failures.Add(-1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"server overloaded","type":"server_error"}}`))
		return
	}

	var req struct {
		Messages []struct {
			Content string `json:"content"`
		} `json:"messages"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	var n int
	_, _ = fmt.Sscanf(extractAfter(req.Messages[0].Content, "Generate exactly "), "%d", &n)

	places := make([]types.Place, n)
	for i := range places {
		places[i] = types.Place{Name: fmt.Sprintf("Place %d", i+1), Description: "Nice", Coords: types.Coords{Lat: float64(i), Lng: float64(i)}}
	}
	content, _ := json.Marshal(places)
	resp, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"model":   "gpt-3.5-turbo-1106",
		"choices": []map[string]any{{"index": 0, "message": map[string]string{"role": "assistant", "content": string(content)}, "finish_reason": "stop"}},
	})
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(resp)
}

func extractAfter(s, marker string) string {
	if i := bytes.Index([]byte(s), []byte(marker)); i >= 0 {
		return s[i+len(marker):]
	}
	return ""
}

func (s *E2ETestSuite) post(path string, body any) (*http.Response, []byte) {
	payload, err := json.Marshal(body)
	s.Require().NoError(err)
	resp, err := http.Post(s.server.URL+path, "application/json", bytes.NewReader(payload))
	s.Require().NoError(err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp, data
}

func (s *E2ETestSuite) history() []types.TravelRequest {
	resp, err := http.Get(s.server.URL + "/history")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var out []types.TravelRequest
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (s *E2ETestSuite) TestCreateRefineHistory() {
	resp, body := s.post("/recommendations/", map[string]any{"text": "Porto", "num_places": 3, "exclude": "beaches"})
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))
	var created types.TravelRequest
	s.Require().NoError(json.Unmarshal(body, &created))
	s.Len(created.Places, 3)

	resp, body = s.post(fmt.Sprintf("/recommendations/%d/exclude", created.ID), map[string]any{"exclude": "museums"})
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))
	var refined types.TravelRequest
	s.Require().NoError(json.Unmarshal(body, &refined))
	s.NotEqual(created.ID, refined.ID)
	s.Equal("beaches museums", refined.ExcludeValue())

	rows := s.history()
	s.Require().Len(rows, 2)
	s.Equal("beaches", rows[0].ExcludeValue())
	s.True(rows[0].CreatedAt.Equal(created.CreatedAt), "create and history disagree on created_at")
	s.True(rows[1].CreatedAt.Equal(refined.CreatedAt))
	s.Equal("beaches museums", rows[1].ExcludeValue())
}

func (s *E2ETestSuite) TestDefaultNumPlaces() {
	resp, body := s.post("/recommendations/", map[string]any{"text": "Porto"})
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))
	var created types.TravelRequest
	s.Require().NoError(json.Unmarshal(body, &created))
	s.Equal(4, created.NumPlaces)
	s.Len(created.Places, 4)
	s.Nil(created.Exclude)
}

func (s *E2ETestSuite) TestProviderRetries() {
	s.failures.Store(2)
	resp, body := s.post("/recommendations/", map[string]any{"text": "Porto", "num_places": 1})
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))
	s.Equal(int32(3), s.calls.Load())

	s.calls.Store(0)
	s.failures.Store(3)
	resp, _ = s.post("/recommendations/", map[string]any{"text": "Porto", "num_places": 1})
	s.Equal(http.StatusBadGateway, resp.StatusCode)
	s.Equal(int32(3), s.calls.Load())
	s.Len(s.history(), 1)
}

func (s *E2ETestSuite) TestErrors() {
	resp, _ := s.post("/recommendations/", map[string]any{"text": "Porto", "num_places": 0})
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp, body := s.post("/recommendations/12345/exclude", map[string]any{"exclude": "museums"})
	s.Equal(http.StatusNotFound, resp.StatusCode)
	s.JSONEq(`{"detail":"Request not found"}`, string(body))

	s.Empty(s.history())
}

func TestE2ETestSuite(t *testing.T) {
	suite.Run(t, new(E2ETestSuite))
}
