package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/andrewchiang3/pitcher-plinko/internal/config"
	"github.com/andrewchiang3/pitcher-plinko/internal/ingest"
	"github.com/andrewchiang3/pitcher-plinko/internal/model"
	"github.com/andrewchiang3/pitcher-plinko/internal/store"
)

func progressFor(pitcherID int64, status string) ingest.Progress {
	return ingest.Progress{
		JobID:     uuid.New(),
		PitcherID: pitcherID,
		Season:    2024,
		Status:    status,
	}
}

// stubDirectory serves a fixed pitcher list.
type stubDirectory struct {
	pitchers []model.Pitcher
}

func (d *stubDirectory) Search(query string, limit int) []model.Pitcher {
	if query == "" {
		return nil
	}
	out := d.pitchers
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

func (d *stubDirectory) Get(id int64) (model.Pitcher, bool) {
	for _, p := range d.pitchers {
		if p.ID == id {
			return p, true
		}
	}
	return model.Pitcher{}, false
}

func (d *stubDirectory) Len() int { return len(d.pitchers) }

// stubStore serves fixed pitches and jobs.
type stubStore struct {
	pingErr     error
	pitches     map[string][]model.Pitch // "id:season"
	pitchCalls  int
	seasons     []int
	jobs        map[uuid.UUID]model.LoadJob
	pitcherJobs []model.LoadJob
}

func (s *stubStore) Ping(context.Context) error { return s.pingErr }

func (s *stubStore) GetPitcher(_ context.Context, id int64) (model.Pitcher, error) {
	return model.Pitcher{}, store.ErrNotFound
}

func (s *stubStore) PitchesForSeason(_ context.Context, id int64, season int) ([]model.Pitch, error) {
	s.pitchCalls++
	return s.pitches[fmt.Sprintf("%d:%d", id, season)], nil
}

func (s *stubStore) SeasonsLoaded(context.Context, int64) ([]int, error) {
	return s.seasons, nil
}

func (s *stubStore) GetJob(_ context.Context, id uuid.UUID) (model.LoadJob, error) {
	job, ok := s.jobs[id]
	if !ok {
		return model.LoadJob{}, store.ErrNotFound
	}
	return job, nil
}

func (s *stubStore) JobsForPitcher(context.Context, int64) ([]model.LoadJob, error) {
	return s.pitcherJobs, nil
}

// stubLoader records submissions.
type stubLoader struct {
	submitted []loadRequest
	jobID     uuid.UUID
}

func (l *stubLoader) LoadAsync(pitcherID int64, season int) (uuid.UUID, error) {
	l.submitted = append(l.submitted, loadRequest{PitcherID: pitcherID, Season: season})
	return l.jobID, nil
}

func kershaw() model.Pitcher {
	return model.Pitcher{
		ID:             477132,
		FirstName:      "Clayton",
		LastName:       "Kershaw",
		FullName:       "Clayton Kershaw",
		NormalizedName: "clayton kershaw",
		Throws:         "L",
	}
}

func testServer(dir Directory, st ChartStore, loader Loader) *Server {
	if dir == nil {
		dir = &stubDirectory{}
	}
	if st == nil {
		st = &stubStore{}
	}
	cfg := config.ServerConfig{Port: 0, CacheTTL: time.Minute}
	return NewServer(cfg, dir, st, loader, nil, nil)
}

func doRequest(t *testing.T, s *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return out
}

func TestHealth(t *testing.T) {
	s := testServer(&stubDirectory{pitchers: []model.Pitcher{kershaw()}}, nil, nil)

	rec := doRequest(t, s, "GET", "/api/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
	if body["pitchers"].(float64) != 1 {
		t.Errorf("pitchers = %v, want 1", body["pitchers"])
	}
}

func TestHealthDegraded(t *testing.T) {
	st := &stubStore{pingErr: fmt.Errorf("connection refused")}
	s := testServer(nil, st, nil)

	rec := doRequest(t, s, "GET", "/api/health", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestSeasons(t *testing.T) {
	s := testServer(nil, nil, nil)

	rec := doRequest(t, s, "GET", "/api/seasons", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	seasons := body["seasons"].([]any)
	if len(seasons) == 0 {
		t.Fatal("expected seasons")
	}
	if int(seasons[0].(float64)) != time.Now().Year() {
		t.Errorf("first season = %v, want current year", seasons[0])
	}
}

func TestSearchPitchers(t *testing.T) {
	s := testServer(&stubDirectory{pitchers: []model.Pitcher{kershaw()}}, nil, nil)

	rec := doRequest(t, s, "GET", "/api/pitchers?q=kershaw", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	pitchers := body["pitchers"].([]any)
	if len(pitchers) != 1 {
		t.Fatalf("got %d pitchers, want 1", len(pitchers))
	}
	first := pitchers[0].(map[string]any)
	if first["name"] != "Clayton Kershaw" {
		t.Errorf("name = %v", first["name"])
	}
	if int64(first["id"].(float64)) != 477132 {
		t.Errorf("id = %v", first["id"])
	}
}

func TestSearchPitchersRequiresQuery(t *testing.T) {
	s := testServer(nil, nil, nil)

	rec := doRequest(t, s, "GET", "/api/pitchers", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error"] == "" {
		t.Error("expected error message")
	}
}

func TestGetPitcher(t *testing.T) {
	st := &stubStore{seasons: []int{2023, 2024}}
	s := testServer(&stubDirectory{pitchers: []model.Pitcher{kershaw()}}, st, nil)

	rec := doRequest(t, s, "GET", "/api/pitchers/477132", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["name"] != "Clayton Kershaw" {
		t.Errorf("name = %v", body["name"])
	}
	loaded := body["seasons_loaded"].([]any)
	if len(loaded) != 2 {
		t.Errorf("seasons_loaded = %v", loaded)
	}
}

func TestGetPitcherNotFound(t *testing.T) {
	s := testServer(nil, nil, nil)

	rec := doRequest(t, s, "GET", "/api/pitchers/999", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func seasonPitches(pitcherID int64) []model.Pitch {
	return []model.Pitch{
		{PitcherID: pitcherID, GamePK: 745001, AtBatNumber: 1, PitchNumber: 1,
			GameDate: "2024-06-01", Balls: 0, Strikes: 0, PitchType: "FF", ReleaseSpeed: 92.5},
		{PitcherID: pitcherID, GamePK: 745001, AtBatNumber: 1, PitchNumber: 2,
			GameDate: "2024-06-01", Balls: 0, Strikes: 1, PitchType: "SL", ReleaseSpeed: 86.0},
	}
}

func TestPlinko(t *testing.T) {
	st := &stubStore{pitches: map[string][]model.Pitch{
		"477132:2024": seasonPitches(477132),
	}}
	s := testServer(&stubDirectory{pitchers: []model.Pitcher{kershaw()}}, st, nil)

	rec := doRequest(t, s, "GET", "/api/pitchers/477132/plinko?season=2024", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["pitcher"] != "Clayton Kershaw" {
		t.Errorf("pitcher = %v", body["pitcher"])
	}
	if int(body["season"].(float64)) != 2024 {
		t.Errorf("season = %v", body["season"])
	}
	nodes := body["nodes"].([]any)
	if len(nodes) != 12 {
		t.Errorf("got %d nodes, want 12", len(nodes))
	}
	summary := body["summary"].(map[string]any)
	if int(summary["total_pitches"].(float64)) != 2 {
		t.Errorf("total_pitches = %v, want 2", summary["total_pitches"])
	}
}

func TestPlinkoCaches(t *testing.T) {
	st := &stubStore{pitches: map[string][]model.Pitch{
		"477132:2024": seasonPitches(477132),
	}}
	s := testServer(&stubDirectory{pitchers: []model.Pitcher{kershaw()}}, st, nil)

	doRequest(t, s, "GET", "/api/pitchers/477132/plinko?season=2024", nil)
	doRequest(t, s, "GET", "/api/pitchers/477132/plinko?season=2024", nil)

	if st.pitchCalls != 1 {
		t.Errorf("store queried %d times, want 1 (cached)", st.pitchCalls)
	}
}

func TestPlinkoCountFilter(t *testing.T) {
	st := &stubStore{pitches: map[string][]model.Pitch{
		"477132:2024": seasonPitches(477132),
	}}
	s := testServer(&stubDirectory{pitchers: []model.Pitcher{kershaw()}}, st, nil)

	rec := doRequest(t, s, "GET", "/api/pitchers/477132/plinko?season=2024&count=0-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	node := decodeBody(t, rec)
	if node["count"] != "0-1" {
		t.Errorf("count = %v, want 0-1", node["count"])
	}
	if int(node["total"].(float64)) != 1 {
		t.Errorf("total = %v, want 1", node["total"])
	}
	slices := node["slices"].([]any)
	if len(slices) != 1 || slices[0].(map[string]any)["pitch_type"] != "SL" {
		t.Errorf("slices = %v, want one SL slice", slices)
	}
}

func TestPlinkoCountFilterInvalid(t *testing.T) {
	st := &stubStore{pitches: map[string][]model.Pitch{
		"477132:2024": seasonPitches(477132),
	}}
	s := testServer(&stubDirectory{pitchers: []model.Pitcher{kershaw()}}, st, nil)

	for _, raw := range []string{"4-0", "0-3", "junk"} {
		rec := doRequest(t, s, "GET", "/api/pitchers/477132/plinko?season=2024&count="+raw, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("count=%s: status = %d, want 400", raw, rec.Code)
		}
	}
}

func TestPlinkoRequiresSeason(t *testing.T) {
	s := testServer(&stubDirectory{pitchers: []model.Pitcher{kershaw()}}, nil, nil)

	for _, path := range []string{
		"/api/pitchers/477132/plinko",
		"/api/pitchers/477132/plinko?season=1999",
		"/api/pitchers/477132/plinko?season=abc",
	} {
		rec := doRequest(t, s, "GET", path, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, rec.Code)
		}
	}
}

func TestSummary(t *testing.T) {
	st := &stubStore{pitches: map[string][]model.Pitch{
		"477132:2024": seasonPitches(477132),
	}}
	s := testServer(&stubDirectory{pitchers: []model.Pitcher{kershaw()}}, st, nil)

	rec := doRequest(t, s, "GET", "/api/pitchers/477132/summary?season=2024", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	summary := body["summary"].(map[string]any)
	if int(summary["pitch_types"].(float64)) != 2 {
		t.Errorf("pitch_types = %v, want 2", summary["pitch_types"])
	}
}

func TestCreateLoad(t *testing.T) {
	loader := &stubLoader{jobID: uuid.New()}
	s := testServer(&stubDirectory{pitchers: []model.Pitcher{kershaw()}}, nil, loader)

	payload := []byte(`{"pitcher_id": 477132, "season": 2024}`)
	rec := doRequest(t, s, "POST", "/api/loads", payload)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["job_id"] != loader.jobID.String() {
		t.Errorf("job_id = %v, want %s", body["job_id"], loader.jobID)
	}
	if len(loader.submitted) != 1 || loader.submitted[0].PitcherID != 477132 {
		t.Errorf("submitted = %+v", loader.submitted)
	}
}

func TestCreateLoadValidation(t *testing.T) {
	loader := &stubLoader{jobID: uuid.New()}
	s := testServer(&stubDirectory{pitchers: []model.Pitcher{kershaw()}}, nil, loader)

	tests := []struct {
		name    string
		payload string
		want    int
	}{
		{"bad json", `{`, http.StatusBadRequest},
		{"bad season", `{"pitcher_id": 477132, "season": 1999}`, http.StatusBadRequest},
		{"unknown pitcher", `{"pitcher_id": 1, "season": 2024}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, s, "POST", "/api/loads", []byte(tt.payload))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestCreateLoadDisabled(t *testing.T) {
	s := testServer(&stubDirectory{pitchers: []model.Pitcher{kershaw()}}, nil, nil)

	rec := doRequest(t, s, "POST", "/api/loads", []byte(`{"pitcher_id": 477132, "season": 2024}`))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestGetLoad(t *testing.T) {
	jobID := uuid.New()
	st := &stubStore{jobs: map[uuid.UUID]model.LoadJob{
		jobID: {ID: jobID, PitcherID: 477132, Season: 2024, Status: model.JobRunning, PitchCount: 120},
	}}
	s := testServer(nil, st, nil)

	rec := doRequest(t, s, "GET", "/api/loads/"+jobID.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != model.JobRunning {
		t.Errorf("status = %v, want running", body["status"])
	}
	if int(body["pitch_count"].(float64)) != 120 {
		t.Errorf("pitch_count = %v, want 120", body["pitch_count"])
	}

	rec = doRequest(t, s, "GET", "/api/loads/"+uuid.NewString(), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown job status = %d, want 404", rec.Code)
	}

	rec = doRequest(t, s, "GET", "/api/loads/not-a-uuid", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", rec.Code)
	}
}

func TestPitcherLoads(t *testing.T) {
	st := &stubStore{pitcherJobs: []model.LoadJob{
		{ID: uuid.New(), PitcherID: 477132, Season: 2024, Status: model.JobCompleted},
		{ID: uuid.New(), PitcherID: 477132, Season: 2023, Status: model.JobFailed, Error: "savant timeout"},
	}}
	s := testServer(nil, st, nil)

	rec := doRequest(t, s, "GET", "/api/pitchers/477132/loads", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	jobs := body["jobs"].([]any)
	if len(jobs) != 2 {
		t.Fatalf("got %d jobs, want 2", len(jobs))
	}
}

func TestProgressInvalidatesCache(t *testing.T) {
	st := &stubStore{pitches: map[string][]model.Pitch{
		"477132:2024": seasonPitches(477132),
	}}
	s := testServer(&stubDirectory{pitchers: []model.Pitcher{kershaw()}}, st, nil)

	doRequest(t, s, "GET", "/api/pitchers/477132/plinko?season=2024", nil)
	if st.pitchCalls != 1 {
		t.Fatalf("pitchCalls = %d, want 1", st.pitchCalls)
	}

	s.HandleProgress(progressFor(477132, model.JobCompleted))

	doRequest(t, s, "GET", "/api/pitchers/477132/plinko?season=2024", nil)
	if st.pitchCalls != 2 {
		t.Errorf("pitchCalls = %d, want 2 after invalidation", st.pitchCalls)
	}

	// Non-terminal events leave the cache alone.
	s.HandleProgress(progressFor(477132, model.JobRunning))
	doRequest(t, s, "GET", "/api/pitchers/477132/plinko?season=2024", nil)
	if st.pitchCalls != 2 {
		t.Errorf("pitchCalls = %d, want 2 (still cached)", st.pitchCalls)
	}
}
