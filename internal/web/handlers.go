package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/andrewchiang3/pitcher-plinko/internal/model"
	"github.com/andrewchiang3/pitcher-plinko/internal/plinko"
	"github.com/andrewchiang3/pitcher-plinko/internal/store"
)

// pitcherJSON is the wire shape for directory entries.
type pitcherJSON struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	First   string `json:"first_name"`
	Last    string `json:"last_name"`
	Throws  string `json:"throws,omitempty"`
	Seasons []int  `json:"seasons_loaded,omitempty"`
}

// jobJSON is the wire shape for load jobs.
type jobJSON struct {
	ID         string `json:"id"`
	PitcherID  int64  `json:"pitcher_id"`
	Season     int    `json:"season"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
	PitchCount int    `json:"pitch_count"`
	StartedAt  int64  `json:"started_at"`
	FinishedAt int64  `json:"finished_at,omitempty"`
}

func toPitcherJSON(p model.Pitcher) pitcherJSON {
	return pitcherJSON{
		ID:     p.ID,
		Name:   p.FullName,
		First:  p.FirstName,
		Last:   p.LastName,
		Throws: p.Throws,
	}
}

func toJobJSON(j model.LoadJob) jobJSON {
	return jobJSON{
		ID:         j.ID.String(),
		PitcherID:  j.PitcherID,
		Season:     j.Season,
		Status:     j.Status,
		Error:      j.Error,
		PitchCount: j.PitchCount,
		StartedAt:  j.StartedAt,
		FinishedAt: j.FinishedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn("health check database ping failed", "err", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "degraded",
			"error":  "database unreachable",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"pitchers": s.dir.Len(),
		"time":     time.Now().Unix(),
	})
}

func (s *Server) handleSeasons(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"seasons": model.AvailableSeasons(),
	})
}

func (s *Server) handleSearchPitchers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "missing query parameter q")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	matches := s.dir.Search(q, limit)
	results := make([]pitcherJSON, 0, len(matches))
	for _, p := range matches {
		results = append(results, toPitcherJSON(p))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"pitchers": results,
	})
}

func (s *Server) handleGetPitcher(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid pitcher id")
		return
	}

	pitcher, err := s.lookupPitcher(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "pitcher not found")
			return
		}
		s.logger.Error("pitcher lookup failed", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}

	resp := toPitcherJSON(pitcher)
	if seasons, err := s.store.SeasonsLoaded(r.Context(), id); err == nil {
		resp.Seasons = seasons
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePlinko(w http.ResponseWriter, r *http.Request) {
	chart, ok := s.chartFor(w, r)
	if !ok {
		return
	}

	// An optional count filter returns the single matching node.
	if raw := r.URL.Query().Get("count"); raw != "" {
		c, err := model.ParseCount(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid count, want balls-strikes")
			return
		}
		for _, node := range chart.Nodes {
			if node.Count == c.String() {
				writeJSON(w, http.StatusOK, node)
				return
			}
		}
		writeError(w, http.StatusNotFound, "count not charted")
		return
	}

	writeJSON(w, http.StatusOK, chart)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	chart, ok := s.chartFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"pitcher": chart.Pitcher,
		"season":  chart.Season,
		"summary": chart.Summary,
	})
}

// chartFor resolves the pitcher and season from the request and returns the
// cached or freshly built chart. On failure it writes the error response and
// returns ok=false.
func (s *Server) chartFor(w http.ResponseWriter, r *http.Request) (plinko.Chart, bool) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid pitcher id")
		return plinko.Chart{}, false
	}

	season, err := strconv.Atoi(r.URL.Query().Get("season"))
	if err != nil || !model.ValidSeason(season) {
		writeError(w, http.StatusBadRequest, "missing or invalid season")
		return plinko.Chart{}, false
	}

	key := chartKey(id, season)
	if chart, ok := s.charts.Get(key); ok {
		return chart, true
	}

	pitcher, err := s.lookupPitcher(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "pitcher not found")
			return plinko.Chart{}, false
		}
		s.logger.Error("pitcher lookup failed", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return plinko.Chart{}, false
	}

	pitches, err := s.store.PitchesForSeason(r.Context(), id, season)
	if err != nil {
		s.logger.Error("loading pitches failed", "id", id, "season", season, "err", err)
		writeError(w, http.StatusInternalServerError, "loading pitches failed")
		return plinko.Chart{}, false
	}

	chart := plinko.Build(pitches, pitcher.FullName, season)
	s.charts.Set(key, chart)
	return chart, true
}

// lookupPitcher checks the in-memory directory first and falls back to the
// store, which also covers pitchers from seasons before the current one.
func (s *Server) lookupPitcher(ctx context.Context, id int64) (model.Pitcher, error) {
	if p, ok := s.dir.Get(id); ok {
		return p, nil
	}
	return s.store.GetPitcher(ctx, id)
}

type loadRequest struct {
	PitcherID int64 `json:"pitcher_id"`
	Season    int   `json:"season"`
}

func (s *Server) handleCreateLoad(w http.ResponseWriter, r *http.Request) {
	if s.loader == nil {
		writeError(w, http.StatusServiceUnavailable, "loading disabled")
		return
	}

	var req loadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !model.ValidSeason(req.Season) {
		writeError(w, http.StatusBadRequest, "invalid season")
		return
	}

	if _, err := s.lookupPitcher(r.Context(), req.PitcherID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "pitcher not found")
			return
		}
		s.logger.Error("pitcher lookup failed", "id", req.PitcherID, "err", err)
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}

	jobID, err := s.loader.LoadAsync(req.PitcherID, req.Season)
	if err != nil {
		s.logger.Error("submitting load job failed", "pitcher_id", req.PitcherID, "season", req.Season, "err", err)
		writeError(w, http.StatusInternalServerError, "submitting load job failed")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"job_id": jobID.String(),
	})
}

func (s *Server) handleGetLoad(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid job id")
		return
	}

	job, err := s.store.GetJob(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "job not found")
			return
		}
		s.logger.Error("job lookup failed", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, toJobJSON(job))
}

func (s *Server) handlePitcherLoads(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid pitcher id")
		return
	}

	jobs, err := s.store.JobsForPitcher(r.Context(), id)
	if err != nil {
		s.logger.Error("job history lookup failed", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}

	results := make([]jobJSON, 0, len(jobs))
	for _, j := range jobs {
		results = append(results, toJobJSON(j))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"jobs": results,
	})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		writeError(w, http.StatusServiceUnavailable, "progress feed disabled")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	client := &wsClient{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, 64),
	}
	select {
	case s.hub.register <- client:
	case <-s.hub.ctx.Done():
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
