package http

import (
	"fmt"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/storm-data-reliability/internal/domain"
)

type snapshotHandler func(w http.ResponseWriter, r *http.Request, snap *domain.Snapshot)

type profileView struct {
	Name string `json:"name"`
	domain.NeighborhoodProfile
}

type uncertaintyView struct {
	Name string `json:"name"`
	domain.UncertaintySummary
}

type profilesResponse struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Profiles    []profileView `json:"profiles"`
}

type uncertaintyResponse struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Uncertainty []uncertaintyView `json:"uncertainty"`
}

type seriesResponse struct {
	GeneratedAt time.Time            `json:"generated_at"`
	Field       string               `json:"field"`
	Points      []domain.HourlyPoint `json:"points"`
}

type diagnosticsResponse struct {
	GeneratedAt time.Time           `json:"generated_at"`
	Diagnostics []domain.Diagnostic `json:"diagnostics"`
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

// withSnapshot answers 503 until the first snapshot exists.
func (s *Server) withSnapshot(h snapshotHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := s.snapshots.Latest()
		if snap == nil {
			sharedobs.WriteJSON(w, http.StatusServiceUnavailable, errorBody("no snapshot available yet"))
			return
		}
		h(w, r, snap)
	}
}

func (s *Server) profileView(p domain.NeighborhoodProfile) profileView {
	return profileView{Name: s.names.Name(p.Neighborhood), NeighborhoodProfile: p}
}

func (s *Server) handleProfiles(w http.ResponseWriter, _ *http.Request, snap *domain.Snapshot) {
	views := make([]profileView, len(snap.Profiles))
	for i, p := range snap.Profiles {
		views[i] = s.profileView(p)
	}
	sharedobs.WriteJSON(w, http.StatusOK, profilesResponse{GeneratedAt: snap.GeneratedAt, Profiles: views})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request, snap *domain.Snapshot) {
	id := r.PathValue("id")
	p, ok := snap.Profile(id)
	if !ok {
		sharedobs.WriteJSON(w, http.StatusNotFound, errorBody(fmt.Sprintf("unknown neighborhood %q", id)))
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, s.profileView(p))
}

func (s *Server) handleUncertainty(w http.ResponseWriter, _ *http.Request, snap *domain.Snapshot) {
	views := make([]uncertaintyView, len(snap.Uncertainty))
	for i, u := range snap.Uncertainty {
		views[i] = uncertaintyView{Name: s.names.Name(u.Neighborhood), UncertaintySummary: u}
	}
	sharedobs.WriteJSON(w, http.StatusOK, uncertaintyResponse{GeneratedAt: snap.GeneratedAt, Uncertainty: views})
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request, snap *domain.Snapshot) {
	name := r.PathValue("field")
	field, ok := domain.ParseDamageField(name)
	if !ok {
		sharedobs.WriteJSON(w, http.StatusBadRequest, errorBody(fmt.Sprintf("unknown damage field %q", name)))
		return
	}
	points := snap.Series[field.String()]
	if points == nil {
		points = []domain.HourlyPoint{}
	}
	sharedobs.WriteJSON(w, http.StatusOK, seriesResponse{
		GeneratedAt: snap.GeneratedAt,
		Field:       field.String(),
		Points:      points,
	})
}

func (s *Server) handleDiagnostics(w http.ResponseWriter, _ *http.Request, snap *domain.Snapshot) {
	diags := snap.Diagnostics
	if diags == nil {
		diags = []domain.Diagnostic{}
	}
	sharedobs.WriteJSON(w, http.StatusOK, diagnosticsResponse{GeneratedAt: snap.GeneratedAt, Diagnostics: diags})
}
