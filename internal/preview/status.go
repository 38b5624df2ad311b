package preview

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/fluxpress/theme-classic/internal/foundation/errors"
	"github.com/fluxpress/theme-classic/internal/site"
	"github.com/fluxpress/theme-classic/internal/version"
)

// Status is the JSON body of the status endpoint.
type Status struct {
	Version     string                        `json:"version"`
	Building    bool                          `json:"building"`
	Trigger     string                        `json:"trigger,omitempty"`
	Builds      int                           `json:"builds"`
	LastBuildAt *time.Time                    `json:"last_build_at,omitempty"`
	LastError   string                        `json:"last_error,omitempty"`
	Fingerprint string                        `json:"fingerprint,omitempty"`
	Clients     int                           `json:"live_reload_clients"`
	Report      *site.BuildReportSerializable `json:"report,omitempty"`

	lastErr error
}

// Status returns a snapshot of the build status.
func (s *Server) Status() Status {
	s.mu.RLock()
	st := s.status
	s.mu.RUnlock()
	st.Version = version.Version
	st.Clients = s.hub.Clients()
	st.Fingerprint = s.hub.Last()
	return st
}

func (s *Server) setBuilding(trigger string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.Building = true
	s.status.Trigger = trigger
}

func (s *Server) finishBuild(report *site.BuildReport, err error) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.Building = false
	s.status.Builds++
	s.status.LastBuildAt = &now
	s.status.lastErr = err
	s.status.LastError = ""
	if err != nil {
		s.status.LastError = err.Error()
	}
	if report != nil {
		s.status.Report = report.Serializable()
	}
}

// serveStatus writes the status, or the last build error with its mapped status
// code when ?strict=1 is set and the last build failed.
func (s *Server) serveStatus(w http.ResponseWriter, r *http.Request) {
	st := s.Status()
	if r.URL.Query().Get("strict") == "1" && st.lastErr != nil {
		s.errs.WriteErrorResponse(w, r, st.lastErr)
		return
	}
	if st.Builds == 0 && !st.Building {
		s.errs.WriteErrorResponse(w, r, errors.PreviewError("no build has run yet").Build())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(st)
}
