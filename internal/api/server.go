package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sthuthi2002/DevSecOps-project/internal/report"
	"github.com/sthuthi2002/DevSecOps-project/internal/storage"
)

// Store is the minimal contract the API needs.
type Store interface {
	ListReports(limit, offset int) ([]storage.ReportRow, error)
	LoadReportHTML(id string) (string, error)
	LatestReportHTML() (string, error)
	SaveReport(rep *report.Report, outPath, html string) error
}

// UserStore is the auth/audit contract the API uses.
type UserStore interface {
	GetUserByUsername(string) (storage.User, string, error)
	CreateSession(int64, string, time.Time) error
	GetSession(string) (storage.User, error)
	DeleteSession(string) error
	LogAudit(username, action, resource string, meta map[string]any) error
}

type Server struct {
	DB              Store
	UserStore       UserStore
	Logger          *slog.Logger
	SessionDuration time.Duration

	// Artifacts seeds server-side generation; nil means the defaults.
	Artifacts []report.Artifact
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	withCORS := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS, POST")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			h(w, r)
		}
	}

	// Health
	mux.HandleFunc("GET /api/v1/health", withCORS(s.handleHealth))

	// Auth
	mux.HandleFunc("POST /api/v1/auth/login", withCORS(s.handleLogin))
	mux.HandleFunc("POST /api/v1/auth/logout", withCORS(withAuth(s, s.handleLogout, "auth:logout")))
	mux.HandleFunc("GET /api/v1/me", withCORS(withAuth(s, s.handleMe, "me")))

	// Reports
	mux.HandleFunc("GET /api/v1/reports", withCORS(s.handleListReports))
	mux.HandleFunc("GET /api/v1/reports/latest", withCORS(s.handleLatestReport))
	mux.HandleFunc("GET /api/v1/reports/{id}", withCORS(s.handleGetReport))
	mux.HandleFunc("POST /api/v1/reports/generate", withCORS(withAdmin(s, s.handleGenerate, "reports:generate")))

	// Fallback 404
	mux.HandleFunc("/", withCORS(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":        true,
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := clamp(parseInt(q.Get("limit"), 20), 1, 200)
	offset := parseInt(q.Get("offset"), 0)

	rows, err := s.DB.ListReports(limit, offset)
	if err != nil {
		s.err(w, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": rows, "limit": limit, "offset": offset,
	})
}

// handleLatestReport and handleGetReport serve the stored document bytes
// as written: no re-rendering, so the API always mirrors the file output.
func (s *Server) handleLatestReport(w http.ResponseWriter, r *http.Request) {
	doc, err := s.DB.LatestReportHTML()
	if err != nil {
		s.err(w, http.StatusNotFound, "no reports")
		return
	}
	writeHTML(w, doc)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	doc, err := s.DB.LoadReportHTML(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.err(w, http.StatusNotFound, "report not found")
			return
		}
		s.err(w, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}
	writeHTML(w, doc)
}

type generateReq struct {
	Build string `json:"build,omitempty"`
}

// POST /api/v1/reports/generate (admin). Renders with the server clock,
// stores the document, returns its metadata. The working directory is
// never touched; only the generate subcommand writes files.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var in generateReq
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&in) // empty body is fine
	}
	build := strings.TrimSpace(in.Build)
	if build == "" {
		build = report.BuildFromEnv()
	}
	rep := report.New(time.Now(), build, s.Artifacts)
	doc := report.HTML(&rep)
	if err := s.DB.SaveReport(&rep, "", doc); err != nil {
		s.err(w, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}
	u, _ := userFromCtx(r.Context())
	_ = s.UserStore.LogAudit(u.Username, "reports:generate", "", map[string]any{"id": rep.ID, "build": rep.Build})
	writeJSON(w, http.StatusCreated, rep)
}

func (s *Server) err(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeHTML(w http.ResponseWriter, doc string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

func clamp(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
