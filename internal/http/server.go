package httpapp

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/realscripter/vouch/internal/config"
	"github.com/realscripter/vouch/internal/vouch"

	_ "github.com/realscripter/vouch/docs" // swagger docs

	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/swaggo/swag"
)

type Server struct {
	svc *vouch.Service
	cfg config.Config
}

func NewServer(svc *vouch.Service, cfg config.Config) *Server {
	return &Server{svc: svc, cfg: cfg}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if strings.HasPrefix(r.URL.Path, "/swagger/") {
		httpSwagger.WrapHandler.ServeHTTP(w, r)
		return
	}

	switch r.URL.Path {
	case "/ping":
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		s.handlePing(w, r)
	case "/vouch":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		s.handleSubmit(w, r)
	case "/checkvouch":
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		s.handleCheck(w, r)
	case "/deletevouch":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		s.handleDelete(w, r)
	case "/editvouch":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		s.handleEdit(w, r)
	case "/checkvouchtime":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		s.handleTimeLeft(w, r)
	case "/mostvouches":
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		s.handleLeaderboard(w, r)
	case "/api/openapi.json":
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		s.serveOpenAPIJSON(w, r)
	default:
		notFound(w)
	}
}

// handlePing godoc
//
//	@Summary	Liveness probe
//	@Tags		Meta
//	@Produce	json
//	@Success	200	{object}	map[string]bool	"pong"
//	@Router		/ping [get]
func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"pong": true})
}

// handleSubmit godoc
//
//	@Summary		Submit a vouch
//	@Description	Post an endorsement or scam warning for a username. One vouch per IP per username; moderated; rate limited to 3 per hour per IP.
//	@Tags			Vouches
//	@Accept			json
//	@Produce		json
//	@Param			username	header		string							true	"Target username"
//	@Param			vouch		body		object{message=string,type=string}	true	"Vouch data (type: vouch or scam vouch)"
//	@Success		200			{object}	map[string]any	"session_id for later edit/delete"
//	@Failure		400			{object}	map[string]any	"Validation or moderation error"
//	@Failure		429			{object}	map[string]any	"Rate limited"
//	@Router			/vouch [post]
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.Header.Get("username"))
	if username == "" {
		writeFailure(w, http.StatusBadRequest, "username header required")
		return
	}
	var req struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	}
	if err := readJSON(r.Body, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sessionID, err := s.svc.Submit(r.Context(), s.clientIP(r), username, req.Message, req.Type)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, vouch.ErrRateLimited) {
			status = http.StatusTooManyRequests
		}
		writeFailure(w, status, publicError(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "session_id": sessionID})
}

// handleCheck godoc
//
//	@Summary		Check own vouches for a username
//	@Description	Totals and the last hour's messages, scoped to the caller's IP and the exact-case username.
//	@Tags			Vouches
//	@Produce		json
//	@Param			username	header		string	true	"Target username"
//	@Success		200			{object}	map[string]any	"Vouch summary"
//	@Router			/checkvouch [get]
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.Header.Get("username"))
	if username == "" {
		writeFailure(w, http.StatusBadRequest, "username header required")
		return
	}
	summary, err := s.svc.Summary(r.Context(), s.clientIP(r), username)
	if err != nil {
		writeFailure(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total_vouches":       summary.TotalVouches,
		"total_scam_vouches":  summary.TotalScamVouches,
		"recent_vouches":      messageList(summary.RecentVouches),
		"recent_scam_vouches": messageList(summary.RecentScamVouches),
	})
}

// handleDelete godoc
//
//	@Summary		Delete a vouch
//	@Description	Remove the vouch tied to the session. The session is consumed on success.
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		object{sessionid=string,ip=string}	true	"Session id and caller-asserted IP"
//	@Success		200		{object}	map[string]any	"success flag; error is invalid, no permission or outoftime"
//	@Router			/deletevouch [post]
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"sessionid"`
		IP        string `json:"ip"`
	}
	if err := readJSON(r.Body, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.svc.Delete(r.Context(), req.SessionID, req.IP); err != nil {
		writeFailure(w, http.StatusOK, publicError(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// handleEdit godoc
//
//	@Summary		Edit a vouch message
//	@Description	Replace the message of the vouch tied to the session. The new text is moderated again.
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		object{sessionid=string,ip=string,new_message=string}	true	"Session id, caller-asserted IP and replacement text"
//	@Success		200		{object}	map[string]any	"success flag"
//	@Router			/editvouch [post]
func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID  string `json:"sessionid"`
		IP         string `json:"ip"`
		NewMessage string `json:"new_message"`
	}
	if err := readJSON(r.Body, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.svc.Edit(r.Context(), req.SessionID, req.IP, req.NewMessage); err != nil {
		writeFailure(w, http.StatusOK, publicError(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// handleTimeLeft godoc
//
//	@Summary		Check remaining session time
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		object{sessionid=string,ip=string}	true	"Session id and caller-asserted IP"
//	@Success		200		{object}	map[string]any	"seconds_left; error is invalid or outoftime"
//	@Router			/checkvouchtime [post]
func (s *Server) handleTimeLeft(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"sessionid"`
		IP        string `json:"ip"`
	}
	if err := readJSON(r.Body, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}
	left, err := s.svc.TimeLeft(r.Context(), req.SessionID, req.IP)
	if err != nil {
		writeFailure(w, http.StatusOK, publicError(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "seconds_left": left})
}

// handleLeaderboard godoc
//
//	@Summary		Most vouched usernames
//	@Description	Top 10 usernames by combined vouch and scam-vouch count.
//	@Tags			Vouches
//	@Produce		json
//	@Success		200	{array}	map[string]any	"username, vouch and scam counts"
//	@Router			/mostvouches [get]
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	tallies, err := s.svc.Leaderboard(r.Context())
	if err != nil {
		writeFailure(w, http.StatusInternalServerError, "internal error")
		return
	}
	out := make([]map[string]any, 0, len(tallies))
	for _, t := range tallies {
		out = append(out, map[string]any{
			"username": t.Username,
			"vouch":    t.Vouches,
			"scam":     t.Scams,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) serveOpenAPIJSON(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		writeFailure(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Write([]byte(doc))
}

func (s *Server) clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// publicError keeps internal failures out of responses; everything in the
// service's taxonomy is already a wire-safe string.
func publicError(err error) string {
	var rejected vouch.ContentRejectedError
	switch {
	case errors.As(err, &rejected),
		errors.Is(err, vouch.ErrDuplicate),
		errors.Is(err, vouch.ErrRateLimited),
		errors.Is(err, vouch.ErrMessageTooLong),
		errors.Is(err, vouch.ErrInvalidKind),
		errors.Is(err, vouch.ErrSessionNotFound),
		errors.Is(err, vouch.ErrSessionForbidden),
		errors.Is(err, vouch.ErrSessionExpired):
		return err.Error()
	}
	return "internal error"
}

func messageList(messages []string) []map[string]string {
	out := make([]map[string]string, 0, len(messages))
	for _, m := range messages {
		out = append(out, map[string]string{"message": m})
	}
	return out
}

func setCORS(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Credentials", "true")
	h.Set("Access-Control-Allow-Methods", "*")
	h.Set("Access-Control-Allow-Headers", "*")
}

func readJSON(body io.ReadCloser, dest any) error {
	defer body.Close()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(dest)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeFailure(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}

func notFound(w http.ResponseWriter) {
	writeFailure(w, http.StatusNotFound, "not found")
}

func methodNotAllowed(w http.ResponseWriter) {
	writeFailure(w, http.StatusMethodNotAllowed, "method not allowed")
}
