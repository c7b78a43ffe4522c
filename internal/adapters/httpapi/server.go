package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bnema/garm/internal/application"
	"github.com/bnema/garm/internal/domain"
	"go.uber.org/zap"
)

const (
	msgUserNotFound       = "User not found"
	msgNoProfilePage      = "No profile page available"
	msgInternalError      = "Internal server error"
	forwardedHostHeader   = "X-Forwarded-Host"
	forwardedPrefixHeader = "X-Forwarded-Prefix"
)

// ActorService is the part of application.Service the HTTP boundary needs.
type ActorService interface {
	Resolve(ctx context.Context, identifier string) (application.Resolution, error)
	Document(account domain.Account, origin string) (domain.ContextualActor, error)
}

type Server struct {
	mux            *http.ServeMux
	actors         ActorService
	log            *zap.Logger
	publicURL      string
	trustForwarded bool
}

type Option func(*Server)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.log = logger
		}
	}
}

// WithPublicURL pins the origin used in actor documents. Without it the
// origin is derived from each request.
func WithPublicURL(publicURL string) Option {
	return func(s *Server) {
		s.publicURL = strings.TrimSpace(publicURL)
	}
}

// WithForwardedHeaders makes request-derived origins honor X-Forwarded-Host
// and X-Forwarded-Prefix. Enable only behind a proxy that sets them.
func WithForwardedHeaders(trust bool) Option {
	return func(s *Server) {
		s.trustForwarded = trust
	}
}

func New(actors ActorService, opts ...Option) *Server {
	s := &Server{
		mux:    http.NewServeMux(),
		actors: actors,
		log:    zap.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /user/{identifier}", s.handleActor)
	s.mux.HandleFunc("POST /user/{identifier}", s.handleActor)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleActor(w http.ResponseWriter, r *http.Request) {
	identifier := r.PathValue("identifier")

	resolution, err := s.actors.Resolve(r.Context(), identifier)
	if err != nil {
		s.log.Error("resolve account", zap.String("identifier", identifier), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgInternalError})
		return
	}
	if !resolution.Found {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: msgUserNotFound})
		return
	}

	account := resolution.Account
	if !resolution.Canonical {
		http.Redirect(w, r, domain.ActorPath(account.Handle), http.StatusFound)
		return
	}

	w.Header().Add("Vary", "Accept")

	if Negotiate(r.Header.Values("Accept")) == RepresentationRedirect {
		if account.ProfileURL == "" {
			writeJSON(w, http.StatusNotAcceptable, errorResponse{Error: msgNoProfilePage})
			return
		}
		http.Redirect(w, r, account.ProfileURL, http.StatusFound)
		return
	}

	origin, err := s.origin(r)
	if err != nil {
		s.log.Error("determine public origin", zap.String("handle", account.Handle), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgInternalError})
		return
	}

	doc, err := s.actors.Document(account, origin)
	if err != nil {
		s.log.Error("build actor document",
			zap.String("handle", account.Handle),
			zap.String("account_id", string(account.ID)),
			zap.Bool("invalid_key", errors.Is(err, domain.ErrInvalidKeyMaterial)),
			zap.Bool("misconfigured", errors.Is(err, domain.ErrConfiguration)),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgInternalError})
		return
	}

	body, err := json.Marshal(doc)
	if err != nil {
		s.log.Error("encode actor document", zap.String("handle", account.Handle), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgInternalError})
		return
	}

	w.Header().Set("Content-Type", ActivityJSONMediaType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) origin(r *http.Request) (string, error) {
	if s.publicURL != "" {
		return s.publicURL, nil
	}

	host := r.Host
	prefix := ""
	if s.trustForwarded {
		if forwarded := firstHeaderValue(r.Header.Get(forwardedHostHeader)); forwarded != "" {
			host = forwarded
		}
		prefix = strings.TrimRight(firstHeaderValue(r.Header.Get(forwardedPrefixHeader)), "/")
		if prefix != "" && !strings.HasPrefix(prefix, "/") {
			prefix = "/" + prefix
		}
	}

	if host == "" {
		return "", fmt.Errorf("%w: request host is unknown and no public url is configured", domain.ErrConfiguration)
	}

	return "https://" + host + prefix, nil
}

func firstHeaderValue(value string) string {
	first, _, _ := strings.Cut(value, ",")
	return strings.TrimSpace(first)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
