package alarm

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	grpcapi "github.com/oshokin/alarm-clock/internal/api/grpc/alarm"
	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/logger"
)

// maxBodyBytes limits request bodies.
const maxBodyBytes = 64 << 10

// httpUsername marks actors that did not identify themselves.
const httpUsername = "http"

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
}

// handler serves the HTTP routes.
type handler struct {
	service grpcapi.Service
}

// NewRouter builds the HTTP control surface on top of service.
func NewRouter(service grpcapi.Service) http.Handler {
	h := &handler{service: service}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/healthz", h.health)
	r.Route("/v1/alarm", func(r chi.Router) {
		r.Get("/", h.getState)
		r.Post("/arm", h.arm)
		r.Post("/snooze", h.snooze)
		r.Post("/stop", h.stop)
	})

	return r
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "ok")
}

func (h *handler) getState(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, grpcapi.FromSnapshot(h.service.GetState(r.Context())))
}

func (h *handler) arm(w http.ResponseWriter, r *http.Request) {
	var req grpcapi.ArmRequest
	if !decode(w, r, &req) {
		return
	}

	snapshot, err := h.service.Arm(r.Context(), actorOf(r, req.Actor), domain.ArmCommand{
		Time:        req.Time,
		Preset:      req.Preset,
		RepeatDaily: req.RepeatDaily,
		Label:       req.Label,
	})
	respond(r.Context(), w, snapshot, err)
}

func (h *handler) snooze(w http.ResponseWriter, r *http.Request) {
	var req grpcapi.SnoozeRequest
	if !decode(w, r, &req) {
		return
	}

	if err := domain.CheckSnoozeMinutes(int(req.Minutes)); err != nil {
		writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Error: domain.DescriptionOf(err)})
		return
	}

	snapshot, err := h.service.Snooze(r.Context(), actorOf(r, req.Actor), int(req.Minutes))
	respond(r.Context(), w, snapshot, err)
}

func (h *handler) stop(w http.ResponseWriter, r *http.Request) {
	var req grpcapi.StopRequest
	if !decode(w, r, &req) {
		return
	}

	snapshot, err := h.service.Stop(r.Context(), actorOf(r, req.Actor), req.Cancel)
	respond(r.Context(), w, snapshot, err)
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Error: "cannot parse JSON body"})

	return false
}

func respond(ctx context.Context, w http.ResponseWriter, snapshot *domain.Snapshot, err error) {
	switch {
	case err == nil:
		writeJSON(ctx, w, http.StatusOK, grpcapi.FromSnapshot(snapshot))
	case domain.CodeOf(err) == domain.ErrInvalid:
		writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: domain.DescriptionOf(err)})
	default:
		logger.ErrorKV(ctx, "Alarm request failed", "error", err)
		writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Error: domain.DescriptionOf(err)})
	}
}

func writeJSON(ctx context.Context, w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.DebugKV(ctx, "Writing response failed", "error", err)
	}
}

// actorOf returns the supplied actor or one derived from the remote address.
func actorOf(r *http.Request, actor *grpcapi.SystemActor) *domain.Actor {
	if actor != nil {
		return grpcapi.ToDomainActor(actor)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	return &domain.Actor{Hostname: host, Username: httpUsername}
}

// requestLogger tags every request with a request id and logs its outcome.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(grpcapi.RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := logger.WithFields(r.Context(), map[string]any{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
		})

		w.Header().Set(grpcapi.RequestIDHeader, requestID)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()

		next.ServeHTTP(ww, r.WithContext(ctx))

		logger.DebugKV(ctx, "Handled HTTP request", "status", ww.Status(), "duration", time.Since(started))
	})
}
