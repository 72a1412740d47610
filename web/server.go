// Package web serves a session over HTTP as a small JSON API, so the stack
// of an attached process can be read and driven from a browser or a script.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ardnew/spyview/log"
	"github.com/ardnew/spyview/proc"
	"github.com/ardnew/spyview/session"
	"github.com/ardnew/spyview/tree"
)

// Stack is the body of stack responses.
type Stack struct {
	Snapshot tree.Snapshot `json:"snapshot"`
	Session  string        `json:"session,omitempty"`
	State    string        `json:"state"`
	Nodes    []tree.Node   `json:"nodes"`
}

// Handler serves a session.
type Handler struct {
	sess *session.Session
	msgs *Messages
	log  log.Logger
}

// NewHandler returns a handler for sess. msgs should be the notifier sess
// was created with.
func NewHandler(sess *session.Session, msgs *Messages, logger log.Logger) *Handler {
	if msgs == nil {
		msgs = NewMessages(0)
	}

	return &Handler{sess: sess, msgs: msgs, log: logger}
}

// Router returns the routes of h.
func (h *Handler) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(Logger(h.log))
	r.Use(Recovery(h.log))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(SameOrigin(h.log))

		r.Get("/stack", h.Stack)
		r.Get("/processes", h.Processes)
		r.Get("/messages", h.Messages)
		r.Post("/pick/{pid}", h.Pick)
		r.Post("/refresh", h.Refresh)
		r.Post("/toggle", h.Toggle)
		r.Post("/select/{uid}", h.Select)
		r.Post("/detach", h.Detach)
	})

	return r
}

func (h *Handler) stack() Stack {
	snap := h.sess.Model().Snapshot()

	return Stack{
		Snapshot: snap,
		Nodes:    snap.Nodes(),
		State:    h.sess.State().String(),
		Session:  h.sess.ID(),
	}
}

// Stack writes the current stack.
func (h *Handler) Stack(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.stack())
}

// Processes writes the candidates the session may attach to.
func (h *Handler) Processes(w http.ResponseWriter, r *http.Request) {
	cands, err := h.sess.Candidates(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())

		return
	}

	if cands == nil {
		cands = []proc.Candidate{}
	}

	writeJSON(w, http.StatusOK, cands)
}

// Messages writes notifications newer than the since query parameter.
func (h *Handler) Messages(w http.ResponseWriter, r *http.Request) {
	var since uint64

	if s := r.URL.Query().Get("since"); s != "" {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid since: "+s)

			return
		}

		since = n
	}

	writeJSON(w, http.StatusOK, h.msgs.Since(since))
}

// Pick attaches to the candidate with the pid in the path.
func (h *Handler) Pick(w http.ResponseWriter, r *http.Request) {
	pid := chi.URLParam(r, "pid")

	cands, err := h.sess.Candidates(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())

		return
	}

	for _, c := range cands {
		if c.PID != pid {
			continue
		}

		// Dump failures are reported through the message log and leave the
		// session idle; the response carries the resulting state either way.
		_ = h.sess.Attach(r.Context(), c)

		writeJSON(w, http.StatusOK, h.stack())

		return
	}

	writeError(w, http.StatusNotFound, "no candidate process with pid "+pid)
}

// Refresh dumps the attached process again.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	_ = h.sess.Refresh(r.Context())

	writeJSON(w, http.StatusOK, h.stack())
}

// Toggle flips the frame order.
func (h *Handler) Toggle(w http.ResponseWriter, _ *http.Request) {
	h.sess.ToggleOrder()

	writeJSON(w, http.StatusOK, h.stack())
}

// Select selects the frame with the uid in the path and opens it.
func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "uid")

	uid, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid uid: "+raw)

		return
	}

	f, ok := h.sess.Model().Frame(uid)
	if !ok {
		writeError(w, http.StatusNotFound, "no frame with uid "+raw)

		return
	}

	_ = h.sess.OpenFrame(r.Context(), f)

	writeJSON(w, http.StatusOK, h.stack())
}

// Detach forgets the attached process.
func (h *Handler) Detach(w http.ResponseWriter, _ *http.Request) {
	h.sess.Detach()

	writeJSON(w, http.StatusOK, h.stack())
}

// Serve serves handler on addr until ctx is cancelled, then shuts down
// gracefully. ready, if non-nil, receives the bound address.
func Serve(
	ctx context.Context, addr string, handler http.Handler, logger log.Logger,
	ready func(net.Addr),
) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	logger.InfoContext(ctx, "serving", slog.String("addr", ln.Addr().String()))

	if ready != nil {
		ready(ln.Addr())
	}

	errc := make(chan error, 1)

	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdown, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdown); err != nil {
		return err
	}

	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
