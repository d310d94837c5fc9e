package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/portgraph/pkg/modelio"
	"github.com/matzehuels/portgraph/pkg/observability"
	"github.com/matzehuels/portgraph/pkg/render"
	"github.com/matzehuels/portgraph/pkg/store"
)

// maxModelBytes caps uploaded model documents.
const maxModelBytes = 16 << 20 // 16 MiB

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose the model store over HTTP",
		Long: `Expose the model store over HTTP.

The server offers a small JSON API over the configured store:

  GET    /health                  liveness check
  GET    /models                  list stored models
  GET    /models/{name}           fetch a model document
  PUT    /models/{name}           store a model document
  DELETE /models/{name}           remove a model
  GET    /models/{name}/render    render a stored model as SVG

Documents are validated before they are stored, so the store only ever
holds loadable models.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			st, err := c.newStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			return c.serve(ctx, addr, cfg.Store.Backend, st)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "listen address")
	cmd.Flags().StringVar(&configPath, "config", "", "config file (default ~/.config/portgraph/config.toml)")
	return cmd
}

// serve runs the HTTP server until ctx is cancelled.
func (c *CLI) serve(ctx context.Context, addr, backend string, st store.Store) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(backend, st),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return withLogger(context.Background(), c.Logger)
		},
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Infof("Serving on %s (store: %s)", addr, backend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// newRouter builds the HTTP API over the given store.
func newRouter(backend string, st store.Store) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(hooksMiddleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	h := &modelHandler{backend: backend, store: st}
	r.Route("/models", func(r chi.Router) {
		r.Get("/", h.list)
		r.Get("/{name}", h.get)
		r.Put("/{name}", h.put)
		r.Delete("/{name}", h.delete)
		r.Get("/{name}/render", h.render)
	})

	return r
}

// hooksMiddleware emits serve hooks around each request.
func hooksMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		observability.Serve().OnRequest(ctx, r.Method, r.URL.Path)

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		observability.Serve().OnResponse(ctx, r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

// modelHandler serves the /models API.
type modelHandler struct {
	backend string
	store   store.Store
}

func (h *modelHandler) list(w http.ResponseWriter, r *http.Request) {
	snaps, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if snaps == nil {
		snaps = []store.Snapshot{}
	}
	writeJSON(w, http.StatusOK, snaps)
}

func (h *modelHandler) get(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.fetch(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(snap.Model)
}

func (h *modelHandler) put(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	doc, err := io.ReadAll(io.LimitReader(r.Body, maxModelBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	// Reject documents that would not load back.
	m, err := modelio.Unmarshal(doc)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid model document: %w", err))
		return
	}

	snap, err := h.store.Put(r.Context(), name, doc)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	observability.Store().OnStorePut(r.Context(), h.backend, name, len(doc))
	loggerFromContext(r.Context()).Infof("Stored %q (%d nodes)", name, m.Len())

	snap.Model = nil
	writeJSON(w, http.StatusOK, snap)
}

func (h *modelHandler) delete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	err := h.store.Delete(r.Context(), name)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	observability.Store().OnStoreDelete(r.Context(), h.backend, name)
	w.WriteHeader(http.StatusNoContent)
}

func (h *modelHandler) render(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.fetch(w, r)
	if !ok {
		return
	}
	m, err := modelio.Unmarshal(snap.Model)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("stored model is invalid: %w", err))
		return
	}
	svg, err := render.RenderSVG(render.ToDOT(m, render.Options{Detailed: true}))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}

// fetch loads the named snapshot, writing the error response on failure.
func (h *modelHandler) fetch(w http.ResponseWriter, r *http.Request) (store.Snapshot, bool) {
	name := chi.URLParam(r, "name")
	snap, err := h.store.Get(r.Context(), name)
	observability.Store().OnStoreGet(r.Context(), h.backend, name, err == nil)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return store.Snapshot{}, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return store.Snapshot{}, false
	}
	return snap, true
}

// writeJSON writes v as a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an error as a JSON response.
func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
