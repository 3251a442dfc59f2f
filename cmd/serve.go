package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cardlink/cardscan/internal/extract"
	"github.com/cardlink/cardscan/internal/model"
	"github.com/cardlink/cardscan/internal/ner"
	"github.com/cardlink/cardscan/internal/ocr"
	"github.com/cardlink/cardscan/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the card scanning HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		opts, err := extractOptions()
		if err != nil {
			return err
		}

		rec, err := ner.NewRecognizer(cfg.NER)
		if err != nil {
			return err
		}

		engine, err := ocr.NewExtractor(cfg.OCR)
		if err != nil {
			return err
		}

		st, err := store.New(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		api := &apiServer{
			opts:   opts,
			rec:    rec,
			engine: engine,
			store:  st,
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: api.router(),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// apiServer bundles the collaborators the HTTP handlers need.
type apiServer struct {
	opts   extract.Options
	rec    extract.Recognizer
	engine ocr.Extractor
	store  store.Store
}

func (a *apiServer) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/parse", a.handleParse)
	r.Post("/scan", a.handleScan)

	r.Route("/contacts", func(r chi.Router) {
		r.Post("/", a.handleCreateContact)
		r.Get("/", a.handleListContacts)
		r.Get("/{id}", a.handleGetContact)
		r.Delete("/{id}", a.handleDeleteContact)
		r.Patch("/{id}/favorite", a.handleSetFavorite)
	})

	return r
}

// handleParse extracts a contact from raw OCR text. Entity-recognition
// failure degrades to the heuristic result, never to an error response.
func (a *apiServer) handleParse(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	draft := extract.ExtractWithEntities(r.Context(), req.Text, a.rec, a.opts)
	writeJSON(w, http.StatusOK, draft)
}

// handleScan accepts a base64 image, runs OCR, then the extraction pipeline.
func (a *apiServer) handleScan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ImageBase64 string `json:"image_base64"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ImageBase64 == "" {
		writeError(w, http.StatusBadRequest, "image_base64 is required")
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "image_base64 is not valid base64")
		return
	}

	// The OCR engines consume file paths, so stage the upload in a temp file.
	tmp, err := os.CreateTemp("", "cardscan-*.img")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "stage image")
		return
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) //nolint:errcheck
	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck
		writeError(w, http.StatusInternalServerError, "stage image")
		return
	}
	tmp.Close() //nolint:errcheck

	text, err := a.engine.ExtractText(r.Context(), tmpPath)
	if err != nil {
		zap.L().Error("scan: OCR failed",
			zap.String("image", filepath.Base(tmpPath)),
			zap.Error(err),
		)
		writeError(w, http.StatusBadGateway, "OCR processing failed")
		return
	}

	draft := extract.ExtractWithEntities(r.Context(), text, a.rec, a.opts)
	writeJSON(w, http.StatusOK, draft)
}

func (a *apiServer) handleCreateContact(w http.ResponseWriter, r *http.Request) {
	var draft model.ContactDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid contact draft")
		return
	}

	contact, err := a.store.SaveContact(r.Context(), draft)
	if err != nil {
		zap.L().Error("contacts: save failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save contact")
		return
	}
	writeJSON(w, http.StatusCreated, contact)
}

func (a *apiServer) handleListContacts(w http.ResponseWriter, r *http.Request) {
	filter := store.ContactFilter{Search: r.URL.Query().Get("q")}
	if v := r.URL.Query().Get("favorite"); v != "" {
		fav := v == "true" || v == "1"
		filter.Favorite = &fav
	}

	contacts, err := a.store.ListContacts(r.Context(), filter)
	if err != nil {
		zap.L().Error("contacts: list failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch contacts")
		return
	}
	writeJSON(w, http.StatusOK, contacts)
}

func (a *apiServer) handleGetContact(w http.ResponseWriter, r *http.Request) {
	contact, err := a.store.GetContact(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contact)
}

func (a *apiServer) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	if err := a.store.DeleteContact(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "contact deleted"})
}

func (a *apiServer) handleSetFavorite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IsFavorite bool `json:"isFavorite"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	contact, err := a.store.SetFavorite(r.Context(), chi.URLParam(r, "id"), req.IsFavorite)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contact)
}

func writeStoreError(w http.ResponseWriter, err error) {
	if eris.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "contact not found")
		return
	}
	zap.L().Error("contacts: store error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "storage failure")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
