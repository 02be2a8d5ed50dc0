package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/install-check/internal/locator"
	"github.com/sells-group/install-check/internal/model"
	"github.com/sells-group/install-check/internal/pipeline"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for checks, analyses and saving records",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initChecker(ctx, cfg, "serve", true)
		if err != nil {
			return err
		}
		defer env.Close()

		return startServer(ctx, buildRouter(env.Checker), resolvePort(servePort, cfg.Server.Port))
	},
}

// resolvePort prefers the flag over the configured port.
func resolvePort(flagPort, cfgPort int) int {
	if flagPort != 0 {
		return flagPort
	}
	return cfgPort
}

// startServer serves h until ctx is cancelled, then shuts down gracefully.
func startServer(ctx context.Context, h http.Handler, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	zap.L().Info("starting server", zap.Int("port", port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return eris.Wrap(err, "server listen")
	}
	return nil
}

// buildRouter wires the HTTP API around checker.
func buildRouter(checker *pipeline.Checker) http.Handler {
	h := &apiHandler{checker: checker}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/check", h.check)
		r.Post("/analyze", h.analyze)
		r.Post("/records", h.saveRecord)
	})
	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

type apiHandler struct {
	checker *pipeline.Checker
}

type checkRequest struct {
	URL               string   `json:"url"`
	NetworkType       string   `json:"network_type"`
	FacadeLengthM     *float64 `json:"facade_length_m"`
	AerialHeightM     *float64 `json:"aerial_height_m"`
	PublicDigRequired *bool    `json:"public_dig_required"`
	Save              bool     `json:"save"`
	CaseID            string   `json:"case_id"`
}

type analyzeRequest struct {
	Address string `json:"address"`
	Save    bool   `json:"save"`
	CaseID  string `json:"case_id"`
}

type saveRequest struct {
	Result *pipeline.Result `json:"result"`
	CaseID string           `json:"case_id"`
}

type resultResponse struct {
	Result *pipeline.Result `json:"result"`
	Record *model.Record    `json:"record,omitempty"`
}

func (h *apiHandler) check(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if !decodeBody(w, r, &req) {
		return
	}
	netType, err := model.ParseNetworkType(req.NetworkType)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res := h.checker.Check(r.Context(), pipeline.ManualInput{
		URL:               req.URL,
		NetworkType:       netType,
		FacadeLengthM:     req.FacadeLengthM,
		AerialHeightM:     req.AerialHeightM,
		PublicDigRequired: req.PublicDigRequired,
	})
	h.respond(w, r, res, req.Save, req.CaseID)
}

func (h *apiHandler) analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Address) == "" {
		writeError(w, http.StatusBadRequest, "address is required")
		return
	}

	res, err := h.checker.Analyze(r.Context(), req.Address)
	if errors.Is(err, locator.ErrUnresolved) {
		writeError(w, http.StatusUnprocessableEntity, "address could not be geocoded")
		return
	}
	if err != nil {
		zap.L().Error("analyze failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}
	h.respond(w, r, res, req.Save, req.CaseID)
}

func (h *apiHandler) saveRecord(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Result == nil {
		writeError(w, http.StatusBadRequest, "result is required")
		return
	}

	rec, err := h.checker.Save(r.Context(), req.Result, req.CaseID)
	if errors.Is(err, pipeline.ErrInconsistentResult) {
		writeError(w, http.StatusBadRequest, "decision does not match the observation")
		return
	}
	if err != nil {
		zap.L().Error("save record failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "record could not be saved")
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *apiHandler) respond(w http.ResponseWriter, r *http.Request, res *pipeline.Result, save bool, caseID string) {
	out := resultResponse{Result: res}
	if save {
		rec, err := h.checker.Save(r.Context(), res, caseID)
		if err != nil {
			zap.L().Error("save record failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "record could not be saved")
			return
		}
		out.Record = rec
	}
	writeJSON(w, http.StatusOK, out)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
