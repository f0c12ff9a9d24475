package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/AlexGitta/Fuzz/fizzbuzz"
	"github.com/AlexGitta/Fuzz/internal/config"
	"github.com/AlexGitta/Fuzz/internal/logger"
	"github.com/AlexGitta/Fuzz/internal/telemetry"
	"github.com/AlexGitta/Fuzz/render"
	"github.com/AlexGitta/Fuzz/workspace"
)

type Server struct {
	manager *workspace.Manager
	log     *slog.Logger
	router  *chi.Mux
}

// NewServer hydrates the workspace registry from the store and wires up
// the routes. The store decides persistence: memory, postgres, or sqlite.
func NewServer(ctx context.Context, store workspace.Store, log *slog.Logger) (*Server, error) {
	if log == nil {
		log = slog.Default()
	}

	manager := workspace.NewManager(store, log)
	if err := manager.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load workspaces: %w", err)
	}

	s := &Server{
		manager: manager,
		log:     log,
	}

	s.setupRoutes()

	return s, nil
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Health check
	r.Get("/health", s.handleHealth)

	// Workspace management
	r.Route("/api/v1/workspaces", func(r chi.Router) {
		r.Get("/", s.handleListWorkspaces)
		r.Post("/", s.handleCreateWorkspace)

		r.Route("/{workspaceID}", func(r chi.Router) {
			r.Get("/", s.handleGetWorkspace)
			r.Delete("/", s.handleDeleteWorkspace)

			// Block management
			r.Route("/blocks", func(r chi.Router) {
				r.Get("/", s.handleListBlocks)
				r.Post("/", s.handleCreateBlock)
				r.Delete("/", s.handleClearBlocks)

				r.Route("/{blockID}", func(r chi.Router) {
					r.Get("/", s.handleGetBlock)
					r.Put("/", s.handleUpdateBlock)
					r.Delete("/", s.handleDeleteBlock)
					r.Post("/move", s.handleMoveBlock)
				})
			})

			// Evaluation
			r.Post("/generate", s.handleGenerate)
		})
	})

	s.router = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Health check handler
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{
		Status:     "ok",
		Workspaces: len(s.manager.List()),
	})
}

// List workspaces handler
func (s *Server) handleListWorkspaces(w http.ResponseWriter, r *http.Request) {
	workspaces := s.manager.List()

	resp := WorkspacesListResponse{Workspaces: make([]WorkspaceResponse, 0, len(workspaces))}
	for _, ws := range workspaces {
		resp.Workspaces = append(resp.Workspaces, toWorkspaceResponse(ws))
	}

	respondJSON(w, http.StatusOK, resp)
}

// Create workspace handler
func (s *Server) handleCreateWorkspace(w http.ResponseWriter, r *http.Request) {
	var req CreateWorkspaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	ws, err := s.manager.Create(r.Context(), req.Name, req.Defaults)
	if err != nil {
		s.respondDomainError(w, "failed to create workspace", err)
		return
	}

	respondJSON(w, http.StatusCreated, toWorkspaceDetailResponse(ws))
}

// Get workspace handler
func (s *Server) handleGetWorkspace(w http.ResponseWriter, r *http.Request) {
	ws, err := s.manager.Get(chi.URLParam(r, "workspaceID"))
	if err != nil {
		s.respondDomainError(w, "failed to get workspace", err)
		return
	}

	respondJSON(w, http.StatusOK, toWorkspaceDetailResponse(ws))
}

// Delete workspace handler
func (s *Server) handleDeleteWorkspace(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.Delete(r.Context(), chi.URLParam(r, "workspaceID")); err != nil {
		s.respondDomainError(w, "failed to delete workspace", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List blocks handler
func (s *Server) handleListBlocks(w http.ResponseWriter, r *http.Request) {
	ws, err := s.manager.Get(chi.URLParam(r, "workspaceID"))
	if err != nil {
		s.respondDomainError(w, "failed to get workspace", err)
		return
	}

	respondJSON(w, http.StatusOK, BlocksListResponse{Blocks: toBlockResponses(ws.Blocks())})
}

// Create block handler
func (s *Server) handleCreateBlock(w http.ResponseWriter, r *http.Request) {
	workspaceID := chi.URLParam(r, "workspaceID")

	var req BlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	blockType, err := fizzbuzz.ParseBlockType(req.Type)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid block type", err)
		return
	}

	block, err := s.manager.AddBlock(r.Context(), workspaceID, workspace.BlockParams{
		Type:       blockType,
		Name:       req.Name,
		Word:       req.Word,
		Divisor:    req.Divisor,
		RangeStart: req.Start,
		RangeEnd:   req.End,
	})
	if err != nil {
		s.respondDomainError(w, "failed to add block", err)
		return
	}

	respondJSON(w, http.StatusCreated, toBlockResponse(block))
}

// Get block handler
func (s *Server) handleGetBlock(w http.ResponseWriter, r *http.Request) {
	ws, err := s.manager.Get(chi.URLParam(r, "workspaceID"))
	if err != nil {
		s.respondDomainError(w, "failed to get workspace", err)
		return
	}

	block, err := ws.Block(chi.URLParam(r, "blockID"))
	if err != nil {
		s.respondDomainError(w, "failed to get block", err)
		return
	}

	respondJSON(w, http.StatusOK, toBlockResponse(block))
}

// Update block handler
func (s *Server) handleUpdateBlock(w http.ResponseWriter, r *http.Request) {
	var req BlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	block, err := s.manager.UpdateBlock(r.Context(),
		chi.URLParam(r, "workspaceID"), chi.URLParam(r, "blockID"),
		workspace.UpdateParams{
			Name:       req.Name,
			Word:       req.Word,
			Divisor:    req.Divisor,
			RangeStart: req.Start,
			RangeEnd:   req.End,
		})
	if err != nil {
		s.respondDomainError(w, "failed to update block", err)
		return
	}

	respondJSON(w, http.StatusOK, toBlockResponse(block))
}

// Delete block handler
func (s *Server) handleDeleteBlock(w http.ResponseWriter, r *http.Request) {
	err := s.manager.DeleteBlock(r.Context(),
		chi.URLParam(r, "workspaceID"), chi.URLParam(r, "blockID"))
	if err != nil {
		s.respondDomainError(w, "failed to delete block", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Clear blocks handler
func (s *Server) handleClearBlocks(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.ClearBlocks(r.Context(), chi.URLParam(r, "workspaceID")); err != nil {
		s.respondDomainError(w, "failed to clear blocks", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Move block handler
func (s *Server) handleMoveBlock(w http.ResponseWriter, r *http.Request) {
	workspaceID := chi.URLParam(r, "workspaceID")

	var req MoveBlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	err := s.manager.MoveBlock(r.Context(), workspaceID, chi.URLParam(r, "blockID"), req.Direction)
	if err != nil {
		s.respondDomainError(w, "failed to move block", err)
		return
	}

	// Return the reordered list so clients can redraw without a second call.
	ws, err := s.manager.Get(workspaceID)
	if err != nil {
		s.respondDomainError(w, "failed to get workspace", err)
		return
	}

	respondJSON(w, http.StatusOK, BlocksListResponse{Blocks: toBlockResponses(ws.Blocks())})
}

// Generate handler
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	workspaceID := chi.URLParam(r, "workspaceID")

	view := r.URL.Query().Get("view")
	switch view {
	case "", "text", "grid":
	default:
		respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown view %q: use text or grid", view), nil)
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	ws, err := s.manager.Get(workspaceID)
	if err != nil {
		s.respondDomainError(w, "failed to get workspace", err)
		return
	}

	// Snapshot: edits made while the run executes cannot affect it.
	blocks := ws.Blocks()

	_, span := otel.Tracer(telemetry.TracerName).Start(r.Context(), "generate",
		trace.WithAttributes(
			attribute.String("workspace.id", workspaceID),
			attribute.Int("range.start", req.Start),
			attribute.Int("range.end", req.End),
			attribute.Int("blocks.count", len(blocks)),
		))
	defer span.End()

	startTime := time.Now()
	results, err := fizzbuzz.Evaluate(req.Start, req.End, blocks)
	if err != nil {
		span.RecordError(err)
		s.respondDomainError(w, "failed to evaluate range", err)
		return
	}
	evaluationTime := time.Since(startTime)

	s.log.Info("generated sequence",
		"workspace_id", workspaceID,
		"start", req.Start,
		"end", req.End,
		"blocks", len(blocks),
		"results", len(results),
		"duration", evaluationTime)

	switch view {
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if err := render.Write(w, results); err != nil {
			s.log.Error("failed to stream text view", "workspace_id", workspaceID, "error", err)
		}

	case "grid":
		respondJSON(w, http.StatusOK, GridResponse{
			WorkspaceID: workspaceID,
			Grid:        render.BuildGrid(results),
			Legend:      render.BuildLegend(blocks, results),
		})

	default:
		respondJSON(w, http.StatusOK, GenerateResponse{
			WorkspaceID:    workspaceID,
			Start:          req.Start,
			End:            req.End,
			Results:        toResultResponses(results),
			EvaluationTime: evaluationTime.String(),
		})
	}
}

// Helper functions
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	respondJSON(w, status, resp)
}

// respondDomainError maps domain errors onto HTTP statuses: validation
// and range problems are 400, unknown IDs 404, duplicates 409, anything
// else 500.
func (s *Server) respondDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case workspace.IsValidation(err) || fizzbuzz.IsInvalidRange(err) || fizzbuzz.IsInvalidBlock(err):
		respondError(w, http.StatusBadRequest, message, err)
	case errors.Is(err, workspace.ErrNotFound):
		respondError(w, http.StatusNotFound, message, err)
	case errors.Is(err, workspace.ErrAlreadyExists):
		respondError(w, http.StatusConflict, message, err)
	default:
		s.log.Error(message, "error", err)
		respondError(w, http.StatusInternalServerError, message, err)
	}
}

// openStore builds the Store selected by configuration and returns a
// close function for whatever connection it holds.
func openStore(cfg config.Config) (workspace.Store, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return workspace.NewMemoryStore(), func() {}, nil

	case config.DriverPostgres:
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to ping database: %w", err)
		}
		return workspace.NewPostgresStore(db), func() { db.Close() }, nil

	case config.DriverSQLite:
		store, err := workspace.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	format, err := logger.ParseFormat(cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	logger.Configure(level, format, os.Stderr)

	shutdownTracing, err := telemetry.Setup(context.Background(), cfg.OTELEnabled, cfg.OTELServiceName)
	if err != nil {
		logger.Fatal("failed to set up tracing", "error", err)
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		logger.Fatal("failed to open store", "driver", cfg.StoreDriver, "error", err)
	}
	defer closeStore()

	server, err := NewServer(context.Background(), store, logger.With("component", "server"))
	if err != nil {
		logger.Fatal("failed to create server", "error", err)
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      server,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		logger.Info("server starting", "port", cfg.Port, "store_driver", cfg.StoreDriver)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed to start", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	if err := shutdownTracing(ctx); err != nil {
		logger.Error("tracing shutdown error", "error", err)
	}

	logger.Info("server stopped")
}
