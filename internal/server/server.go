package server

import (
	"context"
	"errors"
	"io/fs"

	"proofmd/internal/crawler"
	"proofmd/internal/extractor"
	"proofmd/internal/preview"
	"proofmd/internal/proof"
	"proofmd/internal/storage"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
)

// Options wires the server to its collaborators.
type Options struct {
	Store     storage.RevisionStore
	Logger    glog.Logger
	Strict    bool   // validate against the JSON Schema as well
	LeanDir   string // source of /api/list-lean-files and file-based extraction
	StaticDir string // served at "/" when set
}

// Server exposes proof conversion, validation and history over HTTP.
type Server struct {
	app       *fiber.App
	store     storage.RevisionStore
	logger    glog.Logger
	strict    bool
	leanDir   string
	extractor *extractor.Extractor
	crawler   *crawler.Crawler
	preview   *preview.Renderer
}

func New(opts Options) (*Server, error) {
	if opts.Logger == nil {
		return nil, errors.New("server: logger is required")
	}
	ext, err := extractor.NewExtractor("lean")
	if err != nil {
		return nil, err
	}

	s := &Server{
		store:     opts.Store,
		logger:    opts.Logger,
		strict:    opts.Strict,
		leanDir:   opts.LeanDir,
		extractor: ext,
		crawler:   crawler.NewCrawler(ext),
		preview:   preview.NewRenderer(false),
	}
	s.app = fiber.New(fiber.Config{
		AppName:               "proofmd",
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	s.routes(opts.StaticDir)
	return s, nil
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App { return s.app }

func (s *Server) Listen(addr string) error {
	s.logger.Info("server listening", "addr", addr, "strict", s.strict)
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) routes(staticDir string) {
	api := s.app.Group("/api")
	api.Post("/validate", s.handleValidate)
	api.Post("/convert-json-to-md", s.handleJSONToMarkdown)
	api.Post("/convert-md-to-json", s.handleMarkdownToJSON)
	api.Post("/preview", s.handlePreview)
	api.Post("/extract-apis", s.handleExtractAPIs)
	api.Get("/list-lean-files", s.handleListLeanFiles)

	if s.store != nil {
		api.Post("/proofs", s.handleSaveProof)
		api.Get("/proofs/:theorem_id", s.handleListRevisions)
		api.Get("/proofs/:theorem_id/latest", s.handleLatestRevision)
		api.Get("/revisions/:id", s.handleGetRevision)
		api.Get("/apis/usage", s.handleAPIUsage)
	}

	if staticDir != "" {
		s.app.Static("/", staticDir)
	}
}

func (s *Server) validate(v any) []string {
	if s.strict {
		return proof.ValidateStrict(v)
	}
	return proof.Validate(v)
}

type errorResponse struct {
	Success bool     `json:"success"`
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var fe *fiber.Error
	switch {
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		status = fiber.StatusNotFound
	case goerrors.IsCategory(err, goerrors.CategoryValidation):
		status = fiber.StatusBadRequest
	case errors.As(err, &fe):
		status = fe.Code
	}

	if status >= fiber.StatusInternalServerError {
		s.logger.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	} else {
		s.logger.Debug("request rejected", "method", c.Method(), "path", c.Path(), "status", status, "error", err)
	}
	return c.Status(status).JSON(errorResponse{Error: err.Error()})
}

func (s *Server) reject(c *fiber.Ctx, message string, details []string) error {
	s.logger.Debug("proof rejected", "path", c.Path(), "errors", len(details))
	return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: message, Details: details})
}
