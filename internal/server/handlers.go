package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"proofmd/internal/proof"
	"proofmd/internal/storage"

	"github.com/gofiber/fiber/v2"
)

type proofRequest struct {
	Proof    json.RawMessage `json:"proof"`
	Markdown *string         `json:"markdown"`
}

type extractRequest struct {
	Code *string `json:"code"`
	File string  `json:"file"`
}

func decodeBody(c *fiber.Ctx, dst any) error {
	if err := json.Unmarshal(c.Body(), dst); err != nil {
		return wrapRequestError(err)
	}
	return nil
}

// proofValue decodes the raw "proof" member into the generic form the
// validator and renderer work on.
func (r proofRequest) proofValue() (any, bool, error) {
	raw := bytes.TrimSpace(r.Proof)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, false, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false, wrapRequestError(err)
	}
	return v, true, nil
}

func (s *Server) handleValidate(c *fiber.Ctx) error {
	var req proofRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	v, ok, err := req.proofValue()
	if err != nil {
		return err
	}
	if !ok {
		return s.reject(c, "missing 'proof'", nil)
	}

	errs := s.validate(v)
	if errs == nil {
		errs = []string{}
	}
	return c.JSON(fiber.Map{"success": true, "valid": len(errs) == 0, "errors": errs})
}

func (s *Server) handleJSONToMarkdown(c *fiber.Ctx) error {
	var req proofRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	v, ok, err := req.proofValue()
	if err != nil {
		return err
	}
	if !ok {
		return s.reject(c, "missing 'proof'", nil)
	}
	if errs := s.validate(v); len(errs) > 0 {
		return s.reject(c, "invalid proof JSON", errs)
	}
	return c.JSON(fiber.Map{"success": true, "markdown": proof.Render(v)})
}

func (s *Server) handleMarkdownToJSON(c *fiber.Ctx) error {
	var req proofRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	if req.Markdown == nil {
		return s.reject(c, "missing 'markdown'", nil)
	}

	doc, errs, err := s.parseMarkdown(*req.Markdown)
	if err != nil {
		return s.reject(c, err.Error(), []string{err.Error()})
	}
	if len(errs) > 0 {
		return s.reject(c, "parsed proof is invalid", errs)
	}
	return c.JSON(fiber.Map{"success": true, "proof": doc})
}

// parseMarkdown parses and re-validates proof Markdown. A parse failure is
// returned as err; validation problems of the parsed document as errs.
func (s *Server) parseMarkdown(text string) (*proof.Document, []string, error) {
	doc, err := proof.Parse(text)
	if err != nil {
		return nil, nil, err
	}
	return doc, s.validate(doc.Value()), nil
}

func (s *Server) handlePreview(c *fiber.Ctx) error {
	var req proofRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	var markdown string
	switch v, ok, err := req.proofValue(); {
	case err != nil:
		return err
	case ok:
		if errs := s.validate(v); len(errs) > 0 {
			return s.reject(c, "invalid proof JSON", errs)
		}
		markdown = proof.Render(v)
	case req.Markdown != nil:
		markdown = *req.Markdown
	default:
		return s.reject(c, "missing 'proof' or 'markdown'", nil)
	}

	html, err := s.preview.HTML(markdown)
	if err != nil {
		return wrapPreviewError(err)
	}
	return c.JSON(fiber.Map{"success": true, "html": html})
}

func (s *Server) handleExtractAPIs(c *fiber.Ctx) error {
	var req extractRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	var apis []string
	switch {
	case req.Code != nil:
		apis = s.extractor.ExtractFromSource(*req.Code)
	case req.File != "":
		path, err := s.leanPath(req.File)
		if err != nil {
			return err
		}
		found, err := s.extractor.ExtractFromFile(path)
		if err != nil {
			return err
		}
		apis = found
	default:
		return s.reject(c, "No code or file provided", nil)
	}

	return c.JSON(fiber.Map{"success": true, "count": len(apis), "apis": apis})
}

// leanPath resolves a client-supplied file name inside the Lean directory.
// Without a configured directory no file is readable.
func (s *Server) leanPath(name string) (string, error) {
	if s.leanDir == "" {
		return "", fmt.Errorf("file %s: %w", name, fs.ErrNotExist)
	}
	root, err := filepath.Abs(s.leanDir)
	if err != nil {
		return "", wrapWorkspaceError(err)
	}
	path := filepath.Join(root, filepath.Clean("/"+name))
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("file %s: %w", name, fs.ErrNotExist)
	}
	return path, nil
}

func (s *Server) handleListLeanFiles(c *fiber.Ctx) error {
	files := []string{}
	if s.leanDir != "" {
		listed, err := s.crawler.ListFiles(s.leanDir)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return wrapWorkspaceError(err)
		case listed != nil:
			files = listed
		}
	}
	return c.JSON(fiber.Map{"success": true, "files": files})
}

func (s *Server) handleSaveProof(c *fiber.Ctx) error {
	var req proofRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	rev := &storage.Revision{}
	switch v, ok, err := req.proofValue(); {
	case err != nil:
		return err
	case ok:
		if errs := s.validate(v); len(errs) > 0 {
			return s.reject(c, "invalid proof JSON", errs)
		}
		compact, err := json.Marshal(v)
		if err != nil {
			return wrapRequestError(err)
		}
		rev.Format = storage.FormatJSON
		rev.Content = string(compact)
		rev.TheoremID = proof.TheoremIDOf(v)
		rev.APIs = proof.APIRefsOf(v)
	case req.Markdown != nil:
		doc, errs, err := s.parseMarkdown(*req.Markdown)
		if err != nil {
			return s.reject(c, err.Error(), []string{err.Error()})
		}
		if len(errs) > 0 {
			return s.reject(c, "parsed proof is invalid", errs)
		}
		// Parsed documents hold no empty steps, so step numbers are the
		// positions a canonical re-render of the document shows.
		rev.Format = storage.FormatMarkdown
		rev.Content = *req.Markdown
		rev.TheoremID = doc.TheoremID
		rev.APIs = doc.APIRefs()
	default:
		return s.reject(c, "missing 'proof' or 'markdown'", nil)
	}

	if rev.TheoremID == "" {
		return s.reject(c, "proof has no usable theorem_id", nil)
	}
	if err := s.store.SaveRevision(c.UserContext(), rev); err != nil {
		return wrapStorageError(err)
	}
	s.logger.Info("revision saved", "theorem_id", rev.TheoremID, "revision_id", rev.ID, "format", rev.Format, "apis", len(rev.APIs))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "revision": rev})
}

func (s *Server) handleListRevisions(c *fiber.Ctx) error {
	revs, err := s.store.ListRevisions(c.UserContext(), c.Params("theorem_id"))
	if err != nil {
		return wrapStorageError(err)
	}
	if revs == nil {
		revs = []storage.Revision{}
	}
	return c.JSON(fiber.Map{"success": true, "revisions": revs})
}

func (s *Server) handleLatestRevision(c *fiber.Ctx) error {
	rev, err := s.store.LatestRevision(c.UserContext(), c.Params("theorem_id"))
	if errors.Is(err, storage.ErrNotFound) {
		return err
	}
	if err != nil {
		return wrapStorageError(err)
	}
	return c.JSON(fiber.Map{"success": true, "revision": rev})
}

func (s *Server) handleGetRevision(c *fiber.Ctx) error {
	rev, err := s.store.GetRevision(c.UserContext(), c.Params("id"))
	if errors.Is(err, storage.ErrNotFound) {
		return err
	}
	if err != nil {
		return wrapStorageError(err)
	}
	return c.JSON(fiber.Map{"success": true, "revision": rev})
}

func (s *Server) handleAPIUsage(c *fiber.Ctx) error {
	name := c.Query("name")
	if name == "" {
		return s.reject(c, "missing 'name' query parameter", nil)
	}
	usage, err := s.store.FindAPIUsage(c.UserContext(), name)
	if err != nil {
		return wrapStorageError(err)
	}
	if usage == nil {
		usage = []storage.APIUsage{}
	}
	return c.JSON(fiber.Map{"success": true, "name": name, "usage": usage})
}
