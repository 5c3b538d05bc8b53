// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/toa-engine/internal/artifact"
	"github.com/pdiddy/toa-engine/internal/pattern"
	"github.com/pdiddy/toa-engine/internal/pincite"
	"github.com/pdiddy/toa-engine/internal/scan"
	"github.com/pdiddy/toa-engine/internal/session"
	"github.com/pdiddy/toa-engine/internal/source"
	"github.com/pdiddy/toa-engine/internal/store"
	"github.com/pdiddy/toa-engine/internal/toa"
	"github.com/pdiddy/toa-engine/pkg/types"
)

// documentRequest names the document to work on: an explicit page map,
// raw text split into pages, or a saved scan.
type documentRequest struct {
	Pages          map[string]string `json:"pages"`
	Text           string            `json:"text"`
	ScanID         string            `json:"scan_id"`
	CustomPatterns []pattern.Rule    `json:"custom_patterns"`
}

type scanRequest struct {
	documentRequest
	Source string `json:"source"`
	Save   bool   `json:"save"`
}

type scanResponse struct {
	ScanID     string              `json:"scan_id,omitempty"`
	TotalPages int                 `json:"total_pages"`
	Citations  []pincite.Annotated `json:"citations"`
	Stats      types.Stats         `json:"stats"`
}

type toaRequest struct {
	documentRequest
	Format          string `json:"format"`
	PassimThreshold int    `json:"passim_threshold"`
	MaxLineLength   int    `json:"max_line_length"`
	DotLeaders      *bool  `json:"dot_leaders"`
	PageCounts      *bool  `json:"page_counts"`
	All             bool   `json:"all"`
	Publish         bool   `json:"publish"`
}

type toaResponse struct {
	Text        string                 `json:"text,omitempty"`
	OOXML       string                 `json:"ooxml,omitempty"`
	Counts      map[types.Category]int `json:"counts"`
	ArtifactKey string                 `json:"artifact_key,omitempty"`
}

type fieldsRequest struct {
	documentRequest
	Leader string `json:"leader"`
	Passim *bool  `json:"passim"`
}

type fieldsResponse struct {
	Marks       []session.Mark `json:"marks"`
	Directives  []string       `json:"directives"`
	MarkedCount int            `json:"marked_count"`
}

type includeRequest struct {
	Included *bool `json:"included"`
}

type scanDetail struct {
	Scan      store.ScanRecord    `json:"scan"`
	Citations []pincite.Annotated `json:"citations"`
	Stats     types.Stats         `json:"stats"`
}

func (s *Server) handleScan(c *gin.Context) {
	var req scanRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	doc, err := s.document(c.Request.Context(), req.documentRequest)
	if err != nil {
		s.fail(c, err)
		return
	}

	resp := scanResponse{
		TotalPages: doc.TotalPages,
		Citations:  pincite.Annotate(doc.Citations),
		Stats:      scan.Stats(doc.Citations),
	}
	if req.Save && req.ScanID == "" {
		if err := s.requireStore(); err != nil {
			s.fail(c, err)
			return
		}
		src := req.Source
		if src == "" {
			src = "api"
		}
		rec, err := s.store.Save(c.Request.Context(), src, doc)
		if err != nil {
			s.fail(c, err)
			return
		}
		resp.ScanID = rec.ID
	} else {
		resp.ScanID = req.ScanID
	}
	ok(c, http.StatusOK, resp)
}

func (s *Server) handleTOA(c *gin.Context) {
	var req toaRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}

	cfg := s.cfg.Format
	if req.PassimThreshold > 0 {
		cfg.PassimThreshold = req.PassimThreshold
	}
	if req.MaxLineLength > 0 {
		cfg.MaxLineLength = req.MaxLineLength
	}
	if req.DotLeaders != nil {
		cfg.UseDotLeaders = *req.DotLeaders
	}
	if req.PageCounts != nil {
		cfg.IncludePageCounts = *req.PageCounts
	}
	if req.All {
		cfg.OnlyIncluded = false
	}
	switch req.Format {
	case "", "text":
		cfg.AsOOXML = false
	case "ooxml":
		cfg.AsOOXML = true
	case "preview":
	default:
		s.fail(c, badRequest("INVALID_FORMAT", fmt.Sprintf("unsupported format %q: use text, ooxml or preview", req.Format)))
		return
	}
	if req.Publish {
		if s.artifacts == nil {
			s.fail(c, &apiError{status: http.StatusServiceUnavailable, code: "PUBLISH_DISABLED", message: "artifact storage is not configured"})
			return
		}
	}

	doc, err := s.document(c.Request.Context(), req.documentRequest)
	if err != nil {
		s.fail(c, err)
		return
	}

	var rendered string
	if req.Format == "preview" {
		rendered = toa.Preview(doc.Citations, cfg)
	} else {
		rendered = toa.Generate(doc.Citations, cfg)
	}

	resp := toaResponse{Counts: toa.Counts(doc.Citations)}
	if cfg.AsOOXML && req.Format != "preview" {
		resp.OOXML = rendered
	} else {
		resp.Text = rendered
	}

	if req.Publish {
		name := req.ScanID
		if name == "" {
			name = "api"
		}
		key, err := artifact.Publish(c.Request.Context(), s.artifacts, name, rendered, resp.OOXML != "")
		if err != nil {
			s.fail(c, err)
			return
		}
		resp.ArtifactKey = key
	}
	ok(c, http.StatusOK, resp)
}

func (s *Server) handleFields(c *gin.Context) {
	var req fieldsRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	doc, err := s.document(c.Request.Context(), req.documentRequest)
	if err != nil {
		s.fail(c, err)
		return
	}

	passim := req.Passim == nil || *req.Passim
	var ss session.Session
	marks := ss.Plan(doc.Citations)
	if marks == nil {
		marks = []session.Mark{}
	}
	directives := pincite.Directives(doc.Citations, passim, req.Leader)
	if directives == nil {
		directives = []string{}
	}
	ok(c, http.StatusOK, fieldsResponse{
		Marks:       marks,
		Directives:  directives,
		MarkedCount: ss.MarkedCount,
	})
}

func (s *Server) handleListScans(c *gin.Context) {
	if err := s.requireStore(); err != nil {
		s.fail(c, err)
		return
	}
	limit, err := intQuery(c, "limit")
	if err != nil {
		s.fail(c, err)
		return
	}
	recs, err := s.store.List(c.Request.Context(), limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	if recs == nil {
		recs = []store.ScanRecord{}
	}
	ok(c, http.StatusOK, recs)
}

func (s *Server) handleGetScan(c *gin.Context) {
	if err := s.requireStore(); err != nil {
		s.fail(c, err)
		return
	}
	ctx := c.Request.Context()
	id := c.Param("id")
	rec, err := s.store.Record(ctx, id)
	if err != nil {
		s.fail(c, err)
		return
	}
	doc, err := s.store.Scan(ctx, id)
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, scanDetail{
		Scan:      rec,
		Citations: pincite.Annotate(doc.Citations),
		Stats:     scan.Stats(doc.Citations),
	})
}

func (s *Server) handleExport(c *gin.Context) {
	if err := s.requireStore(); err != nil {
		s.fail(c, err)
		return
	}
	var (
		buf         bytes.Buffer
		err         error
		contentType string
	)
	ctx := c.Request.Context()
	switch format := c.DefaultQuery("format", "yaml"); format {
	case "yaml":
		contentType = "application/yaml"
		err = s.store.ExportYAML(ctx, c.Param("id"), &buf)
	case "json":
		contentType = "application/json"
		err = s.store.ExportJSON(ctx, c.Param("id"), &buf)
	default:
		err = badRequest("INVALID_FORMAT", fmt.Sprintf("unsupported format %q: use yaml or json", format))
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func (s *Server) handleSetIncluded(c *gin.Context) {
	if err := s.requireStore(); err != nil {
		s.fail(c, err)
		return
	}
	var req includeRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	if req.Included == nil {
		s.fail(c, badRequest("MISSING_FIELD", "included is required"))
		return
	}
	scanID, cid := c.Param("id"), c.Param("cid")
	if err := s.store.SetIncluded(c.Request.Context(), scanID, cid, *req.Included); err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"scan_id": scanID, "citation_id": cid, "included": *req.Included})
}

func (s *Server) handleSearch(c *gin.Context) {
	if err := s.requireStore(); err != nil {
		s.fail(c, err)
		return
	}
	opts := store.QueryOptions{
		Query:  c.Query("q"),
		ScanID: c.Query("scan_id"),
	}
	if name := c.Query("category"); name != "" {
		cat, err := types.ParseCategory(name)
		if err != nil {
			s.fail(c, badRequest("INVALID_CATEGORY", err.Error()))
			return
		}
		opts.Category = cat
	}
	if v := c.Query("short_forms"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			s.fail(c, badRequest("INVALID_QUERY", "short_forms must be a boolean"))
			return
		}
		opts.ShortForms = b
	}
	limit, err := intQuery(c, "limit")
	if err != nil {
		s.fail(c, err)
		return
	}
	opts.MaxResults = limit

	results, err := s.store.Search(c.Request.Context(), opts)
	if err != nil {
		s.fail(c, err)
		return
	}
	if results == nil {
		results = []store.Result{}
	}
	ok(c, http.StatusOK, results)
}

// document resolves a request to a scanned document. A request must name
// exactly one of pages, text or scan_id; naming nothing is an absent page
// map.
func (s *Server) document(ctx context.Context, req documentRequest) (*types.ParsedDocument, error) {
	named := 0
	for _, set := range []bool{req.Pages != nil, req.Text != "", req.ScanID != ""} {
		if set {
			named++
		}
	}
	if named > 1 {
		return nil, badRequest("AMBIGUOUS_DOCUMENT", "give exactly one of pages, text or scan_id")
	}

	if req.ScanID != "" {
		if len(req.CustomPatterns) > 0 {
			return nil, badRequest("AMBIGUOUS_DOCUMENT", "custom_patterns cannot be applied to a saved scan")
		}
		if err := s.requireStore(); err != nil {
			return nil, err
		}
		return s.store.Scan(ctx, req.ScanID)
	}

	opts := s.scanOpts
	if len(req.CustomPatterns) > 0 {
		extra, err := pattern.CompileRules(req.CustomPatterns)
		if err != nil {
			return nil, err
		}
		opts.Patterns = append(append([]pattern.Pattern{}, opts.Patterns...), extra...)
	}

	switch {
	case req.Pages != nil:
		pages, err := pageMap(req.Pages)
		if err != nil {
			return nil, err
		}
		return scan.Document(pages, opts)
	case req.Text != "":
		return scan.Document(source.Split(req.Text, opts.CharsPerPage), opts)
	default:
		return nil, scan.ErrNoPageMap
	}
}

func (s *Server) requireStore() error {
	if s.store == nil {
		return &apiError{status: http.StatusServiceUnavailable, code: "HISTORY_DISABLED", message: "scan history is not enabled"}
	}
	return nil
}

func pageMap(raw map[string]string) (types.PageMap, error) {
	pages := make(types.PageMap, len(raw))
	for k, v := range raw {
		n, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil || n < 1 {
			return nil, badRequest("INVALID_PAGE", fmt.Sprintf("page key %q is not a positive integer", k))
		}
		pages[n] = v
	}
	return pages, nil
}

func intQuery(c *gin.Context, name string) (int, error) {
	v := c.Query(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, badRequest("INVALID_QUERY", fmt.Sprintf("%s must be a non-negative integer", name))
	}
	return n, nil
}

// apiError carries an explicit status and error code to the client.
type apiError struct {
	status  int
	code    string
	message string
}

func (e *apiError) Error() string { return e.message }

func badRequest(code, message string) error {
	return &apiError{status: http.StatusBadRequest, code: code, message: message}
}

func bind(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return badRequest("INVALID_REQUEST", err.Error())
	}
	return nil
}

func ok(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func (s *Server) fail(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "INTERNAL"
	var (
		ae       *apiError
		tooLarge *http.MaxBytesError
	)
	switch {
	case errors.As(err, &ae):
		status, code = ae.status, ae.code
	case errors.As(err, &tooLarge):
		status, code = http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE"
	case errors.Is(err, scan.ErrNoPageMap):
		status, code = http.StatusBadRequest, "NO_PAGE_MAP"
	case errors.Is(err, pattern.ErrInvalidPattern):
		status, code = http.StatusBadRequest, "INVALID_PATTERN"
	case errors.Is(err, store.ErrNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	}
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": err.Error(),
		},
	})
}
