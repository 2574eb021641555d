package workspace

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"latexme/internal/extract"
	"latexme/internal/shared/metrics"
	"latexme/internal/shared/server/middleware"
	"latexme/internal/shared/server/respond"
	"latexme/internal/shared/telemetry"
	"latexme/internal/shared/util"
)

const defaultMaxUploadBytes = 10 << 20

// Handler wires HTTP handlers to the workspace service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches workspace routes to rg, which is expected to be
// mounted at /workspaces behind the Identity middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.create)
	rg.GET("/:id", h.get)
	rg.DELETE("/:id", h.delete)
	rg.PUT("/:id/inputs", h.updateInputs)
	rg.POST("/:id/experience/upload", h.uploadExperience)
	rg.POST("/:id/generate", h.generate)
	rg.POST("/:id/ask", h.ask)
	rg.GET("/:id/document", h.downloadDocument)
}

func (h *Handler) create(c *gin.Context) {
	ws, err := h.Svc.Create(requestContext(c), middleware.OwnerIDFromContext(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Set(middleware.WorkspaceIDKey, ws.ID)
	respond.JSON(c, http.StatusCreated, ws)
}

func (h *Handler) get(c *gin.Context) {
	id := workspaceID(c)
	ws, err := h.Svc.Get(requestContext(c), middleware.OwnerIDFromContext(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, ws)
}

func (h *Handler) delete(c *gin.Context) {
	id := workspaceID(c)
	if err := h.Svc.Delete(requestContext(c), middleware.OwnerIDFromContext(c), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) updateInputs(c *gin.Context) {
	id := workspaceID(c)
	in, ok := bindInputs(c)
	if !ok {
		return
	}
	ws, err := h.Svc.UpdateInputs(requestContext(c), middleware.OwnerIDFromContext(c), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, ws)
}

func (h *Handler) generate(c *gin.Context) {
	id := workspaceID(c)
	c.Set(middleware.UseCaseKey, metrics.UseCaseDocument)
	in, ok := bindInputs(c)
	if !ok {
		return
	}
	ws, err := h.Svc.RequestDocumentGeneration(requestContext(c), middleware.OwnerIDFromContext(c), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Set(middleware.OutcomeKey, "pending")
	respond.JSON(c, http.StatusAccepted, ws)
}

func (h *Handler) ask(c *gin.Context) {
	id := workspaceID(c)
	c.Set(middleware.UseCaseKey, metrics.UseCaseAnswer)
	in, ok := bindInputs(c)
	if !ok {
		return
	}
	ws, started, err := h.Svc.RequestAnswer(requestContext(c), middleware.OwnerIDFromContext(c), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !started {
		c.Set(middleware.OutcomeKey, "noop")
		respond.OK(c, ws)
		return
	}
	c.Set(middleware.OutcomeKey, "pending")
	respond.JSON(c, http.StatusAccepted, ws)
}

func (h *Handler) downloadDocument(c *gin.Context) {
	id := workspaceID(c)
	ws, err := h.Svc.Get(requestContext(c), middleware.OwnerIDFromContext(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if strings.TrimSpace(ws.State.Document) == "" {
		respond.Error(c, http.StatusNotFound, "not_found", "No resume has been generated yet.", nil)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="resume.tex"`)
	c.Data(http.StatusOK, "application/x-tex; charset=utf-8", []byte(ws.State.Document))
}

func (h *Handler) uploadExperience(c *gin.Context) {
	id := workspaceID(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes+(1<<20))

	fh, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "validation_error", "file is too large", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", []map[string]string{
			{"field": "file", "issue": "required"},
		})
		return
	}
	if fh.Size > h.MaxUploadBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "validation_error", "file is too large", nil)
		return
	}
	fileName, err := util.SanitizeFileName(fh.Filename)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid file name", nil)
		return
	}

	f, err := fh.Open()
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read upload", nil)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, h.MaxUploadBytes+1))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read upload", nil)
		return
	}

	ctx := requestContext(c)
	text, err := extract.Text(ctx, data, fh.Header.Get("Content-Type"), fileName)
	if err != nil {
		telemetry.Warn("upload.extract_failed", map[string]any{
			"request_id":   middleware.RequestIDFromContext(c),
			"workspace_id": id,
			"file_name":    fileName,
			"size_bytes":   fh.Size,
			"err":          err.Error(),
		})
		switch {
		case errors.Is(err, extract.ErrUnsupported):
			respond.Error(c, http.StatusUnsupportedMediaType, "validation_error", "Upload a PDF, DOCX or plain text file.", nil)
		default:
			respond.Error(c, http.StatusUnprocessableEntity, "validation_error", "Could not read any text from this file.", nil)
		}
		return
	}

	ws, err := h.Svc.UpdateInputs(ctx, middleware.OwnerIDFromContext(c), id, Inputs{RawExperience: &text})
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, gin.H{
		"workspace":      ws,
		"fileName":       fileName,
		"extractedChars": utf8.RuneCountInString(text),
	})
}

func (h *Handler) fail(c *gin.Context, err error) {
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		c.Set(middleware.OutcomeKey, "rejected")
		details := make([]map[string]string, 0, len(vErr.Fields))
		for _, f := range vErr.Fields {
			details = append(details, map[string]string{"field": f, "issue": "required"})
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", vErr.Message, details)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "workspace not found", nil)
	case errors.Is(err, ErrOwnerMissing):
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing identity", nil)
	default:
		telemetry.Error("workspace.request_failed", map[string]any{
			"request_id": middleware.RequestIDFromContext(c),
			"err":        err.Error(),
		})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "unexpected error", nil)
	}
}

// bindInputs reads an optional JSON body. An empty body means no changes.
func bindInputs(c *gin.Context) (Inputs, bool) {
	var in Inputs
	if err := c.ShouldBindJSON(&in); err != nil && !errors.Is(err, io.EOF) {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return Inputs{}, false
	}
	return in, true
}

func workspaceID(c *gin.Context) string {
	id := c.Param("id")
	c.Set(middleware.WorkspaceIDKey, id)
	return id
}

func requestContext(c *gin.Context) context.Context {
	return WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
}
