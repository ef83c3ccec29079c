package analysis

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"vdr-backend/internal/archive"
	"vdr-backend/internal/shared/server/respond"
	"vdr-backend/internal/shared/telemetry"
)

// Handler wires the analysis pipeline to HTTP.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.health)
	rg.POST("/analyse", h.analyse)
}

func (h *Handler) health(c *gin.Context) {
	respond.OK(c, gin.H{"message": "VDR Lite API is running", "status": "healthy"})
}

// analyse accepts a ZIP upload, extracts it into a temp workspace, and
// runs the full pipeline. Validation failures reject the request before
// the batch starts; once the batch runs, the caller always gets a full
// BatchResult.
func (h *Handler) analyse(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".zip") {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Only ZIP files are allowed", nil)
		return
	}

	telemetry.Info("analyse.upload", map[string]any{
		"file": fileHeader.Filename,
		"size": fileHeader.Size,
	})

	workDir, err := os.MkdirTemp("", "vdr-batch-*")
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to create workspace", nil)
		return
	}
	defer os.RemoveAll(workDir)

	zipPath := filepath.Join(workDir, "upload.zip")
	if err := c.SaveUploadedFile(fileHeader, zipPath); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read upload", nil)
		return
	}

	if err := archive.Validate(zipPath); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	extractDir := filepath.Join(workDir, "extracted")
	if _, err := archive.Extract(zipPath, extractDir); err != nil {
		if errors.Is(err, archive.ErrInvalidArchive) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to extract archive", nil)
		return
	}

	result, err := h.Svc.AnalyzeDirectory(c.Request.Context(), extractDir)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "analysis failed", err.Error())
		return
	}
	respond.OK(c, result)
}
