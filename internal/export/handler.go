package export

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vdr-backend/internal/analysis"
	"vdr-backend/internal/shared/server/respond"
)

const exportFilename = "vdr_summary.md"

// Handler serves the Markdown export of a batch result.
type Handler struct{}

// NewHandler constructs a Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// RegisterRoutes attaches export routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/export", h.export)
}

// export accepts an analysis result and responds with the rendered
// Markdown report as a file attachment.
func (h *Handler) export(c *gin.Context) {
	var res analysis.BatchResult
	if err := c.ShouldBindJSON(&res); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	report := MarkdownReport(&res)
	c.Header("Content-Disposition", "attachment; filename="+exportFilename)
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(report))
}
