package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/campusbook/scheduler/internal/importer"
	"github.com/campusbook/scheduler/internal/service"
)

// ImportController exposes the bulk session import.
type ImportController struct {
	imports        *service.ImportService
	meetingEnabled bool
	logger         *zap.Logger
}

func NewImportController(imports *service.ImportService, meetingEnabled bool, logger *zap.Logger) *ImportController {
	return &ImportController{
		imports:        imports,
		meetingEnabled: meetingEnabled,
		logger:         logger,
	}
}

func (c *ImportController) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/sessions/import", c.importSessions)
	api.GET("/sessions/import/headers", c.requiredHeaders)
}

type importRequest struct {
	// CSV is the raw delimited text including the header row.
	CSV       string `json:"csv" binding:"required"`
	Delimiter string `json:"delimiter"`

	// Mapping overrides the default column order when present.
	Mapping *importer.ColumnMapping `json:"mapping"`
}

func (c *ImportController) importSessions(ctx *gin.Context) {
	var req importRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mapping := importer.DefaultMapping()
	if req.Mapping != nil {
		mapping = *req.Mapping
	}

	var delimiter rune
	if req.Delimiter != "" {
		delimiter = []rune(req.Delimiter)[0]
	}

	parser := importer.NewRowParser(mapping, c.meetingEnabled)
	results, err := parser.ParseCSV(strings.NewReader(req.CSV), delimiter)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := c.imports.ImportAll(ctx.Request.Context(), results)
	if err != nil {
		c.logger.Error("Import run failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, summary)
}

func (c *ImportController) requiredHeaders(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"headers": importer.RequiredHeaders(c.meetingEnabled),
	})
}
