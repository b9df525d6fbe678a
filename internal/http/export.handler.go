package http

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/isvialnva/excel-processor/internal/appcontext"
	"github.com/isvialnva/excel-processor/internal/entity"
	"github.com/isvialnva/excel-processor/internal/export"
)

type exportRequest struct {
	Format string `json:"format"`
}

// ExportTable produces a new export artifact for a materialized table.
func ExportTable(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		tableID, err := uuid.Parse(c.Param("tableID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid table ID"})
			return
		}

		var req exportRequest
		if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if req.Format == "" {
			req.Format = string(entity.FormatParquet)
		}
		format, ok := entity.ParseExportFormat(req.Format)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported export format: " + req.Format})
			return
		}

		tableExport, err := export.NewService(ctx).Export(tableID, format)
		if err != nil {
			if errors.Is(err, export.ErrUnsupportedFormat) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export table"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"export": gin.H{
				"id":        tableExport.ID,
				"format":    tableExport.Format,
				"path":      tableExport.Path,
				"file_size": tableExport.FileSize,
				"size":      tableExport.FileSizeDisplay(),
			},
		})
	}
}

// GetTableExports lists the export history of a table, newest first.
func GetTableExports(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		tableID, err := uuid.Parse(c.Param("tableID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid table ID"})
			return
		}

		var exports []entity.TableExport
		if err := ctx.DB.Where("table_id = ?", tableID).
			Order("created_at DESC").Find(&exports).Error; err != nil {
			ctx.Logger.Error("Failed to fetch exports", zap.String("table_id", tableID.String()), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch exports"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"exports": exports})
	}
}

// DownloadExport streams an export artifact as an attachment.
func DownloadExport(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		exportID, err := uuid.Parse(c.Param("exportID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid export ID"})
			return
		}

		var tableExport entity.TableExport
		if err := ctx.DB.Where("id = ?", exportID).First(&tableExport).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Export not found"})
			return
		}

		abs := filepath.Join(ctx.MediaRoot, filepath.FromSlash(tableExport.Path))
		c.FileAttachment(abs, filepath.Base(abs))
	}
}
