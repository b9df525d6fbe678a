package http

import (
	"errors"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/isvialnva/excel-processor/internal/appcontext"
	"github.com/isvialnva/excel-processor/internal/entity"
	"github.com/isvialnva/excel-processor/internal/excelio"
	"github.com/isvialnva/excel-processor/internal/schema"
)

// UploadFile stores the spreadsheet, discovers its sheets, and detects the
// column schema of every sheet, mirroring the upload flow end to end.
func UploadFile(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			ctx.Logger.Error("Failed to get file from request", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to get file from request"})
			return
		}
		if !isSpreadsheetFile(fileHeader) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file type, only Excel workbooks are allowed"})
			return
		}

		name := c.PostForm("name")
		if name == "" {
			name = fileHeader.Filename
		}

		src, err := fileHeader.Open()
		if err != nil {
			ctx.Logger.Error("Failed to open uploaded file", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open uploaded file"})
			return
		}
		defer src.Close()

		store := excelio.NewStore(ctx)
		path, err := store.Save(fileHeader.Filename, src)
		if err != nil {
			ctx.Logger.Error("Failed to store uploaded file", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store uploaded file"})
			return
		}

		file := entity.ExcelFile{
			Name:        name,
			Description: c.PostForm("description"),
			Path:        path,
		}
		if err := ctx.DB.Create(&file).Error; err != nil {
			ctx.Logger.Error("Failed to create file record", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create file record"})
			return
		}

		sheets, err := excelio.NewDiscovery(ctx).SyncSheets(file.ID)
		if err != nil {
			// The record stays so the failure is inspectable on its error field.
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "Failed to read sheets from file: " + err.Error(),
				"file_id": file.ID,
			})
			return
		}

		builder := schema.NewBuilder(ctx, excelio.NewReader(ctx))
		for _, sheet := range sheets {
			if _, err := builder.DetectColumnTypes(sheet.ID); err != nil {
				c.JSON(http.StatusUnprocessableEntity, gin.H{
					"error":   "Failed to detect column types for sheet " + sheet.Name + ": " + err.Error(),
					"file_id": file.ID,
				})
				return
			}
		}

		c.JSON(http.StatusCreated, gin.H{"file": file, "sheets": sheets})
	}
}

func GetFiles(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		var files []entity.ExcelFile
		if err := ctx.DB.Order("uploaded_at DESC").Find(&files).Error; err != nil {
			ctx.Logger.Error("Failed to fetch files", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch files"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"files": files})
	}
}

func GetFile(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileID, err := uuid.Parse(c.Param("fileID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file ID"})
			return
		}

		var file entity.ExcelFile
		if err := ctx.DB.Preload("Sheets.Columns").Where("id = ?", fileID).First(&file).Error; err != nil {
			ctx.Logger.Error("Failed to fetch file", zap.String("file_id", fileID.String()), zap.Error(err))
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"file": file})
	}
}

// DeleteFile removes the record and the stored spreadsheet behind it.
func DeleteFile(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileID, err := uuid.Parse(c.Param("fileID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file ID"})
			return
		}

		var file entity.ExcelFile
		if err := ctx.DB.Where("id = ?", fileID).First(&file).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
			return
		}

		if err := excelio.NewStore(ctx).Remove(file.Path); err != nil {
			ctx.Logger.Error("Failed to remove stored file",
				zap.String("file_id", fileID.String()), zap.String("path", file.Path), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove stored file"})
			return
		}

		if err := ctx.DB.Select("Sheets").Delete(&file).Error; err != nil {
			ctx.Logger.Error("Failed to delete file record", zap.String("file_id", fileID.String()), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete file record"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "File deleted"})
	}
}

func isSpreadsheetFile(file *multipart.FileHeader) bool {
	switch strings.ToLower(filepath.Ext(file.Filename)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return true
	}
	return false
}

// statusForError maps core error kinds onto HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, excelio.ErrSourceRead):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
