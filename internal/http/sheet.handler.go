package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/isvialnva/excel-processor/internal/appcontext"
	"github.com/isvialnva/excel-processor/internal/dataset"
	"github.com/isvialnva/excel-processor/internal/excelio"
)

// ProcessSheet materializes one sheet into its DataTable.
func ProcessSheet(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		sheetID, err := uuid.Parse(c.Param("sheetID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sheet ID"})
			return
		}

		materializer := dataset.NewMaterializer(ctx, excelio.NewReader(ctx))
		table, err := materializer.CreateDataTableFromSheet(sheetID)
		if err != nil {
			status := statusForError(err)
			if errors.Is(err, dataset.ErrSchemaMissing) {
				status = http.StatusConflict
			}
			c.JSON(status, gin.H{"error": "Failed to process sheet: " + err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"table": gin.H{
				"id":         table.ID,
				"table_name": table.TableName,
				"row_count":  table.RowCount,
			},
		})
	}
}
