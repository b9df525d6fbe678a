package http

import (
	"github.com/gin-gonic/gin"

	"github.com/isvialnva/excel-processor/internal/appcontext"
	"github.com/isvialnva/excel-processor/internal/http/middleware"
)

type APIService struct {
	engine  *gin.Engine
	context *appcontext.Context
}

func NewHTTPService(ctx *appcontext.Context) *APIService {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORSMiddleware())

	service := &APIService{
		engine:  engine,
		context: ctx,
	}
	service.setupRoutes()
	return service
}

func (h *APIService) Engine() *gin.Engine {
	return h.engine
}

func (h *APIService) setupRoutes() {
	v1 := h.engine.Group("/api/v1")
	h.setupFileRoutes(v1)
	h.setupSheetRoutes(v1)
	h.setupTableRoutes(v1)
	h.setupExportRoutes(v1)
}

func (h *APIService) setupFileRoutes(rg *gin.RouterGroup) {
	files := rg.Group("/files")
	files.POST("", UploadFile(h.context))
	files.GET("", GetFiles(h.context))
	files.GET("/:fileID", GetFile(h.context))
	files.DELETE("/:fileID", DeleteFile(h.context))
}

func (h *APIService) setupSheetRoutes(rg *gin.RouterGroup) {
	sheets := rg.Group("/sheets")
	sheets.POST("/:sheetID/process", ProcessSheet(h.context))
}

func (h *APIService) setupTableRoutes(rg *gin.RouterGroup) {
	tables := rg.Group("/tables")
	tables.GET("/:tableID/data", GetTableData(h.context))
	tables.POST("/:tableID/exports", ExportTable(h.context))
	tables.GET("/:tableID/exports", GetTableExports(h.context))
}

func (h *APIService) setupExportRoutes(rg *gin.RouterGroup) {
	exports := rg.Group("/exports")
	exports.GET("/:exportID/download", DownloadExport(h.context))
}
