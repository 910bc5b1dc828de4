package handler

import (
	"net/http"

	"regulariza/internal/middleware"
	"regulariza/internal/model"
	"regulariza/internal/service"
	"regulariza/pkg/pagination"
	"regulariza/pkg/response"

	"github.com/gin-gonic/gin"
)

type ProcessHandler struct {
	processService  service.ProcessService
	timelineService service.TimelineService
	statsService    service.StatsService
	exportService   service.ExportService
}

func NewProcessHandler(
	processService service.ProcessService,
	timelineService service.TimelineService,
	statsService service.StatsService,
	exportService service.ExportService,
) *ProcessHandler {
	return &ProcessHandler{
		processService:  processService,
		timelineService: timelineService,
		statsService:    statsService,
		exportService:   exportService,
	}
}

func (h *ProcessHandler) RegisterRoutes(router *gin.RouterGroup) {
	adminOnly := middleware.RequireRole(model.RoleAdmin)
	anyRole := middleware.RequireRole(model.RoleAdmin, model.RoleClient)

	processes := router.Group("/api/processes")
	{
		processes.POST("", adminOnly, h.Create)
		processes.GET("", anyRole, h.List)
		processes.GET("/:id", anyRole, h.Get)
		processes.PATCH("/:id/status", adminOnly, h.UpdateStatus)
		processes.POST("/:id/close", adminOnly, h.Close)
		processes.DELETE("/:id", adminOnly, h.Delete)

		processes.GET("/:id/timeline", anyRole, h.Timeline)
		processes.GET("/:id/stats", anyRole, h.Stats)
		processes.GET("/:id/export/pdf", adminOnly, h.ExportPDF)
		processes.GET("/:id/export/csv", adminOnly, h.ExportCSV)

		processes.POST("/:id/files", anyRole, h.AttachFile)
		processes.DELETE("/:id/files/:fileId", anyRole, h.RemoveFile)
	}
}

// Create opens a new regularization case
// @Summary      Create process
// @Description  Creates a process, optionally seeding requirements from a template list
// @Tags         processes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateProcessRequest  true  "Create Process Payload"
// @Success      201      {object}  response.Response{data=service.ProcessResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/processes [post]
func (h *ProcessHandler) Create(c *gin.Context) {
	var req service.CreateProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.processService.Create(c.Request.Context(), middleware.CurrentActor(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// List returns processes visible to the caller
// @Summary      List processes
// @Description  Admins see every process; clients only their own
// @Tags         processes
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status"
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Page size"
// @Success      200     {object}  response.Response
// @Router       /api/processes [get]
func (h *ProcessHandler) List(c *gin.Context) {
	params := pagination.Parse(c)

	filter := service.ProcessFilter{
		Status: c.Query("status"),
		Page:   params.Page,
		Limit:  params.Limit,
	}

	processes, total, err := h.processService.List(c.Request.Context(), middleware.CurrentActor(c), filter)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   processes,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	})
}

// Get returns the full aggregate view
// @Summary      Get process
// @Tags         processes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Process ID"
// @Success      200  {object}  response.Response{data=service.ProcessResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/processes/{id} [get]
func (h *ProcessHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	result, err := h.processService.Get(c.Request.Context(), middleware.CurrentActor(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// UpdateStatus moves the process through its lifecycle
// @Summary      Update process status
// @Tags         processes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                              true  "Process ID"
// @Param        payload  body      service.UpdateProcessStatusRequest  true  "New status"
// @Success      200      {object}  response.Response{data=service.ProcessResponse}
// @Failure      409      {object}  response.Response
// @Router       /api/processes/{id}/status [patch]
func (h *ProcessHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req service.UpdateProcessStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.processService.UpdateStatus(c.Request.Context(), middleware.CurrentActor(c), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// Close concludes the process
// @Summary      Close process
// @Description  Marks the process concluded; a second close is rejected
// @Tags         processes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                       true   "Process ID"
// @Param        payload  body      service.CloseProcessRequest  false  "Closing notes"
// @Success      200      {object}  response.Response{data=service.ProcessResponse}
// @Failure      422      {object}  response.Response
// @Router       /api/processes/{id}/close [post]
func (h *ProcessHandler) Close(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req service.CloseProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Empty body is fine — notes are optional
		req.Notes = ""
	}

	result, err := h.processService.Close(c.Request.Context(), middleware.CurrentActor(c), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// Delete removes the process, its children and their stored files
// @Summary      Delete process
// @Tags         processes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Process ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/processes/{id} [delete]
func (h *ProcessHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.processService.Delete(c.Request.Context(), middleware.CurrentActor(c), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "processo removido"}))
}

// Timeline returns the audit history newest-first
// @Summary      Process timeline
// @Tags         processes
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "Process ID"
// @Param        page   query     int     false  "Page number"
// @Param        limit  query     int     false  "Page size"
// @Success      200    {object}  response.Response
// @Router       /api/processes/{id}/timeline [get]
func (h *ProcessHandler) Timeline(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	params := pagination.Parse(c)

	entries, total, err := h.timelineService.List(c.Request.Context(), middleware.CurrentActor(c), id, params.Page, params.Limit)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   entries,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	})
}

// Stats returns requirement and task summaries
// @Summary      Process statistics
// @Tags         processes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Process ID"
// @Success      200  {object}  response.Response{data=service.ProcessStats}
// @Router       /api/processes/{id}/stats [get]
func (h *ProcessHandler) Stats(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	stats, err := h.statsService.ForProcess(c.Request.Context(), middleware.CurrentActor(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}

// ExportPDF downloads the process dossier as PDF
// @Summary      Export process as PDF
// @Tags         processes
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id  path  string  true  "Process ID"
// @Success      200
// @Router       /api/processes/{id}/export/pdf [get]
func (h *ProcessHandler) ExportPDF(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	data, filename, err := h.exportService.PDF(c.Request.Context(), middleware.CurrentActor(c), id)
	if err != nil {
		fail(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", data)
}

// ExportCSV downloads the process dossier as CSV
// @Summary      Export process as CSV
// @Tags         processes
// @Produce      text/csv
// @Security     BearerAuth
// @Param        id  path  string  true  "Process ID"
// @Success      200
// @Router       /api/processes/{id}/export/csv [get]
func (h *ProcessHandler) ExportCSV(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	data, filename, err := h.exportService.CSV(c.Request.Context(), middleware.CurrentActor(c), id)
	if err != nil {
		fail(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv", data)
}

// AttachFile uploads a general process document
// @Summary      Attach process file
// @Tags         processes
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true  "Process ID"
// @Param        file  formData  file    true  "File to upload"
// @Success      201   {object}  response.Response{data=service.FileResponse}
// @Router       /api/processes/{id}/files [post]
func (h *ProcessHandler) AttachFile(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	up, ok := formUpload(c)
	if !ok {
		return
	}

	file, err := h.processService.AttachFile(c.Request.Context(), middleware.CurrentActor(c), id, up)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, file))
}

// RemoveFile deletes a general process document
// @Summary      Remove process file
// @Tags         processes
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string  true  "Process ID"
// @Param        fileId  path      string  true  "File ID"
// @Success      200     {object}  response.Response
// @Router       /api/processes/{id}/files/{fileId} [delete]
func (h *ProcessHandler) RemoveFile(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	fileID, ok := pathUUID(c, "fileId")
	if !ok {
		return
	}

	if err := h.processService.RemoveFile(c.Request.Context(), middleware.CurrentActor(c), id, fileID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "arquivo removido"}))
}
