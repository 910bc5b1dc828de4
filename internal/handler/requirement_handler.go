package handler

import (
	"net/http"

	"regulariza/internal/middleware"
	"regulariza/internal/model"
	"regulariza/internal/service"
	"regulariza/pkg/response"

	"github.com/gin-gonic/gin"
)

type RequirementHandler struct {
	requirementService service.RequirementService
}

func NewRequirementHandler(requirementService service.RequirementService) *RequirementHandler {
	return &RequirementHandler{requirementService: requirementService}
}

func (h *RequirementHandler) RegisterRoutes(router *gin.RouterGroup) {
	adminOnly := middleware.RequireRole(model.RoleAdmin)
	clientOnly := middleware.RequireRole(model.RoleClient)

	requirements := router.Group("/api/processes/:id/requirements")
	{
		requirements.POST("", adminOnly, h.Create)
		requirements.PATCH("/:rid/status", adminOnly, h.SetStatus)
		requirements.POST("/:rid/files", clientOnly, h.AttachFile)
		requirements.DELETE("/:rid/files/:fid", clientOnly, h.RemoveFile)
		requirements.POST("/:rid/files/:fid/reject", adminOnly, h.RejectFile)
		requirements.POST("/:rid/not-have", clientOnly, h.DeclareNotHave)
		requirements.DELETE("/:rid", adminOnly, h.Delete)
	}
}

// Create adds a document request to the process
// @Summary      Create requirement
// @Tags         requirements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                            true  "Process ID"
// @Param        payload  body      service.CreateRequirementRequest  true  "Requirement"
// @Success      201      {object}  response.Response{data=service.RequirementResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/processes/{id}/requirements [post]
func (h *RequirementHandler) Create(c *gin.Context) {
	processID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req service.CreateRequirementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.requirementService.Create(c.Request.Context(), middleware.CurrentActor(c), processID, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// SetStatus is the admin status override
// @Summary      Set requirement status
// @Description  Moves a requirement to any status the file coupling allows
// @Tags         requirements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                               true  "Process ID"
// @Param        rid      path      string                               true  "Requirement ID"
// @Param        payload  body      service.SetRequirementStatusRequest  true  "Target status"
// @Success      200      {object}  response.Response{data=service.RequirementResponse}
// @Failure      422      {object}  response.Response
// @Router       /api/processes/{id}/requirements/{rid}/status [patch]
func (h *RequirementHandler) SetStatus(c *gin.Context) {
	processID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	rid, ok := pathUUID(c, "rid")
	if !ok {
		return
	}

	var req service.SetRequirementStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.requirementService.SetStatus(c.Request.Context(), middleware.CurrentActor(c), processID, rid, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// AttachFile uploads a document file
// @Summary      Attach requirement file
// @Description  Uploads a file; the requirement moves to enviado
// @Tags         requirements
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true  "Process ID"
// @Param        rid   path      string  true  "Requirement ID"
// @Param        file  formData  file    true  "File to upload"
// @Success      201   {object}  response.Response{data=service.RequirementResponse}
// @Failure      422   {object}  response.Response
// @Router       /api/processes/{id}/requirements/{rid}/files [post]
func (h *RequirementHandler) AttachFile(c *gin.Context) {
	processID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	rid, ok := pathUUID(c, "rid")
	if !ok {
		return
	}
	up, ok := formUpload(c)
	if !ok {
		return
	}

	result, err := h.requirementService.AttachFile(c.Request.Context(), middleware.CurrentActor(c), processID, rid, up)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// RemoveFile detaches a document file
// @Summary      Remove requirement file
// @Description  Removes a file; removing the last one drops the requirement back to pendente
// @Tags         requirements
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Process ID"
// @Param        rid  path      string  true  "Requirement ID"
// @Param        fid  path      string  true  "File ID"
// @Success      200  {object}  response.Response{data=service.RequirementResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/processes/{id}/requirements/{rid}/files/{fid} [delete]
func (h *RequirementHandler) RemoveFile(c *gin.Context) {
	processID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	rid, ok := pathUUID(c, "rid")
	if !ok {
		return
	}
	fid, ok := pathUUID(c, "fid")
	if !ok {
		return
	}

	result, err := h.requirementService.RemoveFile(c.Request.Context(), middleware.CurrentActor(c), processID, rid, fid)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// RejectFile rejects one submitted file with a reason
// @Summary      Reject requirement file
// @Description  Removes the offending file and marks the requirement rejeitado
// @Tags         requirements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                     true  "Process ID"
// @Param        rid      path      string                     true  "Requirement ID"
// @Param        fid      path      string                     true  "File ID"
// @Param        payload  body      service.RejectFileRequest  true  "Rejection reason"
// @Success      200      {object}  response.Response{data=service.RequirementResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/processes/{id}/requirements/{rid}/files/{fid}/reject [post]
func (h *RequirementHandler) RejectFile(c *gin.Context) {
	processID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	rid, ok := pathUUID(c, "rid")
	if !ok {
		return
	}
	fid, ok := pathUUID(c, "fid")
	if !ok {
		return
	}

	var req service.RejectFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.requirementService.RejectFile(c.Request.Context(), middleware.CurrentActor(c), processID, rid, fid, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// DeclareNotHave records that the client cannot provide the document
// @Summary      Declare document not held
// @Tags         requirements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                         true  "Process ID"
// @Param        rid      path      string                         true  "Requirement ID"
// @Param        payload  body      service.DeclareNotHaveRequest  true  "Justification"
// @Success      200      {object}  response.Response{data=service.RequirementResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/processes/{id}/requirements/{rid}/not-have [post]
func (h *RequirementHandler) DeclareNotHave(c *gin.Context) {
	processID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	rid, ok := pathUUID(c, "rid")
	if !ok {
		return
	}

	var req service.DeclareNotHaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.requirementService.DeclareNotHave(c.Request.Context(), middleware.CurrentActor(c), processID, rid, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// Delete removes the requirement and its files
// @Summary      Delete requirement
// @Tags         requirements
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Process ID"
// @Param        rid  path      string  true  "Requirement ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/processes/{id}/requirements/{rid} [delete]
func (h *RequirementHandler) Delete(c *gin.Context) {
	processID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	rid, ok := pathUUID(c, "rid")
	if !ok {
		return
	}

	if err := h.requirementService.Delete(c.Request.Context(), middleware.CurrentActor(c), processID, rid); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "documento removido"}))
}
