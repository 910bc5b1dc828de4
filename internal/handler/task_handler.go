package handler

import (
	"net/http"

	"regulariza/internal/middleware"
	"regulariza/internal/model"
	"regulariza/internal/service"
	"regulariza/pkg/response"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	taskService service.TaskService
}

func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (h *TaskHandler) RegisterRoutes(router *gin.RouterGroup) {
	adminOnly := middleware.RequireRole(model.RoleAdmin)
	clientOnly := middleware.RequireRole(model.RoleClient)

	tasks := router.Group("/api/processes/:id/tasks")
	{
		tasks.POST("", adminOnly, h.Create)
		tasks.PATCH("/:tid", adminOnly, h.Update)
		tasks.POST("/:tid/toggle", adminOnly, h.ToggleComplete)
		tasks.DELETE("/:tid", adminOnly, h.Delete)
		tasks.POST("/:tid/files", clientOnly, h.AttachFile)
		tasks.DELETE("/:tid/files/:fid", clientOnly, h.RemoveFile)
	}
}

// Create adds a checklist task
// @Summary      Create task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                     true  "Process ID"
// @Param        payload  body      service.CreateTaskRequest  true  "Task"
// @Success      201      {object}  response.Response{data=service.TaskResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/processes/{id}/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	processID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req service.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.taskService.Create(c.Request.Context(), middleware.CurrentActor(c), processID, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// Update edits task fields
// @Summary      Update task
// @Description  Partial edit; sending deadline null clears it, omitting keeps it
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                     true  "Process ID"
// @Param        tid      path      string                     true  "Task ID"
// @Param        payload  body      service.UpdateTaskRequest  true  "Fields to update"
// @Success      200      {object}  response.Response{data=service.TaskResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/processes/{id}/tasks/{tid} [patch]
func (h *TaskHandler) Update(c *gin.Context) {
	processID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	tid, ok := pathUUID(c, "tid")
	if !ok {
		return
	}

	var req service.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.taskService.Update(c.Request.Context(), middleware.CurrentActor(c), processID, tid, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// ToggleComplete flips the task between concluido and pendente
// @Summary      Toggle task completion
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Process ID"
// @Param        tid  path      string  true  "Task ID"
// @Success      200  {object}  response.Response{data=service.TaskResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/processes/{id}/tasks/{tid}/toggle [post]
func (h *TaskHandler) ToggleComplete(c *gin.Context) {
	processID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	tid, ok := pathUUID(c, "tid")
	if !ok {
		return
	}

	result, err := h.taskService.ToggleComplete(c.Request.Context(), middleware.CurrentActor(c), processID, tid)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// AttachFile uploads a supporting file to a task
// @Summary      Attach task file
// @Description  Uploads a file without changing the task status
// @Tags         tasks
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true  "Process ID"
// @Param        tid   path      string  true  "Task ID"
// @Param        file  formData  file    true  "File to upload"
// @Success      201   {object}  response.Response{data=service.TaskResponse}
// @Failure      422   {object}  response.Response
// @Router       /api/processes/{id}/tasks/{tid}/files [post]
func (h *TaskHandler) AttachFile(c *gin.Context) {
	processID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	tid, ok := pathUUID(c, "tid")
	if !ok {
		return
	}
	up, ok := formUpload(c)
	if !ok {
		return
	}

	result, err := h.taskService.AttachFile(c.Request.Context(), middleware.CurrentActor(c), processID, tid, up)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// RemoveFile detaches a supporting file from a task
// @Summary      Remove task file
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Process ID"
// @Param        tid  path      string  true  "Task ID"
// @Param        fid  path      string  true  "File ID"
// @Success      200  {object}  response.Response{data=service.TaskResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/processes/{id}/tasks/{tid}/files/{fid} [delete]
func (h *TaskHandler) RemoveFile(c *gin.Context) {
	processID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	tid, ok := pathUUID(c, "tid")
	if !ok {
		return
	}
	fid, ok := pathUUID(c, "fid")
	if !ok {
		return
	}

	result, err := h.taskService.RemoveFile(c.Request.Context(), middleware.CurrentActor(c), processID, tid, fid)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// Delete removes the task and its files
// @Summary      Delete task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Process ID"
// @Param        tid  path      string  true  "Task ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/processes/{id}/tasks/{tid} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	processID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	tid, ok := pathUUID(c, "tid")
	if !ok {
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), middleware.CurrentActor(c), processID, tid); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "tarefa removida"}))
}
