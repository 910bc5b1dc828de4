package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"regulariza/internal/engine"
	"regulariza/internal/model"
	"regulariza/internal/service"
	"regulariza/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// mock implementation of the RequirementService interface
type MockRequirementService struct {
	mock.Mock
}

func (m *MockRequirementService) Create(ctx context.Context, actor engine.Actor, processID uuid.UUID, req service.CreateRequirementRequest) (service.RequirementResponse, error) {
	args := m.Called(ctx, actor, processID, req)
	return args.Get(0).(service.RequirementResponse), args.Error(1)
}

func (m *MockRequirementService) AttachFile(ctx context.Context, actor engine.Actor, processID, id uuid.UUID, up service.FileUpload) (service.RequirementResponse, error) {
	args := m.Called(ctx, actor, processID, id, up)
	return args.Get(0).(service.RequirementResponse), args.Error(1)
}

func (m *MockRequirementService) RemoveFile(ctx context.Context, actor engine.Actor, processID, id, fileID uuid.UUID) (service.RequirementResponse, error) {
	args := m.Called(ctx, actor, processID, id, fileID)
	return args.Get(0).(service.RequirementResponse), args.Error(1)
}

func (m *MockRequirementService) RejectFile(ctx context.Context, actor engine.Actor, processID, id, fileID uuid.UUID, req service.RejectFileRequest) (service.RequirementResponse, error) {
	args := m.Called(ctx, actor, processID, id, fileID, req)
	return args.Get(0).(service.RequirementResponse), args.Error(1)
}

func (m *MockRequirementService) SetStatus(ctx context.Context, actor engine.Actor, processID, id uuid.UUID, req service.SetRequirementStatusRequest) (service.RequirementResponse, error) {
	args := m.Called(ctx, actor, processID, id, req)
	return args.Get(0).(service.RequirementResponse), args.Error(1)
}

func (m *MockRequirementService) DeclareNotHave(ctx context.Context, actor engine.Actor, processID, id uuid.UUID, req service.DeclareNotHaveRequest) (service.RequirementResponse, error) {
	args := m.Called(ctx, actor, processID, id, req)
	return args.Get(0).(service.RequirementResponse), args.Error(1)
}

func (m *MockRequirementService) Delete(ctx context.Context, actor engine.Actor, processID, id uuid.UUID) error {
	args := m.Called(ctx, actor, processID, id)
	return args.Error(0)
}

// setupRequirementRouter wires the handler with the auth context pre-seeded,
// bypassing the JWT middleware.
func setupRequirementRouter(h *RequirementHandler, userID uuid.UUID, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("userName", "Teste")
		c.Set("userRole", role)
		c.Next()
	})

	router.POST("/api/processes/:id/requirements", h.Create)
	router.PATCH("/api/processes/:id/requirements/:rid/status", h.SetStatus)
	router.POST("/api/processes/:id/requirements/:rid/not-have", h.DeclareNotHave)
	router.DELETE("/api/processes/:id/requirements/:rid", h.Delete)
	return router
}

func TestCreateRequirement_Success(t *testing.T) {
	mockService := new(MockRequirementService)
	h := NewRequirementHandler(mockService)
	adminID := uuid.New()
	router := setupRequirementRouter(h, adminID, model.RoleAdmin)

	processID := uuid.New()
	mockService.On("Create", mock.Anything,
		mock.MatchedBy(func(a engine.Actor) bool { return a.ID == adminID && a.Role == model.ActorAdmin }),
		processID,
		mock.MatchedBy(func(r service.CreateRequirementRequest) bool { return r.Name == "RG" }),
	).Return(service.RequirementResponse{ID: uuid.NewString(), Name: "RG", Status: model.RequirementPendente}, nil)

	body, _ := json.Marshal(service.CreateRequirementRequest{Name: "RG"})
	req := httptest.NewRequest("POST", "/api/processes/"+processID.String()+"/requirements", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
}

func TestCreateRequirement_MissingName(t *testing.T) {
	mockService := new(MockRequirementService)
	h := NewRequirementHandler(mockService)
	router := setupRequirementRouter(h, uuid.New(), model.RoleAdmin)

	req := httptest.NewRequest("POST", "/api/processes/"+uuid.NewString()+"/requirements", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Create")
}

func TestCreateRequirement_BadProcessID(t *testing.T) {
	mockService := new(MockRequirementService)
	h := NewRequirementHandler(mockService)
	router := setupRequirementRouter(h, uuid.New(), model.RoleAdmin)

	body, _ := json.Marshal(service.CreateRequirementRequest{Name: "RG"})
	req := httptest.NewRequest("POST", "/api/processes/not-a-uuid/requirements", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Create")
}

func TestSetRequirementStatus_InvariantMapsTo422(t *testing.T) {
	mockService := new(MockRequirementService)
	h := NewRequirementHandler(mockService)
	router := setupRequirementRouter(h, uuid.New(), model.RoleAdmin)

	processID := uuid.New()
	rid := uuid.New()
	mockService.On("SetStatus", mock.Anything, mock.Anything, processID, rid, mock.Anything).
		Return(service.RequirementResponse{}, apperror.Invariantf("documento sem arquivos"))

	body, _ := json.Marshal(service.SetRequirementStatusRequest{Status: model.RequirementAprovado})
	req := httptest.NewRequest("PATCH", "/api/processes/"+processID.String()+"/requirements/"+rid.String()+"/status", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	mockService.AssertExpectations(t)
}

func TestDeclareNotHave_NotFoundMapsTo404(t *testing.T) {
	mockService := new(MockRequirementService)
	h := NewRequirementHandler(mockService)
	clientID := uuid.New()
	router := setupRequirementRouter(h, clientID, model.RoleClient)

	processID := uuid.New()
	rid := uuid.New()
	mockService.On("DeclareNotHave", mock.Anything,
		mock.MatchedBy(func(a engine.Actor) bool { return a.Role == model.ActorUser }),
		processID, rid, mock.Anything,
	).Return(service.RequirementResponse{}, apperror.NotFoundf("processo %s não encontrado", processID))

	body, _ := json.Marshal(service.DeclareNotHaveRequest{Note: "Nunca foi emitido"})
	req := httptest.NewRequest("POST", "/api/processes/"+processID.String()+"/requirements/"+rid.String()+"/not-have", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockService.AssertExpectations(t)
}

func TestDeleteRequirement_ConflictMapsTo409(t *testing.T) {
	mockService := new(MockRequirementService)
	h := NewRequirementHandler(mockService)
	router := setupRequirementRouter(h, uuid.New(), model.RoleAdmin)

	processID := uuid.New()
	rid := uuid.New()
	mockService.On("Delete", mock.Anything, mock.Anything, processID, rid).
		Return(apperror.New(apperror.Conflict, "processo foi alterado por outro usuário"))

	req := httptest.NewRequest("DELETE", "/api/processes/"+processID.String()+"/requirements/"+rid.String(), nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	mockService.AssertExpectations(t)
}
