package engine

import (
	"errors"
	"testing"
	"time"

	"regulariza/internal/model"
	"regulariza/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingTask(t *testing.T) model.AdminTask {
	t.Helper()
	task, e, err := NewTask(uuid.New(), "Emitir certidão negativa", "", nil, adminUser, testNow)
	require.NoError(t, err)
	assert.Equal(t, model.TaskPendente, e.Status)
	return task
}

func TestNewTaskRequiresTitle(t *testing.T) {
	_, _, err := NewTask(uuid.New(), "", "", nil, adminUser, testNow)
	assert.True(t, errors.Is(err, apperror.ErrValidation))
}

func TestToggleCompleteIsSymmetric(t *testing.T) {
	task := pendingTask(t)
	require.Nil(t, task.CompletedAt)

	e := ToggleTaskComplete(&task, adminUser, testNow)
	assert.Equal(t, model.TaskConcluido, task.Status)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, testNow, *task.CompletedAt)
	assert.Equal(t, model.TaskConcluido, e.Status)

	e = ToggleTaskComplete(&task, adminUser, testNow.Add(time.Hour))
	assert.Equal(t, model.TaskPendente, task.Status)
	assert.Nil(t, task.CompletedAt)
	assert.Equal(t, model.TaskPendente, e.Status)
}

func TestToggleFromEmAndamentoCompletes(t *testing.T) {
	task := pendingTask(t)
	status := model.TaskEmAndamento
	_, err := EditTask(&task, TaskEdit{Status: &status}, adminUser, testNow)
	require.NoError(t, err)

	ToggleTaskComplete(&task, adminUser, testNow)
	assert.Equal(t, model.TaskConcluido, task.Status)
	assert.NotNil(t, task.CompletedAt)
}

func TestEditTaskStatusPairsCompletedAt(t *testing.T) {
	task := pendingTask(t)

	done := model.TaskConcluido
	_, err := EditTask(&task, TaskEdit{Status: &done}, adminUser, testNow)
	require.NoError(t, err)
	require.NotNil(t, task.CompletedAt)
	stamped := *task.CompletedAt

	// re-editing while still concluido keeps the original stamp
	desc := "atualizada"
	_, err = EditTask(&task, TaskEdit{Description: &desc, Status: &done}, adminUser, testNow.Add(time.Hour))
	require.NoError(t, err)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, stamped, *task.CompletedAt)

	// moving away from concluido clears the stamp
	pending := model.TaskPendente
	_, err = EditTask(&task, TaskEdit{Status: &pending}, adminUser, testNow.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Nil(t, task.CompletedAt)
}

func TestEditTaskRejectsUnknownStatus(t *testing.T) {
	task := pendingTask(t)
	bad := "feito"
	_, err := EditTask(&task, TaskEdit{Status: &bad}, adminUser, testNow)
	assert.True(t, errors.Is(err, apperror.ErrValidation))
}

func TestEditTaskClearsDeadline(t *testing.T) {
	dl := testNow.Add(72 * time.Hour)
	task, _, err := NewTask(uuid.New(), "Agendar vistoria", "", &dl, adminUser, testNow)
	require.NoError(t, err)
	require.NotNil(t, task.Deadline)

	var cleared *time.Time
	_, err = EditTask(&task, TaskEdit{Deadline: &cleared}, adminUser, testNow)
	require.NoError(t, err)
	assert.Nil(t, task.Deadline)
}

func TestTaskFileOpsDoNotChangeStatus(t *testing.T) {
	task := pendingTask(t)

	f := newFile("comprovante.pdf")
	e, err := AttachTaskFile(&task, f, clientUsr, testNow)
	require.NoError(t, err)
	assert.Equal(t, model.TaskPendente, task.Status) // no auto-transition
	assert.Len(t, task.Files, 1)
	assert.Equal(t, model.TaskPendente, e.Status)

	_, _, err = RemoveTaskFile(&task, f.ID, clientUsr, testNow)
	require.NoError(t, err)
	assert.Equal(t, model.TaskPendente, task.Status)
	assert.Empty(t, task.Files)
}

func TestTaskFileOpsBlockedWhenConcluido(t *testing.T) {
	task := pendingTask(t)
	ToggleTaskComplete(&task, adminUser, testNow)

	_, err := AttachTaskFile(&task, newFile("tarde.pdf"), clientUsr, testNow)
	assert.True(t, errors.Is(err, apperror.ErrInvariant))

	_, _, err = RemoveTaskFile(&task, uuid.New(), clientUsr, testNow)
	assert.True(t, errors.Is(err, apperror.ErrInvariant))
}

func TestRemoveUnknownTaskFile(t *testing.T) {
	task := pendingTask(t)
	_, _, err := RemoveTaskFile(&task, uuid.New(), clientUsr, testNow)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

// status == concluido ⇔ completedAt != nil across the whole task lifecycle.
func TestCompletedAtPairingInvariant(t *testing.T) {
	task := pendingTask(t)
	check := func() {
		if task.Status == model.TaskConcluido {
			assert.NotNil(t, task.CompletedAt)
		} else {
			assert.Nil(t, task.CompletedAt)
		}
	}

	check()
	ToggleTaskComplete(&task, adminUser, testNow)
	check()
	ToggleTaskComplete(&task, adminUser, testNow)
	check()
	andamento := model.TaskEmAndamento
	_, _ = EditTask(&task, TaskEdit{Status: &andamento}, adminUser, testNow)
	check()
	done := model.TaskConcluido
	_, _ = EditTask(&task, TaskEdit{Status: &done}, adminUser, testNow)
	check()
}
