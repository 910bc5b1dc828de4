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

func newProcess(t *testing.T) model.Process {
	t.Helper()
	clientID := uuid.New()
	p, e, err := NewProcess("Regularização de imóvel", "Casa em Niterói", nil, &clientID, adminUser, testNow)
	require.NoError(t, err)
	p.ID = uuid.New()
	assert.Equal(t, model.ProcessPendente, e.Status)
	return p
}

func TestNewProcessRequiresTitle(t *testing.T) {
	_, _, err := NewProcess("", "", nil, nil, adminUser, testNow)
	assert.True(t, errors.Is(err, apperror.ErrValidation))
}

func TestSetProcessStatus(t *testing.T) {
	p := newProcess(t)

	e, err := SetProcessStatus(&p, model.ProcessEmAndamento, "documentação iniciada", adminUser, testNow)
	require.NoError(t, err)
	assert.Equal(t, model.ProcessEmAndamento, p.Status)
	assert.Nil(t, p.ClosedAt)
	assert.Equal(t, model.ProcessEmAndamento, e.Status)
	assert.Contains(t, e.Message, "documentação iniciada")

	_, err = SetProcessStatus(&p, "arquivado", "", adminUser, testNow)
	assert.True(t, errors.Is(err, apperror.ErrValidation))
}

func TestCloseProcessStampsClosedAt(t *testing.T) {
	p := newProcess(t)
	p.Notes = "observações iniciais"

	e, err := CloseProcess(&p, "tudo regularizado", adminUser, testNow)
	require.NoError(t, err)

	assert.Equal(t, model.ProcessConcluido, p.Status)
	require.NotNil(t, p.ClosedAt)
	assert.Equal(t, testNow, *p.ClosedAt)
	assert.Equal(t, "observações iniciais\ntudo regularizado", p.Notes)
	assert.Equal(t, model.ProcessConcluido, e.Status)
}

func TestCloseProcessTwiceIsRejected(t *testing.T) {
	p := newProcess(t)
	_, err := CloseProcess(&p, "", adminUser, testNow)
	require.NoError(t, err)
	firstClose := *p.ClosedAt

	_, err = CloseProcess(&p, "de novo", adminUser, testNow.Add(time.Hour))
	assert.True(t, errors.Is(err, apperror.ErrInvariant))
	assert.Equal(t, firstClose, *p.ClosedAt)
}

// Reopening via SetProcessStatus clears ClosedAt, preserving the
// concluido ⇔ closedAt pairing in both directions.
func TestReopenClearsClosedAt(t *testing.T) {
	p := newProcess(t)
	_, err := CloseProcess(&p, "", adminUser, testNow)
	require.NoError(t, err)

	_, err = SetProcessStatus(&p, model.ProcessEmAndamento, "reaberto para ajustes", adminUser, testNow)
	require.NoError(t, err)
	assert.Nil(t, p.ClosedAt)

	// and closing again through SetProcessStatus restores the stamp
	_, err = SetProcessStatus(&p, model.ProcessConcluido, "", adminUser, testNow)
	require.NoError(t, err)
	assert.NotNil(t, p.ClosedAt)
}

func TestProcessGeneralFiles(t *testing.T) {
	p := newProcess(t)

	f := newFile("procuracao.pdf")
	e := AttachProcessFile(&p, f, clientUsr, testNow)
	assert.Len(t, p.Files, 1)
	assert.Equal(t, p.Status, e.Status)

	removed, _, err := RemoveProcessFile(&p, f.ID, clientUsr, testNow)
	require.NoError(t, err)
	assert.Equal(t, f.ID, removed.ID)
	assert.Empty(t, p.Files)

	_, _, err = RemoveProcessFile(&p, uuid.New(), clientUsr, testNow)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}
