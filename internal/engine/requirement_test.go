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

var (
	testNow   = time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	adminUser = Actor{ID: uuid.New(), Name: "Marina", Role: model.ActorAdmin}
	clientUsr = Actor{ID: uuid.New(), Name: "João", Role: model.ActorUser}
)

func newFile(name string) model.FileAttachment {
	return model.FileAttachment{
		ID:          uuid.New(),
		Name:        name,
		URL:         "/uploads/" + name,
		StorageKey:  "processes/test/" + name,
		ContentType: "application/pdf",
		Size:        2048,
	}
}

func pendingRequirement(t *testing.T) model.Requirement {
	t.Helper()
	req, e, err := NewRequirement(uuid.New(), "RG", "Documento de identidade", nil, adminUser, testNow)
	require.NoError(t, err)
	assert.Equal(t, model.RequirementPendente, e.Status)
	assert.Equal(t, model.ActorAdmin, e.Actor)
	return req
}

func TestNewRequirementRequiresName(t *testing.T) {
	_, _, err := NewRequirement(uuid.New(), "  ", "", nil, adminUser, testNow)
	assert.True(t, errors.Is(err, apperror.ErrValidation))
}

func TestAttachFileMovesToEnviado(t *testing.T) {
	req := pendingRequirement(t)

	e, err := AttachRequirementFile(&req, newFile("rg.pdf"), clientUsr, testNow)
	require.NoError(t, err)

	assert.Equal(t, model.RequirementEnviado, req.Status)
	assert.Len(t, req.Files, 1)
	assert.Equal(t, model.RequirementEnviado, e.Status)
	assert.Equal(t, model.ActorUser, e.Actor)
	assert.Equal(t, "João", e.ActorName)
}

func TestAttachFileBlockedWhenApproved(t *testing.T) {
	req := pendingRequirement(t)
	_, err := AttachRequirementFile(&req, newFile("rg.pdf"), clientUsr, testNow)
	require.NoError(t, err)
	_, err = SetRequirementStatus(&req, model.RequirementAprovado, "", adminUser, testNow)
	require.NoError(t, err)

	_, err = AttachRequirementFile(&req, newFile("outro.pdf"), clientUsr, testNow)
	assert.True(t, errors.Is(err, apperror.ErrInvariant))
	assert.Len(t, req.Files, 1)
}

func TestRemoveLastFileResetsToPendente(t *testing.T) {
	req := pendingRequirement(t)
	f := newFile("rg.pdf")
	_, err := AttachRequirementFile(&req, f, clientUsr, testNow)
	require.NoError(t, err)

	removed, e, err := RemoveRequirementFile(&req, f.ID, clientUsr, testNow)
	require.NoError(t, err)

	assert.Equal(t, f.ID, removed.ID)
	assert.Empty(t, req.Files)
	assert.Equal(t, model.RequirementPendente, req.Status)
	assert.Equal(t, model.ProcessEmAndamento, e.Status)
}

func TestRemoveNonLastFileKeepsStatus(t *testing.T) {
	req := pendingRequirement(t)
	f1, f2 := newFile("frente.pdf"), newFile("verso.pdf")
	_, err := AttachRequirementFile(&req, f1, clientUsr, testNow)
	require.NoError(t, err)
	_, err = AttachRequirementFile(&req, f2, clientUsr, testNow)
	require.NoError(t, err)

	_, _, err = RemoveRequirementFile(&req, f1.ID, clientUsr, testNow)
	require.NoError(t, err)

	assert.Equal(t, model.RequirementEnviado, req.Status)
	assert.Len(t, req.Files, 1)
	assert.Equal(t, f2.ID, req.Files[0].ID)
}

func TestRemoveUnknownFile(t *testing.T) {
	req := pendingRequirement(t)
	_, _, err := RemoveRequirementFile(&req, uuid.New(), clientUsr, testNow)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestRejectFileRemovesItAndRecordsReason(t *testing.T) {
	req := pendingRequirement(t)
	f := newFile("rg.pdf")
	_, err := AttachRequirementFile(&req, f, clientUsr, testNow)
	require.NoError(t, err)

	removed, e, err := RejectRequirementFile(&req, f.ID, "ilegível", adminUser, testNow)
	require.NoError(t, err)

	assert.Equal(t, f.ID, removed.ID)
	assert.Equal(t, -1, req.FileByID(f.ID))
	assert.Equal(t, model.RequirementRejeitado, req.Status)
	assert.Contains(t, req.AdminComments, "ilegível")
	assert.Equal(t, model.RequirementRejeitado, e.Status)
	assert.Contains(t, e.Message, "ilegível")
}

func TestRejectFileRequiresReason(t *testing.T) {
	req := pendingRequirement(t)
	f := newFile("rg.pdf")
	_, err := AttachRequirementFile(&req, f, clientUsr, testNow)
	require.NoError(t, err)

	_, _, err = RejectRequirementFile(&req, f.ID, "   ", adminUser, testNow)
	assert.True(t, errors.Is(err, apperror.ErrValidation))
	// nothing mutated on a rejected command
	assert.Equal(t, model.RequirementEnviado, req.Status)
	assert.Len(t, req.Files, 1)
}

func TestSetStatusRejectsUnknownValue(t *testing.T) {
	req := pendingRequirement(t)
	_, err := SetRequirementStatus(&req, "aprovadíssimo", "", adminUser, testNow)
	assert.True(t, errors.Is(err, apperror.ErrValidation))
}

func TestSetStatusGuardsEmptyFileCoupling(t *testing.T) {
	req := pendingRequirement(t)

	for _, status := range []string{model.RequirementEnviado, model.RequirementAprovado} {
		_, err := SetRequirementStatus(&req, status, "", adminUser, testNow)
		assert.True(t, errors.Is(err, apperror.ErrInvariant), "status %s must require files", status)
	}
}

func TestSetStatusReopensApprovedRequirement(t *testing.T) {
	req := pendingRequirement(t)
	_, err := AttachRequirementFile(&req, newFile("rg.pdf"), clientUsr, testNow)
	require.NoError(t, err)
	_, err = SetRequirementStatus(&req, model.RequirementAprovado, "tudo certo", adminUser, testNow)
	require.NoError(t, err)
	assert.Equal(t, "tudo certo", req.AdminComments)

	e, err := SetRequirementStatus(&req, model.RequirementPendente, "", adminUser, testNow)
	require.NoError(t, err)
	assert.Equal(t, model.RequirementPendente, req.Status)
	assert.Empty(t, req.AdminComments) // empty comments clear the previous ones
	assert.Equal(t, model.RequirementPendente, e.Status)
}

func TestDeclareNotHave(t *testing.T) {
	req := pendingRequirement(t)

	_, err := DeclareNotHave(&req, "", clientUsr, testNow)
	assert.True(t, errors.Is(err, apperror.ErrValidation))

	e, err := DeclareNotHave(&req, "nunca tive este documento", clientUsr, testNow)
	require.NoError(t, err)
	assert.Equal(t, model.RequirementNaoTenho, req.Status)
	assert.Equal(t, "nunca tive este documento", req.UserNote)
	assert.Equal(t, model.RequirementNaoTenho, e.Status)
}

func TestDeclareNotHaveBlockedWhenApproved(t *testing.T) {
	req := pendingRequirement(t)
	_, err := AttachRequirementFile(&req, newFile("rg.pdf"), clientUsr, testNow)
	require.NoError(t, err)
	_, err = SetRequirementStatus(&req, model.RequirementAprovado, "", adminUser, testNow)
	require.NoError(t, err)

	_, err = DeclareNotHave(&req, "mudei de ideia", clientUsr, testNow)
	assert.True(t, errors.Is(err, apperror.ErrInvariant))
}

func TestClientResumesAfterNotHave(t *testing.T) {
	req := pendingRequirement(t)
	_, err := DeclareNotHave(&req, "não possuo", clientUsr, testNow)
	require.NoError(t, err)

	_, err = AttachRequirementFile(&req, newFile("achei.pdf"), clientUsr, testNow)
	require.NoError(t, err)
	assert.Equal(t, model.RequirementEnviado, req.Status)
}

// Full round-trip: create → attach → reject → attach → approve ends aprovado
// with exactly one file and four post-creation timeline entries.
func TestRequirementRoundTrip(t *testing.T) {
	req := pendingRequirement(t)
	var entries []model.TimelineEntry

	f1 := newFile("rg-v1.pdf")
	e, err := AttachRequirementFile(&req, f1, clientUsr, testNow)
	require.NoError(t, err)
	entries = append(entries, e)

	_, e, err = RejectRequirementFile(&req, f1.ID, "foto cortada", adminUser, testNow)
	require.NoError(t, err)
	entries = append(entries, e)

	f2 := newFile("rg-v2.pdf")
	e, err = AttachRequirementFile(&req, f2, clientUsr, testNow)
	require.NoError(t, err)
	entries = append(entries, e)

	e, err = SetRequirementStatus(&req, model.RequirementAprovado, "", adminUser, testNow)
	require.NoError(t, err)
	entries = append(entries, e)

	assert.Equal(t, model.RequirementAprovado, req.Status)
	require.Len(t, req.Files, 1)
	assert.Equal(t, f2.ID, req.Files[0].ID)
	require.Len(t, entries, 4)
	assert.Equal(t, []string{
		model.RequirementEnviado,
		model.RequirementRejeitado,
		model.RequirementEnviado,
		model.RequirementAprovado,
	}, []string{entries[0].Status, entries[1].Status, entries[2].Status, entries[3].Status})
}

// The file/status coupling holds under every operation sequence exercised
// above: enviado or aprovado always implies at least one file.
func TestFileStatusCouplingInvariant(t *testing.T) {
	req := pendingRequirement(t)
	check := func() {
		if req.Status == model.RequirementEnviado || req.Status == model.RequirementAprovado {
			assert.NotEmpty(t, req.Files)
		}
	}

	f := newFile("rg.pdf")
	_, _ = AttachRequirementFile(&req, f, clientUsr, testNow)
	check()
	_, _, _ = RejectRequirementFile(&req, f.ID, "borrado", adminUser, testNow)
	check()
	_, _ = DeclareNotHave(&req, "não tenho mais", clientUsr, testNow)
	check()
	f2 := newFile("rg2.pdf")
	_, _ = AttachRequirementFile(&req, f2, clientUsr, testNow)
	check()
	_, _, _ = RemoveRequirementFile(&req, f2.ID, clientUsr, testNow)
	check()
}
