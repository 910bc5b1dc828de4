package service

import (
	"testing"

	"regulariza/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestFoldRequirementStats(t *testing.T) {
	reqs := []model.Requirement{
		{Status: model.RequirementPendente},
		{Status: model.RequirementPendente},
		{Status: model.RequirementEnviado},
		{Status: model.RequirementAprovado},
		{Status: model.RequirementRejeitado},
		{Status: model.RequirementNaoTenho},
	}

	stats := FoldRequirementStats(reqs)

	assert.Equal(t, 6, stats.Total)
	assert.Equal(t, 2, stats.Pendente)
	assert.Equal(t, 1, stats.Enviado)
	assert.Equal(t, 1, stats.Aprovado)
	assert.Equal(t, 1, stats.Rejeitado)
	assert.Equal(t, 1, stats.NaoTenho)
}

func TestFoldRequirementStats_Empty(t *testing.T) {
	stats := FoldRequirementStats(nil)
	assert.Equal(t, RequirementStats{}, stats)
}

func TestFoldTaskStats(t *testing.T) {
	tasks := []model.AdminTask{
		{Status: model.TaskPendente},
		{Status: model.TaskConcluido},
		{Status: model.TaskConcluido},
		{Status: model.TaskEmAndamento},
	}

	stats := FoldTaskStats(tasks)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 1, stats.Pendente)
	assert.Equal(t, 1, stats.EmAndamento)
	assert.Equal(t, 2, stats.Concluido)
	if assert.NotNil(t, stats.Completion) {
		assert.InDelta(t, 0.5, *stats.Completion, 1e-9)
	}
}

func TestFoldTaskStats_EmptyHasNoCompletion(t *testing.T) {
	stats := FoldTaskStats(nil)

	assert.Equal(t, 0, stats.Total)
	assert.Nil(t, stats.Completion, "0/0 must report no data, not a fraction")
}

func TestFoldTaskStats_AllDone(t *testing.T) {
	stats := FoldTaskStats([]model.AdminTask{
		{Status: model.TaskConcluido},
		{Status: model.TaskConcluido},
	})

	if assert.NotNil(t, stats.Completion) {
		assert.InDelta(t, 1.0, *stats.Completion, 1e-9)
	}
}
