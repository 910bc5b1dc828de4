package model

// ProcessStatus enum constants
const (
	ProcessPendente    = "pendente"
	ProcessEmAndamento = "em_andamento"
	ProcessConcluido   = "concluido"
)

// RequirementStatus enum constants
const (
	RequirementPendente  = "pendente"
	RequirementEnviado   = "enviado"
	RequirementAprovado  = "aprovado"
	RequirementRejeitado = "rejeitado"
	RequirementNaoTenho  = "nao_tenho"
)

// TaskStatus enum constants
const (
	TaskPendente    = "pendente"
	TaskEmAndamento = "em_andamento"
	TaskConcluido   = "concluido"
)

// Actor enum constants for timeline attribution
const (
	ActorAdmin = "admin"
	ActorUser  = "user"
)

// User role constants
const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

// processStatusLabels maps every process status to its display label.
var processStatusLabels = map[string]string{
	ProcessPendente:    "Pendente",
	ProcessEmAndamento: "Em Andamento",
	ProcessConcluido:   "Concluído",
}

// requirementStatusLabels maps every requirement status to its display label.
var requirementStatusLabels = map[string]string{
	RequirementPendente:  "Pendente",
	RequirementEnviado:   "Enviado",
	RequirementAprovado:  "Aprovado",
	RequirementRejeitado: "Rejeitado",
	RequirementNaoTenho:  "Não Tenho",
}

// taskStatusLabels maps every task status to its display label.
var taskStatusLabels = map[string]string{
	TaskPendente:    "Pendente",
	TaskEmAndamento: "Em Andamento",
	TaskConcluido:   "Concluído",
}

// ValidProcessStatus reports whether s is a member of the process status enum.
func ValidProcessStatus(s string) bool {
	_, ok := processStatusLabels[s]
	return ok
}

// ValidRequirementStatus reports whether s is a member of the requirement status enum.
func ValidRequirementStatus(s string) bool {
	_, ok := requirementStatusLabels[s]
	return ok
}

// ValidTaskStatus reports whether s is a member of the task status enum.
func ValidTaskStatus(s string) bool {
	_, ok := taskStatusLabels[s]
	return ok
}

// ValidActor reports whether a is a known timeline actor.
func ValidActor(a string) bool {
	return a == ActorAdmin || a == ActorUser
}

// ProcessStatusLabel returns the display label for a process status.
// Unknown values are not tolerated — callers validate before storing.
func ProcessStatusLabel(s string) string {
	return processStatusLabels[s]
}

// RequirementStatusLabel returns the display label for a requirement status.
func RequirementStatusLabel(s string) string {
	return requirementStatusLabels[s]
}

// TaskStatusLabel returns the display label for a task status.
func TaskStatusLabel(s string) string {
	return taskStatusLabels[s]
}
