package service

import (
	"time"

	"regulariza/internal/deadline"
	"regulariza/internal/model"
)

// --- Response DTOs shared by the process, requirement and task services ---

type FileResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	UploadedBy  string `json:"uploaded_by"`
	UploadedAt  string `json:"uploaded_at"`
}

type RequirementResponse struct {
	ID            string             `json:"id"`
	ProcessID     string             `json:"process_id"`
	Name          string             `json:"name"`
	Description   string             `json:"description,omitempty"`
	Status        string             `json:"status"`
	StatusLabel   string             `json:"status_label"`
	AdminComments string             `json:"admin_comments,omitempty"`
	UserNote      string             `json:"user_note,omitempty"`
	Deadline      *string            `json:"deadline,omitempty"`
	Urgency       *deadline.Urgency  `json:"urgency,omitempty"`
	Files         []FileResponse     `json:"files"`
	CreatedAt     string             `json:"created_at"`
	UpdatedAt     string             `json:"updated_at"`
}

type TaskResponse struct {
	ID          string            `json:"id"`
	ProcessID   string            `json:"process_id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Status      string            `json:"status"`
	StatusLabel string            `json:"status_label"`
	Deadline    *string           `json:"deadline,omitempty"`
	Urgency     *deadline.Urgency `json:"urgency,omitempty"`
	CompletedAt *string           `json:"completed_at,omitempty"`
	Files       []FileResponse    `json:"files"`
	CreatedAt   string            `json:"created_at"`
	UpdatedAt   string            `json:"updated_at"`
}

type TimelineEntryResponse struct {
	ID        string `json:"id"`
	Seq       int64  `json:"seq"`
	Status    string `json:"status"`
	Message   string `json:"message"`
	Actor     string `json:"actor"`
	ActorName string `json:"actor_name"`
	CreatedAt string `json:"created_at"`
}

type ProcessResponse struct {
	ID           string                  `json:"id"`
	Title        string                  `json:"title"`
	Description  string                  `json:"description,omitempty"`
	Status       string                  `json:"status"`
	StatusLabel  string                  `json:"status_label"`
	Deadline     *string                 `json:"deadline,omitempty"`
	Urgency      *deadline.Urgency       `json:"urgency,omitempty"`
	Notes        string                  `json:"notes,omitempty"`
	ClientID     *string                 `json:"client_id,omitempty"`
	ClientName   string                  `json:"client_name,omitempty"`
	Version      int64                   `json:"version"`
	ClosedAt     *string                 `json:"closed_at,omitempty"`
	CreatedAt    string                  `json:"created_at"`
	UpdatedAt    string                  `json:"updated_at"`
	Requirements []RequirementResponse   `json:"requirements,omitempty"`
	Tasks        []TaskResponse          `json:"tasks,omitempty"`
	Files        []FileResponse          `json:"files,omitempty"`
	Timeline     []TimelineEntryResponse `json:"timeline,omitempty"`
}

// --- Mapping helpers ---

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func toFileResponse(f model.FileAttachment) FileResponse {
	return FileResponse{
		ID:          f.ID.String(),
		Name:        f.Name,
		URL:         f.URL,
		ContentType: f.ContentType,
		Size:        f.Size,
		UploadedBy:  f.UploadedBy,
		UploadedAt:  formatTime(f.UploadedAt),
	}
}

func toFileResponses(files []model.FileAttachment) []FileResponse {
	out := make([]FileResponse, 0, len(files))
	for _, f := range files {
		out = append(out, toFileResponse(f))
	}
	return out
}

func toRequirementResponse(r model.Requirement, now time.Time) RequirementResponse {
	return RequirementResponse{
		ID:            r.ID.String(),
		ProcessID:     r.ProcessID.String(),
		Name:          r.Name,
		Description:   r.Description,
		Status:        r.Status,
		StatusLabel:   model.RequirementStatusLabel(r.Status),
		AdminComments: r.AdminComments,
		UserNote:      r.UserNote,
		Deadline:      formatTimePtr(r.Deadline),
		Urgency:       deadline.Classify(r.Deadline, now),
		Files:         toFileResponses(r.Files),
		CreatedAt:     formatTime(r.CreatedAt),
		UpdatedAt:     formatTime(r.UpdatedAt),
	}
}

func toTaskResponse(t model.AdminTask, now time.Time) TaskResponse {
	return TaskResponse{
		ID:          t.ID.String(),
		ProcessID:   t.ProcessID.String(),
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		StatusLabel: model.TaskStatusLabel(t.Status),
		Deadline:    formatTimePtr(t.Deadline),
		Urgency:     deadline.Classify(t.Deadline, now),
		CompletedAt: formatTimePtr(t.CompletedAt),
		Files:       toFileResponses(t.Files),
		CreatedAt:   formatTime(t.CreatedAt),
		UpdatedAt:   formatTime(t.UpdatedAt),
	}
}

func toTimelineEntryResponse(e model.TimelineEntry) TimelineEntryResponse {
	return TimelineEntryResponse{
		ID:        e.ID.String(),
		Seq:       e.Seq,
		Status:    e.Status,
		Message:   e.Message,
		Actor:     e.Actor,
		ActorName: e.ActorName,
		CreatedAt: formatTime(e.CreatedAt),
	}
}

// toProcessResponse maps the aggregate. The timeline arrives in append order
// and is presented reverse-chronologically, newest first.
func toProcessResponse(p model.Process, now time.Time) ProcessResponse {
	resp := ProcessResponse{
		ID:          p.ID.String(),
		Title:       p.Title,
		Description: p.Description,
		Status:      p.Status,
		StatusLabel: model.ProcessStatusLabel(p.Status),
		Deadline:    formatTimePtr(p.Deadline),
		Urgency:     deadline.Classify(p.Deadline, now),
		Notes:       p.Notes,
		Version:     p.Version,
		ClosedAt:    formatTimePtr(p.ClosedAt),
		CreatedAt:   formatTime(p.CreatedAt),
		UpdatedAt:   formatTime(p.UpdatedAt),
	}
	if p.ClientID != nil {
		s := p.ClientID.String()
		resp.ClientID = &s
	}
	if p.Client != nil {
		resp.ClientName = p.Client.Name
	}

	for _, r := range p.Requirements {
		resp.Requirements = append(resp.Requirements, toRequirementResponse(r, now))
	}
	for _, t := range p.Tasks {
		resp.Tasks = append(resp.Tasks, toTaskResponse(t, now))
	}
	resp.Files = toFileResponses(p.Files)

	for i := len(p.Timeline) - 1; i >= 0; i-- {
		resp.Timeline = append(resp.Timeline, toTimelineEntryResponse(p.Timeline[i]))
	}
	return resp
}
