package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidUserID = errors.New("invalid_user_id")
	ErrNotFound      = errors.New("resume_not_found")
)

type SaveRequest struct {
	UserID         string         `json:"user_id"`
	FileName       string         `json:"file_name"`
	Content        string         `json:"content"`
	AnalysisResult map[string]any `json:"analysis_result"`
	AnalysisType   AnalysisType   `json:"analysis_type"`
	JobDescription *string        `json:"job_description,omitempty"`
	Score          *int64         `json:"score,omitempty"`
}

type LogRequest struct {
	UserID       string       `json:"user_id"`
	ResumeID     *int64       `json:"resume_id,omitempty"`
	ModelUsed    string       `json:"model_used"`
	AnalysisType AnalysisType `json:"analysis_type"`
	SectionType  *string      `json:"section_type,omitempty"`
	Success      bool         `json:"success"`
	ErrorMessage *string      `json:"error_message,omitempty"`
	DurationMs   int64        `json:"duration_ms"`
}

type ListRequest struct {
	UserID string `json:"user_id"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

// ResumeSummary is the listing projection: no body, no report.
type ResumeSummary struct {
	ID           int64        `json:"id,string"`
	FileName     string       `json:"file_name"`
	AnalysisType AnalysisType `json:"analysis_type"`
	Score        *int64       `json:"score,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

type Stats struct {
	TotalResumes   int64      `json:"total_resumes"`
	TotalAnalyses  int64      `json:"total_analyses"`
	AverageScore   int64      `json:"average_score"`
	LastAnalysisAt *time.Time `json:"last_analysis_at,omitempty"`
}

// Service is the resume history: saved analyses, the audit log behind
// them, and the aggregate stats the dashboard shows.
type Service interface {
	SaveAnalysis(ctx context.Context, req SaveRequest) (*Resume, error)
	LogAnalysis(ctx context.Context, req LogRequest) error
	List(ctx context.Context, req ListRequest) ([]ResumeSummary, error)
	GetByID(ctx context.Context, userID string, id int64) (*Resume, error)
	Delete(ctx context.Context, userID string, id int64) error
	UserStats(ctx context.Context, userID string) (*Stats, error)
}
