package domain

import (
	"time"

	"gorm.io/datatypes"
)

type AnalysisType string

const (
	AnalysisJobMatch           AnalysisType = "job_match"
	AnalysisOverall            AnalysisType = "overall"
	AnalysisSectionImprovement AnalysisType = "section_improvement"
)

// Resume is one stored analysis: the extracted text plus the full
// report the engine produced for it.
type Resume struct {
	ID             int64             `gorm:"primaryKey" json:"id,string"`
	UserID         string            `json:"user_id"`
	FileName       string            `json:"file_name"`
	Content        string            `json:"content,omitempty"`
	AnalysisResult datatypes.JSONMap `json:"analysis_result,omitempty"`
	AnalysisType   AnalysisType      `json:"analysis_type"`
	JobDescription *string           `json:"job_description,omitempty"`
	Score          *int64            `json:"score,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func (Resume) TableName() string {
	return "resumes"
}

// AnalysisLog is the operational trail behind every engine call,
// successful or not.
type AnalysisLog struct {
	ID           int64        `gorm:"primaryKey" json:"id,string"`
	UserID       string       `json:"user_id"`
	ResumeID     *int64       `json:"resume_id,omitempty"`
	ModelUsed    string       `json:"model_used"`
	AnalysisType AnalysisType `json:"analysis_type"`
	SectionType  *string      `json:"section_type,omitempty"`
	Success      bool         `json:"success"`
	ErrorMessage *string      `json:"error_message,omitempty"`
	DurationMs   int64        `json:"duration_ms"`
	CreatedAt    time.Time    `json:"created_at"`
}

func (AnalysisLog) TableName() string {
	return "analysis_logs"
}
