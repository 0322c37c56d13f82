package domain

import (
	"context"
	"errors"
)

var (
	ErrEmptyResumeText     = errors.New("empty_resume_text")
	ErrEmptyJobDescription = errors.New("empty_job_description")
	ErrEmptySectionText    = errors.New("empty_section_text")
	ErrMalformedResponse   = errors.New("malformed_model_response")
)

// Report is the model's analysis verbatim. The schema is owned by the
// prompt, not by this service; clients and the resume history store
// both treat it as opaque JSON.
type Report map[string]any

type MatchRequest struct {
	ResumeText     string `json:"resume_text"`
	JobDescription string `json:"job_description"`
}

type ImproveRequest struct {
	Section      string `json:"section"`
	OriginalText string `json:"original_text"`
}

// Engine produces resume analysis reports. Implementations call a
// generative model; tests swap in a canned engine.
type Engine interface {
	AnalyzeMatch(ctx context.Context, req MatchRequest) (Report, error)
	AnalyzeResume(ctx context.Context, resumeText string) (Report, error)
	ImproveSection(ctx context.Context, req ImproveRequest) (Report, error)
}
