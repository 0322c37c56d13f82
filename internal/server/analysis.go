package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	analysisdomain "github.com/DevVaradPatil/resume-analyzer/internal/analysis/domain"
	entitlementdomain "github.com/DevVaradPatil/resume-analyzer/internal/entitlement/domain"
	resumedomain "github.com/DevVaradPatil/resume-analyzer/internal/resume/domain"
	"github.com/DevVaradPatil/resume-analyzer/internal/tier"
)

// validSections is the closed set of resume sections the improve
// endpoint rewrites. Unknown sections are rejected before any quota is
// consumed.
var validSections = map[string]bool{
	"summary":    true,
	"experience": true,
	"skills":     true,
	"education":  true,
	"projects":   true,
}

// AnalyzeMatch scores an uploaded resume against a job description.
func (s *Server) AnalyzeMatch(c *gin.Context) {
	userID := currentUserID(c)
	started := s.clock.Now()

	if !s.admitAnalysis(c, userID, tier.FeatureAnalyze) {
		return
	}

	text, fileName, ok := s.extractUpload(c, userID)
	if !ok {
		return
	}

	jobDescription := strings.TrimSpace(c.PostForm("job_description"))
	if jobDescription == "" {
		AbortWithError(c, analysisdomain.ErrEmptyJobDescription)
		return
	}

	report, err := s.analysisEngine.AnalyzeMatch(c.Request.Context(), analysisdomain.MatchRequest{
		ResumeText:     text,
		JobDescription: jobDescription,
	})
	if err != nil {
		s.finishAnalysis(c, analysisOutcome{
			userID:       userID,
			analysisType: resumedomain.AnalysisJobMatch,
			started:      started,
			err:          err,
		})
		AbortWithError(c, upstreamError(err))
		return
	}

	saved := s.saveReport(c, resumedomain.SaveRequest{
		UserID:         userID,
		FileName:       fileName,
		Content:        text,
		AnalysisResult: report,
		AnalysisType:   resumedomain.AnalysisJobMatch,
		JobDescription: &jobDescription,
		Score:          extractScore(report),
	})

	s.recordUsage(c, userID, tier.FeatureAnalyze, map[string]any{"file_name": fileName})
	s.finishAnalysis(c, analysisOutcome{
		userID:       userID,
		analysisType: resumedomain.AnalysisJobMatch,
		started:      started,
		resumeID:     saved,
	})

	respondOK(c, gin.H{"report": report, "resume_id": formatID(saved)})
}

// AnalyzeOverall reviews a resume on its own, without a job description.
func (s *Server) AnalyzeOverall(c *gin.Context) {
	userID := currentUserID(c)
	started := s.clock.Now()

	if !s.admitAnalysis(c, userID, tier.FeatureAnalytics) {
		return
	}

	text, fileName, ok := s.extractUpload(c, userID)
	if !ok {
		return
	}

	report, err := s.analysisEngine.AnalyzeResume(c.Request.Context(), text)
	if err != nil {
		s.finishAnalysis(c, analysisOutcome{
			userID:       userID,
			analysisType: resumedomain.AnalysisOverall,
			started:      started,
			err:          err,
		})
		AbortWithError(c, upstreamError(err))
		return
	}

	saved := s.saveReport(c, resumedomain.SaveRequest{
		UserID:         userID,
		FileName:       fileName,
		Content:        text,
		AnalysisResult: report,
		AnalysisType:   resumedomain.AnalysisOverall,
		Score:          extractScore(report),
	})

	s.recordUsage(c, userID, tier.FeatureAnalytics, map[string]any{"file_name": fileName})
	s.finishAnalysis(c, analysisOutcome{
		userID:       userID,
		analysisType: resumedomain.AnalysisOverall,
		started:      started,
		resumeID:     saved,
	})

	respondOK(c, gin.H{"report": report, "resume_id": formatID(saved)})
}

type improveSectionBody struct {
	SectionType  string `json:"section_type"`
	OriginalText string `json:"original_text"`
}

// ImproveSection rewrites one resume section.
func (s *Server) ImproveSection(c *gin.Context) {
	userID := currentUserID(c)
	started := s.clock.Now()

	var body improveSectionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	section := strings.ToLower(strings.TrimSpace(body.SectionType))
	if !validSections[section] {
		AbortWithError(c, newValidationError("section_type", "invalid_section", "unknown resume section"))
		return
	}

	if !s.admitAnalysis(c, userID, tier.FeatureImprove) {
		return
	}

	report, err := s.analysisEngine.ImproveSection(c.Request.Context(), analysisdomain.ImproveRequest{
		Section:      section,
		OriginalText: body.OriginalText,
	})
	if err != nil {
		s.finishAnalysis(c, analysisOutcome{
			userID:       userID,
			analysisType: resumedomain.AnalysisSectionImprovement,
			started:      started,
			section:      section,
			err:          err,
		})
		AbortWithError(c, upstreamError(err))
		return
	}

	s.recordUsage(c, userID, tier.FeatureImprove, map[string]any{"section": section})
	s.finishAnalysis(c, analysisOutcome{
		userID:       userID,
		analysisType: resumedomain.AnalysisSectionImprovement,
		started:      started,
		section:      section,
	})

	respondOK(c, gin.H{"report": report})
}

// admitAnalysis runs the burst limiter and the quota check. It writes
// the denial response itself and reports whether the request may
// proceed.
func (s *Server) admitAnalysis(c *gin.Context, userID string, feature tier.Feature) bool {
	ctx := c.Request.Context()

	if s.analysisLimiter.Enabled() {
		result, err := s.analysisLimiter.AllowUser(ctx, userID)
		if err != nil {
			// Redis being down must not take analysis down with it.
			s.log.Warn("analysis rate limiter unavailable", zap.Error(err))
		} else if !result.Allowed {
			AbortWithError(c, ErrRateLimited)
			return false
		}
	}

	check, err := s.entitlementSvc.CheckFeature(ctx, userID, feature)
	if err != nil {
		AbortWithError(c, err)
		return false
	}
	if !check.Allowed {
		if s.obsMetrics != nil {
			s.obsMetrics.RecordEntitlementDenied(ctx, string(feature), check.Reason)
		}
		status := http.StatusForbidden
		if check.Reason == entitlementdomain.ReasonLimitReached {
			status = http.StatusTooManyRequests
		}
		c.AbortWithStatusJSON(status, gin.H{"entitlement": check})
		return false
	}
	return true
}

// extractUpload pulls the resume file out of the multipart form,
// enforces the tier's size cap with a 413, and extracts its text. It
// writes error responses itself.
func (s *Server) extractUpload(c *gin.Context, userID string) (text, fileName string, ok bool) {
	header, err := c.FormFile("resume")
	if err != nil {
		AbortWithError(c, newValidationError("resume", "missing_file", "resume file is required"))
		return "", "", false
	}

	sizeCheck, err := s.entitlementSvc.CheckFileSize(c.Request.Context(), userID, header.Size)
	if err != nil {
		AbortWithError(c, err)
		return "", "", false
	}
	if !sizeCheck.Allowed {
		if s.obsMetrics != nil {
			s.obsMetrics.RecordEntitlementDenied(c.Request.Context(), "file_size", sizeCheck.Reason)
		}
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"entitlement": sizeCheck})
		return "", "", false
	}

	data, err := readUpload(header)
	if err != nil {
		AbortWithError(c, newValidationError("resume", "unreadable_file", "could not read uploaded file"))
		return "", "", false
	}

	text, err = s.extractor.ExtractText(c.Request.Context(), data)
	if err != nil {
		AbortWithError(c, err)
		return "", "", false
	}
	return text, header.Filename, true
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(io.LimitReader(file, header.Size))
}

type analysisOutcome struct {
	userID       string
	analysisType resumedomain.AnalysisType
	started      time.Time
	section      string
	resumeID     *int64
	err          error
}

// finishAnalysis writes the audit log row and the metrics for one
// engine call, success or failure. Neither may fail the request.
func (s *Server) finishAnalysis(c *gin.Context, outcome analysisOutcome) {
	ctx := c.Request.Context()
	duration := s.clock.Now().Sub(outcome.started)

	logReq := resumedomain.LogRequest{
		UserID:       outcome.userID,
		ResumeID:     outcome.resumeID,
		ModelUsed:    s.cfg.Gemini.Model,
		AnalysisType: outcome.analysisType,
		Success:      outcome.err == nil,
		DurationMs:   duration.Milliseconds(),
	}
	if outcome.section != "" {
		logReq.SectionType = &outcome.section
	}
	if outcome.err != nil {
		msg := outcome.err.Error()
		logReq.ErrorMessage = &msg
	}
	if err := s.resumeSvc.LogAnalysis(ctx, logReq); err != nil {
		s.log.Warn("analysis log write failed", zap.Error(err))
	}

	if s.obsMetrics != nil {
		status := "success"
		if outcome.err != nil {
			status = "error"
		}
		s.obsMetrics.RecordAnalysis(ctx, string(outcome.analysisType), status, duration)
	}
}

// saveReport persists the analysis for the history page. Persistence
// failure is logged, not surfaced: the caller already has the report.
func (s *Server) saveReport(c *gin.Context, req resumedomain.SaveRequest) *int64 {
	saved, err := s.resumeSvc.SaveAnalysis(c.Request.Context(), req)
	if err != nil {
		s.log.Warn("resume save failed", zap.Error(err))
		return nil
	}
	s.dashboardCache.InvalidateStats(req.UserID)
	return &saved.ID
}

// recordUsage burns one quota unit. Losing the write means one free
// call for the user, never a failed request.
func (s *Server) recordUsage(c *gin.Context, userID string, feature tier.Feature, metadata map[string]any) {
	err := s.entitlementSvc.Record(c.Request.Context(), entitlementdomain.RecordRequest{
		UserID:   userID,
		Feature:  feature,
		Metadata: metadata,
	})
	if err != nil {
		s.log.Warn("usage record failed",
			zap.String("feature", string(feature)),
			zap.Error(err),
		)
	}
}

// upstreamError keeps caller-input sentinels intact and folds
// everything else into a 502.
func upstreamError(err error) error {
	switch {
	case errors.Is(err, analysisdomain.ErrEmptyResumeText),
		errors.Is(err, analysisdomain.ErrEmptyJobDescription),
		errors.Is(err, analysisdomain.ErrEmptySectionText),
		errors.Is(err, analysisdomain.ErrMalformedResponse):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
}

// extractScore lifts the headline score out of a report when the model
// produced one. The report schema is prompt-owned, so this is best
// effort.
func extractScore(report analysisdomain.Report) *int64 {
	for _, key := range []string{"match_score", "overall_score", "score"} {
		raw, ok := report[key]
		if !ok {
			continue
		}
		switch v := raw.(type) {
		case float64:
			score := int64(v + 0.5)
			return &score
		case int64:
			score := v
			return &score
		}
	}
	return nil
}

func formatID(id *int64) any {
	if id == nil {
		return nil
	}
	return fmt.Sprintf("%d", *id)
}
