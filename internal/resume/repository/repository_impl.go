package repository

import (
	"context"
	"time"

	"github.com/DevVaradPatil/resume-analyzer/internal/resume/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertResume(ctx context.Context, db *gorm.DB, resume *domain.Resume) error {
	return db.WithContext(ctx).Exec(`
		INSERT INTO resumes (id, user_id, file_name, content, analysis_result, analysis_type, job_description, score, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, resume.ID, resume.UserID, resume.FileName, resume.Content, resume.AnalysisResult,
		resume.AnalysisType, resume.JobDescription, resume.Score, resume.CreatedAt, resume.UpdatedAt).Error
}

func (r *repo) InsertLog(ctx context.Context, db *gorm.DB, entry *domain.AnalysisLog) error {
	return db.WithContext(ctx).Exec(`
		INSERT INTO analysis_logs (id, user_id, resume_id, model_used, analysis_type, section_type, success, error_message, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.UserID, entry.ResumeID, entry.ModelUsed, entry.AnalysisType,
		entry.SectionType, entry.Success, entry.ErrorMessage, entry.DurationMs, entry.CreatedAt).Error
}

func (r *repo) ListByUser(ctx context.Context, db *gorm.DB, userID string, limit, offset int) ([]domain.ResumeSummary, error) {
	var rows []domain.ResumeSummary
	err := db.WithContext(ctx).Raw(`
		SELECT id, file_name, analysis_type, score, created_at, updated_at
		FROM resumes
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, userID, limit, offset).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, userID string, id int64) (*domain.Resume, error) {
	var resume domain.Resume
	err := db.WithContext(ctx).Raw(`
		SELECT id, user_id, file_name, content, analysis_result, analysis_type, job_description, score, created_at, updated_at
		FROM resumes
		WHERE id = ? AND user_id = ?
	`, id, userID).Scan(&resume).Error
	if err != nil {
		return nil, err
	}
	if resume.ID == 0 {
		return nil, nil
	}
	return &resume, nil
}

func (r *repo) DeleteByID(ctx context.Context, db *gorm.DB, userID string, id int64) (int64, error) {
	result := db.WithContext(ctx).Exec(`
		DELETE FROM resumes WHERE id = ? AND user_id = ?
	`, id, userID)
	return result.RowsAffected, result.Error
}

func (r *repo) StatsByUser(ctx context.Context, db *gorm.DB, userID string) (*domain.Stats, error) {
	var resumeAgg struct {
		TotalResumes int64
		AverageScore float64
	}
	err := db.WithContext(ctx).Raw(`
		SELECT COUNT(*) AS total_resumes, COALESCE(AVG(score), 0) AS average_score
		FROM resumes
		WHERE user_id = ?
	`, userID).Scan(&resumeAgg).Error
	if err != nil {
		return nil, err
	}

	var totalAnalyses int64
	err = db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM analysis_logs WHERE user_id = ?
	`, userID).Scan(&totalAnalyses).Error
	if err != nil {
		return nil, err
	}

	var lastAnalysisAt *time.Time
	if totalAnalyses > 0 {
		var last struct {
			CreatedAt time.Time
		}
		err = db.WithContext(ctx).Raw(`
			SELECT created_at FROM analysis_logs
			WHERE user_id = ?
			ORDER BY created_at DESC
			LIMIT 1
		`, userID).Scan(&last).Error
		if err != nil {
			return nil, err
		}
		lastAnalysisAt = &last.CreatedAt
	}

	return &domain.Stats{
		TotalResumes:   resumeAgg.TotalResumes,
		TotalAnalyses:  totalAnalyses,
		AverageScore:   int64(resumeAgg.AverageScore + 0.5),
		LastAnalysisAt: lastAnalysisAt,
	}, nil
}
