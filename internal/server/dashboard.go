package server

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	resumedomain "github.com/DevVaradPatil/resume-analyzer/internal/resume/domain"
)

const recentResumeCount = 5

// DashboardStats serves the aggregate counters plus the most recent
// analyses. The counters drift slowly, so short-lived cache hits are
// fine; the recent list is always read fresh.
func (s *Server) DashboardStats(c *gin.Context) {
	userID := currentUserID(c)
	ctx := c.Request.Context()

	stats, ok := s.dashboardCache.GetStats(userID)
	if !ok {
		fresh, err := s.resumeSvc.UserStats(ctx, userID)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		s.dashboardCache.SetStats(userID, fresh)
		stats = fresh
	}

	recent, err := s.resumeSvc.List(ctx, resumedomain.ListRequest{
		UserID: userID,
		Limit:  recentResumeCount,
	})
	if err != nil {
		// The dashboard renders fine without the recent list.
		s.log.Warn("recent resume list failed", zap.Error(err))
		recent = nil
	}

	respondOK(c, gin.H{"stats": stats, "recent": recent})
}

func (s *Server) ListResumes(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, err := s.resumeSvc.List(c.Request.Context(), resumedomain.ListRequest{
		UserID: currentUserID(c),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, gin.H{"resumes": items})
}

func (s *Server) GetResume(c *gin.Context) {
	id, ok := resumeIDParam(c)
	if !ok {
		return
	}

	row, err := s.resumeSvc.GetByID(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, row)
}

func (s *Server) DeleteResume(c *gin.Context) {
	id, ok := resumeIDParam(c)
	if !ok {
		return
	}

	userID := currentUserID(c)
	if err := s.resumeSvc.Delete(c.Request.Context(), userID, id); err != nil {
		AbortWithError(c, err)
		return
	}

	// The deleted row feeds the aggregate counters.
	s.dashboardCache.InvalidateStats(userID)
	respondOK(c, gin.H{"deleted": true})
}

func resumeIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		AbortWithError(c, newValidationError("id", "invalid_id", "resume id must be a positive integer"))
		return 0, false
	}
	return id, true
}
