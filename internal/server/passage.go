package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	assessmentdomain "github.com/tollgrid/tollgrid/internal/assessment/domain"
)

type reportPassageRequest struct {
	SegmentID int64  `json:"segment_id"`
	Axles     int    `json:"axles"`
	Plate     string `json:"plate"`
}

// ReportPassage ingests one gantry read. The caller only needs to know
// whether the passage was accepted; pricing and booking state are
// internal, so success is a bare 204.
func (s *Server) ReportPassage(c *gin.Context) {
	var req reportPassageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	ctx := c.Request.Context()
	plate := strings.TrimSpace(req.Plate)

	if s.passageLimiter.Enabled() {
		allowed, err := s.passageLimiter.AllowPlate(ctx, plate)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if !allowed {
			if s.obsMetrics != nil {
				s.obsMetrics.RecordRateLimitDenied(ctx, "passages", "plate_rate")
			}
			AbortWithError(c, ErrRateLimited)
			return
		}

		token, locked, err := s.passageLimiter.TryLockPassage(ctx, plate, req.SegmentID)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if !locked {
			if s.obsMetrics != nil {
				s.obsMetrics.RecordRateLimitDenied(ctx, "passages", "concurrent_passage")
			}
			AbortWithError(c, ErrRateLimited)
			return
		}
		defer func() {
			_ = s.passageLimiter.ReleasePassage(ctx, plate, req.SegmentID, token)
		}()
	}

	_, err := s.assessmentSvc.Assess(ctx, assessmentdomain.AssessRequest{
		SegmentID: req.SegmentID,
		Axles:     req.Axles,
		Plate:     plate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
