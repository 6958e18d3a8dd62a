package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) GetSegment(c *gin.Context) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id <= 0 {
		AbortWithError(c, newValidationError("id", "invalid_segment_id", "invalid segment id"))
		return
	}

	segment, err := s.segmentSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": segment})
}

func (s *Server) ListSegments(c *gin.Context) {
	sectionType := strings.TrimSpace(c.Query("type"))

	segments, err := s.segmentSvc.ListByType(c.Request.Context(), sectionType)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": segments})
}
