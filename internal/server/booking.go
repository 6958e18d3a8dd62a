package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	bookingdomain "github.com/tollgrid/tollgrid/internal/booking/domain"
)

type createBookingRequest struct {
	Plate      string `json:"plate"`
	SegmentID  int64  `json:"segment_id"`
	CategoryID int64  `json:"category_id"`
}

func (s *Server) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	booking, err := s.bookingSvc.Create(c.Request.Context(), bookingdomain.CreateBookingRequest{
		Plate:      strings.TrimSpace(req.Plate),
		SegmentID:  req.SegmentID,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": booking})
}

func (s *Server) GetBookingForPlate(c *gin.Context) {
	plate := strings.TrimSpace(c.Query("plate"))
	if plate == "" {
		AbortWithError(c, newValidationError("plate", "invalid_plate", "plate is required"))
		return
	}

	booking, err := s.bookingSvc.FindAnyForPlate(c.Request.Context(), plate)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": booking})
}
