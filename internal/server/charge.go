package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func (s *Server) GetCharge(c *gin.Context) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id <= 0 {
		AbortWithError(c, newValidationError("id", "invalid_charge_id", "invalid charge id"))
		return
	}

	charge, err := s.chargeRepo.FindByID(c.Request.Context(), s.db, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if charge == nil {
		AbortWithError(c, gorm.ErrRecordNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": charge})
}
