package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	vehicledomain "github.com/tollgrid/tollgrid/internal/vehicle/domain"
)

type registerVehicleRequest struct {
	Plate           string `json:"plate"`
	VIN             string `json:"vin"`
	OwnerID         int64  `json:"owner_id"`
	EmissionClassID int64  `json:"emission_class_id"`
	Axles           int    `json:"axles"`
	WeightKg        int    `json:"weight_kg"`
	Country         string `json:"country"`
}

func (s *Server) RegisterVehicle(c *gin.Context) {
	var req registerVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.vehicleSvc.Register(c.Request.Context(), vehicledomain.RegisterVehicleRequest{
		Plate:           strings.TrimSpace(req.Plate),
		VIN:             strings.TrimSpace(req.VIN),
		OwnerID:         req.OwnerID,
		EmissionClassID: req.EmissionClassID,
		Axles:           req.Axles,
		WeightKg:        req.WeightKg,
		Country:         strings.TrimSpace(req.Country),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeregisterVehicle(c *gin.Context) {
	if err := s.vehicleSvc.Deregister(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) DeleteVehicle(c *gin.Context) {
	if err := s.vehicleSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) GetDeviceStatus(c *gin.Context) {
	status, err := s.vehicleSvc.DeviceStatus(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": status}})
}

type setDeviceStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) SetDeviceStatus(c *gin.Context) {
	var req setDeviceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	err := s.vehicleSvc.SetDeviceStatus(c.Request.Context(), strings.TrimSpace(c.Param("id")), strings.TrimSpace(req.Status))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) GetChargeOwner(c *gin.Context) {
	chargeID, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || chargeID <= 0 {
		AbortWithError(c, newValidationError("id", "invalid_charge_id", "invalid charge id"))
		return
	}

	ownerID, err := s.vehicleSvc.OwnerForCharge(c.Request.Context(), chargeID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"owner_id": ownerID}})
}
