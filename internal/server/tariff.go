package server

import (
	"github.com/gin-gonic/gin"
	tariffdomain "github.com/tirtalabs/tirta/internal/tariff/domain"
)

func (s *Server) ListTariffs(c *gin.Context) {
	tariffs, err := s.tariffSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, tariffs)
}

func (s *Server) CreateTariff(c *gin.Context) {
	var req tariffdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("body", "invalid_request", err.Error()))
		return
	}

	tariff, err := s.tariffSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, tariff)
}

func (s *Server) GetTariff(c *gin.Context) {
	tariff, err := s.tariffSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, tariff)
}

func (s *Server) UpdateTariff(c *gin.Context) {
	var req tariffdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("body", "invalid_request", err.Error()))
		return
	}
	req.ID = c.Param("id")

	tariff, err := s.tariffSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, tariff)
}

func (s *Server) DeleteTariff(c *gin.Context) {
	if err := s.tariffSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{"deleted": true})
}
