package server

import (
	"github.com/gin-gonic/gin"
	readingdomain "github.com/tirtalabs/tirta/internal/reading/domain"
)

func (s *Server) ListReadings(c *gin.Context) {
	var req readingdomain.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, newValidationError("query", "invalid_request", err.Error()))
		return
	}

	resp, err := s.readingSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, resp.Readings, resp.PageInfo)
}

func (s *Server) RecordReading(c *gin.Context) {
	var req readingdomain.RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("body", "invalid_request", err.Error()))
		return
	}

	resp, err := s.readingSvc.Record(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

func (s *Server) GetReading(c *gin.Context) {
	reading, err := s.readingSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, reading)
}

func (s *Server) DeleteReading(c *gin.Context) {
	if err := s.readingSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{"deleted": true})
}
