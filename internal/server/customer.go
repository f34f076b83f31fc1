package server

import (
	"github.com/gin-gonic/gin"
	customerdomain "github.com/tirtalabs/tirta/internal/customer/domain"
)

func (s *Server) ListCustomers(c *gin.Context) {
	var req customerdomain.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, newValidationError("query", "invalid_request", err.Error()))
		return
	}

	resp, err := s.customerSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, resp.Customers, resp.PageInfo)
}

func (s *Server) CreateCustomer(c *gin.Context) {
	var req customerdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("body", "invalid_request", err.Error()))
		return
	}

	customer, err := s.customerSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, customer)
}

func (s *Server) GetCustomer(c *gin.Context) {
	customer, err := s.customerSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, customer)
}

func (s *Server) UpdateCustomer(c *gin.Context) {
	var req customerdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("body", "invalid_request", err.Error()))
		return
	}
	req.ID = c.Param("id")

	customer, err := s.customerSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, customer)
}

func (s *Server) DeleteCustomer(c *gin.Context) {
	if err := s.customerSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{"deleted": true})
}
