package server

import (
	"github.com/gin-gonic/gin"
	billingdomain "github.com/tirtalabs/tirta/internal/billing/domain"
)

func (s *Server) ListBills(c *gin.Context) {
	var req billingdomain.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, newValidationError("query", "invalid_request", err.Error()))
		return
	}

	resp, err := s.billingSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, resp.Bills, resp.PageInfo)
}

func (s *Server) GetBill(c *gin.Context) {
	bill, err := s.billingSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, bill)
}

func (s *Server) PayBill(c *gin.Context) {
	var req billingdomain.PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("body", "invalid_request", err.Error()))
		return
	}
	req.BillID = c.Param("id")

	resp, err := s.billingSvc.MarkPaid(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

func (s *Server) UnpayBill(c *gin.Context) {
	bill, err := s.billingSvc.MarkUnpaid(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, bill)
}
