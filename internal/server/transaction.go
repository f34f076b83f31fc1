package server

import (
	"github.com/gin-gonic/gin"
	ledgerdomain "github.com/tirtalabs/tirta/internal/ledger/domain"
)

func (s *Server) ListTransactions(c *gin.Context) {
	var req ledgerdomain.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, newValidationError("query", "invalid_request", err.Error()))
		return
	}

	txs, err := s.ledgerSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, txs)
}

func (s *Server) CreateTransaction(c *gin.Context) {
	var req ledgerdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("body", "invalid_request", err.Error()))
		return
	}

	tx, err := s.ledgerSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, tx)
}

func (s *Server) GetTransaction(c *gin.Context) {
	tx, err := s.ledgerSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, tx)
}

func (s *Server) UpdateTransaction(c *gin.Context) {
	var req ledgerdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("body", "invalid_request", err.Error()))
		return
	}
	req.ID = c.Param("id")

	tx, err := s.ledgerSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, tx)
}

func (s *Server) DeleteTransaction(c *gin.Context) {
	if err := s.ledgerSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{"deleted": true})
}
