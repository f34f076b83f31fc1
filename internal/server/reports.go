package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// reportYear parses the optional ?year= filter; zero means all time.
func reportYear(c *gin.Context) (int, error) {
	raw := strings.TrimSpace(c.Query("year"))
	if raw == "" {
		return 0, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 0 {
		return 0, newValidationError("year", "invalid_year", "year must be a number")
	}
	return year, nil
}

func (s *Server) GetLedgerReport(c *gin.Context) {
	year, err := reportYear(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	view, err := s.financeSvc.Ledger(c.Request.Context(), year)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, view)
}

func (s *Server) GetProfitAndLoss(c *gin.Context) {
	year, err := reportYear(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	pnl, err := s.financeSvc.ProfitAndLoss(c.Request.Context(), year)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, pnl)
}

func (s *Server) GetBalanceSheet(c *gin.Context) {
	year, err := reportYear(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	sheet, err := s.financeSvc.BalanceSheet(c.Request.Context(), year)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, sheet)
}

func (s *Server) GetCashFlow(c *gin.Context) {
	year, err := reportYear(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	flow, err := s.financeSvc.CashFlow(c.Request.Context(), year)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, flow)
}

func (s *Server) GetRevenueJournal(c *gin.Context) {
	year, err := reportYear(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	rows, err := s.financeSvc.RevenueJournal(c.Request.Context(), year)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, rows)
}

func (s *Server) GetIncomeJournal(c *gin.Context) {
	year, err := reportYear(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	rows, err := s.financeSvc.IncomeJournal(c.Request.Context(), year)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, rows)
}

func (s *Server) GetExpenseJournal(c *gin.Context) {
	year, err := reportYear(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	rows, err := s.financeSvc.ExpenseJournal(c.Request.Context(), year)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, rows)
}

func (s *Server) GetOverview(c *gin.Context) {
	dashboard, err := s.overviewSvc.Dashboard(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, dashboard)
}
