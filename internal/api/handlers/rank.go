package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ethan-geography-nea/price-paid/internal/analysis"
	"github.com/ethan-geography-nea/price-paid/internal/api/models"
	"github.com/ethan-geography-nea/price-paid/internal/data"
)

// RankHandler handles ranking-related requests
type RankHandler struct {
	logger *logrus.Logger
}

// NewRankHandler creates a new rank handler
func NewRankHandler(logger *logrus.Logger) *RankHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &RankHandler{logger: logger}
}

// RankProperties handles GET /api/v1/rank
func (h *RankHandler) RankProperties(c *gin.Context) {
	var req models.RankRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	sales, err := data.LoadSaleCSV(req.SalesFile, h.logger)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "DATA_READ_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	var topN *int
	if req.Limit > 0 {
		topN = &req.Limit
	}
	ranked, err := analysis.Rank(
		data.GroupByProperty(sales),
		analysis.MinSaleCount(req.MinSaleCount),
		analysis.MinSpanDays(req.MinSpanDays),
		topN,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "RANK_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	resp := models.RankResponse{Properties: make([]models.RankedProperty, 0, len(ranked))}
	for i, dp := range ranked {
		resp.Properties = append(resp.Properties, models.RankedProperty{
			Rank:     i + 1,
			Property: dp.Key.Label(),
			Score:    dp.Score,
			Sales:    dp.Series.Count(),
			First:    dp.First,
			Last:     dp.Last,
			SpanDays: dp.Series.SpanDays(),
		})
	}
	c.JSON(http.StatusOK, resp)
}
