package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ethan-geography-nea/price-paid/internal/analysis"
	"github.com/ethan-geography-nea/price-paid/internal/api/models"
	"github.com/ethan-geography-nea/price-paid/internal/config"
	"github.com/ethan-geography-nea/price-paid/internal/pipeline"
	"github.com/ethan-geography-nea/price-paid/internal/pivot"
)

// AnalyseHandler handles full pipeline runs
type AnalyseHandler struct {
	logger *logrus.Logger
}

// NewAnalyseHandler creates a new analyse handler
func NewAnalyseHandler(logger *logrus.Logger) *AnalyseHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &AnalyseHandler{logger: logger}
}

// RunAnalysis handles POST /api/v1/analyse
func (h *AnalyseHandler) RunAnalysis(c *gin.Context) {
	var req models.AnalyseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	params := h.buildParams(req)
	result, err := pipeline.Run(params, h.logger)
	if err != nil {
		status, code := classify(err)
		c.JSON(status, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    code,
				Message: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.AnalyseResponse{
		Status:  "completed",
		Summary: result,
	})
}

func (h *AnalyseHandler) buildParams(req models.AnalyseRequest) pipeline.RunParams {
	minSales := config.DefaultMinSaleCount
	if req.MinSaleCount != nil {
		minSales = *req.MinSaleCount
	}
	minSpan := int64(config.DefaultMinSpanDays)
	if req.MinSpanDays != nil {
		minSpan = *req.MinSpanDays
	}

	regions := make([]pipeline.RegionSource, 0, len(req.Regions))
	for _, r := range req.Regions {
		regions = append(regions, pipeline.RegionSource{Name: r.Name, Path: r.ReferenceFile})
	}

	return pipeline.RunParams{
		SalesPath:          req.SalesFile,
		Regions:            regions,
		LengthFilter:       analysis.MinSaleCount(minSales),
		DateDistanceFilter: analysis.MinSpanDays(minSpan),
		TopN:               req.TopN,
		PriceTablePath:     req.PriceTable,
		DiffTablePath:      req.DiffTable,
	}
}

// classify maps pipeline errors onto HTTP statuses and stable error codes.
func classify(err error) (int, string) {
	var emptySel *analysis.EmptySelectionError
	var missingKey *analysis.MissingReferenceKeyError
	var divZero *analysis.DivisionByZeroError
	var sinkErr *pivot.SinkWriteError

	switch {
	case errors.As(err, &emptySel):
		return http.StatusUnprocessableEntity, "EMPTY_SELECTION"
	case errors.As(err, &missingKey):
		return http.StatusUnprocessableEntity, "MISSING_REFERENCE_KEY"
	case errors.As(err, &divZero):
		return http.StatusUnprocessableEntity, "DIVISION_BY_ZERO"
	case errors.As(err, &sinkErr):
		return http.StatusInternalServerError, "SINK_WRITE_ERROR"
	default:
		return http.StatusBadRequest, "RUN_ERROR"
	}
}
