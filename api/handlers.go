package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"relimeter/adapters/excel"
	"relimeter/domain/core"
	"relimeter/domain/reliability"
	apperrors "relimeter/internal/errors"
	"relimeter/ports"
)

func (s *Server) handleScore(c *gin.Context) {
	var req ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	article, err := req.Article.ToFeatures()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.reliability.Score(c.Request.Context(), article, req.UseCase)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleBatch(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	articles := make([]reliability.ArticleFeatures, 0, len(req.Articles))
	for _, payload := range req.Articles {
		article, err := payload.ToFeatures()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		articles = append(articles, article)
	}

	ranked, err := s.reliability.Rank(c.Request.Context(), articles, req.UseCase)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"use_case": req.UseCase,
		"count":    len(ranked),
		"results":  ranked,
	})
}

func (s *Server) handleTop(c *gin.Context) {
	var req TopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := req.ParseDate()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rows, err := s.snapshots.Top(c.Request.Context(), ports.TopQuery{
		TherapeuticArea: req.TherapeuticArea,
		UseCase:         req.UseCase,
		Date:            date,
		Limit:           req.Limit,
	})
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"therapeutic_area": req.TherapeuticArea,
		"use_case":         req.UseCase,
		"count":            len(rows),
		"journals":         rows,
	})
}

func (s *Server) handleTopExport(c *gin.Context) {
	area := c.Query("therapeutic_area")
	useCase := c.Query("use_case")
	if area == "" || useCase == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "therapeutic_area and use_case are required"})
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	rows, err := s.snapshots.Top(c.Request.Context(), ports.TopQuery{
		TherapeuticArea: area,
		UseCase:         useCase,
		Limit:           limit,
	})
	if err != nil {
		s.renderError(c, err)
		return
	}

	workbook, err := excel.TopJournalsWorkbook(rows)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+excel.ExportFilename(area, useCase))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := workbook.Write(c.Writer); err != nil {
		s.logger.Error("streaming workbook: %v", err)
	}
}

func (s *Server) handleWeights(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"profiles": reliability.Profiles()})
}

func (s *Server) handleCompare(c *gin.Context) {
	journal := c.Param("journal")
	useCase := c.Query("use_case")
	if useCase == "" {
		useCase = string(reliability.UseCaseClinical)
	}

	report, err := s.comparison.Compare(c.Request.Context(), journal, useCase, c.QueryArray("therapeutic_area"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// renderError maps service errors onto HTTP statuses. Configuration and
// input errors are the caller's to fix; everything else is ours.
func (s *Server) renderError(c *gin.Context, err error) {
	switch {
	case core.IsConfigurationError(err), apperrors.GetCode(err) == apperrors.CodeInvalidInput:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case core.IsNotFoundError(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		s.logger.Error("request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
