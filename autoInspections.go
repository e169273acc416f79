package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gatsolucoes/gat_backend/config"
	"github.com/gatsolucoes/gat_backend/workflow"
)

func generateInspectionsHandler(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "auto-inspections.generate")
	defer span.End()

	var req workflow.AutoInspectionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
	}

	result, err := workflow.GenerateInspections(ctx, &req)
	if err != nil {
		if errors.Is(err, workflow.ErrInvalidMonthsAhead) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		config.LogError(config.GetLogger(), "autoInspections.go", "generateInspectionsHandler", "GenerateInspections", req, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "generated_count": 0})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "inspections generated",
		"generated_count": result.GeneratedCount,
		"inspections":     result.Inspections,
	})
}

func previewInspectionsHandler(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "auto-inspections.preview")
	defer span.End()

	var req workflow.AutoInspectionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
	}

	result, err := workflow.PreviewInspections(ctx, &req)
	if err != nil {
		if errors.Is(err, workflow.ErrInvalidMonthsAhead) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		config.LogError(config.GetLogger(), "autoInspections.go", "previewInspectionsHandler", "PreviewInspections", req, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "preview computed",
		"preview_count": result.PreviewCount,
		"preview":       result.Preview,
	})
}

func autoInspectionStatsHandler(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "auto-inspections.stats")
	defer span.End()

	stats, err := workflow.AutoInspectionStats(ctx)
	if err != nil {
		config.LogError(config.GetLogger(), "autoInspections.go", "autoInspectionStatsHandler", "AutoInspectionStats", nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}
