package handlers

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/proplan-dev/proplan/internal/services"
	"github.com/proplan-dev/proplan/internal/types"
	"github.com/proplan-dev/proplan/internal/utils"
)

type ReportHandler struct {
	reports *services.ReportService
}

func NewReportHandler(reports *services.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

func (h *ReportHandler) reportParams(ctx *gin.Context) (uint, int, int, bool) {
	projectID, ok := paramID(ctx, "project_id")
	if !ok {
		return 0, 0, 0, false
	}

	year, err := strconv.Atoi(ctx.Param("year"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
		return 0, 0, 0, false
	}

	month, err := strconv.Atoi(ctx.Param("month"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month"})
		return 0, 0, 0, false
	}

	return projectID, year, month, true
}

func (h *ReportHandler) Monthly(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if currentUser.Role == types.RoleWorker {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Manager only"})
		return
	}

	projectID, year, month, ok := h.reportParams(ctx)
	if !ok {
		return
	}

	report, err := h.reports.JSONReport(projectID, year, month, currentUser)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, report)
}

func (h *ReportHandler) MonthlyCSV(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if currentUser.Role == types.RoleWorker {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Manager only"})
		return
	}

	projectID, year, month, ok := h.reportParams(ctx)
	if !ok {
		return
	}

	rows, err := h.reports.CSVRows(projectID, year, month, currentUser)
	if err != nil {
		respondError(ctx, err)
		return
	}

	filename := fmt.Sprintf("project_%d_%d-%02d.csv", projectID, year, month)
	ctx.Header("Content-Type", "text/csv")
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Status(http.StatusOK)

	writer := csv.NewWriter(ctx.Writer)
	if err := writer.WriteAll(rows); err != nil {
		log.Printf("Failed to write CSV report: %v", err)
	}
}
