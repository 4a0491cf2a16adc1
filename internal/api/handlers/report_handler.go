package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/andresuchdata/salesmap/internal/domain"
	"github.com/andresuchdata/salesmap/internal/pipeline/salesreport"
	"github.com/andresuchdata/salesmap/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	dateLayout      = "2006-01-02"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type ReportHandler struct {
	reportService *service.ReportService
}

func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GenerateMidMonth runs the mid-month report for the uploaded workbooks
func (h *ReportHandler) GenerateMidMonth(c *gin.Context) {
	h.generate(c, domain.VariantMidMonth)
}

// GenerateEndOfMonth runs the end-of-month report for the uploaded workbooks
func (h *ReportHandler) GenerateEndOfMonth(c *gin.Context) {
	h.generate(c, domain.VariantEndOfMonth)
}

func (h *ReportHandler) generate(c *gin.Context, variant domain.Variant) {
	req, err := parseReportRequest(c, variant)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.reportService.Generate(c.Request.Context(), req)
	if err != nil {
		if isCallerError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Error().Err(err).Str("variant", string(variant)).Msg("report generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "report generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id":           res.Run.ID,
		"variant":          res.Run.Variant,
		"rows":             res.Run.TotalRows,
		"file_name":        res.FileName,
		"columns":          res.Columns,
		"preview":          res.Preview,
		"duplicate_months": res.DuplicateMonths,
		"download_url":     "/api/v1/reports/" + res.Run.ID + "/download",
	})
}

// Download streams the xlsx of a finished run
func (h *ReportHandler) Download(c *gin.Context) {
	data, name, err := h.reportService.Download(c.Request.Context(), c.Param("id"))
	if errors.Is(err, service.ErrReportNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("report download failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch report"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// ListRuns returns recent run history
func (h *ReportHandler) ListRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	runs, err := h.reportService.Runs(c.Request.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to list report runs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch report runs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": runs})
}

func isCallerError(err error) bool {
	return errors.Is(err, service.ErrInvalidRequest) ||
		errors.Is(err, salesreport.ErrMissingInput) ||
		errors.Is(err, salesreport.ErrInvalidMonth) ||
		errors.Is(err, salesreport.ErrInvalidDateRange)
}

func parseReportRequest(c *gin.Context, variant domain.Variant) (service.ReportRequest, error) {
	req := service.ReportRequest{Variant: variant, Files: map[string][]byte{}}

	start, err := time.Parse(dateLayout, strings.TrimSpace(c.PostForm("start")))
	if err != nil {
		return req, fmt.Errorf("start must be YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout, strings.TrimSpace(c.PostForm("end")))
	if err != nil {
		return req, fmt.Errorf("end must be YYYY-MM-DD")
	}
	month, err := strconv.Atoi(strings.TrimSpace(c.PostForm("month")))
	if err != nil {
		return req, fmt.Errorf("month must be an integer")
	}
	req.Start, req.End, req.Month = start, end, month

	if raw := strings.TrimSpace(c.PostForm("m1_price")); raw != "" {
		if req.M1Price, err = strconv.ParseFloat(raw, 64); err != nil {
			return req, fmt.Errorf("m1_price must be a number")
		}
	}
	if raw := strings.TrimSpace(c.PostForm("m2_groups")); raw != "" {
		var groups domain.PriceGroups
		if err := json.Unmarshal([]byte(raw), &groups); err != nil {
			return req, fmt.Errorf("m2_groups must be a JSON list of {month, price}")
		}
		req.M2Groups = groups
	}

	for _, name := range service.InputNames {
		if name == service.InputQuote && variant != domain.VariantEndOfMonth {
			continue
		}
		header, err := c.FormFile(name)
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		if err != nil {
			return req, fmt.Errorf("invalid upload %s: %v", name, err)
		}
		f, err := header.Open()
		if err != nil {
			return req, fmt.Errorf("failed to open upload %s: %v", name, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return req, fmt.Errorf("failed to read upload %s: %v", name, err)
		}
		req.Files[name] = data
	}

	return req, nil
}
