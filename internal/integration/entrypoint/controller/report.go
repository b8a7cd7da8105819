// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/crm-suite/backend/internal/application/usecase/report"
	domainerror "github.com/crm-suite/backend/internal/domain/error"
	"github.com/crm-suite/backend/internal/integration/entrypoint/dto"
	"github.com/crm-suite/backend/internal/integration/entrypoint/middleware"
)

// ReportController handles report endpoints.
type ReportController struct {
	resolveRangeUseCase      *report.ResolveRangeUseCase
	getSummaryUseCase        *report.GetSummaryUseCase
	getTrendsUseCase         *report.GetTrendsUseCase
	listPeriodRecordsUseCase *report.ListPeriodRecordsUseCase
	scheduleDigestUseCase    *report.ScheduleDigestUseCase
	listDigestsUseCase       *report.ListDigestsUseCase
	getDigestUseCase         *report.GetDigestUseCase
	location                 *time.Location
	defaultLocale            language.Tag
}

// ReportControllerDeps groups the use cases served by the report controller.
type ReportControllerDeps struct {
	ResolveRange      *report.ResolveRangeUseCase
	GetSummary        *report.GetSummaryUseCase
	GetTrends         *report.GetTrendsUseCase
	ListPeriodRecords *report.ListPeriodRecordsUseCase
	ScheduleDigest    *report.ScheduleDigestUseCase
	ListDigests       *report.ListDigestsUseCase
	GetDigest         *report.GetDigestUseCase
}

// NewReportController creates a new report controller instance. Bare dates in
// requests are read in location.
func NewReportController(deps ReportControllerDeps, location *time.Location, defaultLocale language.Tag) *ReportController {
	return &ReportController{
		resolveRangeUseCase:      deps.ResolveRange,
		getSummaryUseCase:        deps.GetSummary,
		getTrendsUseCase:         deps.GetTrends,
		listPeriodRecordsUseCase: deps.ListPeriodRecords,
		scheduleDigestUseCase:    deps.ScheduleDigest,
		listDigestsUseCase:       deps.ListDigests,
		getDigestUseCase:         deps.GetDigest,
		location:                 location,
		defaultLocale:            defaultLocale,
	}
}

// rangeParams holds the parsed range selector of a request.
type rangeParams struct {
	timeRange report.TimeRange
	from      *time.Time
	to        *time.Time
}

// GetRange handles GET /reports/range requests.
func (c *ReportController) GetRange(ctx *gin.Context) {
	params, err := c.parseRange(ctx.Query("time_range"), ctx.Query("from"), ctx.Query("to"))
	if err != nil {
		c.handleReportError(ctx, err)
		return
	}

	output, err := c.resolveRangeUseCase.Execute(report.ResolveRangeInput{
		TimeRange: params.timeRange,
		From:      params.from,
		To:        params.to,
	})
	if err != nil {
		c.handleReportError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToRangeResponse(output, c.locale(ctx)))
}

// GetSummary handles GET /reports/summary requests.
func (c *ReportController) GetSummary(ctx *gin.Context) {
	tenantID, ok := requireTenant(ctx)
	if !ok {
		return
	}

	params, err := c.parseRange(ctx.Query("time_range"), ctx.Query("from"), ctx.Query("to"))
	if err != nil {
		c.handleReportError(ctx, err)
		return
	}

	output, err := c.getSummaryUseCase.Execute(ctx.Request.Context(), report.GetSummaryInput{
		TenantID:  tenantID,
		TimeRange: params.timeRange,
		From:      params.from,
		To:        params.to,
	})
	if err != nil {
		c.handleReportError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSummaryResponse(output, c.locale(ctx)))
}

// GetTrends handles GET /reports/:module/trends requests.
func (c *ReportController) GetTrends(ctx *gin.Context) {
	tenantID, ok := requireTenant(ctx)
	if !ok {
		return
	}

	params, err := c.parseRange(ctx.Query("time_range"), ctx.Query("from"), ctx.Query("to"))
	if err != nil {
		c.handleReportError(ctx, err)
		return
	}

	output, err := c.getTrendsUseCase.Execute(ctx.Request.Context(), report.GetTrendsInput{
		TenantID:    tenantID,
		Module:      report.Module(ctx.Param("module")),
		TimeRange:   params.timeRange,
		From:        params.from,
		To:          params.to,
		Granularity: report.Granularity(ctx.Query("granularity")),
		Locale:      c.locale(ctx),
	})
	if err != nil {
		c.handleReportError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTrendsResponse(output))
}

// GetRecords handles GET /reports/:module/records requests.
func (c *ReportController) GetRecords(ctx *gin.Context) {
	tenantID, ok := requireTenant(ctx)
	if !ok {
		return
	}

	params, err := c.parseRange(ctx.Query("time_range"), ctx.Query("from"), ctx.Query("to"))
	if err != nil {
		c.handleReportError(ctx, err)
		return
	}

	page, err := parseOptionalInt(ctx.Query("page"))
	if err != nil {
		c.handleReportError(ctx, invalidPagination())
		return
	}
	pageSize, err := parseOptionalInt(ctx.Query("page_size"))
	if err != nil {
		c.handleReportError(ctx, invalidPagination())
		return
	}

	output, err := c.listPeriodRecordsUseCase.Execute(ctx.Request.Context(), report.ListPeriodRecordsInput{
		TenantID:  tenantID,
		Module:    report.Module(ctx.Param("module")),
		TimeRange: params.timeRange,
		From:      params.from,
		To:        params.to,
		Status:    ctx.Query("status"),
		Search:    ctx.Query("search"),
		Page:      page,
		PageSize:  pageSize,
	})
	if err != nil {
		c.handleReportError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToRecordsResponse(output))
}

// ScheduleDigest handles POST /reports/digests requests.
func (c *ReportController) ScheduleDigest(ctx *gin.Context) {
	tenantID, ok := requireTenant(ctx)
	if !ok {
		return
	}
	userID, _ := middleware.GetUserIDFromContext(ctx)

	var req dto.ScheduleDigestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Code:    string(domainerror.ErrCodeInvalidRequestBody),
			Details: err.Error(),
		})
		return
	}

	params, err := c.parseRange(req.TimeRange, req.From, req.To)
	if err != nil {
		c.handleReportError(ctx, err)
		return
	}

	output, err := c.scheduleDigestUseCase.Execute(ctx.Request.Context(), report.ScheduleDigestInput{
		TenantID:       tenantID,
		RequestedBy:    userID,
		TimeRange:      params.timeRange,
		From:           params.from,
		To:             params.to,
		RecipientEmail: req.RecipientEmail,
		RecipientName:  req.RecipientName,
		Locale:         c.locale(ctx),
	})
	if err != nil {
		c.handleReportError(ctx, err)
		return
	}

	ctx.JSON(http.StatusAccepted, dto.DigestEnvelope{Data: dto.ToDigestResponse(output.Digest)})
}

// ListDigests handles GET /reports/digests requests.
func (c *ReportController) ListDigests(ctx *gin.Context) {
	tenantID, ok := requireTenant(ctx)
	if !ok {
		return
	}

	limit, err := parseOptionalInt(ctx.Query("limit"))
	if err != nil {
		c.handleReportError(ctx, invalidPagination())
		return
	}

	digests, err := c.listDigestsUseCase.Execute(ctx.Request.Context(), tenantID, limit)
	if err != nil {
		c.handleReportError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToDigestListResponse(digests))
}

// GetDigest handles GET /reports/digests/:id requests.
func (c *ReportController) GetDigest(ctx *gin.Context) {
	tenantID, ok := requireTenant(ctx)
	if !ok {
		return
	}

	digestID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error: "Digest not found",
			Code:  string(domainerror.ErrCodeDigestNotFound),
		})
		return
	}

	digest, err := c.getDigestUseCase.Execute(ctx.Request.Context(), tenantID, digestID)
	if err != nil {
		c.handleReportError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.DigestEnvelope{Data: dto.ToDigestResponse(digest)})
}

// parseRange validates the selector and parses the optional custom bounds.
func (c *ReportController) parseRange(rawRange, rawFrom, rawTo string) (rangeParams, error) {
	tr, err := report.ParseTimeRange(rawRange)
	if err != nil {
		return rangeParams{}, err
	}
	from, err := report.ParseDateBound(rawFrom, c.location, false)
	if err != nil {
		return rangeParams{}, err
	}
	to, err := report.ParseDateBound(rawTo, c.location, true)
	if err != nil {
		return rangeParams{}, err
	}
	return rangeParams{timeRange: tr, from: from, to: to}, nil
}

// locale picks the response language. An explicit lang query parameter wins
// over the Accept-Language header.
func (c *ReportController) locale(ctx *gin.Context) language.Tag {
	if lang := ctx.Query("lang"); lang != "" {
		return report.MatchLocale(lang, c.defaultLocale)
	}
	return report.MatchLocale(ctx.GetHeader("Accept-Language"), c.defaultLocale)
}

// handleReportError maps domain errors to HTTP responses.
func (c *ReportController) handleReportError(ctx *gin.Context, err error) {
	var reportErr *domainerror.ReportError
	if errors.As(err, &reportErr) {
		statusCode := http.StatusInternalServerError
		if reportErr.Code.IsValidation() {
			statusCode = http.StatusBadRequest
		} else {
			slog.Error("Report request failed", "error", err, "path", ctx.FullPath())
		}
		ctx.JSON(statusCode, dto.ErrorResponse{
			Error: reportErr.Message,
			Code:  string(reportErr.Code),
		})
		return
	}

	var emailErr *domainerror.EmailError
	if errors.As(err, &emailErr) {
		statusCode := http.StatusInternalServerError
		if emailErr.Code == domainerror.ErrCodeDigestNotFound {
			statusCode = http.StatusNotFound
		} else {
			slog.Error("Digest request failed", "error", err, "path", ctx.FullPath())
		}
		ctx.JSON(statusCode, dto.ErrorResponse{
			Error: emailErr.Message,
			Code:  string(emailErr.Code),
		})
		return
	}

	slog.Error("Unexpected report error", "error", err, "path", ctx.FullPath())
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
		Code:  string(domainerror.ErrCodeReportInternalError),
	})
}

// requireTenant returns the caller's tenant or writes a 401.
func requireTenant(ctx *gin.Context) (uuid.UUID, bool) {
	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return uuid.Nil, false
	}
	return tenantID, true
}

func parseOptionalInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func invalidPagination() error {
	return domainerror.NewReportError(
		domainerror.ErrCodeInvalidPagination,
		domainerror.ErrInvalidPagination.Error(),
		domainerror.ErrInvalidPagination,
	)
}
