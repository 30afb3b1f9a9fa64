package http

import (
	"net/http"

	"github.com/ERPlora/commissions-backend-go/internal/domain/report"
	"github.com/ERPlora/commissions-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ReportHandler interface {
	// Staff Summary Report
	GetStaffSummary(w http.ResponseWriter, r *http.Request)

	// Dashboard Overview
	GetDashboardStats(w http.ResponseWriter, r *http.Request)

	// Unpaid Balance
	GetUnpaidBalance(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{reportService: reportService}
}

func dateRangeFromQuery(r *http.Request) report.DateRange {
	var dr report.DateRange
	q := r.URL.Query()
	if v := q.Get("start_date"); v != "" {
		dr.StartDate = &v
	}
	if v := q.Get("end_date"); v != "" {
		dr.EndDate = &v
	}
	return dr
}

func (h *reportHandlerImpl) GetStaffSummary(w http.ResponseWriter, r *http.Request) {
	staffID := chi.URLParam(r, "staffId")
	if staffID == "" {
		response.BadRequest(w, "Staff ID is required", nil)
		return
	}

	result, err := h.reportService.StaffSummary(r.Context(), staffID, dateRangeFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *reportHandlerImpl) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.DashboardStats(r.Context(), dateRangeFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *reportHandlerImpl) GetUnpaidBalance(w http.ResponseWriter, r *http.Request) {
	staffID := chi.URLParam(r, "staffId")
	if staffID == "" {
		response.BadRequest(w, "Staff ID is required", nil)
		return
	}

	result, err := h.reportService.UnpaidBalance(r.Context(), staffID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
