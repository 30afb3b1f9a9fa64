package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ERPlora/commissions-backend-go/internal/domain/payout"
	"github.com/ERPlora/commissions-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayoutHandler interface {
	CreatePayout(w http.ResponseWriter, r *http.Request)
	GetPayout(w http.ResponseWriter, r *http.Request)
	ListPayouts(w http.ResponseWriter, r *http.Request)
	ApprovePayout(w http.ResponseWriter, r *http.Request)
	ProcessPayout(w http.ResponseWriter, r *http.Request)
	CancelPayout(w http.ResponseWriter, r *http.Request)
	RecalculatePayout(w http.ResponseWriter, r *http.Request)
}

type payoutHandlerImpl struct {
	payoutService payout.PayoutService
}

func NewPayoutHandler(payoutService payout.PayoutService) PayoutHandler {
	return &payoutHandlerImpl{payoutService: payoutService}
}

func (h *payoutHandlerImpl) CreatePayout(w http.ResponseWriter, r *http.Request) {
	var req payout.CreatePayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payoutService.CreatePayout(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Commission payout created", result)
}

func (h *payoutHandlerImpl) GetPayout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Payout ID is required", nil)
		return
	}

	result, err := h.payoutService.GetPayout(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payoutHandlerImpl) ListPayouts(w http.ResponseWriter, r *http.Request) {
	filter := payout.PayoutFilter{}

	q := r.URL.Query()
	if v := q.Get("staff_id"); v != "" {
		filter.StaffID = &v
	}
	if v := q.Get("status"); v != "" {
		filter.Status = &v
	}
	if v := q.Get("start_date"); v != "" {
		filter.StartDate = &v
	}
	if v := q.Get("end_date"); v != "" {
		filter.EndDate = &v
	}
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))

	result, err := h.payoutService.ListPayouts(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Data, response.Pagination(result.Page, result.Limit, result.TotalCount))
}

func (h *payoutHandlerImpl) ApprovePayout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Payout ID is required", nil)
		return
	}

	result, err := h.payoutService.ApprovePayout(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Commission payout approved", result)
}

func (h *payoutHandlerImpl) ProcessPayout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Payout ID is required", nil)
		return
	}

	var req payout.ProcessPayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payoutService.ProcessPayout(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Commission payout processed", result)
}

func (h *payoutHandlerImpl) CancelPayout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Payout ID is required", nil)
		return
	}

	var req payout.CancelPayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payoutService.CancelPayout(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Commission payout cancelled", result)
}

func (h *payoutHandlerImpl) RecalculatePayout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Payout ID is required", nil)
		return
	}

	result, err := h.payoutService.RecalculateTotals(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Commission payout recalculated", result)
}
