package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ERPlora/commissions-backend-go/internal/domain/rule"
	"github.com/ERPlora/commissions-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type RuleHandler interface {
	CreateRule(w http.ResponseWriter, r *http.Request)
	GetRule(w http.ResponseWriter, r *http.Request)
	ListRules(w http.ResponseWriter, r *http.Request)
	UpdateRule(w http.ResponseWriter, r *http.Request)
	DeleteRule(w http.ResponseWriter, r *http.Request)
	ToggleRule(w http.ResponseWriter, r *http.Request)
	ApplicableRules(w http.ResponseWriter, r *http.Request)
	Calculate(w http.ResponseWriter, r *http.Request)
}

type ruleHandlerImpl struct {
	ruleService rule.RuleService
}

func NewRuleHandler(ruleService rule.RuleService) RuleHandler {
	return &ruleHandlerImpl{ruleService: ruleService}
}

func (h *ruleHandlerImpl) CreateRule(w http.ResponseWriter, r *http.Request) {
	var req rule.CreateRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.ruleService.CreateRule(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Commission rule created", result)
}

func (h *ruleHandlerImpl) GetRule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Rule ID is required", nil)
		return
	}

	result, err := h.ruleService.GetRule(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *ruleHandlerImpl) ListRules(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active_only") == "true"

	result, err := h.ruleService.ListRules(r.Context(), activeOnly)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *ruleHandlerImpl) UpdateRule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Rule ID is required", nil)
		return
	}

	var req rule.UpdateRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = id

	result, err := h.ruleService.UpdateRule(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Commission rule updated", result)
}

func (h *ruleHandlerImpl) DeleteRule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Rule ID is required", nil)
		return
	}

	if err := h.ruleService.DeleteRule(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Commission rule deleted", nil)
}

func (h *ruleHandlerImpl) ToggleRule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Rule ID is required", nil)
		return
	}

	result, err := h.ruleService.ToggleRule(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Commission rule toggled", result)
}

func (h *ruleHandlerImpl) ApplicableRules(w http.ResponseWriter, r *http.Request) {
	query := rule.ApplicableRulesQuery{}

	q := r.URL.Query()
	if v := q.Get("staff_id"); v != "" {
		query.StaffID = &v
	}
	if v := q.Get("service_id"); v != "" {
		query.ServiceID = &v
	}
	if v := q.Get("category_id"); v != "" {
		query.CategoryID = &v
	}
	if v := q.Get("product_id"); v != "" {
		query.ProductID = &v
	}
	if v := q.Get("as_of"); v != "" {
		asOf, err := time.Parse("2006-01-02", v)
		if err != nil {
			response.BadRequest(w, "as_of must be a valid date (YYYY-MM-DD)", nil)
			return
		}
		query.AsOf = asOf
	}

	result, err := h.ruleService.ApplicableRules(r.Context(), query)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *ruleHandlerImpl) Calculate(w http.ResponseWriter, r *http.Request) {
	var req rule.CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.ruleService.Calculate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
