package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/domain/entities"
	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/domain/providers"
	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/pkg/numeric"
)

// WizardFlow defines the wizard operations used by the handler.
type WizardFlow interface {
	StartSession(ctx context.Context, userID int64) (*entities.Session, error)
	GetSession(ctx context.Context, id string) (*entities.Session, error)
	DeleteSession(ctx context.Context, id string) error
	Submit(ctx context.Context, sessionID, name, city string) (*entities.Session, error)
	SelectVariant(ctx context.Context, sessionID string, key entities.VariantKey) (*entities.Session, error)
	ChangePage(ctx context.Context, sessionID string, page int) (*entities.Session, error)
	Back(ctx context.Context, sessionID string) (*entities.Session, error)
	BackToVariants(ctx context.Context, sessionID string) (*entities.Session, error)
	NewSearch(ctx context.Context, sessionID string) (*entities.Session, error)
	NavigateToStep(ctx context.Context, sessionID string, target entities.WizardState) (*entities.Session, error)
}

// PricePolicy selects how a grouped row with several observed prices is
// rendered: the minimum alone or the full range.
type PricePolicy interface {
	PriceRangeEnabled() bool
}

// WizardHandler handles the wizard session endpoints.
type WizardHandler struct {
	service WizardFlow
	host    providers.HostCapabilities
	prices  PricePolicy
}

// NewWizardHandler creates a new wizard handler.
func NewWizardHandler(service WizardFlow, host providers.HostCapabilities, prices PricePolicy) *WizardHandler {
	if host == nil {
		host = providers.NoopHost{}
	}
	return &WizardHandler{service: service, host: host, prices: prices}
}

type searchRequest struct {
	Name string `json:"name"`
	City string `json:"city"`
}

type variantRequest struct {
	Name         string `json:"name"`
	Form         string `json:"form"`
	Manufacturer string `json:"manufacturer"`
	Country      string `json:"country"`
}

type pageRequest struct {
	Page int `json:"page"`
}

type navigateRequest struct {
	Step string `json:"step"`
}

// variantView adds display prices to a variant.
type variantView struct {
	entities.Variant
	PriceDisplay string `json:"price_display"`
}

// resultView adds display strings to a grouped row.
type resultView struct {
	entities.GroupedRow
	QuantityDisplay string `json:"quantity_display"`
	PriceDisplay    string `json:"price_display"`
	CanBook         bool   `json:"can_book"`
}

// paginationView is the pagination block of a session response. Pages uses
// entities.PageEllipsis as the ellipsis marker.
type paginationView struct {
	Page       int   `json:"page"`
	TotalPages int   `json:"total_pages"`
	Total      int   `json:"total"`
	Pages      []int `json:"pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

// sessionResponse is the wire shape of a wizard session after any
// transition.
type sessionResponse struct {
	ID         string                 `json:"id"`
	State      entities.WizardState   `json:"state"`
	Step       int                    `json:"step"`
	BackButton bool                   `json:"back_button"`
	Search     entities.SearchContext `json:"search"`
	TotalFound int                    `json:"total_found,omitempty"`
	Variants   []variantView          `json:"variants,omitempty"`
	Results    []resultView           `json:"results,omitempty"`
	Pagination paginationView         `json:"pagination"`
}

func (h *WizardHandler) sessionView(session *entities.Session) sessionResponse {
	resp := sessionResponse{
		ID:         session.ID,
		State:      session.State,
		Step:       session.State.StepNumber(),
		BackButton: session.State.StepNumber() > 1,
		Search:     session.Search,
		TotalFound: session.TotalFound,
		Pagination: paginationView{
			Page:       session.Pagination.Page,
			TotalPages: session.Pagination.TotalPages,
			Total:      session.Pagination.Total,
			Pages:      entities.PageNumbers(session.Pagination.Page, session.Pagination.TotalPages),
			HasPrev:    session.Pagination.Page > 1,
			HasNext:    session.Pagination.Page < session.Pagination.TotalPages,
		},
	}

	for _, v := range session.Variants {
		view := variantView{Variant: v}
		if v.MinPrice == v.MaxPrice {
			view.PriceDisplay = numeric.FormatPrice(v.MinPrice)
		} else {
			view.PriceDisplay = fmt.Sprintf("от %s", numeric.FormatPrice(v.MinPrice))
		}
		resp.Variants = append(resp.Variants, view)
	}

	priceRange := h.prices != nil && h.prices.PriceRangeEnabled()
	for _, g := range session.Results {
		view := resultView{
			GroupedRow:      g,
			QuantityDisplay: numeric.FormatQuantity(g.Quantity),
			PriceDisplay:    numeric.FormatPrice(g.Price),
			CanBook:         g.InStock(),
		}
		if priceRange && g.HasMultiplePrices {
			view.PriceDisplay = fmt.Sprintf("%s – %s", numeric.FormatPrice(g.Price), numeric.FormatPrice(g.PriceMax))
		}
		resp.Results = append(resp.Results, view)
	}

	return resp
}

// CreateSession handles POST /api/wizard/sessions
func (h *WizardHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var userID int64
	if user, ok := h.host.User(r.Context()); ok {
		userID = user.ID
	}

	session, err := h.service.StartSession(r.Context(), userID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, h.sessionView(session))
}

// GetSession handles GET /api/wizard/sessions/{id}
func (h *WizardHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.GetSession(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.sessionView(session))
}

// DeleteSession handles DELETE /api/wizard/sessions/{id}
func (h *WizardHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteSession(r.Context(), r.PathValue("id")); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search handles POST /api/wizard/sessions/{id}/search
func (h *WizardHandler) Search(w http.ResponseWriter, r *http.Request) {
	var payload searchRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	session, err := h.service.Submit(r.Context(), r.PathValue("id"), payload.Name, payload.City)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.sessionView(session))
}

// SelectVariant handles POST /api/wizard/sessions/{id}/variant
func (h *WizardHandler) SelectVariant(w http.ResponseWriter, r *http.Request) {
	var payload variantRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	session, err := h.service.SelectVariant(r.Context(), r.PathValue("id"), entities.VariantKey{
		Name:         payload.Name,
		Form:         payload.Form,
		Manufacturer: payload.Manufacturer,
		Country:      payload.Country,
	})
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.sessionView(session))
}

// ChangePage handles POST /api/wizard/sessions/{id}/page
func (h *WizardHandler) ChangePage(w http.ResponseWriter, r *http.Request) {
	var payload pageRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	session, err := h.service.ChangePage(r.Context(), r.PathValue("id"), payload.Page)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.sessionView(session))
}

// Back handles POST /api/wizard/sessions/{id}/back
func (h *WizardHandler) Back(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Back(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.sessionView(session))
}

// BackToVariants handles POST /api/wizard/sessions/{id}/back-to-variants
func (h *WizardHandler) BackToVariants(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.BackToVariants(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.sessionView(session))
}

// NewSearch handles POST /api/wizard/sessions/{id}/new-search
func (h *WizardHandler) NewSearch(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.NewSearch(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.sessionView(session))
}

// Navigate handles POST /api/wizard/sessions/{id}/navigate
func (h *WizardHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	var payload navigateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	target := entities.WizardState(payload.Step)
	switch target {
	case entities.StateSearching, entities.StateChoosingVariant, entities.StateViewingResults:
	default:
		respondWithError(w, http.StatusBadRequest, "unknown step")
		return
	}

	session, err := h.service.NavigateToStep(r.Context(), r.PathValue("id"), target)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.sessionView(session))
}
