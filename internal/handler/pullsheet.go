package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"stagekit-api/internal/model"
	"stagekit-api/internal/service"
	"stagekit-api/pkg/apierror"
	"stagekit-api/pkg/response"

	"github.com/go-chi/chi/v5"
)

// PullSheetHandler handles pull-sheet HTTP requests.
type PullSheetHandler struct {
	pullSheetService *service.PullSheetService
}

// NewPullSheetHandler creates a new pull sheet handler.
func NewPullSheetHandler(pullSheetService *service.PullSheetService) *PullSheetHandler {
	return &PullSheetHandler{
		pullSheetService: pullSheetService,
	}
}

// List handles GET /api/v1/pullsheets
func (h *PullSheetHandler) List(w http.ResponseWriter, r *http.Request) {
	if jobID := r.URL.Query().Get("job_id"); jobID != "" {
		sheets, err := h.pullSheetService.ByJob(r.Context(), jobID)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.OK(w, sheets)
		return
	}
	if status := r.URL.Query().Get("status"); status != "" {
		sheets, err := h.pullSheetService.ByStatus(r.Context(), model.PullSheetStatus(status))
		if err != nil {
			response.Error(w, err)
			return
		}
		response.OK(w, sheets)
		return
	}

	sheets, err := h.pullSheetService.List(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, sheets)
}

// Get handles GET /api/v1/pullsheets/{id}
// ?items=true includes the line-item collection.
func (h *PullSheetHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var sheet *model.PullSheet
	var err error
	if r.URL.Query().Get("items") == "true" {
		sheet, err = h.pullSheetService.GetWithItems(r.Context(), id)
	} else {
		sheet, err = h.pullSheetService.Get(r.Context(), id)
	}
	if err != nil {
		response.Error(w, err)
		return
	}
	if sheet == nil {
		response.Error(w, apierror.NotFound("pull sheet not found"))
		return
	}
	response.OK(w, sheet)
}

// Create handles POST /api/v1/pullsheets
func (h *PullSheetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var sheet model.PullSheet
	if err := json.NewDecoder(r.Body).Decode(&sheet); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON"))
		return
	}

	created, err := h.pullSheetService.Create(r.Context(), sheet)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, created)
}

// Update handles PUT /api/v1/pullsheets/{id}
func (h *PullSheetHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var changes model.PullSheetChanges
	if err := json.NewDecoder(r.Body).Decode(&changes); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON"))
		return
	}

	updated, err := h.pullSheetService.Update(r.Context(), id, changes)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, updated)
}

// Delete handles DELETE /api/v1/pullsheets/{id}
func (h *PullSheetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := h.pullSheetService.Delete(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, map[string]any{"deleted": deleted})
}

// AddItem handles POST /api/v1/pullsheets/{id}/items
func (h *PullSheetHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sheetID := chi.URLParam(r, "id")

	var item model.PullSheetItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON"))
		return
	}
	if item.InventoryItemID == "" {
		response.Error(w, apierror.ValidationError("validation failed",
			apierror.FieldError{Field: "inventory_item_id", Message: "inventory_item_id is required"}))
		return
	}
	if item.QuantityNeeded <= 0 {
		response.Error(w, apierror.ValidationError("validation failed",
			apierror.FieldError{Field: "quantity_needed", Message: "must be positive"}))
		return
	}

	created, err := h.pullSheetService.AddItem(r.Context(), sheetID, item)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, created)
}

// GetItem handles GET /api/v1/pullsheets/{id}/items/{itemID}
func (h *PullSheetHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	sheetID := chi.URLParam(r, "id")
	itemID := chi.URLParam(r, "itemID")

	item, err := h.pullSheetService.GetItem(r.Context(), sheetID, itemID)
	if err != nil {
		response.Error(w, err)
		return
	}
	if item == nil {
		response.Error(w, apierror.NotFound("pull sheet item not found"))
		return
	}
	response.OK(w, item)
}

// RemoveItem handles DELETE /api/v1/pullsheets/{id}/items/{itemID}
func (h *PullSheetHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sheetID := chi.URLParam(r, "id")
	itemID := chi.URLParam(r, "itemID")

	removed, err := h.pullSheetService.RemoveItem(r.Context(), sheetID, itemID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, map[string]any{"removed": removed})
}

// CheckoutItem handles POST /api/v1/pullsheets/{id}/items/{itemID}/checkout
func (h *PullSheetHandler) CheckoutItem(w http.ResponseWriter, r *http.Request) {
	h.adjustItem(w, r, h.pullSheetService.CheckoutItem)
}

// ReturnItem handles POST /api/v1/pullsheets/{id}/items/{itemID}/return
func (h *PullSheetHandler) ReturnItem(w http.ResponseWriter, r *http.Request) {
	h.adjustItem(w, r, h.pullSheetService.ReturnItem)
}

func (h *PullSheetHandler) adjustItem(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, sheetID, itemID string, qty int) (*model.PullSheetItem, error)) {
	sheetID := chi.URLParam(r, "id")
	itemID := chi.URLParam(r, "itemID")

	var req quantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON"))
		return
	}
	if req.Quantity <= 0 {
		response.Error(w, apierror.ValidationError("validation failed",
			apierror.FieldError{Field: "quantity", Message: "must be positive"}))
		return
	}

	item, err := op(r.Context(), sheetID, itemID, req.Quantity)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, item)
}
