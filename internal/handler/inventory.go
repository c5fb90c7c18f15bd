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

// InventoryHandler handles inventory-related HTTP requests.
type InventoryHandler struct {
	inventoryService *service.InventoryService
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(inventoryService *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
	}
}

// quantityRequest is the body for quantity/checkout/return endpoints.
type quantityRequest struct {
	Quantity int `json:"quantity"`
}

// List handles GET /api/v1/inventory
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	// Optional exact filters; search wins when both are present.
	if name := r.URL.Query().Get("search"); name != "" {
		items, err := h.inventoryService.Search(r.Context(), name)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.OK(w, items)
		return
	}
	if category := r.URL.Query().Get("category"); category != "" {
		items, err := h.inventoryService.ByCategory(r.Context(), category)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.OK(w, items)
		return
	}
	if location := r.URL.Query().Get("location"); location != "" {
		items, err := h.inventoryService.ByLocation(r.Context(), location)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.OK(w, items)
		return
	}

	items, err := h.inventoryService.List(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, items)
}

// Get handles GET /api/v1/inventory/{id}
func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	item, err := h.inventoryService.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	if item == nil {
		response.Error(w, apierror.NotFound("inventory item not found"))
		return
	}
	response.OK(w, item)
}

// Create handles POST /api/v1/inventory
func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var item model.InventoryItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON"))
		return
	}
	if item.Name == "" {
		response.Error(w, apierror.ValidationError("validation failed",
			apierror.FieldError{Field: "name", Message: "name is required"}))
		return
	}
	if item.QuantityInWarehouse < 0 {
		response.Error(w, apierror.ValidationError("validation failed",
			apierror.FieldError{Field: "quantity_in_warehouse", Message: "must not be negative"}))
		return
	}

	created, err := h.inventoryService.Create(r.Context(), item)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, created)
}

// Update handles PUT /api/v1/inventory/{id}
func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var changes model.InventoryItemChanges
	if err := json.NewDecoder(r.Body).Decode(&changes); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON"))
		return
	}

	updated, err := h.inventoryService.Update(r.Context(), id, changes)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, updated)
}

// Delete handles DELETE /api/v1/inventory/{id}
func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := h.inventoryService.Delete(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, map[string]any{"deleted": deleted})
}

// ScanBarcode handles GET /api/v1/inventory/barcode/{barcode}
func (h *InventoryHandler) ScanBarcode(w http.ResponseWriter, r *http.Request) {
	barcode := chi.URLParam(r, "barcode")

	item, err := h.inventoryService.ScanBarcode(r.Context(), barcode)
	if err != nil {
		response.Error(w, err)
		return
	}
	if item == nil {
		response.Error(w, apierror.NotFound("no item with that barcode"))
		return
	}
	response.OK(w, item)
}

// SetQuantity handles PUT /api/v1/inventory/{id}/quantity
func (h *InventoryHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req quantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON"))
		return
	}
	if req.Quantity < 0 {
		response.Error(w, apierror.ValidationError("validation failed",
			apierror.FieldError{Field: "quantity", Message: "must not be negative"}))
		return
	}

	item, err := h.inventoryService.SetQuantity(r.Context(), id, req.Quantity)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, item)
}

// Checkout handles POST /api/v1/inventory/{id}/checkout
func (h *InventoryHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	h.adjustQuantity(w, r, h.inventoryService.Checkout)
}

// Return handles POST /api/v1/inventory/{id}/return
func (h *InventoryHandler) Return(w http.ResponseWriter, r *http.Request) {
	h.adjustQuantity(w, r, h.inventoryService.Return)
}

func (h *InventoryHandler) adjustQuantity(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, id string, qty int) (*model.InventoryItem, error)) {
	id := chi.URLParam(r, "id")

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

	item, err := op(r.Context(), id, req.Quantity)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, item)
}
