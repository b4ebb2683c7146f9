package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"retailpos-backend/internal/domain"
	"retailpos-backend/internal/export"
	"retailpos-backend/internal/ports"
	"retailpos-backend/internal/repository"
)

// InventoryStore is the repository surface the handler consumes;
// repository.InventoryRepository satisfies it.
type InventoryStore interface {
	List(ctx context.Context) ([]domain.InventoryItem, error)
	Create(ctx context.Context, it domain.InventoryItem) (*domain.InventoryItem, error)
	Update(ctx context.Context, id string, p domain.InventoryPatch) (*domain.InventoryItem, error)
	Delete(ctx context.Context, id string) error
}

var _ InventoryStore = repository.InventoryRepository{}

type InventoryHandler struct {
	Repo               InventoryStore
	Profiles           ports.ProfileReader
	Cache              dashboardInvalidator
	LowStockThreshold  int
	HighStockThreshold int
}

func (h InventoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/inventory", h.list)
	r.Post("/inventory", h.create)
	r.Put("/inventory/{id}", h.update)
	r.Delete("/inventory/{id}", h.remove)
	r.Get("/inventory/export", h.export)
}

type inventoryPayload struct {
	Name     *string  `json:"name"`
	Category *string  `json:"category"`
	Size     *string  `json:"size"`
	Color    *string  `json:"color"`
	Price    *float64 `json:"price"`
	Cost     *float64 `json:"cost"`
	Quantity *int     `json:"quantity"`
	Supplier *string  `json:"supplier"`
}

func (h InventoryHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, it := range items {
		resp = append(resp, h.toItemJSON(it))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h InventoryHandler) create(w http.ResponseWriter, r *http.Request) {
	var req inventoryPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == nil || *req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	item := domain.InventoryItem{Name: *req.Name}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Size != nil {
		item.Size = *req.Size
	}
	if req.Color != nil {
		item.Color = *req.Color
	}
	if req.Price != nil {
		item.Price = decimal.NewFromFloat(*req.Price).Round(2)
	}
	if req.Cost != nil {
		item.Cost = decimal.NewFromFloat(*req.Cost).Round(2)
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	if req.Supplier != nil {
		item.Supplier = *req.Supplier
	}

	created, err := h.Repo.Create(r.Context(), item)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.Cache.Invalidate(r.Context(), dashboardCacheKey)
	writeJSON(w, http.StatusOK, h.toItemJSON(*created))
}

func (h InventoryHandler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req inventoryPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	patch := domain.InventoryPatch{
		Name:     req.Name,
		Category: req.Category,
		Size:     req.Size,
		Color:    req.Color,
		Quantity: req.Quantity,
		Supplier: req.Supplier,
	}
	if req.Price != nil {
		p := decimal.NewFromFloat(*req.Price).Round(2)
		patch.Price = &p
	}
	if req.Cost != nil {
		c := decimal.NewFromFloat(*req.Cost).Round(2)
		patch.Cost = &c
	}

	updated, err := h.Repo.Update(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "item not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	// Quantity and price patches shift the dashboard's stock figures.
	h.Cache.Invalidate(r.Context(), dashboardCacheKey)
	writeJSON(w, http.StatusOK, h.toItemJSON(*updated))
}

func (h InventoryHandler) remove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "item not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.Cache.Invalidate(r.Context(), dashboardCacheKey)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

var inventoryExportHeader = []string{"Name", "Category", "Size", "Color", "Price", "Cost", "Quantity", "Supplier", "Date Added"}

func (h InventoryHandler) export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	items, err := h.Repo.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	rows := make([][]string, 0, len(items))
	totalValue := decimal.Zero
	for _, it := range items {
		rows = append(rows, []string{
			it.Name, it.Category, it.Size, it.Color,
			it.Price.StringFixed(2), it.Cost.StringFixed(2),
			strconv.Itoa(it.Quantity), it.Supplier,
			it.DateAdded.Format(dateLayout),
		})
		totalValue = totalValue.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	switch format {
	case "csv":
		data, err := export.CSV(inventoryExportHeader, rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		sendFile(w, export.CSVFilename("inventory", time.Now()), "text/csv; charset=utf-8", data)
	case "xlsx", "excel":
		data, err := export.XLSX("Inventory", inventoryExportHeader, rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		sendFile(w, fmt.Sprintf("inventory_%d.xlsx", time.Now().UnixMilli()),
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	case "pdf":
		profile, err := h.Profiles.Get(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		lowCount := 0
		for _, it := range items {
			if domain.ClassifyStock(it.Quantity, h.LowStockThreshold, h.HighStockThreshold) == domain.StockLow {
				lowCount++
			}
		}
		data, err := export.ReportPDF{
			BusinessName: profile.BusinessName,
			ReportTitle:  "Inventory Report",
			GeneratedAt:  time.Now(),
			SummaryLines: []string{
				fmt.Sprintf("Total Items: %d", len(items)),
				fmt.Sprintf("Total Value: %s", export.FormatMoney(totalValue)),
				fmt.Sprintf("Low Stock Items: %d", lowCount),
			},
			Headers: inventoryExportHeader,
			Rows:    rows,
		}.Render()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		sendFile(w, fmt.Sprintf("inventory_%d.pdf", time.Now().UnixMilli()), "application/pdf", data)
	default:
		writeError(w, http.StatusBadRequest, "invalid format (use csv, xlsx or pdf)")
	}
}

func (h InventoryHandler) toItemJSON(it domain.InventoryItem) map[string]any {
	return map[string]any{
		"id":         it.ID,
		"name":       it.Name,
		"category":   it.Category,
		"size":       it.Size,
		"color":      it.Color,
		"price":      it.Price.InexactFloat64(),
		"cost":       it.Cost.InexactFloat64(),
		"quantity":   it.Quantity,
		"supplier":   it.Supplier,
		"dateAdded":  it.DateAdded.UTC().Format(time.RFC3339),
		"stockLevel": string(domain.ClassifyStock(it.Quantity, h.LowStockThreshold, h.HighStockThreshold)),
	}
}

func sendFile(w http.ResponseWriter, filename, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write(data)
}
