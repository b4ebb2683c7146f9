package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"retailpos-backend/internal/billing"
	"retailpos-backend/internal/domain"
	"retailpos-backend/internal/export"
	"retailpos-backend/internal/ports"
	"retailpos-backend/internal/repository"
	"retailpos-backend/internal/share"
)

type InvoiceHandler struct {
	Repo           repository.InvoiceRepository
	Profiles       ports.ProfileReader
	Cache          dashboardInvalidator
	TaxRatePercent float64
}

func (h InvoiceHandler) RegisterRoutes(r chi.Router) {
	r.Get("/invoices", h.list)
	r.Post("/invoices", h.create)
	r.Put("/invoices/{id}", h.update)
	r.Delete("/invoices/{id}", h.remove)
	r.Get("/invoices/{id}/pdf", h.pdf)
	r.Get("/invoices/{id}/whatsapp", h.whatsapp)
}

type invoiceDraftPayload struct {
	Customer      string   `json:"customer"`
	Phone         string   `json:"phone"`
	CustomerID    *string  `json:"customerId"`
	PaymentMethod string   `json:"paymentMethod"`
	TaxRate       *float64 `json:"taxRate"`
	DiscountRate  *float64 `json:"discountRate"`
	Items         []struct {
		ID       string `json:"id"`
		Quantity int    `json:"quantity"`
	} `json:"items"`
}

func (h InvoiceHandler) create(w http.ResponseWriter, r *http.Request) {
	var req invoiceDraftPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	taxRate := decimal.NewFromFloat(h.TaxRatePercent)
	if req.TaxRate != nil {
		taxRate = decimal.NewFromFloat(*req.TaxRate)
	}
	discountRate := decimal.NewFromFloat(billing.DefaultDiscountRatePercent)
	if req.DiscountRate != nil {
		discountRate = decimal.NewFromFloat(*req.DiscountRate)
	}
	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = string(domain.PaymentCash)
	}

	draft := billing.Draft{
		Customer:      req.Customer,
		Phone:         req.Phone,
		CustomerID:    req.CustomerID,
		PaymentMethod: paymentMethod,
		TaxRate:       taxRate,
		DiscountRate:  discountRate,
	}
	for _, it := range req.Items {
		draft.Lines = append(draft.Lines, billing.DraftLine{ItemID: it.ID, Quantity: it.Quantity})
	}

	inv, err := h.Repo.Create(r.Context(), draft)
	if err != nil {
		switch {
		case errors.Is(err, billing.ErrEmptyInvoice), errors.Is(err, billing.ErrInvalidQuantity):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, billing.ErrItemNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, billing.ErrInsufficientStock):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, repository.ErrDuplicateNumber):
			// Safe to retry: nothing was written and a retry picks a
			// fresh number.
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	h.Cache.Invalidate(r.Context(), dashboardCacheKey)
	writeJSON(w, http.StatusOK, toInvoiceJSON(*inv))
}

func (h InvoiceHandler) list(w http.ResponseWriter, r *http.Request) {
	from, to, ok := parseDateRange(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid date range")
		return
	}
	invoices, err := h.Repo.List(r.Context(), from, to, 500)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(invoices))
	for _, inv := range invoices {
		resp = append(resp, toInvoiceJSON(inv))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h InvoiceHandler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req struct {
		Customer      *string `json:"customer"`
		Phone         *string `json:"phone"`
		PaymentMethod *string `json:"paymentMethod"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	inv, err := h.Repo.Update(r.Context(), id, domain.InvoicePatch{
		Customer:      req.Customer,
		Phone:         req.Phone,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "invoice not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toInvoiceJSON(*inv))
}

func (h InvoiceHandler) remove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "invoice not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.Cache.Invalidate(r.Context(), dashboardCacheKey)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h InvoiceHandler) pdf(w http.ResponseWriter, r *http.Request) {
	inv, profile, ok := h.load(w, r)
	if !ok {
		return
	}
	data, err := export.InvoicePDF(*profile, *inv)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	sendFile(w, "invoice-"+inv.ID+".pdf", "application/pdf", data)
}

func (h InvoiceHandler) whatsapp(w http.ResponseWriter, r *http.Request) {
	inv, profile, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"url": share.WhatsAppLink(*profile, *inv),
	})
}

func (h InvoiceHandler) load(w http.ResponseWriter, r *http.Request) (*domain.Invoice, *domain.Profile, bool) {
	id := chi.URLParam(r, "id")
	inv, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "invoice not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return nil, nil, false
	}
	profile, err := h.Profiles.Get(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, nil, false
	}
	return inv, profile, true
}

func toInvoiceJSON(inv domain.Invoice) map[string]any {
	items := make([]map[string]any, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, map[string]any{
			"id":       it.ItemID,
			"quantity": it.Quantity,
			"name":     it.Name,
			"price":    it.Price.InexactFloat64(),
			"category": it.Category,
		})
	}
	return map[string]any{
		"id":                 inv.ID,
		"date":               inv.Date.UTC().Format(time.RFC3339),
		"customer":           inv.Customer,
		"phone":              inv.Phone,
		"customerId":         inv.CustomerID,
		"paymentMethod":      inv.PaymentMethod,
		"items":              items,
		"subtotal":           inv.Subtotal.InexactFloat64(),
		"tax":                inv.Tax.InexactFloat64(),
		"gst":                inv.TaxRate.InexactFloat64(),
		"discount":           inv.Discount.InexactFloat64(),
		"discountPercentage": inv.DiscountRate.InexactFloat64(),
		"total":              inv.Total.InexactFloat64(),
	}
}
