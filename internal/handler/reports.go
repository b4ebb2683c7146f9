package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"retailpos-backend/internal/cache"
	"retailpos-backend/internal/export"
	"retailpos-backend/internal/ports"
	"retailpos-backend/internal/repository"
)

type ReportHandler struct {
	Repo               repository.ReportRepository
	Profiles           ports.ProfileReader
	Cache              *cache.Redis
	LowStockThreshold  int
	HighStockThreshold int
	TopProductsLimit   int
}

const dashboardCacheKey = "reports:dashboard"
const dashboardCacheTTL = 30 * time.Second

// dashboardInvalidator drops the cached dashboard payload after writes
// that change its aggregates. *cache.Redis satisfies it and no-ops
// when nil.
type dashboardInvalidator interface {
	Invalidate(ctx context.Context, keys ...string)
}

func (h ReportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/reports/dashboard", h.dashboard)
	r.Get("/reports/sales", h.sales)
	r.Get("/reports/stock", h.stock)
	r.Get("/reports/top-products", h.topProducts)
	r.Get("/reports/profit-loss", h.profitLoss)
	r.Get("/reports/sales/export", h.exportSales)
	r.Get("/reports/profit-loss/export", h.exportProfitLoss)
}

func (h ReportHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	if cached, ok := h.Cache.Get(r.Context(), dashboardCacheKey); ok {
		writeRawBytes(w, http.StatusOK, cached)
		return
	}

	s, err := h.Repo.Summary(r.Context(), h.LowStockThreshold)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	series, err := h.Repo.SalesSeries(r.Context(), 7)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	weekTrend := 0.0
	if s.PrevWeekRevenue.IsPositive() {
		weekTrend = s.WeekRevenue.Sub(s.PrevWeekRevenue).
			Div(s.PrevWeekRevenue).Mul(decimal.NewFromInt(100)).
			Round(1).InexactFloat64()
	}

	body := map[string]any{
		"todaySales":      s.TodaySales.InexactFloat64(),
		"todayInvoices":   s.TodayInvoices,
		"totalRevenue":    s.TotalRevenue.InexactFloat64(),
		"totalInvoices":   s.TotalInvoices,
		"weekRevenue":     s.WeekRevenue.InexactFloat64(),
		"weekTrend":       weekTrend,
		"inventoryValue":  s.InventoryValue.InexactFloat64(),
		"totalStockUnits": s.TotalStockUnits,
		"lowStockCount":   s.LowStockCount,
		"salesSeries":     salesSeriesJSON(series),
	}

	payload, err := json.Marshal(apiResponse{Status: "ok", Data: body})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.Cache.Set(r.Context(), dashboardCacheKey, payload, dashboardCacheTTL)
	writeRawBytes(w, http.StatusOK, payload)
}

func (h ReportHandler) sales(w http.ResponseWriter, r *http.Request) {
	from, to, ok := parseDateRange(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid date range")
		return
	}

	overview, err := h.Repo.Overview(r.Context(), from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	categories, err := h.Repo.CategoryRevenue(r.Context(), from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	payments, err := h.Repo.PaymentBreakdown(r.Context(), from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	days := 30
	if v := r.URL.Query().Get("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 366 {
			days = n
		}
	}
	series, err := h.Repo.SalesSeries(r.Context(), days)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	catJSON := make([]map[string]any, 0, len(categories))
	for _, c := range categories {
		catJSON = append(catJSON, map[string]any{
			"category": c.Category,
			"amount":   c.Amount.InexactFloat64(),
		})
	}
	payJSON := make([]map[string]any, 0, len(payments))
	for _, p := range payments {
		payJSON = append(payJSON, map[string]any{
			"method": p.Method,
			"count":  p.Count,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"totalRevenue":   overview.TotalRevenue.InexactFloat64(),
		"invoiceCount":   overview.InvoiceCount,
		"averageValue":   overview.AverageValue.InexactFloat64(),
		"byCategory":     catJSON,
		"paymentMethods": payJSON,
		"salesSeries":    salesSeriesJSON(series),
	})
}

func (h ReportHandler) stock(w http.ResponseWriter, r *http.Request) {
	b, err := h.Repo.Buckets(r.Context(), h.LowStockThreshold, h.HighStockThreshold)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"low":    b.Low,
		"medium": b.Medium,
		"high":   b.High,
	})
}

func (h ReportHandler) topProducts(w http.ResponseWriter, r *http.Request) {
	limit := h.TopProductsLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	products, err := h.Repo.TopProducts(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(products))
	for _, p := range products {
		resp = append(resp, map[string]any{
			"name":    p.Name,
			"units":   p.Units,
			"revenue": p.Revenue.InexactFloat64(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h ReportHandler) profitLoss(w http.ResponseWriter, r *http.Request) {
	from, to, ok := parseDateRange(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid date range")
		return
	}
	rows, err := h.Repo.ProfitRows(r.Context(), from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	totalRevenue := decimal.Zero
	totalCost := decimal.Zero
	lineJSON := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		totalRevenue = totalRevenue.Add(row.Revenue)
		totalCost = totalCost.Add(row.Cost)
		lineJSON = append(lineJSON, map[string]any{
			"invoiceId": row.InvoiceID,
			"date":      row.Date.UTC().Format(time.RFC3339),
			"item":      row.ItemName,
			"category":  row.Category,
			"quantity":  row.Quantity,
			"cost":      row.Cost.InexactFloat64(),
			"revenue":   row.Revenue.InexactFloat64(),
			"profit":    row.Profit.InexactFloat64(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"totalRevenue": totalRevenue.InexactFloat64(),
		"totalCost":    totalCost.InexactFloat64(),
		"totalProfit":  totalRevenue.Sub(totalCost).InexactFloat64(),
		"lines":        lineJSON,
	})
}

var salesExportHeader = []string{"Date", "Revenue"}

func (h ReportHandler) exportSales(w http.ResponseWriter, r *http.Request) {
	from, to, ok := parseDateRange(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid date range")
		return
	}
	days := 30
	if v := r.URL.Query().Get("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 366 {
			days = n
		}
	}
	series, err := h.Repo.SalesSeries(r.Context(), days)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	rows := make([][]string, 0, len(series))
	total := decimal.Zero
	for _, p := range series {
		rows = append(rows, []string{p.Date, p.Amount.StringFixed(2)})
		total = total.Add(p.Amount)
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	switch format {
	case "csv":
		data, err := export.CSV(salesExportHeader, rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		sendFile(w, export.CSVFilename("sales_report", time.Now()), "text/csv; charset=utf-8", data)
	case "pdf":
		profile, err := h.Profiles.Get(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		overview, err := h.Repo.Overview(r.Context(), from, to)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		data, err := export.ReportPDF{
			BusinessName: profile.BusinessName,
			ReportTitle:  "Sales Report",
			GeneratedAt:  time.Now(),
			SummaryLines: []string{
				fmt.Sprintf("Total Revenue: %s", export.FormatMoney(total)),
				fmt.Sprintf("Invoices: %d", overview.InvoiceCount),
				fmt.Sprintf("Average Invoice: %s", export.FormatMoney(overview.AverageValue)),
			},
			Headers: salesExportHeader,
			Rows:    rows,
		}.Render()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		sendFile(w, fmt.Sprintf("sales_report_%d.pdf", time.Now().UnixMilli()), "application/pdf", data)
	default:
		writeError(w, http.StatusBadRequest, "invalid format (use csv or pdf)")
	}
}

var profitExportHeader = []string{"Invoice", "Date", "Item", "Category", "Quantity", "Cost", "Revenue", "Profit"}

func (h ReportHandler) exportProfitLoss(w http.ResponseWriter, r *http.Request) {
	from, to, ok := parseDateRange(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid date range")
		return
	}
	lines, err := h.Repo.ProfitRows(r.Context(), from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	rows := make([][]string, 0, len(lines))
	for _, row := range lines {
		rows = append(rows, []string{
			row.InvoiceID,
			row.Date.Format(dateLayout),
			row.ItemName,
			row.Category,
			strconv.Itoa(row.Quantity),
			row.Cost.StringFixed(2),
			row.Revenue.StringFixed(2),
			row.Profit.StringFixed(2),
		})
	}
	data, err := export.CSV(profitExportHeader, rows)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	sendFile(w, export.CSVFilename("profit_loss", time.Now()), "text/csv; charset=utf-8", data)
}

func salesSeriesJSON(series []repository.SalesPoint) []map[string]any {
	out := make([]map[string]any, 0, len(series))
	for _, p := range series {
		out = append(out, map[string]any{
			"date":   p.Date,
			"amount": p.Amount.InexactFloat64(),
		})
	}
	return out
}
