package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"guardianrx/m/domain"
	"guardianrx/m/internal/alerts"
	"guardianrx/m/internal/export"
	"guardianrx/m/internal/expiry"
	"guardianrx/m/internal/ingest"
	"guardianrx/m/internal/metrics"
)

type medicineRequest struct {
	Name         string  `json:"name"`
	GenericName  string  `json:"genericName"`
	Type         string  `json:"type"`
	Manufacturer string  `json:"manufacturer"`
	BatchNumber  string  `json:"batchNumber"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unitPrice"`
	SellingPrice float64 `json:"sellingPrice"`
	StoreNumber  string  `json:"storeNumber"`
	ShelfNumber  string  `json:"shelfNumber"`
	ExpiryDate   string  `json:"expiryDate"`
	Supplier     string  `json:"supplier"`
}

// inventoryItem is a list entry decorated with the live classification.
type inventoryItem struct {
	domain.MedicineItem
	Status          domain.Tier `json:"status"`
	DaysUntilExpiry int         `json:"daysUntilExpiry"`
}

func (h *Handler) listInventory(w http.ResponseWriter, r *http.Request) {
	medicines, err := h.store.Medicines()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load inventory")
		return
	}

	now := h.now()
	filter := r.URL.Query().Get("filter")
	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))

	out := make([]inventoryItem, 0, len(medicines))
	for _, m := range medicines {
		tier, days := expiry.ClassifyItem(m, now)
		if !matchesFilter(tier, days, filter) {
			continue
		}
		if query != "" && !matchesQuery(m, query) {
			continue
		}
		out = append(out, inventoryItem{MedicineItem: m, Status: tier, DaysUntilExpiry: days})
	}
	respondJSON(w, http.StatusOK, out)
}

// matchesFilter applies the list tabs: all, weekly (within the critical
// window), monthly (within the warning window), expired.
func matchesFilter(tier domain.Tier, days int, filter string) bool {
	switch filter {
	case "", "all":
		return true
	case "weekly":
		return days > 0 && days <= expiry.CriticalWindowDays
	case "monthly":
		return days > 0 && days <= expiry.WarningWindowDays
	case "expired":
		return tier == domain.TierExpired
	default:
		return true
	}
}

func matchesQuery(m domain.MedicineItem, query string) bool {
	for _, field := range []string{m.Name, m.GenericName, m.BatchNumber, m.Manufacturer, m.Supplier} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

func (h *Handler) getMedicine(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	medicines, err := h.store.Medicines()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load inventory")
		return
	}
	for _, m := range medicines {
		if m.ID == id {
			tier, days := expiry.ClassifyItem(m, h.now())
			respondJSON(w, http.StatusOK, inventoryItem{MedicineItem: m, Status: tier, DaysUntilExpiry: days})
			return
		}
	}
	respondError(w, http.StatusNotFound, "medicine not found")
}

func (h *Handler) createMedicine(w http.ResponseWriter, r *http.Request) {
	var req medicineRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	now := h.now()
	actor := h.caller(r)
	item, err := h.buildMedicine(req, now, actor.Name)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	item.ID = fmt.Sprintf("MED-%d-%d", now.UnixMilli(), h.seq.Add(1))
	if err := item.ValidateNew(now); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	medicines, loadErr := h.store.Medicines()
	if loadErr != nil {
		respondError(w, http.StatusInternalServerError, "failed to load inventory")
		return
	}
	for _, m := range medicines {
		if m.ID == item.ID {
			respondError(w, http.StatusConflict, domain.ErrDuplicateID.Error())
			return
		}
	}

	medicines = append(medicines, item)
	if err := h.store.SaveMedicines(medicines); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save inventory")
		return
	}

	h.logActivity("Added medicine "+item.Name, actor, domain.VisibilityAll)
	respondJSON(w, http.StatusCreated, item)
}

func (h *Handler) updateMedicine(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req medicineRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	medicines, err := h.store.Medicines()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load inventory")
		return
	}

	now := h.now()
	actor := h.caller(r)
	for i := range medicines {
		if medicines[i].ID != id {
			continue
		}
		item, buildErr := h.buildMedicine(req, now, medicines[i].AddedBy)
		if buildErr != nil {
			respondError(w, http.StatusBadRequest, buildErr.Error())
			return
		}
		item.ID = id
		item.DateAdded = medicines[i].DateAdded
		item.LastUpdated = now
		if err := item.ValidateNew(now); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		medicines[i] = item
		if err := h.store.SaveMedicines(medicines); err != nil {
			respondError(w, http.StatusInternalServerError, "failed to save inventory")
			return
		}
		h.logActivity("Updated medicine "+item.Name, actor, domain.VisibilityAll)
		respondJSON(w, http.StatusOK, item)
		return
	}
	respondError(w, http.StatusNotFound, "medicine not found")
}

func (h *Handler) deleteMedicine(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	medicines, err := h.store.Medicines()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load inventory")
		return
	}

	name := ""
	kept := medicines[:0]
	for _, m := range medicines {
		if m.ID == id {
			name = m.Name
			continue
		}
		kept = append(kept, m)
	}
	if name == "" {
		respondError(w, http.StatusNotFound, "medicine not found")
		return
	}
	if err := h.store.SaveMedicines(kept); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save inventory")
		return
	}

	// Alerts referencing the deleted medicine go with it.
	alertList, alertErr := h.store.Alerts()
	if alertErr == nil {
		if err := h.store.SaveAlerts(alerts.CascadeDelete(alertList, id)); err != nil {
			h.log.Error("cascade alert delete", "medicineId", id, "error", err)
		}
	}

	h.logActivity("Deleted medicine "+name, h.caller(r), domain.VisibilityAll)
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) inventoryStats(w http.ResponseWriter, r *http.Request) {
	medicines, err := h.store.Medicines()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load inventory")
		return
	}

	now := h.now()
	stats := struct {
		Total      int     `json:"total"`
		Safe       int     `json:"safe"`
		Warning    int     `json:"warning"`
		Critical   int     `json:"critical"`
		Expired    int     `json:"expired"`
		TotalValue float64 `json:"totalValue"`
	}{}
	for _, m := range medicines {
		stats.Total++
		stats.TotalValue += m.RiskValue()
		tier, _ := expiry.ClassifyItem(m, now)
		switch tier {
		case domain.TierSafe:
			stats.Safe++
		case domain.TierWarning:
			stats.Warning++
		case domain.TierCritical:
			stats.Critical++
		case domain.TierExpired:
			stats.Expired++
		}
	}
	respondJSON(w, http.StatusOK, stats)
}

func (h *Handler) exportInventoryCSV(w http.ResponseWriter, r *http.Request) {
	medicines, err := h.store.Medicines()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load inventory")
		return
	}
	h.logActivity("Exported inventory", h.caller(r), domain.VisibilityAll)
	respondCSV(w, "inventory.csv", export.InventoryCSV(medicines, h.now()))
}

func (h *Handler) exportInventoryXLSX(w http.ResponseWriter, r *http.Request) {
	medicines, err := h.store.Medicines()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load inventory")
		return
	}
	f, err := export.InventoryXLSX(medicines, h.now())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to build workbook")
		return
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to render workbook")
		return
	}
	h.logActivity("Exported inventory", h.caller(r), domain.VisibilityAll)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="inventory.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) importStock(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing upload file")
		return
	}
	defer file.Close()

	now := h.now()
	actor := h.caller(r)

	var result ingest.Result
	if strings.HasSuffix(strings.ToLower(header.Filename), ".xlsx") {
		result, err = ingest.ParseXLSX(file, now, actor.Name, h.log)
	} else {
		result, err = ingest.ParseCSV(file, now, actor.Name, h.log)
	}
	if errors.Is(err, ingest.ErrNoValidRows) {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse upload")
		return
	}

	medicines, loadErr := h.store.Medicines()
	if loadErr != nil {
		respondError(w, http.StatusInternalServerError, "failed to load inventory")
		return
	}
	medicines = append(medicines, result.Items...)
	if err := h.store.SaveMedicines(medicines); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save inventory")
		return
	}

	metrics.ImportedRows.Add(float64(len(result.Items)))
	metrics.SkippedImportRows.Add(float64(result.Skipped))
	h.logActivity(fmt.Sprintf("Imported %d medicines from %s", len(result.Items), header.Filename), actor, domain.VisibilityAll)
	respondJSON(w, http.StatusOK, map[string]int{"imported": len(result.Items), "skipped": result.Skipped})
}

func (h *Handler) buildMedicine(req medicineRequest, now time.Time, addedBy string) (domain.MedicineItem, error) {
	expiryDate, err := domain.ParseDate(req.ExpiryDate)
	if err != nil {
		return domain.MedicineItem{}, fmt.Errorf("%w: expiryDate", domain.ErrMissingField)
	}

	item := domain.MedicineItem{
		Name:         strings.TrimSpace(req.Name),
		GenericName:  strings.TrimSpace(req.GenericName),
		Type:         strings.ToLower(strings.TrimSpace(req.Type)),
		Manufacturer: strings.TrimSpace(req.Manufacturer),
		BatchNumber:  strings.TrimSpace(req.BatchNumber),
		Quantity:     req.Quantity,
		UnitPrice:    req.UnitPrice,
		SellingPrice: req.SellingPrice,
		StoreNumber:  strings.TrimSpace(req.StoreNumber),
		ShelfNumber:  strings.TrimSpace(req.ShelfNumber),
		ExpiryDate:   expiryDate,
		Supplier:     strings.TrimSpace(req.Supplier),
		DateAdded:    now,
		LastUpdated:  now,
		AddedBy:      addedBy,
	}
	if item.Type == "" {
		item.Type = "tablet"
	}
	if item.StoreNumber == "" {
		item.StoreNumber = "STORE-001"
	}
	if item.ShelfNumber == "" {
		item.ShelfNumber = "SHELF-A1"
	}
	if item.SellingPrice == 0 {
		item.SellingPrice = item.UnitPrice * ingest.DefaultMarkup
	}
	return item, nil
}
