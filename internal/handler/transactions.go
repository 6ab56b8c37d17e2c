package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/service"
	"github.com/shopspring/decimal"
)

// transactionRequest is the body of POST /transactions. Amount accepts a
// JSON number or string; date is YYYY-MM-DD.
type transactionRequest struct {
	Amount      json.RawMessage `json:"amount"`
	CategoryID  int64           `json:"category_id"`
	TypeID      int64           `json:"type_id"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
}

// transactionPatch is the body of PATCH /transactions/{id}; absent fields are kept
type transactionPatch struct {
	Amount      json.RawMessage  `json:"amount"`
	CategoryID  *int64           `json:"category_id"`
	TypeID      *int64           `json:"type_id"`
	Description *string          `json:"description"`
	Date        *string          `json:"date"`
}

type transactionResponse struct {
	ID          int64  `json:"id"`
	Amount      string `json:"amount"`
	CategoryID  int64  `json:"category_id"`
	Category    string `json:"category"`
	TypeID      int64  `json:"type_id"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

// parseAmount reads an amount given as a JSON number or string
func parseAmount(raw json.RawMessage) (decimal.Decimal, error) {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return decimal.Zero, fmt.Errorf("%w: amount is required", models.ErrInvalidAmount)
	}
	if strings.HasPrefix(text, `"`) {
		if err := json.Unmarshal(raw, &text); err != nil {
			return decimal.Zero, fmt.Errorf("%w: %s", models.ErrInvalidAmount, raw)
		}
	}
	return service.ParseAmount(text)
}

func newTransactionResponse(t models.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		Amount:      t.Amount.StringFixed(2),
		CategoryID:  t.CategoryID,
		Category:    t.CategoryName,
		TypeID:      t.TypeID,
		Type:        t.TypeName,
		Description: t.Description,
		Date:        t.Date.Format(models.DateLayout),
	}
}

// ListTransactions lists the caller's transactions. Optional query
// parameters: from, to (YYYY-MM-DD, to exclusive), category_id, type_id.
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var f models.TransactionFilter
	if f.From, err = queryDate(r, "from"); err != nil {
		h.writeError(w, r, err)
		return
	}
	if f.To, err = queryDate(r, "to"); err != nil {
		h.writeError(w, r, err)
		return
	}
	if f.CategoryID, err = queryInt(r, "category_id"); err != nil {
		h.writeError(w, r, err)
		return
	}
	if f.TypeID, err = queryInt(r, "type_id"); err != nil {
		h.writeError(w, r, err)
		return
	}

	transactions, err := h.svc.ListTransactions(r.Context(), uid, f)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	resp := make([]transactionResponse, 0, len(transactions))
	for _, t := range transactions {
		resp = append(resp, newTransactionResponse(t))
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateTransaction records a transaction for the caller
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	date, err := service.ParseDate(req.Date)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	id, err := h.svc.CreateTransaction(r.Context(), models.NewTransaction{
		UserID:      uid,
		Amount:      amount,
		CategoryID:  req.CategoryID,
		TypeID:      req.TypeID,
		Description: req.Description,
		Date:        date,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	t, err := h.svc.GetTransaction(r.Context(), id, uid)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/transactions/%d", id))
	writeJSON(w, http.StatusCreated, newTransactionResponse(*t))
}

// GetTransaction returns one of the caller's transactions
func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	t, err := h.svc.GetTransaction(r.Context(), id, uid)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newTransactionResponse(*t))
}

// UpdateTransaction applies a partial update and returns the result
func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req transactionPatch
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	update := models.TransactionUpdate{
		CategoryID:  req.CategoryID,
		TypeID:      req.TypeID,
		Description: req.Description,
	}
	if len(req.Amount) > 0 && string(req.Amount) != "null" {
		amount, err := parseAmount(req.Amount)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		update.Amount = &amount
	}
	if req.Date != nil {
		date, err := service.ParseDate(*req.Date)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		update.Date = &date
	}

	if err := h.svc.UpdateTransaction(r.Context(), id, uid, update); err != nil {
		h.writeError(w, r, err)
		return
	}
	t, err := h.svc.GetTransaction(r.Context(), id, uid)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newTransactionResponse(*t))
}

// DeleteTransaction removes one of the caller's transactions
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.svc.DeleteTransaction(r.Context(), id, uid); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
