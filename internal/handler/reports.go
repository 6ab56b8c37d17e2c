package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/Dan9191/finance-service/internal/export"
	"github.com/Dan9191/finance-service/internal/models"
)

type categoryTotalResponse struct {
	Category string `json:"category"`
	Income   string `json:"income"`
	Expense  string `json:"expense"`
	Total    string `json:"total"`
}

type summaryResponse struct {
	Period     string                  `json:"period"`
	Income     string                  `json:"income"`
	Expense    string                  `json:"expense"`
	Balance    string                  `json:"balance"`
	Categories []categoryTotalResponse `json:"categories"`
}

func newSummaryResponse(s *models.Summary) summaryResponse {
	resp := summaryResponse{
		Period:     s.Period.String(),
		Income:     s.Income.StringFixed(2),
		Expense:    s.Expense.StringFixed(2),
		Balance:    s.Balance.StringFixed(2),
		Categories: make([]categoryTotalResponse, 0, len(s.Categories)),
	}
	for _, c := range s.Categories {
		resp.Categories = append(resp.Categories, categoryTotalResponse{
			Category: c.Category,
			Income:   c.Income.StringFixed(2),
			Expense:  c.Expense.StringFixed(2),
			Total:    c.Total.StringFixed(2),
		})
	}
	return resp
}

// Summary reports per-category and overall totals. Query parameters:
// year and optional month, or from and to; none means all time.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	period, err := periodFromQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	summary, err := h.svc.Summarize(r.Context(), uid, period)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSummaryResponse(summary))
}

// StatementXML downloads the statement for a period as an XML document
func (h *Handler) StatementXML(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	period, err := periodFromQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	user, err := h.svc.User(r.Context(), uid)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	st, err := h.svc.Statement(r.Context(), uid, period)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	body, err := export.StatementBytes(user.Username, st)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="statement-%d.xml"`, uid))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// SummaryXML downloads the summary for a period as an XML document
func (h *Handler) SummaryXML(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	period, err := periodFromQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	user, err := h.svc.User(r.Context(), uid)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	summary, err := h.svc.Summarize(r.Context(), uid, period)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteSummary(&buf, user.Username, summary); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="summary-%d.xml"`, uid))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
