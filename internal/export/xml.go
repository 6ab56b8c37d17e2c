// Package export renders reports as documents for download or mail.
package export

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
)

const amountPlaces = 2

// StatementDocument builds an XML document holding the statement's
// transactions followed by its summary
func StatementDocument(username string, st *models.Statement) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("statement")
	root.CreateAttr("user", username)
	root.CreateAttr("period", st.Summary.Period.String())

	txs := root.CreateElement("transactions")
	txs.CreateAttr("count", strconv.Itoa(len(st.Transactions)))
	for _, t := range st.Transactions {
		el := txs.CreateElement("transaction")
		el.CreateAttr("id", strconv.FormatInt(t.ID, 10))
		el.CreateAttr("date", t.Date.Format(models.DateLayout))
		el.CreateAttr("type", t.TypeName)
		el.CreateAttr("category", t.CategoryName)
		el.CreateElement("amount").SetText(money(t.Amount))
		if t.Description != "" {
			el.CreateElement("description").SetText(t.Description)
		}
	}

	appendSummary(root, st.Summary)
	doc.Indent(2)
	return doc
}

// SummaryDocument builds an XML document holding only the summary
func SummaryDocument(username string, s *models.Summary) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("report")
	root.CreateAttr("user", username)
	root.CreateAttr("period", s.Period.String())
	appendSummary(root, s)

	doc.Indent(2)
	return doc
}

// WriteStatement writes the statement as XML
func WriteStatement(w io.Writer, username string, st *models.Statement) error {
	if st == nil || st.Summary == nil {
		return fmt.Errorf("statement is empty")
	}
	if _, err := StatementDocument(username, st).WriteTo(w); err != nil {
		return fmt.Errorf("failed to write statement: %w", err)
	}
	return nil
}

// StatementBytes renders the statement as XML bytes
func StatementBytes(username string, st *models.Statement) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteStatement(&buf, username, st); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteSummary writes the summary alone as XML
func WriteSummary(w io.Writer, username string, s *models.Summary) error {
	if s == nil {
		return fmt.Errorf("summary is empty")
	}
	if _, err := SummaryDocument(username, s).WriteTo(w); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

func appendSummary(parent *etree.Element, s *models.Summary) {
	el := parent.CreateElement("summary")
	el.CreateAttr("income", money(s.Income))
	el.CreateAttr("expense", money(s.Expense))
	el.CreateAttr("balance", money(s.Balance))
	for _, c := range s.Categories {
		cat := el.CreateElement("category")
		cat.CreateAttr("name", c.Category)
		cat.CreateAttr("income", money(c.Income))
		cat.CreateAttr("expense", money(c.Expense))
		cat.CreateAttr("total", money(c.Total))
	}
}

func money(d decimal.Decimal) string {
	return d.StringFixed(amountPlaces)
}
