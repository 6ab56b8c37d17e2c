package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/service"
)

func (s *Session) showTransactions(ctx context.Context) error {
	transactions, err := s.svc.ListTransactions(ctx, s.user.ID, models.TransactionFilter{})
	if err != nil {
		return err
	}
	s.writeTransactions(transactions)
	return nil
}

func (s *Session) addTransaction(ctx context.Context) error {
	raw, err := s.prompt("Amount: ")
	if err != nil {
		return err
	}
	amount, err := service.ParseAmount(raw)
	if err != nil {
		return err
	}
	categoryID, err := s.chooseCategory(ctx, "")
	if err != nil {
		return err
	}
	typeID, err := s.chooseType(ctx, "")
	if err != nil {
		return err
	}
	description, err := s.prompt("Description: ")
	if err != nil {
		return err
	}
	raw, err = s.prompt("Date (YYYY-MM-DD, blank for today): ")
	if err != nil {
		return err
	}
	date := models.DateOnly(s.now())
	if raw != "" {
		if date, err = service.ParseDate(raw); err != nil {
			return err
		}
	}

	id, err := s.svc.CreateTransaction(ctx, models.NewTransaction{
		UserID:      s.user.ID,
		Amount:      amount,
		CategoryID:  categoryID,
		TypeID:      typeID,
		Description: description,
		Date:        date,
	})
	if err != nil {
		return err
	}
	s.println("Transaction added with id", id)
	return nil
}

func (s *Session) deleteTransaction(ctx context.Context) error {
	id, err := s.promptID("Transaction id to delete: ")
	if err != nil {
		return err
	}
	if err := s.svc.DeleteTransaction(ctx, id, s.user.ID); err != nil {
		return err
	}
	s.println("Transaction deleted.")
	return nil
}

// updateTransaction asks for each field in turn; a blank answer keeps the current value
func (s *Session) updateTransaction(ctx context.Context) error {
	id, err := s.promptID("Transaction id to update: ")
	if err != nil {
		return err
	}
	current, err := s.svc.GetTransaction(ctx, id, s.user.ID)
	if err != nil {
		return err
	}
	s.writeTransactions([]models.Transaction{*current})

	var u models.TransactionUpdate
	raw, err := s.prompt(fmt.Sprintf("Amount [%s]: ", money(current.Amount)))
	if err != nil {
		return err
	}
	if raw != "" {
		amount, err := service.ParseAmount(raw)
		if err != nil {
			return err
		}
		u.Amount = &amount
	}

	categoryID, err := s.chooseCategory(ctx, current.CategoryName)
	if err != nil {
		return err
	}
	if categoryID != 0 {
		u.CategoryID = &categoryID
	}
	typeID, err := s.chooseType(ctx, current.TypeName)
	if err != nil {
		return err
	}
	if typeID != 0 {
		u.TypeID = &typeID
	}

	raw, err = s.prompt(fmt.Sprintf("Description [%s]: ", current.Description))
	if err != nil {
		return err
	}
	if raw != "" {
		u.Description = &raw
	}
	raw, err = s.prompt(fmt.Sprintf("Date [%s]: ", current.Date.Format(models.DateLayout)))
	if err != nil {
		return err
	}
	if raw != "" {
		date, err := service.ParseDate(raw)
		if err != nil {
			return err
		}
		u.Date = &date
	}

	if u.Empty() {
		s.println("Nothing to update.")
		return nil
	}
	if err := s.svc.UpdateTransaction(ctx, id, s.user.ID, u); err != nil {
		return err
	}
	s.println("Transaction updated.")
	return nil
}

// chooseCategory lists the categories and reads an id or a name. With a
// current value a blank answer returns 0.
func (s *Session) chooseCategory(ctx context.Context, current string) (int64, error) {
	categories, err := s.svc.Categories(ctx)
	if err != nil {
		return 0, err
	}
	for _, c := range categories {
		s.println(fmt.Sprintf("  [%d] %s", c.ID, c.Name))
	}
	raw, err := s.choose("Category", current)
	if err != nil || raw == "" {
		return 0, err
	}
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return id, nil
	}
	c, err := s.svc.CategoryByName(ctx, raw)
	if err != nil {
		return 0, err
	}
	return c.ID, nil
}

func (s *Session) chooseType(ctx context.Context, current string) (int64, error) {
	types, err := s.svc.Types(ctx)
	if err != nil {
		return 0, err
	}
	for _, t := range types {
		s.println(fmt.Sprintf("  [%d] %s", t.ID, t.Name))
	}
	raw, err := s.choose("Type", current)
	if err != nil || raw == "" {
		return 0, err
	}
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return id, nil
	}
	t, err := s.svc.TypeByName(ctx, raw)
	if err != nil {
		return 0, err
	}
	return t.ID, nil
}

// choose reads one answer. Blank keeps the current value and is an error
// when there is none.
func (s *Session) choose(label, current string) (string, error) {
	if current != "" {
		label = fmt.Sprintf("%s [%s]", label, current)
	}
	raw, err := s.prompt(label + ": ")
	if err != nil {
		return "", err
	}
	if raw == "" && current == "" {
		return "", fmt.Errorf("%w: %s is required", models.ErrInvalidReference, strings.ToLower(label))
	}
	return raw, nil
}
