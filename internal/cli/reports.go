package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/Dan9191/finance-service/internal/models"
)

func (s *Session) monthlyReport(ctx context.Context) error {
	raw, err := s.prompt("Month (YYYY-MM): ")
	if err != nil {
		return err
	}
	if raw == "" {
		now := s.now()
		return s.report(ctx, models.MonthPeriod(now.Year(), now.Month()))
	}
	period, err := parseMonth(raw)
	if err != nil {
		return err
	}
	return s.report(ctx, period)
}

func (s *Session) report(ctx context.Context, p models.Period) error {
	summary, err := s.svc.Summarize(ctx, s.user.ID, p)
	if err != nil {
		return err
	}

	s.println("Report for", summary.Period)
	if len(summary.Categories) > 0 {
		tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "Category\tIncome\tExpense\tTotal\t")
		for _, c := range summary.Categories {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", c.Category, money(c.Income), money(c.Expense), money(c.Total))
		}
		tw.Flush()
	}
	s.println("Total income: ", money(summary.Income))
	s.println("Total expense:", money(summary.Expense))
	s.println("Balance:      ", money(summary.Balance))
	return nil
}
