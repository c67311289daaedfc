package dashboard

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerly-app/ledgerly-backend/internal/invoices"
)

// Summary backs the dashboard landing page: per-user counts plus the
// recent-invoices widget.
type Summary struct {
	Customers      int                `json:"customers"`
	Projects       int                `json:"projects"`
	Invoices       int                `json:"invoices"`
	RecentInvoices []invoices.Invoice `json:"recentInvoices"`
}

// Source produces a user's summary. The redis cache wraps the pgx repo
// behind the same interface.
type Source interface {
	Summary(ctx context.Context, userID string) (*Summary, error)
}

const recentInvoiceLimit = 5

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Summary(ctx context.Context, userID string) (*Summary, error) {
	const countsQ = `
select
  (select count(*) from customers where user_id = $1::uuid and deleted_at is null),
  (select count(*) from projects  where user_id = $1::uuid and deleted_at is null),
  (select count(*) from invoices  where user_id = $1::uuid and deleted_at is null);
`
	var s Summary
	if err := r.db.QueryRow(ctx, countsQ, userID).
		Scan(&s.Customers, &s.Projects, &s.Invoices); err != nil {
		return nil, fmt.Errorf("dashboard counts: %w", err)
	}

	const recentQ = `
select id, user_id::text, customer_id, project_id, number, issue_date, due_date, terms,
       items, discount, notes, terms_and_conditions, total, status, created_at
from invoices
where user_id = $1::uuid and deleted_at is null
order by created_at desc
limit $2;
`
	rows, err := r.db.Query(ctx, recentQ, userID, recentInvoiceLimit)
	if err != nil {
		return nil, fmt.Errorf("dashboard recent invoices: %w", err)
	}
	defer rows.Close()

	s.RecentInvoices = make([]invoices.Invoice, 0, recentInvoiceLimit)
	for rows.Next() {
		var inv invoices.Invoice
		var items []byte
		if err := rows.Scan(&inv.ID, &inv.UserID, &inv.CustomerID, &inv.ProjectID, &inv.Number,
			&inv.IssueDate, &inv.DueDate, &inv.Terms, &items, &inv.Discount,
			&inv.Notes, &inv.TermsAndConditions, &inv.Total, &inv.Status, &inv.CreatedAt); err != nil {
			return nil, err
		}
		if len(items) > 0 {
			if err := json.Unmarshal(items, &inv.Items); err != nil {
				return nil, fmt.Errorf("decode invoice items: %w", err)
			}
		}
		s.RecentInvoices = append(s.RecentInvoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &s, nil
}
