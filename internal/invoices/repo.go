package invoices

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerly-app/ledgerly-backend/internal/ids"
)

// ErrNotFound merges "absent" and "owned by another user".
var ErrNotFound = errors.New("invoice not found or unauthorized")

// LineItem is stored as submitted; totals are never recomputed here.
type LineItem struct {
	Name string `json:"name"`
	Cost string `json:"cost"`
}

type Invoice struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"userId"`
	CustomerID         string     `json:"customerId"`
	ProjectID          *string    `json:"projectId"`
	Number             string     `json:"invoiceNumber"`
	IssueDate          *time.Time `json:"invoiceDate"`
	DueDate            *time.Time `json:"dueDate"`
	Terms              *string    `json:"terms"`
	Items              []LineItem `json:"items"`
	Discount           *string    `json:"discount"`
	Notes              *string    `json:"customerNotes"`
	TermsAndConditions *string    `json:"termsAndConditions"`
	Total              string     `json:"total"`
	Status             string     `json:"status"`
	CreatedAt          time.Time  `json:"createdAt"`
}

type Fields struct {
	CustomerID         string
	ProjectID          *string
	Number             string
	IssueDate          *time.Time
	DueDate            *time.Time
	Terms              *string
	Items              []LineItem
	Discount           *string
	Notes              *string
	TermsAndConditions *string
	Total              string
	Status             string
}

// Store is the user-scoped persistence surface for invoices.
type Store interface {
	Create(ctx context.Context, userID string, f Fields) (*Invoice, error)
	Get(ctx context.Context, userID, id string) (*Invoice, error)
	List(ctx context.Context, userID string) ([]Invoice, error)
	Update(ctx context.Context, userID, id string, f Fields) (*Invoice, error)
	Delete(ctx context.Context, userID, id string) error
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

const invoiceCols = `id, user_id::text, customer_id, project_id, number, issue_date, due_date, terms, items, discount, notes, terms_and_conditions, total, status, created_at`

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	var items []byte
	err := row.Scan(&inv.ID, &inv.UserID, &inv.CustomerID, &inv.ProjectID, &inv.Number,
		&inv.IssueDate, &inv.DueDate, &inv.Terms, &items, &inv.Discount,
		&inv.Notes, &inv.TermsAndConditions, &inv.Total, &inv.Status, &inv.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &inv.Items); err != nil {
			return nil, fmt.Errorf("decode invoice items: %w", err)
		}
	}
	return &inv, nil
}

func (r *Repo) Create(ctx context.Context, userID string, f Fields) (*Invoice, error) {
	if f.Number == "" {
		return nil, fmt.Errorf("invoice number required")
	}
	if f.CustomerID == "" {
		return nil, fmt.Errorf("customer id required")
	}

	items, err := json.Marshal(f.Items)
	if err != nil {
		return nil, fmt.Errorf("encode invoice items: %w", err)
	}
	if f.Status == "" {
		f.Status = "draft"
	}

	for i := 0; i < 5; i++ {
		id, err := ids.NewPublicID("inv")
		if err != nil {
			return nil, err
		}

		const q = `
insert into invoices (id, user_id, customer_id, project_id, number, issue_date, due_date, terms, items, discount, notes, terms_and_conditions, total, status)
values ($1, $2::uuid, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
returning ` + invoiceCols + `;
`
		inv, err := scanInvoice(r.db.QueryRow(ctx, q, id, userID, f.CustomerID, f.ProjectID,
			f.Number, f.IssueDate, f.DueDate, f.Terms, items, f.Discount,
			f.Notes, f.TermsAndConditions, f.Total, f.Status))
		if err == nil {
			return inv, nil
		}

		// retry only on public id collisions; a duplicate invoice
		// number for this user is a real error
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "invoices_pkey" {
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("failed to generate unique invoice id")
}

func (r *Repo) Get(ctx context.Context, userID, id string) (*Invoice, error) {
	const q = `
select ` + invoiceCols + `
from invoices
where id = $1 and user_id = $2::uuid and deleted_at is null;
`
	inv, err := scanInvoice(r.db.QueryRow(ctx, q, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (r *Repo) List(ctx context.Context, userID string) ([]Invoice, error) {
	const q = `
select ` + invoiceCols + `
from invoices
where user_id = $1::uuid and deleted_at is null
order by created_at desc;
`
	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Invoice, 0, 16)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *inv)
	}
	return out, rows.Err()
}

func (r *Repo) Update(ctx context.Context, userID, id string, f Fields) (*Invoice, error) {
	items, err := json.Marshal(f.Items)
	if err != nil {
		return nil, fmt.Errorf("encode invoice items: %w", err)
	}

	const q = `
update invoices
set customer_id = $3, project_id = $4, number = $5, issue_date = $6, due_date = $7,
    terms = $8, items = $9, discount = $10, notes = $11, terms_and_conditions = $12,
    total = $13, status = $14, updated_at = now()
where id = $1 and user_id = $2::uuid and deleted_at is null
returning ` + invoiceCols + `;
`
	inv, err := scanInvoice(r.db.QueryRow(ctx, q, id, userID, f.CustomerID, f.ProjectID,
		f.Number, f.IssueDate, f.DueDate, f.Terms, items, f.Discount,
		f.Notes, f.TermsAndConditions, f.Total, f.Status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (r *Repo) Delete(ctx context.Context, userID, id string) error {
	const q = `
update invoices
set deleted_at = now(), updated_at = now()
where id = $1 and user_id = $2::uuid and deleted_at is null;
`
	ct, err := r.db.Exec(ctx, q, id, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
