package customers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerly-app/ledgerly-backend/internal/ids"
)

// ErrNotFound deliberately covers both "no such customer" and "owned by
// someone else" so existence never leaks across users.
var ErrNotFound = errors.New("customer not found or unauthorized")

type Customer struct {
	ID        string    `json:"id"`
	Title     *string   `json:"title"`
	Name      string    `json:"name"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	Address   *string   `json:"address"`
	Currency  *string   `json:"currency"`
	Website   *string   `json:"website"`
	Tags      *string   `json:"tags"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Fields is the writable subset shared by create and update.
type Fields struct {
	Title    *string
	Name     string
	Email    *string
	Phone    *string
	Address  *string
	Currency *string
	Website  *string
	Tags     *string
}

// Store is the user-scoped persistence surface the handlers talk to.
// Every method takes the authenticated userID and every implementation
// must include it in the query predicate.
type Store interface {
	Create(ctx context.Context, userID string, f Fields) (*Customer, error)
	Get(ctx context.Context, userID, id string) (*Customer, error)
	List(ctx context.Context, userID string) ([]Customer, error)
	Update(ctx context.Context, userID, id string, f Fields) (*Customer, error)
	Delete(ctx context.Context, userID, id string) error
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

const customerCols = `id, title, name, email, phone, address, currency, website, tags, user_id::text, created_at`

func scanCustomer(row pgx.Row) (*Customer, error) {
	var cu Customer
	err := row.Scan(&cu.ID, &cu.Title, &cu.Name, &cu.Email, &cu.Phone,
		&cu.Address, &cu.Currency, &cu.Website, &cu.Tags, &cu.UserID, &cu.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &cu, nil
}

func (r *Repo) Create(ctx context.Context, userID string, f Fields) (*Customer, error) {
	if f.Name == "" {
		return nil, fmt.Errorf("name required")
	}

	for i := 0; i < 5; i++ {
		id, err := ids.NewPublicID("cust")
		if err != nil {
			return nil, err
		}

		const q = `
insert into customers (id, user_id, title, name, email, phone, address, currency, website, tags)
values ($1, $2::uuid, $3, $4, $5, $6, $7, $8, $9, $10)
returning ` + customerCols + `;
`
		cu, err := scanCustomer(r.db.QueryRow(ctx, q, id, userID, f.Title, f.Name,
			f.Email, f.Phone, f.Address, f.Currency, f.Website, f.Tags))
		if err == nil {
			return cu, nil
		}

		// unique violation on public id → retry
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("failed to generate unique customer id")
}

func (r *Repo) Get(ctx context.Context, userID, id string) (*Customer, error) {
	const q = `
select ` + customerCols + `
from customers
where id = $1 and user_id = $2::uuid and deleted_at is null;
`
	cu, err := scanCustomer(r.db.QueryRow(ctx, q, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return cu, nil
}

func (r *Repo) List(ctx context.Context, userID string) ([]Customer, error) {
	const q = `
select ` + customerCols + `
from customers
where user_id = $1::uuid and deleted_at is null
order by created_at desc;
`
	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Customer, 0, 16)
	for rows.Next() {
		var cu Customer
		if err := rows.Scan(&cu.ID, &cu.Title, &cu.Name, &cu.Email, &cu.Phone,
			&cu.Address, &cu.Currency, &cu.Website, &cu.Tags, &cu.UserID, &cu.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, cu)
	}
	return out, rows.Err()
}

func (r *Repo) Update(ctx context.Context, userID, id string, f Fields) (*Customer, error) {
	const q = `
update customers
set title = $3, name = $4, email = $5, phone = $6, address = $7,
    currency = $8, website = $9, tags = $10, updated_at = now()
where id = $1 and user_id = $2::uuid and deleted_at is null
returning ` + customerCols + `;
`
	cu, err := scanCustomer(r.db.QueryRow(ctx, q, id, userID, f.Title, f.Name,
		f.Email, f.Phone, f.Address, f.Currency, f.Website, f.Tags))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return cu, nil
}

func (r *Repo) Delete(ctx context.Context, userID, id string) error {
	const q = `
update customers
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
