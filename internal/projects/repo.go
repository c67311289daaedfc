package projects

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

// ErrNotFound merges "absent" and "owned by another user".
var ErrNotFound = errors.New("project not found or unauthorized")

type Project struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	CustomerID   string     `json:"customerId"`
	CustomerName string     `json:"customerName,omitempty"`
	ProjectName  string     `json:"projectName"`
	ProjectCode  *string    `json:"projectCode"`
	Description  *string    `json:"description"`
	Platform     *string    `json:"platform"`
	StartDate    *time.Time `json:"startDate"`
	EndDate      *time.Time `json:"endDate"`
	CreatedAt    time.Time  `json:"createdAt"`
}

type Fields struct {
	CustomerID  string
	ProjectName string
	ProjectCode *string
	Description *string
	Platform    *string
	StartDate   *time.Time
	EndDate     *time.Time
}

// Store is the user-scoped persistence surface for projects.
type Store interface {
	Create(ctx context.Context, userID string, f Fields) (*Project, error)
	Get(ctx context.Context, userID, id string) (*Project, error)
	List(ctx context.Context, userID string) ([]Project, error)
	Update(ctx context.Context, userID, id string, f Fields) (*Project, error)
	Delete(ctx context.Context, userID, id string) error
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, userID string, f Fields) (*Project, error) {
	if f.ProjectName == "" {
		return nil, fmt.Errorf("project name required")
	}
	if f.CustomerID == "" {
		return nil, fmt.Errorf("customer id required")
	}

	for i := 0; i < 5; i++ {
		id, err := ids.NewPublicID("proj")
		if err != nil {
			return nil, err
		}

		const q = `
insert into projects (id, user_id, customer_id, project_name, project_code, description, platform, start_date, end_date)
values ($1, $2::uuid, $3, $4, $5, $6, $7, $8, $9)
returning id, user_id::text, customer_id, project_name, project_code, description, platform, start_date, end_date, created_at;
`
		var p Project
		err = r.db.QueryRow(ctx, q, id, userID, f.CustomerID, f.ProjectName,
			f.ProjectCode, f.Description, f.Platform, f.StartDate, f.EndDate).
			Scan(&p.ID, &p.UserID, &p.CustomerID, &p.ProjectName, &p.ProjectCode,
				&p.Description, &p.Platform, &p.StartDate, &p.EndDate, &p.CreatedAt)

		if err == nil {
			return &p, nil
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("failed to generate unique project id")
}

// Get returns a single project with its customer name joined in, like
// the list views need.
func (r *Repo) Get(ctx context.Context, userID, id string) (*Project, error) {
	const q = `
select p.id, p.user_id::text, p.customer_id, coalesce(c.name, ''), p.project_name,
       p.project_code, p.description, p.platform, p.start_date, p.end_date, p.created_at
from projects p
left join customers c on c.id = p.customer_id and c.deleted_at is null
where p.id = $1 and p.user_id = $2::uuid and p.deleted_at is null;
`
	var p Project
	err := r.db.QueryRow(ctx, q, id, userID).
		Scan(&p.ID, &p.UserID, &p.CustomerID, &p.CustomerName, &p.ProjectName,
			&p.ProjectCode, &p.Description, &p.Platform, &p.StartDate, &p.EndDate, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repo) List(ctx context.Context, userID string) ([]Project, error) {
	const q = `
select p.id, p.user_id::text, p.customer_id, coalesce(c.name, ''), p.project_name,
       p.project_code, p.description, p.platform, p.start_date, p.end_date, p.created_at
from projects p
left join customers c on c.id = p.customer_id and c.deleted_at is null
where p.user_id = $1::uuid and p.deleted_at is null
order by p.created_at desc;
`
	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Project, 0, 16)
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.UserID, &p.CustomerID, &p.CustomerName, &p.ProjectName,
			&p.ProjectCode, &p.Description, &p.Platform, &p.StartDate, &p.EndDate, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) Update(ctx context.Context, userID, id string, f Fields) (*Project, error) {
	const q = `
update projects
set customer_id = $3, project_name = $4, project_code = $5, description = $6,
    platform = $7, start_date = $8, end_date = $9, updated_at = now()
where id = $1 and user_id = $2::uuid and deleted_at is null
returning id, user_id::text, customer_id, project_name, project_code, description, platform, start_date, end_date, created_at;
`
	var p Project
	err := r.db.QueryRow(ctx, q, id, userID, f.CustomerID, f.ProjectName,
		f.ProjectCode, f.Description, f.Platform, f.StartDate, f.EndDate).
		Scan(&p.ID, &p.UserID, &p.CustomerID, &p.ProjectName, &p.ProjectCode,
			&p.Description, &p.Platform, &p.StartDate, &p.EndDate, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repo) Delete(ctx context.Context, userID, id string) error {
	const q = `
update projects
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
