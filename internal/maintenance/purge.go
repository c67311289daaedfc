package maintenance

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Purger permanently removes rows that were soft-deleted more than
// retentionDays ago. Soft deletes keep accidental deletions recoverable
// for a while; this is the eventual cleanup.
type Purger struct {
	db *pgxpool.Pool
}

func NewPurger(db *pgxpool.Pool) *Purger {
	return &Purger{db: db}
}

const retentionDays = 30

var purgeTables = []string{"invoices", "projects", "customers"}

// Run deletes expired soft-deleted rows table by table, children first
// so foreign keys never block.
func (p *Purger) Run(ctx context.Context) (int64, error) {
	var total int64
	for _, table := range purgeTables {
		q := fmt.Sprintf(
			`delete from %s where deleted_at is not null and deleted_at < now() - interval '%d days';`,
			table, retentionDays)
		ct, err := p.db.Exec(ctx, q)
		if err != nil {
			return total, fmt.Errorf("purge %s: %w", table, err)
		}
		total += ct.RowsAffected()
	}
	return total, nil
}
