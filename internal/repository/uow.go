package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mkhalil/go_storefront/internal/domain"
)

type OrderRepository = Repository[domain.Order, uuid.UUID]
type OrderItemRepository = Repository[domain.OrderItem, uuid.UUID]
type ProductRepository = Repository[domain.Product, int64]
type DeliveryMethodRepository = Repository[domain.DeliveryMethod, int64]

// UnitOfWork buffers mutations across repositories and commits them in a
// single transaction. Reads go straight to the database; buffered mutations
// execute in the order they were added, which is what lets order items be
// deleted before their owning order.
type UnitOfWork interface {
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	Products() ProductRepository
	DeliveryMethods() DeliveryMethodRepository
	Commit(ctx context.Context) (int64, error)
}

type mutation func(ctx context.Context, tx *sql.Tx) (int64, error)

type pgUnitOfWork struct {
	db      *sql.DB
	actor   string
	now     func() time.Time
	pending []mutation
}

func (p *Postgres) NewUnitOfWork(actor string) UnitOfWork {
	return &pgUnitOfWork{db: p.db, actor: actor, now: time.Now}
}

func (u *pgUnitOfWork) Orders() OrderRepository {
	return &pgOrderRepository{uow: u}
}

func (u *pgUnitOfWork) OrderItems() OrderItemRepository {
	return &pgOrderItemRepository{uow: u}
}

func (u *pgUnitOfWork) Products() ProductRepository {
	return &pgProductRepository{uow: u}
}

func (u *pgUnitOfWork) DeliveryMethods() DeliveryMethodRepository {
	return &pgDeliveryMethodRepository{uow: u}
}

func (u *pgUnitOfWork) Commit(ctx context.Context) (int64, error) {
	if len(u.pending) == 0 {
		return 0, nil
	}

	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	var affected int64
	for _, m := range u.pending {
		n, mErr := m(ctx, tx)
		if mErr != nil {
			tx.Rollback()
			return 0, mErr
		}
		affected += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	u.pending = nil
	return affected, nil
}

func (u *pgUnitOfWork) enqueue(m mutation) {
	u.pending = append(u.pending, m)
}

func (u *pgUnitOfWork) stampCreated(e domain.Auditable) {
	e.StampCreated(u.actor, u.now().UTC())
}

func (u *pgUnitOfWork) stampModified(e domain.Auditable) {
	e.StampModified(u.actor, u.now().UTC())
}

// buildWhere translates specification filters into a WHERE clause with
// positional placeholders starting at $1.
func buildWhere(spec Specification) (string, []any) {
	if len(spec.Filters) == 0 {
		return "", nil
	}

	conds := make([]string, 0, len(spec.Filters))
	args := make([]any, 0, len(spec.Filters))
	for i, f := range spec.Filters {
		conds = append(conds, fmt.Sprintf("%s = $%d", f.Field, i+1))
		args = append(args, f.Value)
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func buildOrderBy(spec Specification) string {
	if spec.Ordering == nil {
		return ""
	}
	dir := "ASC"
	if spec.Ordering.Descending {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s", spec.Ordering.Field, dir)
}
