package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mkhalil/go_storefront/internal/domain"
)

const (
	// Expansion names understood by the order repository.
	ExpandItems          = "Items"
	ExpandDeliveryMethod = "DeliveryMethod"
)

const orderColumns = `id, buyer_email, subtotal, delivery_method_id,
	ship_first_name, ship_last_name, ship_street, ship_city, ship_country,
	payment_intent_id, status, created_by, created_at, modified_by, modified_at`

const orderItemColumns = `id, order_id, product_id, product_name, picture_url,
	price, quantity, created_by, created_at, modified_by, modified_at`

type pgOrderRepository struct {
	uow *pgUnitOfWork
}

func (r *pgOrderRepository) Get(ctx context.Context, key uuid.UUID) (*domain.Order, error) {
	return r.GetWithSpec(ctx, NewSpecification().Where("id", key))
}

func (r *pgOrderRepository) GetWithSpec(ctx context.Context, spec Specification) (*domain.Order, error) {
	where, args := buildWhere(spec)
	query := `SELECT ` + orderColumns + ` FROM orders` + where + ` LIMIT 1`

	order, err := scanOrder(r.uow.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, err
	}

	if err := r.expand(ctx, order, spec); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *pgOrderRepository) ListWithSpec(ctx context.Context, spec Specification) ([]*domain.Order, error) {
	where, args := buildWhere(spec)
	query := `SELECT ` + orderColumns + ` FROM orders` + where + buildOrderBy(spec)

	rows, err := r.uow.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, scanErr := scanOrder(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	for _, order := range orders {
		if err := r.expand(ctx, order, spec); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// Add buffers an insert of the order together with its item snapshots.
func (r *pgOrderRepository) Add(order *domain.Order) {
	r.uow.stampCreated(order)
	for i := range order.Items {
		if order.Items[i].ID == uuid.Nil {
			order.Items[i].ID = uuid.New()
		}
		order.Items[i].OrderID = order.ID
		r.uow.stampCreated(&order.Items[i])
	}

	r.uow.enqueue(func(ctx context.Context, tx *sql.Tx) (int64, error) {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO orders (`+orderColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
			order.ID,
			order.BuyerEmail,
			order.Subtotal,
			order.DeliveryMethodID,
			order.ShippingAddress.FirstName,
			order.ShippingAddress.LastName,
			order.ShippingAddress.Street,
			order.ShippingAddress.City,
			order.ShippingAddress.Country,
			order.PaymentIntentID,
			order.Status,
			order.CreatedBy,
			order.CreatedAt,
			order.ModifiedBy,
			order.ModifiedAt,
		)
		if err != nil {
			return 0, fmt.Errorf("insert order: %w", err)
		}
		affected, _ := res.RowsAffected()

		for i := range order.Items {
			item := &order.Items[i]
			itemRes, itemErr := tx.ExecContext(ctx,
				`INSERT INTO order_items (`+orderItemColumns+`)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
				item.ID,
				item.OrderID,
				item.ProductID,
				item.ProductName,
				item.PictureURL,
				item.Price,
				item.Quantity,
				item.CreatedBy,
				item.CreatedAt,
				item.ModifiedBy,
				item.ModifiedAt,
			)
			if itemErr != nil {
				return 0, fmt.Errorf("insert order item: %w", itemErr)
			}
			n, _ := itemRes.RowsAffected()
			affected += n
		}
		return affected, nil
	})
}

func (r *pgOrderRepository) Update(order *domain.Order) {
	r.uow.stampModified(order)

	r.uow.enqueue(func(ctx context.Context, tx *sql.Tx) (int64, error) {
		res, err := tx.ExecContext(ctx,
			`UPDATE orders SET status = $2, modified_by = $3, modified_at = $4 WHERE id = $1`,
			order.ID, order.Status, order.ModifiedBy, order.ModifiedAt)
		if err != nil {
			return 0, fmt.Errorf("update order: %w", err)
		}
		return res.RowsAffected()
	})
}

func (r *pgOrderRepository) Delete(order *domain.Order) {
	id := order.ID
	r.uow.enqueue(func(ctx context.Context, tx *sql.Tx) (int64, error) {
		res, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
		if err != nil {
			return 0, fmt.Errorf("delete order: %w", err)
		}
		return res.RowsAffected()
	})
}

func (r *pgOrderRepository) expand(ctx context.Context, order *domain.Order, spec Specification) error {
	if spec.HasExpansion(ExpandDeliveryMethod) {
		dm, err := (&pgDeliveryMethodRepository{uow: r.uow}).Get(ctx, order.DeliveryMethodID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		order.DeliveryMethod = dm
	}

	if spec.HasExpansion(ExpandItems) {
		items, err := (&pgOrderItemRepository{uow: r.uow}).ListWithSpec(ctx,
			NewSpecification().Where("order_id", order.ID).OrderBy("created_at"))
		if err != nil {
			return err
		}
		order.Items = make([]domain.OrderItem, 0, len(items))
		for _, item := range items {
			order.Items = append(order.Items, *item)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	err := row.Scan(
		&order.ID,
		&order.BuyerEmail,
		&order.Subtotal,
		&order.DeliveryMethodID,
		&order.ShippingAddress.FirstName,
		&order.ShippingAddress.LastName,
		&order.ShippingAddress.Street,
		&order.ShippingAddress.City,
		&order.ShippingAddress.Country,
		&order.PaymentIntentID,
		&order.Status,
		&order.CreatedBy,
		&order.CreatedAt,
		&order.ModifiedBy,
		&order.ModifiedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan order: %w", err)
	}
	return &order, nil
}

type pgOrderItemRepository struct {
	uow *pgUnitOfWork
}

func (r *pgOrderItemRepository) Get(ctx context.Context, key uuid.UUID) (*domain.OrderItem, error) {
	return r.GetWithSpec(ctx, NewSpecification().Where("id", key))
}

func (r *pgOrderItemRepository) GetWithSpec(ctx context.Context, spec Specification) (*domain.OrderItem, error) {
	where, args := buildWhere(spec)
	query := `SELECT ` + orderItemColumns + ` FROM order_items` + where + ` LIMIT 1`
	return scanOrderItem(r.uow.db.QueryRowContext(ctx, query, args...))
}

func (r *pgOrderItemRepository) ListWithSpec(ctx context.Context, spec Specification) ([]*domain.OrderItem, error) {
	where, args := buildWhere(spec)
	query := `SELECT ` + orderItemColumns + ` FROM order_items` + where + buildOrderBy(spec)

	rows, err := r.uow.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []*domain.OrderItem
	for rows.Next() {
		item, scanErr := scanOrderItem(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return items, nil
}

func (r *pgOrderItemRepository) Add(item *domain.OrderItem) {
	r.uow.stampCreated(item)
	captured := *item
	r.uow.enqueue(func(ctx context.Context, tx *sql.Tx) (int64, error) {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO order_items (`+orderItemColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			captured.ID,
			captured.OrderID,
			captured.ProductID,
			captured.ProductName,
			captured.PictureURL,
			captured.Price,
			captured.Quantity,
			captured.CreatedBy,
			captured.CreatedAt,
			captured.ModifiedBy,
			captured.ModifiedAt,
		)
		if err != nil {
			return 0, fmt.Errorf("insert order item: %w", err)
		}
		return res.RowsAffected()
	})
}

func (r *pgOrderItemRepository) Update(item *domain.OrderItem) {
	r.uow.stampModified(item)
	captured := *item
	r.uow.enqueue(func(ctx context.Context, tx *sql.Tx) (int64, error) {
		res, err := tx.ExecContext(ctx,
			`UPDATE order_items SET price = $2, quantity = $3, modified_by = $4, modified_at = $5 WHERE id = $1`,
			captured.ID, captured.Price, captured.Quantity, captured.ModifiedBy, captured.ModifiedAt)
		if err != nil {
			return 0, fmt.Errorf("update order item: %w", err)
		}
		return res.RowsAffected()
	})
}

func (r *pgOrderItemRepository) Delete(item *domain.OrderItem) {
	id := item.ID
	r.uow.enqueue(func(ctx context.Context, tx *sql.Tx) (int64, error) {
		res, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE id = $1`, id)
		if err != nil {
			return 0, fmt.Errorf("delete order item: %w", err)
		}
		return res.RowsAffected()
	})
}

func scanOrderItem(row rowScanner) (*domain.OrderItem, error) {
	var item domain.OrderItem
	err := row.Scan(
		&item.ID,
		&item.OrderID,
		&item.ProductID,
		&item.ProductName,
		&item.PictureURL,
		&item.Price,
		&item.Quantity,
		&item.CreatedBy,
		&item.CreatedAt,
		&item.ModifiedBy,
		&item.ModifiedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan order item: %w", err)
	}
	return &item, nil
}
