package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mkhalil/go_storefront/internal/domain"
)

// The catalog repositories are read-only from the checkout core's point of
// view; the write paths exist to satisfy the generic contract and are used
// for seeding reference data.

const productColumns = `id, name, description, picture_url, price,
	created_by, created_at, modified_by, modified_at`

const deliveryMethodColumns = `id, short_name, description, cost, delivery_time,
	created_by, created_at, modified_by, modified_at`

type pgProductRepository struct {
	uow *pgUnitOfWork
}

func (r *pgProductRepository) Get(ctx context.Context, key int64) (*domain.Product, error) {
	return r.GetWithSpec(ctx, NewSpecification().Where("id", key))
}

func (r *pgProductRepository) GetWithSpec(ctx context.Context, spec Specification) (*domain.Product, error) {
	where, args := buildWhere(spec)
	query := `SELECT ` + productColumns + ` FROM products` + where + ` LIMIT 1`
	return scanProduct(r.uow.db.QueryRowContext(ctx, query, args...))
}

func (r *pgProductRepository) ListWithSpec(ctx context.Context, spec Specification) ([]*domain.Product, error) {
	where, args := buildWhere(spec)
	query := `SELECT ` + productColumns + ` FROM products` + where + buildOrderBy(spec)

	rows, err := r.uow.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		p, scanErr := scanProduct(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return products, nil
}

func (r *pgProductRepository) Add(p *domain.Product) {
	r.uow.stampCreated(p)
	captured := *p
	r.uow.enqueue(func(ctx context.Context, tx *sql.Tx) (int64, error) {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO products (`+productColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			captured.ID,
			captured.Name,
			captured.Description,
			captured.PictureURL,
			captured.Price,
			captured.CreatedBy,
			captured.CreatedAt,
			captured.ModifiedBy,
			captured.ModifiedAt,
		)
		if err != nil {
			return 0, fmt.Errorf("insert product: %w", err)
		}
		return res.RowsAffected()
	})
}

func (r *pgProductRepository) Update(p *domain.Product) {
	r.uow.stampModified(p)
	captured := *p
	r.uow.enqueue(func(ctx context.Context, tx *sql.Tx) (int64, error) {
		res, err := tx.ExecContext(ctx,
			`UPDATE products SET name = $2, description = $3, picture_url = $4, price = $5,
			 modified_by = $6, modified_at = $7 WHERE id = $1`,
			captured.ID,
			captured.Name,
			captured.Description,
			captured.PictureURL,
			captured.Price,
			captured.ModifiedBy,
			captured.ModifiedAt,
		)
		if err != nil {
			return 0, fmt.Errorf("update product: %w", err)
		}
		return res.RowsAffected()
	})
}

func (r *pgProductRepository) Delete(p *domain.Product) {
	id := p.ID
	r.uow.enqueue(func(ctx context.Context, tx *sql.Tx) (int64, error) {
		res, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
		if err != nil {
			return 0, fmt.Errorf("delete product: %w", err)
		}
		return res.RowsAffected()
	})
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.PictureURL,
		&p.Price,
		&p.CreatedBy,
		&p.CreatedAt,
		&p.ModifiedBy,
		&p.ModifiedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan product: %w", err)
	}
	return &p, nil
}

type pgDeliveryMethodRepository struct {
	uow *pgUnitOfWork
}

func (r *pgDeliveryMethodRepository) Get(ctx context.Context, key int64) (*domain.DeliveryMethod, error) {
	return r.GetWithSpec(ctx, NewSpecification().Where("id", key))
}

func (r *pgDeliveryMethodRepository) GetWithSpec(ctx context.Context, spec Specification) (*domain.DeliveryMethod, error) {
	where, args := buildWhere(spec)
	query := `SELECT ` + deliveryMethodColumns + ` FROM delivery_methods` + where + ` LIMIT 1`
	return scanDeliveryMethod(r.uow.db.QueryRowContext(ctx, query, args...))
}

func (r *pgDeliveryMethodRepository) ListWithSpec(ctx context.Context, spec Specification) ([]*domain.DeliveryMethod, error) {
	where, args := buildWhere(spec)
	query := `SELECT ` + deliveryMethodColumns + ` FROM delivery_methods` + where + buildOrderBy(spec)

	rows, err := r.uow.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query delivery methods: %w", err)
	}
	defer rows.Close()

	var methods []*domain.DeliveryMethod
	for rows.Next() {
		dm, scanErr := scanDeliveryMethod(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		methods = append(methods, dm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return methods, nil
}

func (r *pgDeliveryMethodRepository) Add(dm *domain.DeliveryMethod) {
	r.uow.stampCreated(dm)
	captured := *dm
	r.uow.enqueue(func(ctx context.Context, tx *sql.Tx) (int64, error) {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO delivery_methods (`+deliveryMethodColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			captured.ID,
			captured.ShortName,
			captured.Description,
			captured.Cost,
			captured.DeliveryTime,
			captured.CreatedBy,
			captured.CreatedAt,
			captured.ModifiedBy,
			captured.ModifiedAt,
		)
		if err != nil {
			return 0, fmt.Errorf("insert delivery method: %w", err)
		}
		return res.RowsAffected()
	})
}

func (r *pgDeliveryMethodRepository) Update(dm *domain.DeliveryMethod) {
	r.uow.stampModified(dm)
	captured := *dm
	r.uow.enqueue(func(ctx context.Context, tx *sql.Tx) (int64, error) {
		res, err := tx.ExecContext(ctx,
			`UPDATE delivery_methods SET short_name = $2, description = $3, cost = $4,
			 delivery_time = $5, modified_by = $6, modified_at = $7 WHERE id = $1`,
			captured.ID,
			captured.ShortName,
			captured.Description,
			captured.Cost,
			captured.DeliveryTime,
			captured.ModifiedBy,
			captured.ModifiedAt,
		)
		if err != nil {
			return 0, fmt.Errorf("update delivery method: %w", err)
		}
		return res.RowsAffected()
	})
}

func (r *pgDeliveryMethodRepository) Delete(dm *domain.DeliveryMethod) {
	id := dm.ID
	r.uow.enqueue(func(ctx context.Context, tx *sql.Tx) (int64, error) {
		res, err := tx.ExecContext(ctx, `DELETE FROM delivery_methods WHERE id = $1`, id)
		if err != nil {
			return 0, fmt.Errorf("delete delivery method: %w", err)
		}
		return res.RowsAffected()
	})
}

func scanDeliveryMethod(row rowScanner) (*domain.DeliveryMethod, error) {
	var dm domain.DeliveryMethod
	err := row.Scan(
		&dm.ID,
		&dm.ShortName,
		&dm.Description,
		&dm.Cost,
		&dm.DeliveryTime,
		&dm.CreatedBy,
		&dm.CreatedAt,
		&dm.ModifiedBy,
		&dm.ModifiedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan delivery method: %w", err)
	}
	return &dm, nil
}
