package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Customer is a verified caller identity record.
type Customer struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Phone     string    `db:"phone"`
	CreatedAt time.Time `db:"created_at"`
}

// Order is one purchase a customer can ask about.
type Order struct {
	ID          string    `db:"id"`
	CustomerID  uuid.UUID `db:"customer_id"`
	Status      string    `db:"status"`
	ItemSummary string    `db:"item_summary"`
	TotalCents  int       `db:"total_cents"`
	CreatedAt   time.Time `db:"created_at"`
}

// InventoryItem is stock and pricing for one product.
type InventoryItem struct {
	ProductName string `db:"product_name"`
	Quantity    int    `db:"quantity"`
	PriceCents  int    `db:"price_cents"`
}

const sqlGetCustomerByEmail = `
SELECT id, name, email, phone, created_at
FROM customers
WHERE LOWER(email) = LOWER($1)
`

const sqlGetCustomerByPhone = `
SELECT id, name, email, phone, created_at
FROM customers
WHERE phone = $1
`

const sqlGetOrderByID = `
SELECT id, customer_id, status, item_summary, total_cents, created_at
FROM orders
WHERE id = $1
`

const sqlGetInventoryByProduct = `
SELECT product_name, quantity, price_cents
FROM inventory
WHERE LOWER(product_name) = LOWER($1)
`

func (s *Store) GetCustomerByEmail(ctx context.Context, email string) (Customer, error) {
	var customer Customer
	err := s.db.GetContext(ctx, &customer, sqlGetCustomerByEmail, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Customer{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get customer by email", err)
		return Customer{}, fmt.Errorf("failed to get customer by email: %w", err)
	}
	return customer, nil
}

func (s *Store) GetCustomerByPhone(ctx context.Context, phone string) (Customer, error) {
	var customer Customer
	err := s.db.GetContext(ctx, &customer, sqlGetCustomerByPhone, phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Customer{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get customer by phone", err)
		return Customer{}, fmt.Errorf("failed to get customer by phone: %w", err)
	}
	return customer, nil
}

func (s *Store) GetOrderByID(ctx context.Context, orderID string) (Order, error) {
	var order Order
	err := s.db.GetContext(ctx, &order, sqlGetOrderByID, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get order", err)
		return Order{}, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

func (s *Store) GetInventoryByProduct(ctx context.Context, productName string) (InventoryItem, error) {
	var item InventoryItem
	err := s.db.GetContext(ctx, &item, sqlGetInventoryByProduct, productName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return InventoryItem{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get inventory item", err)
		return InventoryItem{}, fmt.Errorf("failed to get inventory item: %w", err)
	}
	return item, nil
}
