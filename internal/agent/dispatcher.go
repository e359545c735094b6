package agent

import (
	"context"
	"errors"
	"fmt"

	"voice-agent-server/internal/observability"
	"voice-agent-server/internal/store"
)

// ToolStore is the storage surface the dispatcher needs.
type ToolStore interface {
	GetCustomerByEmail(ctx context.Context, email string) (store.Customer, error)
	GetCustomerByPhone(ctx context.Context, phone string) (store.Customer, error)
	GetOrderByID(ctx context.Context, orderID string) (store.Order, error)
	GetInventoryByProduct(ctx context.Context, productName string) (store.InventoryItem, error)
}

// Dispatcher routes tool invocations from the realtime session to the
// store. Failures come back as errors; the relay folds them into
// structured error results so a bad lookup never aborts a turn.
type Dispatcher struct {
	store  ToolStore
	logger *observability.Logger
}

func NewDispatcher(store ToolStore, logger *observability.Logger) *Dispatcher {
	return &Dispatcher{store: store, logger: logger}
}

func (d *Dispatcher) Dispatch(ctx context.Context, name string, args map[string]any) (map[string]any, error) {
	switch name {
	case "get_customer_by_email":
		email, err := stringArg(args, "email")
		if err != nil {
			return nil, err
		}
		customer, err := d.store.GetCustomerByEmail(ctx, email)
		if err != nil {
			return nil, lookupErr("customer", err)
		}
		return customerResult(customer), nil

	case "get_customer_by_phone":
		phone, err := stringArg(args, "phone")
		if err != nil {
			return nil, err
		}
		customer, err := d.store.GetCustomerByPhone(ctx, phone)
		if err != nil {
			return nil, lookupErr("customer", err)
		}
		return customerResult(customer), nil

	case "get_order":
		orderID, err := stringArg(args, "order_id")
		if err != nil {
			return nil, err
		}
		order, err := d.store.GetOrderByID(ctx, orderID)
		if err != nil {
			return nil, lookupErr("order", err)
		}
		return map[string]any{
			"order_id":  order.ID,
			"status":    order.Status,
			"items":     order.ItemSummary,
			"total_usd": float64(order.TotalCents) / 100,
			"placed_at": order.CreatedAt.Format("2006-01-02"),
		}, nil

	case "check_inventory":
		product, err := stringArg(args, "product_name")
		if err != nil {
			return nil, err
		}
		item, err := d.store.GetInventoryByProduct(ctx, product)
		if err != nil {
			return nil, lookupErr("product", err)
		}
		return map[string]any{
			"product_name": item.ProductName,
			"in_stock":     item.Quantity > 0,
			"quantity":     item.Quantity,
			"price_usd":    float64(item.PriceCents) / 100,
		}, nil

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

func customerResult(c store.Customer) map[string]any {
	return map[string]any{
		"customer_id": c.ID.String(),
		"name":        c.Name,
		"email":       c.Email,
		"phone":       c.Phone,
	}
}

func stringArg(args map[string]any, key string) (string, error) {
	value, ok := args[key].(string)
	if !ok || value == "" {
		return "", fmt.Errorf("missing required argument: %s", key)
	}
	return value, nil
}

func lookupErr(what string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%s not found", what)
	}
	return fmt.Errorf("%s lookup failed: %w", what, err)
}
