package tool

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/cartuplabs/cartup-agent/agent/contract"
	statex "github.com/cartuplabs/cartup-agent/agent/state"
	storex "github.com/cartuplabs/cartup-agent/store"
)

// OrderDetails is the caller-facing shape of a single order lookup.
type OrderDetails struct {
	OrderID      string   `json:"order_id"`
	Status       string   `json:"status"`
	Items        []string `json:"items"`
	Amount       float64  `json:"amount"`
	DeliveryDate string   `json:"delivery_date,omitempty"`
	Address      string   `json:"address"`
}

// OrderSummary is one entry of a user's order list.
type OrderSummary struct {
	OrderID      string   `json:"order_id"`
	Status       string   `json:"status"`
	Items        []string `json:"items"`
	Amount       float64  `json:"amount"`
	DeliveryDate string   `json:"delivery_date,omitempty"`
}

// UserOrders is the caller-facing shape of a user's order history.
type UserOrders struct {
	UserID      string         `json:"user_id"`
	Orders      []OrderSummary `json:"orders"`
	TotalOrders int            `json:"total_orders"`
}

func executeGetOrderDetails(ctx context.Context, st *storex.Store, session *statex.SessionState, tool string, args map[string]any) (contractx.ToolResult, error) {
	orderID, ok := idArg(args, "order_id")
	if !ok {
		return missingArg(tool, "order_id"), nil
	}

	order, err := st.GetOrder(ctx, orderID)
	if err != nil {
		return notFoundResult(tool, err, fmt.Sprintf("Order %s not found", orderID)), nil
	}

	session.CurrentOrderID = orderID
	return contractx.ToolResult{
		Tool: tool,
		Result: OrderDetails{
			OrderID:      orderID,
			Status:       order.Status,
			Items:        order.Items,
			Amount:       order.Amount,
			DeliveryDate: order.DeliveryDate,
			Address:      order.Address,
		},
	}, nil
}

func executeGetUserOrders(ctx context.Context, st *storex.Store, session *statex.SessionState, tool string, args map[string]any) (contractx.ToolResult, error) {
	userID, ok := idArg(args, "user_id")
	if !ok {
		return missingArg(tool, "user_id"), nil
	}

	user, err := st.GetUser(ctx, userID)
	if err != nil {
		return notFoundResult(tool, err, fmt.Sprintf("User %s not found", userID)), nil
	}

	orders := make([]OrderSummary, 0, len(user.OrderIDs))
	for _, orderID := range user.OrderIDs {
		order, err := st.GetOrder(ctx, orderID)
		if err != nil {
			continue
		}
		orders = append(orders, OrderSummary{
			OrderID:      orderID,
			Status:       order.Status,
			Items:        order.Items,
			Amount:       order.Amount,
			DeliveryDate: order.DeliveryDate,
		})
	}

	session.UserID = userID
	return contractx.ToolResult{
		Tool: tool,
		Result: UserOrders{
			UserID:      userID,
			Orders:      orders,
			TotalOrders: len(orders),
		},
	}, nil
}

func executeUpdateDeliveryAddress(ctx context.Context, st *storex.Store, session *statex.SessionState, tool string, args map[string]any) (contractx.ToolResult, error) {
	orderID, ok := idArg(args, "order_id")
	if !ok {
		return missingArg(tool, "order_id"), nil
	}
	address, ok := stringArg(args, "new_address")
	if !ok {
		return missingArg(tool, "new_address"), nil
	}

	if _, err := st.GetOrder(ctx, orderID); err != nil {
		return notFoundResult(tool, err, fmt.Sprintf("Order %s not found", orderID)), nil
	}

	changed, err := st.UpdateOrderAddress(ctx, orderID, address)
	if err != nil || !changed {
		if err != nil {
			log.Warn().Err(err).Str("order_id", orderID).Msg("address update failed")
		}
		return contractx.ToolResult{
			Tool:  tool,
			Error: fmt.Sprintf("Failed to update address for order %s", orderID),
		}, nil
	}

	session.CurrentOrderID = orderID
	return contractx.ToolResult{
		Tool:   tool,
		Result: fmt.Sprintf("Address for order %s updated to %s", orderID, address),
	}, nil
}

// notFoundResult flattens absent and errored reads into the caller-facing
// not-found contract, logging real storage faults for diagnostics.
func notFoundResult(tool string, err error, message string) contractx.ToolResult {
	if !errors.Is(err, storex.ErrNotFound) {
		log.Warn().Err(err).Str("tool", tool).Msg("data store read failed")
	}
	return contractx.ToolResult{Tool: tool, Error: message}
}
