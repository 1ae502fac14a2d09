package tool

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/cartuplabs/cartup-agent/agent/contract"
	statex "github.com/cartuplabs/cartup-agent/agent/state"
	storex "github.com/cartuplabs/cartup-agent/store"
)

const (
	returnInitialStatus       = "Pending Courier Pickup"
	returnInitialRefundStatus = "Not Initiated"
)

// ReturnInfo is the caller-facing shape of a return record.
type ReturnInfo struct {
	OrderID      string `json:"order_id"`
	Status       string `json:"status"`
	RefundStatus string `json:"refund_status"`
	Reason       string `json:"reason,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
}

func executeInitiateReturn(ctx context.Context, st *storex.Store, session *statex.SessionState, tool string, args map[string]any) (contractx.ToolResult, error) {
	orderID, ok := idArg(args, "order_id")
	if !ok {
		return missingArg(tool, "order_id"), nil
	}
	reason, ok := stringArg(args, "reason")
	if !ok {
		return missingArg(tool, "reason"), nil
	}

	if _, err := st.GetOrder(ctx, orderID); err != nil {
		return notFoundResult(tool, err, fmt.Sprintf("Order %s not found", orderID)), nil
	}

	ret := &storex.Return{
		OrderID:      orderID,
		Status:       returnInitialStatus,
		RefundStatus: returnInitialRefundStatus,
		Reason:       reason,
	}
	if err := st.CreateReturn(ctx, ret); err != nil {
		log.Warn().Err(err).Str("order_id", orderID).Msg("return insert failed")
		return contractx.ToolResult{
			Tool:  tool,
			Error: fmt.Sprintf("Failed to create return for order %s", orderID),
		}, nil
	}

	session.CurrentOrderID = orderID
	return contractx.ToolResult{
		Tool: tool,
		Result: ReturnInfo{
			OrderID:      orderID,
			Status:       ret.Status,
			RefundStatus: ret.RefundStatus,
			Reason:       ret.Reason,
			CreatedAt:    ret.CreatedAt,
		},
	}, nil
}

func executeGetReturnStatus(ctx context.Context, st *storex.Store, session *statex.SessionState, tool string, args map[string]any) (contractx.ToolResult, error) {
	orderID, ok := idArg(args, "order_id")
	if !ok {
		return missingArg(tool, "order_id"), nil
	}

	ret, err := st.GetReturn(ctx, orderID)
	if err != nil {
		return notFoundResult(tool, err, fmt.Sprintf("No return found for order %s", orderID)), nil
	}

	session.CurrentOrderID = orderID
	return contractx.ToolResult{
		Tool: tool,
		Result: ReturnInfo{
			OrderID:      orderID,
			Status:       ret.Status,
			RefundStatus: ret.RefundStatus,
			Reason:       ret.Reason,
			CreatedAt:    ret.CreatedAt,
		},
	}, nil
}

func executeUpdateRefundStatus(ctx context.Context, st *storex.Store, session *statex.SessionState, tool string, args map[string]any) (contractx.ToolResult, error) {
	orderID, ok := idArg(args, "order_id")
	if !ok {
		return missingArg(tool, "order_id"), nil
	}
	refundStatus, ok := stringArg(args, "refund_status")
	if !ok {
		return missingArg(tool, "refund_status"), nil
	}

	if _, err := st.GetReturn(ctx, orderID); err != nil {
		return notFoundResult(tool, err, fmt.Sprintf("No return found for order %s", orderID)), nil
	}

	changed, err := st.UpdateRefundStatus(ctx, orderID, refundStatus)
	if err != nil || !changed {
		if err != nil {
			log.Warn().Err(err).Str("order_id", orderID).Msg("refund status update failed")
		}
		return contractx.ToolResult{
			Tool:  tool,
			Error: fmt.Sprintf("Failed to update refund status for order %s", orderID),
		}, nil
	}

	session.CurrentOrderID = orderID
	return contractx.ToolResult{
		Tool:   tool,
		Result: fmt.Sprintf("Refund status for order %s set to %s", orderID, refundStatus),
	}, nil
}
