package tool

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/cartuplabs/cartup-agent/agent/contract"
	statex "github.com/cartuplabs/cartup-agent/agent/state"
	storex "github.com/cartuplabs/cartup-agent/store"
)

// TicketInfo is the caller-facing shape of a ticket.
type TicketInfo struct {
	TicketID  string `json:"ticket_id"`
	OrderID   string `json:"order_id"`
	Issue     string `json:"issue"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at,omitempty"`
}

func executeCreateTicket(ctx context.Context, st *storex.Store, session *statex.SessionState, tool string, args map[string]any) (contractx.ToolResult, error) {
	orderID, ok := idArg(args, "order_id")
	if !ok {
		return missingArg(tool, "order_id"), nil
	}
	issue, ok := stringArg(args, "issue")
	if !ok {
		return missingArg(tool, "issue"), nil
	}

	if _, err := st.GetOrder(ctx, orderID); err != nil {
		return notFoundResult(tool, err, fmt.Sprintf("Order %s not found", orderID)), nil
	}

	ticketID, err := st.NextID(ctx, "ticket")
	if err != nil {
		log.Warn().Err(err).Str("order_id", orderID).Msg("ticket id issuance failed")
		return contractx.ToolResult{
			Tool:  tool,
			Error: fmt.Sprintf("Failed to create ticket for order %s", orderID),
		}, nil
	}

	ticket := &storex.Ticket{
		TicketID: ticketID,
		OrderID:  orderID,
		Issue:    issue,
		Status:   "Open",
	}
	if err := st.CreateTicket(ctx, ticket); err != nil {
		log.Warn().Err(err).Str("ticket_id", ticketID).Msg("ticket insert failed")
		return contractx.ToolResult{
			Tool:  tool,
			Error: fmt.Sprintf("Failed to create ticket for order %s", orderID),
		}, nil
	}

	session.CurrentTicketID = ticketID
	session.CurrentOrderID = orderID
	return contractx.ToolResult{
		Tool: tool,
		Result: TicketInfo{
			TicketID: ticketID,
			OrderID:  orderID,
			Issue:    issue,
			Status:   "Open",
		},
	}, nil
}

func executeTrackTicket(ctx context.Context, st *storex.Store, session *statex.SessionState, tool string, args map[string]any) (contractx.ToolResult, error) {
	ticketID, ok := idArg(args, "ticket_id")
	if !ok {
		return missingArg(tool, "ticket_id"), nil
	}

	ticket, err := st.GetTicket(ctx, ticketID)
	if err != nil {
		return notFoundResult(tool, err, fmt.Sprintf("Ticket %s not found", ticketID)), nil
	}

	session.CurrentTicketID = ticketID
	return contractx.ToolResult{
		Tool: tool,
		Result: TicketInfo{
			TicketID:  ticketID,
			OrderID:   ticket.OrderID,
			Issue:     ticket.Issue,
			Status:    ticket.Status,
			CreatedAt: ticket.CreatedAt,
		},
	}, nil
}
