package tool

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/cartuplabs/cartup-agent/agent/contract"
	statex "github.com/cartuplabs/cartup-agent/agent/state"
	storex "github.com/cartuplabs/cartup-agent/store"
)

// Tool names. IDs passed to any of these are case-normalized to lowercase
// before the data store is touched; all entity ids are lowercase.
const (
	ToolSetUser         = "set_user"
	ToolSetCurrentOrder = "set_current_order"
	ToolSetLanguage     = "set_language"

	ToolGetOrderDetails       = "get_order_details"
	ToolGetUserOrders         = "get_user_orders"
	ToolUpdateDeliveryAddress = "update_delivery_address"

	ToolCreateTicket    = "create_ticket"
	ToolTrackTicket     = "track_ticket"
	ToolGetTicketStatus = "get_ticket_status"

	ToolInitiateReturn     = "initiate_return"
	ToolGetReturnStatus    = "get_return_status"
	ToolUpdateRefundStatus = "update_refund_status"

	ToolGetRecommendations = "get_recommendations"
	ToolGetProductDetails  = "get_product_details"
	ToolAddToWishlist      = "add_to_wishlist"

	ToolToGreeter   = "to_greeter"
	ToolToOrder     = "to_order"
	ToolToTicket    = "to_ticket"
	ToolToReturns   = "to_returns"
	ToolToRecommend = "to_recommend"
)

var transferTargets = map[string]contractx.AgentName{
	ToolToGreeter:   contractx.AgentGreeter,
	ToolToOrder:     contractx.AgentOrder,
	ToolToTicket:    contractx.AgentTicket,
	ToolToReturns:   contractx.AgentReturns,
	ToolToRecommend: contractx.AgentRecommend,
}

// TransferTarget resolves a hand-off tool name to the persona it targets.
func TransferTarget(tool string) (contractx.AgentName, bool) {
	target, ok := transferTargets[tool]
	return target, ok
}

// NewExecutor builds the tool executor for one conversation: every tool
// reads/writes the shared data store and mutates the session's focus fields
// as a side effect. Data-store faults never escape as Go errors; they come
// back as the not-found/failure markers the persona translates into a spoken
// apology.
func NewExecutor(st *storex.Store, session *statex.SessionState) contractx.ToolExecutor {
	return func(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error) {
		if target, ok := TransferTarget(tool); ok {
			return contractx.ToolResult{Tool: tool, Transfer: target}, nil
		}

		switch tool {
		case ToolSetUser:
			return executeSetUser(session, tool, args)
		case ToolSetCurrentOrder:
			return executeSetCurrentOrder(session, tool, args)
		case ToolSetLanguage:
			return executeSetLanguage(session, tool, args)
		case ToolGetOrderDetails:
			return executeGetOrderDetails(ctx, st, session, tool, args)
		case ToolGetUserOrders:
			return executeGetUserOrders(ctx, st, session, tool, args)
		case ToolUpdateDeliveryAddress:
			return executeUpdateDeliveryAddress(ctx, st, session, tool, args)
		case ToolCreateTicket:
			return executeCreateTicket(ctx, st, session, tool, args)
		case ToolTrackTicket, ToolGetTicketStatus:
			return executeTrackTicket(ctx, st, session, tool, args)
		case ToolInitiateReturn:
			return executeInitiateReturn(ctx, st, session, tool, args)
		case ToolGetReturnStatus:
			return executeGetReturnStatus(ctx, st, session, tool, args)
		case ToolUpdateRefundStatus:
			return executeUpdateRefundStatus(ctx, st, session, tool, args)
		case ToolGetRecommendations:
			return executeGetRecommendations(ctx, st, session, tool, args)
		case ToolGetProductDetails:
			return executeGetProductDetails(ctx, st, session, tool, args)
		case ToolAddToWishlist:
			return executeAddToWishlist(ctx, st, session, tool, args)
		default:
			return contractx.ToolResult{
				Tool:  tool,
				Error: fmt.Sprintf("tool=%s is not available", tool),
			}, nil
		}
	}
}

// InfosForAgent returns the fixed tool set bound to a persona. The hand-off
// adjacency is encoded here: the greeter reaches every specialist, and each
// specialist reaches the other specialists plus the greeter.
func InfosForAgent(name contractx.AgentName) []contractx.ToolInfo {
	switch name {
	case contractx.AgentGreeter:
		return []contractx.ToolInfo{
			setUserInfo(),
			setCurrentOrderInfo(),
			setLanguageInfo(),
			transferInfo(ToolToOrder, "Transfer to the order agent for order-related queries."),
			transferInfo(ToolToTicket, "Transfer to the ticket agent for support ticket creation and tracking."),
			transferInfo(ToolToReturns, "Transfer to the returns agent for returns and refunds."),
			transferInfo(ToolToRecommend, "Transfer to the recommend agent for product recommendations."),
		}
	case contractx.AgentOrder:
		return []contractx.ToolInfo{
			setCurrentOrderInfo(),
			{
				Name: ToolGetOrderDetails,
				Desc: "Fetch order details from the database.",
				Params: []contractx.ToolParam{
					{Name: "order_id", Desc: "Order id to fetch (e.g., o302)", Required: true},
				},
			},
			{
				Name: ToolGetUserOrders,
				Desc: "Get all orders for a user.",
				Params: []contractx.ToolParam{
					{Name: "user_id", Desc: "User id to fetch orders for (e.g., u101)", Required: true},
				},
			},
			{
				Name: ToolUpdateDeliveryAddress,
				Desc: "Update the delivery address for an order.",
				Params: []contractx.ToolParam{
					{Name: "order_id", Desc: "Order id to update", Required: true},
					{Name: "new_address", Desc: "New delivery address", Required: true},
				},
			},
			transferInfo(ToolToGreeter, "Route the caller back to the greeter."),
			transferInfo(ToolToTicket, "Transfer to the ticket agent for support ticket creation and tracking."),
			transferInfo(ToolToReturns, "Transfer to the returns agent for returns and refunds."),
			transferInfo(ToolToRecommend, "Transfer to the recommend agent for product recommendations."),
		}
	case contractx.AgentTicket:
		return []contractx.ToolInfo{
			setCurrentOrderInfo(),
			{
				Name: ToolCreateTicket,
				Desc: "Create a support ticket for an order and return the ticket data.",
				Params: []contractx.ToolParam{
					{Name: "order_id", Desc: "Related order id", Required: true},
					{Name: "issue", Desc: "Short issue description", Required: true},
				},
			},
			{
				Name: ToolTrackTicket,
				Desc: "Fetch ticket status.",
				Params: []contractx.ToolParam{
					{Name: "ticket_id", Desc: "Ticket id to check (e.g., t602)", Required: true},
				},
			},
			{
				Name: ToolGetTicketStatus,
				Desc: "Get ticket status and details.",
				Params: []contractx.ToolParam{
					{Name: "ticket_id", Desc: "Ticket id to check", Required: true},
				},
			},
			transferInfo(ToolToGreeter, "Route the caller back to the greeter."),
			transferInfo(ToolToOrder, "Transfer to the order agent for order-related queries."),
			transferInfo(ToolToReturns, "Transfer to the returns agent for returns and refunds."),
			transferInfo(ToolToRecommend, "Transfer to the recommend agent for product recommendations."),
		}
	case contractx.AgentReturns:
		return []contractx.ToolInfo{
			setCurrentOrderInfo(),
			{
				Name: ToolInitiateReturn,
				Desc: "Create or overwrite a return record for an order.",
				Params: []contractx.ToolParam{
					{Name: "order_id", Desc: "Order to return, lowercase (e.g., o302)", Required: true},
					{Name: "reason", Desc: "Why the item is being returned", Required: true},
				},
			},
			{
				Name: ToolGetReturnStatus,
				Desc: "Report the current return status for an order, if any.",
				Params: []contractx.ToolParam{
					{Name: "order_id", Desc: "Order id, lowercase (e.g., o302)", Required: true},
				},
			},
			{
				Name: ToolUpdateRefundStatus,
				Desc: "Update the refund status of an existing return.",
				Params: []contractx.ToolParam{
					{Name: "order_id", Desc: "Order id, lowercase (e.g., o302)", Required: true},
					{Name: "refund_status", Desc: "New refund status", Required: true},
				},
			},
			transferInfo(ToolToGreeter, "Route the caller back to the greeter."),
			transferInfo(ToolToOrder, "Transfer to the order agent for order-related queries."),
			transferInfo(ToolToTicket, "Transfer to the ticket agent for support ticket creation and tracking."),
			transferInfo(ToolToRecommend, "Transfer to the recommend agent for product recommendations."),
		}
	case contractx.AgentRecommend:
		return []contractx.ToolInfo{
			setUserInfo(),
			{
				Name: ToolGetRecommendations,
				Desc: "Fetch recommended items for a user.",
				Params: []contractx.ToolParam{
					{Name: "user_id", Desc: "User id to recommend for, lowercase (e.g., u101)", Required: true},
				},
			},
			{
				Name: ToolGetProductDetails,
				Desc: "Get product information.",
				Params: []contractx.ToolParam{
					{Name: "product_id", Desc: "Product id to fetch, lowercase (e.g., p001)", Required: true},
				},
			},
			{
				Name: ToolAddToWishlist,
				Desc: "Add a product to the user's wishlist.",
				Params: []contractx.ToolParam{
					{Name: "user_id", Desc: "User id, lowercase (e.g., u101)", Required: true},
					{Name: "product_id", Desc: "Product id to add, lowercase (e.g., p001)", Required: true},
				},
			},
			transferInfo(ToolToGreeter, "Route the caller back to the greeter."),
			transferInfo(ToolToOrder, "Transfer to the order agent for order-related queries."),
			transferInfo(ToolToTicket, "Transfer to the ticket agent for support ticket creation and tracking."),
			transferInfo(ToolToReturns, "Transfer to the returns agent for returns and refunds."),
		}
	default:
		return nil
	}
}

func setUserInfo() contractx.ToolInfo {
	return contractx.ToolInfo{
		Name: ToolSetUser,
		Desc: "Attach a known user_id to the session (simulates auth / caller lookup).",
		Params: []contractx.ToolParam{
			{Name: "user_id", Desc: "The authenticated/assumed user id (e.g., u101)", Required: true},
		},
	}
}

func setCurrentOrderInfo() contractx.ToolInfo {
	return contractx.ToolInfo{
		Name: ToolSetCurrentOrder,
		Desc: "Set the focal order id for follow-up queries (track/modify).",
		Params: []contractx.ToolParam{
			{Name: "order_id", Desc: "Order id to focus on (e.g., o302)", Required: true},
		},
	}
}

func setLanguageInfo() contractx.ToolInfo {
	return contractx.ToolInfo{
		Name: ToolSetLanguage,
		Desc: "Set the preferred language for the conversation session.",
		Params: []contractx.ToolParam{
			{Name: "language", Desc: "Language code: 'en-IN' for English or 'bn-BD' for Bangladesh Bengali", Required: true},
		},
	}
}

func transferInfo(name, desc string) contractx.ToolInfo {
	return contractx.ToolInfo{Name: name, Desc: desc}
}

// idArg extracts a string argument and canonicalizes it the way entity ids
// are stored: trimmed and lowercase. STT output often capitalizes ids.
func idArg(args map[string]any, key string) (string, bool) {
	v, ok := stringArg(args, key)
	if !ok {
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(v)), true
}

func stringArg(args map[string]any, key string) (string, bool) {
	raw, ok := args[key]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

func missingArg(tool, key string) contractx.ToolResult {
	return contractx.ToolResult{
		Tool:  tool,
		Error: fmt.Sprintf("%s is required", key),
	}
}
