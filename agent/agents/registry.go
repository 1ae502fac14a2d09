package agents

import (
	contractx "github.com/cartuplabs/cartup-agent/agent/contract"
	promptx "github.com/cartuplabs/cartup-agent/agent/prompt"
)

const (
	orderGreeting     = "Greet the user briefly and let them know you're here to help with their order. Mention you can check order status, details, delivery addresses, or order history."
	ticketGreeting    = "Greet the user briefly and let them know you're here to help with their support issue. Mention you can create a ticket, track existing tickets, or check ticket status."
	returnsGreeting   = "Greet the user briefly and let them know you're here to help with returns and refunds. Mention you can initiate a return, check return status, or update refund information."
	recommendGreeting = "Greet the user briefly and let them know you're here to help with product recommendations. Mention you can provide personalized recommendations, show product details, or help add items to their wishlist."
)

// NewRegistry builds the fixed persona set shared by a session.
func NewRegistry() map[contractx.AgentName]contractx.Agent {
	prompts := promptx.LoadPromptSet()

	staticGreeting := func(text string) func(string) string {
		return func(string) string { return text }
	}

	return map[contractx.AgentName]contractx.Agent{
		contractx.AgentGreeter: newPersona(
			contractx.AgentGreeter,
			"Greeter",
			prompts.For(contractx.AgentGreeter),
			// Returning to the greeter repeats the branded welcome.
			promptx.InitialGreetingDirective,
		),
		contractx.AgentOrder: newPersona(
			contractx.AgentOrder,
			"Order Assistant",
			prompts.For(contractx.AgentOrder),
			staticGreeting(orderGreeting),
		),
		contractx.AgentTicket: newPersona(
			contractx.AgentTicket,
			"Support Ticket Assistant",
			prompts.For(contractx.AgentTicket),
			staticGreeting(ticketGreeting),
		),
		contractx.AgentReturns: newPersona(
			contractx.AgentReturns,
			"Returns Assistant",
			prompts.For(contractx.AgentReturns),
			staticGreeting(returnsGreeting),
		),
		contractx.AgentRecommend: newPersona(
			contractx.AgentRecommend,
			"Recommendation Assistant",
			prompts.For(contractx.AgentRecommend),
			staticGreeting(recommendGreeting),
		),
	}
}
