package prompt

import (
	_ "embed"
	"strings"

	contractx "github.com/cartuplabs/cartup-agent/agent/contract"
)

var (
	//go:embed template/greeter.txt
	greeterRaw string

	//go:embed template/order.txt
	orderRaw string

	//go:embed template/ticket.txt
	ticketRaw string

	//go:embed template/returns.txt
	returnsRaw string

	//go:embed template/recommend.txt
	recommendRaw string
)

// PromptSet holds the persona instruction texts.
type PromptSet struct {
	Greeter   string
	Order     string
	Ticket    string
	Returns   string
	Recommend string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings. The embed is
// compile-time and trimming is cheap, so this is safe to call anywhere.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Greeter:   strings.TrimSpace(greeterRaw),
		Order:     strings.TrimSpace(orderRaw),
		Ticket:    strings.TrimSpace(ticketRaw),
		Returns:   strings.TrimSpace(returnsRaw),
		Recommend: strings.TrimSpace(recommendRaw),
	}
}

// For returns the instruction text bound to a persona.
func (p PromptSet) For(name contractx.AgentName) string {
	switch name {
	case contractx.AgentGreeter:
		return p.Greeter
	case contractx.AgentOrder:
		return p.Order
	case contractx.AgentTicket:
		return p.Ticket
	case contractx.AgentReturns:
		return p.Returns
	case contractx.AgentRecommend:
		return p.Recommend
	default:
		return ""
	}
}
