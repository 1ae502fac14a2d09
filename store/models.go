package store

import "github.com/uptrace/bun"

// Entity ids are lowercase strings formed from a type prefix plus a decimal
// counter ("u101", "o302", "t602", "p001"). Dates are stored as YYYY-MM-DD
// strings, matching what the voice layer reads back to the caller.

type User struct {
	bun.BaseModel `bun:"table:users"`

	UserID    string `bun:"user_id,pk" json:"user_id"`
	Name      string `bun:"name,notnull" json:"name"`
	Phone     string `bun:"phone" json:"phone"`
	Email     string `bun:"email" json:"email"`
	CreatedAt string `bun:"created_at" json:"created_at"`
}

type Product struct {
	bun.BaseModel `bun:"table:products"`

	ProductID     string  `bun:"product_id,pk" json:"product_id"`
	Name          string  `bun:"name,notnull" json:"name"`
	Description   string  `bun:"description" json:"description"`
	Price         float64 `bun:"price,notnull" json:"price"`
	Category      string  `bun:"category" json:"category"`
	InStock       bool    `bun:"in_stock,default:true" json:"in_stock"`
	StockQuantity int     `bun:"stock_quantity,default:0" json:"stock_quantity"`
}

type Order struct {
	bun.BaseModel `bun:"table:orders"`

	OrderID      string  `bun:"order_id,pk" json:"order_id"`
	UserID       string  `bun:"user_id,notnull" json:"user_id"`
	Status       string  `bun:"status,notnull" json:"status"`
	Amount       float64 `bun:"amount,notnull" json:"amount"`
	DeliveryDate string  `bun:"delivery_date,nullzero" json:"delivery_date,omitempty"`
	Address      string  `bun:"address" json:"address"`
	CreatedAt    string  `bun:"created_at" json:"created_at"`
}

type OrderItem struct {
	bun.BaseModel `bun:"table:order_items"`

	ID          int64  `bun:"id,pk,autoincrement" json:"id"`
	OrderID     string `bun:"order_id,notnull" json:"order_id"`
	ProductName string `bun:"product_name,notnull" json:"product_name"`
	Quantity    int    `bun:"quantity,default:1" json:"quantity"`
}

type Ticket struct {
	bun.BaseModel `bun:"table:tickets"`

	TicketID  string `bun:"ticket_id,pk" json:"ticket_id"`
	OrderID   string `bun:"order_id,notnull" json:"order_id"`
	Issue     string `bun:"issue,notnull" json:"issue"`
	Status    string `bun:"status,notnull" json:"status"`
	CreatedAt string `bun:"created_at" json:"created_at"`
}

// Return is keyed by order id: at most one return per order, re-initiating a
// return overwrites the previous record.
type Return struct {
	bun.BaseModel `bun:"table:returns"`

	OrderID      string `bun:"order_id,pk" json:"order_id"`
	Status       string `bun:"status,notnull" json:"status"`
	RefundStatus string `bun:"refund_status,notnull" json:"refund_status"`
	Reason       string `bun:"reason" json:"reason"`
	CreatedAt    string `bun:"created_at" json:"created_at"`
}

type Recommendation struct {
	bun.BaseModel `bun:"table:recommendations"`

	ID          int64  `bun:"id,pk,autoincrement" json:"id"`
	UserID      string `bun:"user_id,notnull" json:"user_id"`
	ProductName string `bun:"product_name,notnull" json:"product_name"`
}

type WishlistItem struct {
	bun.BaseModel `bun:"table:wishlists"`

	ID        int64  `bun:"id,pk,autoincrement" json:"id"`
	UserID    string `bun:"user_id,notnull,unique:user_product" json:"user_id"`
	ProductID string `bun:"product_id,notnull,unique:user_product" json:"product_id"`
}

// IDSequence backs per-type monotonic id issuance.
type IDSequence struct {
	bun.BaseModel `bun:"table:id_sequences"`

	EntityType string `bun:"entity_type,pk" json:"entity_type"`
	NextValue  int64  `bun:"next_value,notnull,default:0" json:"next_value"`
}

// UserDetail is a read projection: the user row plus their order ids in
// creation order.
type UserDetail struct {
	User
	OrderIDs []string `json:"orders"`
}

// OrderDetail is a read projection: the order row plus its item names.
type OrderDetail struct {
	Order
	Items []string `json:"items"`
}
