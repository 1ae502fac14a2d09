package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	contractx "github.com/cartuplabs/cartup-agent/agent/contract"
)

// ErrNotFound marks an absent entity. Storage faults are returned as
// distinct wrapped errors so callers can log them, even though the tool
// boundary flattens both into the same caller-facing "not found" contract.
var ErrNotFound = contractx.ErrNotFound

var idPrefixes = map[string]string{
	"ticket":  "t",
	"order":   "o",
	"product": "p",
	"user":    "u",
}

// Store provides keyed CRUD access over the relational schema. All methods
// are safe for concurrent use across conversations; SQLite serializes
// writers, and id issuance runs a transactional read-modify-write.
type Store struct {
	db *bun.DB
}

// Open opens (creating if needed) the SQLite database at path.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	return New(bun.NewDB(sqldb, sqlitedialect.New())), nil
}

// New wraps an existing bun handle.
func New(db *bun.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for schema setup in tests.
func (s *Store) DB() *bun.DB {
	return s.db
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Init creates the schema if it does not exist.
func (s *Store) Init(ctx context.Context) error {
	models := []any{
		(*User)(nil),
		(*Product)(nil),
		(*Order)(nil),
		(*OrderItem)(nil),
		(*Ticket)(nil),
		(*Return)(nil),
		(*Recommendation)(nil),
		(*WishlistItem)(nil),
		(*IDSequence)(nil),
	}
	for _, model := range models {
		if _, err := s.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
	}
	return nil
}

// NextID issues the next id for an entity type: a type prefix plus a
// monotonically increasing counter. The increment runs inside a transaction
// so concurrent calls for the same type never observe the same value.
func (s *Store) NextID(ctx context.Context, entityType string) (string, error) {
	prefix, ok := idPrefixes[entityType]
	if !ok {
		prefix = "x"
	}

	var counter int64
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*IDSequence)(nil)).
			Set("next_value = next_value + 1").
			Where("entity_type = ?", entityType).
			Exec(ctx)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			seq := &IDSequence{EntityType: entityType, NextValue: 1}
			if _, err := tx.NewInsert().Model(seq).Exec(ctx); err != nil {
				return err
			}
			counter = 1
			return nil
		}

		var seq IDSequence
		if err := tx.NewSelect().
			Model(&seq).
			Where("entity_type = ?", entityType).
			Scan(ctx); err != nil {
			return err
		}
		counter = seq.NextValue
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("issue id for %s: %w", entityType, err)
	}

	return fmt.Sprintf("%s%d", prefix, counter), nil
}

/* --------------------------------- Reads -------------------------------- */

// GetUser returns the user plus their order ids in creation order.
func (s *Store) GetUser(ctx context.Context, userID string) (*UserDetail, error) {
	var user User
	err := s.db.NewSelect().
		Model(&user).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		return nil, asNotFound(err, "user", userID)
	}

	var orderIDs []string
	err = s.db.NewSelect().
		Model((*Order)(nil)).
		Column("order_id").
		Where("user_id = ?", userID).
		Order("created_at").
		Scan(ctx, &orderIDs)
	if err != nil {
		return nil, fmt.Errorf("list orders for user %s: %w", userID, err)
	}

	return &UserDetail{User: user, OrderIDs: orderIDs}, nil
}

// GetOrder returns the order plus its item names.
func (s *Store) GetOrder(ctx context.Context, orderID string) (*OrderDetail, error) {
	var order Order
	err := s.db.NewSelect().
		Model(&order).
		Where("order_id = ?", orderID).
		Scan(ctx)
	if err != nil {
		return nil, asNotFound(err, "order", orderID)
	}

	var items []string
	err = s.db.NewSelect().
		Model((*OrderItem)(nil)).
		Column("product_name").
		Where("order_id = ?", orderID).
		Order("id").
		Scan(ctx, &items)
	if err != nil {
		return nil, fmt.Errorf("list items for order %s: %w", orderID, err)
	}

	return &OrderDetail{Order: order, Items: items}, nil
}

func (s *Store) GetProduct(ctx context.Context, productID string) (*Product, error) {
	var product Product
	err := s.db.NewSelect().
		Model(&product).
		Where("product_id = ?", productID).
		Scan(ctx)
	if err != nil {
		return nil, asNotFound(err, "product", productID)
	}
	return &product, nil
}

func (s *Store) GetTicket(ctx context.Context, ticketID string) (*Ticket, error) {
	var ticket Ticket
	err := s.db.NewSelect().
		Model(&ticket).
		Where("ticket_id = ?", ticketID).
		Scan(ctx)
	if err != nil {
		return nil, asNotFound(err, "ticket", ticketID)
	}
	return &ticket, nil
}

// GetReturn fetches the return record for an order, if one exists.
func (s *Store) GetReturn(ctx context.Context, orderID string) (*Return, error) {
	var ret Return
	err := s.db.NewSelect().
		Model(&ret).
		Where("order_id = ?", orderID).
		Scan(ctx)
	if err != nil {
		return nil, asNotFound(err, "return", orderID)
	}
	return &ret, nil
}

// RecommendationsForUser lists recommended product names. An unknown user
// simply has no recommendations.
func (s *Store) RecommendationsForUser(ctx context.Context, userID string) ([]string, error) {
	var names []string
	err := s.db.NewSelect().
		Model((*Recommendation)(nil)).
		Column("product_name").
		Where("user_id = ?", userID).
		Order("id").
		Scan(ctx, &names)
	if err != nil {
		return nil, fmt.Errorf("list recommendations for user %s: %w", userID, err)
	}
	return names, nil
}

// WishlistForUser lists product ids on the user's wishlist.
func (s *Store) WishlistForUser(ctx context.Context, userID string) ([]string, error) {
	var productIDs []string
	err := s.db.NewSelect().
		Model((*WishlistItem)(nil)).
		Column("product_id").
		Where("user_id = ?", userID).
		Order("id").
		Scan(ctx, &productIDs)
	if err != nil {
		return nil, fmt.Errorf("list wishlist for user %s: %w", userID, err)
	}
	return productIDs, nil
}

/* -------------------------------- Writes -------------------------------- */

// UpdateOrderAddress sets a new delivery address. It reports false when the
// order does not exist (nothing changed).
func (s *Store) UpdateOrderAddress(ctx context.Context, orderID, address string) (bool, error) {
	res, err := s.db.NewUpdate().
		Model((*Order)(nil)).
		Set("address = ?", address).
		Where("order_id = ?", orderID).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("update address for order %s: %w", orderID, err)
	}
	return changed(res)
}

// CreateTicket inserts a new support ticket.
func (s *Store) CreateTicket(ctx context.Context, ticket *Ticket) error {
	if ticket.CreatedAt == "" {
		ticket.CreatedAt = today()
	}
	if _, err := s.db.NewInsert().Model(ticket).Exec(ctx); err != nil {
		return fmt.Errorf("create ticket %s: %w", ticket.TicketID, err)
	}
	return nil
}

// CreateReturn creates or overwrites the return record for an order.
func (s *Store) CreateReturn(ctx context.Context, ret *Return) error {
	if ret.CreatedAt == "" {
		ret.CreatedAt = today()
	}
	_, err := s.db.NewInsert().
		Model(ret).
		On("CONFLICT (order_id) DO UPDATE").
		Set("status = EXCLUDED.status").
		Set("refund_status = EXCLUDED.refund_status").
		Set("reason = EXCLUDED.reason").
		Set("created_at = EXCLUDED.created_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create return for order %s: %w", ret.OrderID, err)
	}
	return nil
}

// UpdateRefundStatus advances the refund state of an existing return. It
// reports false when no return exists for the order.
func (s *Store) UpdateRefundStatus(ctx context.Context, orderID, refundStatus string) (bool, error) {
	res, err := s.db.NewUpdate().
		Model((*Return)(nil)).
		Set("refund_status = ?", refundStatus).
		Where("order_id = ?", orderID).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("update refund status for order %s: %w", orderID, err)
	}
	return changed(res)
}

// AddToWishlist records a wishlist entry; adding the same product twice is a
// no-op.
func (s *Store) AddToWishlist(ctx context.Context, userID, productID string) error {
	item := &WishlistItem{UserID: userID, ProductID: productID}
	_, err := s.db.NewInsert().
		Model(item).
		On("CONFLICT (user_id, product_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("add %s to wishlist of %s: %w", productID, userID, err)
	}
	return nil
}

func asNotFound(err error, entity, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, id, ErrNotFound)
	}
	return fmt.Errorf("load %s %s: %w", entity, id, err)
}

func changed(res sql.Result) (bool, error) {
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func today() string {
	return time.Now().Format("2006-01-02")
}
