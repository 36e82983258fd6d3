// Package gateway is the persistence and identity boundary: order documents,
// live order snapshots and staff sessions.
package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/example/chiya/internal/models"
)

var (
	ErrNotFound           = errors.New("order not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("not signed in")
	ErrWriteFailed        = errors.New("order write failed")
)

// OrderPatch lists the order fields an update may change. Nil fields are left alone.
type OrderPatch struct {
	Items         []models.CartItem
	TotalAmount   *int64
	PaymentStatus *string
	OrderStatus   *string
	UpdatedAt     *time.Time
}

// IsEmpty reports whether the patch changes nothing.
func (p OrderPatch) IsEmpty() bool {
	return p.Items == nil && p.TotalAmount == nil && p.PaymentStatus == nil &&
		p.OrderStatus == nil && p.UpdatedAt == nil
}

// Apply writes the patch onto o.
func (p OrderPatch) Apply(o *models.Order) {
	if p.Items != nil {
		o.SetItems(p.Items)
	}
	if p.TotalAmount != nil {
		o.TotalAmount = *p.TotalAmount
	}
	if p.PaymentStatus != nil {
		o.PaymentStatus = *p.PaymentStatus
	}
	if p.OrderStatus != nil {
		o.OrderStatus = *p.OrderStatus
	}
	if p.UpdatedAt != nil {
		t := *p.UpdatedAt
		o.UpdatedAt = &t
	}
}

// SnapshotFunc receives the full order list, newest first.
type SnapshotFunc func([]models.Order)

// OrderStore persists orders and streams live snapshots of the collection.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) (string, error)
	UpdateOrder(ctx context.Context, id string, patch OrderPatch) error
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	// ListOrders returns orders newest first. limit <= 0 returns every order.
	ListOrders(ctx context.Context, limit, offset int) ([]models.Order, int64, error)
	// Subscribe delivers the current list and then a new list after every change
	// until the returned function is called.
	Subscribe(onSnapshot SnapshotFunc, onError func(error)) (unsubscribe func())
}

// Identity is a signed-in staff member.
type Identity struct {
	StaffID     uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
}

// Session is the result of a successful sign-in.
type Session struct {
	Identity  Identity  `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthProvider signs staff in and out and resolves session tokens.
type AuthProvider interface {
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignOut(ctx context.Context, token string) error
	Identify(ctx context.Context, token string) (Identity, error)
	// ObserveAuthState calls onChange with the identity behind token now, and
	// with nil once the token is signed out.
	ObserveAuthState(token string, onChange func(*Identity)) (cancel func())
}

func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, ErrNotFound
	}
	return parsed, nil
}
