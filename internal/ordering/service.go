package ordering

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/chiya/internal/gateway"
	"github.com/example/chiya/internal/models"
	"github.com/example/chiya/internal/utils"
)

// Notifier is told about new orders and additions. Calls run on their own goroutine.
type Notifier interface {
	OrderPlaced(order models.Order)
	ItemsAdded(order models.Order, merge Merge)
}

// CheckoutRequest carries the customer details collected at checkout.
type CheckoutRequest struct {
	TableNumber   string `json:"table_number" form:"table_number" validate:"required"`
	CustomerName  string `json:"customer_name" form:"customer_name" validate:"required"`
	PhoneNumber   string `json:"phone_number" form:"phone_number" validate:"required"`
	Description   string `json:"description" form:"description"`
	PaymentMethod string `json:"payment_method" form:"payment_method" validate:"required,oneof=cash online"`
}

func (r *CheckoutRequest) normalize() {
	r.TableNumber = strings.TrimSpace(r.TableNumber)
	r.CustomerName = strings.TrimSpace(r.CustomerName)
	r.PhoneNumber = strings.TrimSpace(r.PhoneNumber)
	r.Description = strings.TrimSpace(r.Description)
	r.PaymentMethod = strings.ToLower(strings.TrimSpace(r.PaymentMethod))
}

// Screenshot references an uploaded proof of online payment.
type Screenshot struct {
	Name string
	URL  string
}

// Service places orders and runs the add-items flow against an OrderStore.
type Service struct {
	store    gateway.OrderStore
	notifier Notifier
	log      logrus.FieldLogger
	now      func() time.Time
}

// NewService constructs Service. notifier may be nil.
func NewService(store gateway.OrderStore, notifier Notifier, log logrus.FieldLogger) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		log:      log.WithField("component", "ordering"),
		now:      time.Now,
	}
}

// PlaceOrder validates the checkout and creates a new order from items.
func (s *Service) PlaceOrder(ctx context.Context, req CheckoutRequest, items []models.CartItem, shot *Screenshot) (*models.Order, error) {
	req.normalize()
	if req.TableNumber == "" || req.CustomerName == "" || req.PhoneNumber == "" || req.PaymentMethod == "" {
		return nil, ErrMissingFields
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, invalid(err.Error())
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	if req.PaymentMethod == models.PaymentMethodOnline && (shot == nil || shot.URL == "") {
		return nil, invalid("payment screenshot is required for online payment")
	}

	order := &models.Order{
		TableNumber:   req.TableNumber,
		CustomerName:  req.CustomerName,
		PhoneNumber:   req.PhoneNumber,
		Description:   req.Description,
		TotalAmount:   models.SumItems(items),
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: models.PaymentStatusPending,
		OrderStatus:   models.OrderStatusPending,
		CreatedAt:     s.now(),
	}
	order.SetItems(items)

	if req.PaymentMethod == models.PaymentMethodOnline {
		order.PaymentScreenshotName = shot.Name
		order.PaymentScreenshotURL = shot.URL
	}

	if _, err := s.store.CreateOrder(ctx, order); err != nil {
		s.log.WithError(err).WithField("table", order.TableNumber).Error("failed to create order")
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"table":    order.TableNumber,
		"total":    order.TotalAmount,
		"payment":  order.PaymentMethod,
	}).Info("order placed")

	if s.notifier != nil {
		go s.notifier.OrderPlaced(order.Clone())
	}
	return order, nil
}

// BeginUpdate loads an order so more items can be added to it.
func (s *Service) BeginUpdate(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.IsCompleted() {
		return nil, ErrOrderClosed
	}
	return order, nil
}

// AddItems merges cart into the order and persists the result. The order goes
// back to pending and gets updated_at stamped. Nothing is written when the
// cart adds no quantity.
func (s *Service) AddItems(ctx context.Context, orderID string, cart []models.CartItem) (*models.Order, Merge, error) {
	if len(cart) == 0 {
		return nil, Merge{}, ErrNothingToAdd
	}

	order, err := s.BeginUpdate(ctx, orderID)
	if err != nil {
		return nil, Merge{}, err
	}

	merge := ComputeMerge(order, cart)
	if len(merge.Added) == 0 {
		return nil, Merge{}, ErrNothingToAdd
	}

	now := s.now()
	pending := models.OrderStatusPending
	patch := gateway.OrderPatch{
		Items:       merge.MergedItems,
		TotalAmount: &merge.NewTotal,
		OrderStatus: &pending,
		UpdatedAt:   &now,
	}

	if err := s.store.UpdateOrder(ctx, orderID, patch); err != nil {
		s.log.WithError(err).WithField("order_id", orderID).Error("failed to add items")
		return nil, Merge{}, fmt.Errorf("update order: %w", err)
	}
	patch.Apply(order)

	s.log.WithFields(logrus.Fields{
		"order_id":    orderID,
		"added_total": merge.AddedTotal,
		"new_total":   merge.NewTotal,
	}).Info("items added to order")

	if s.notifier != nil {
		go s.notifier.ItemsAdded(order.Clone(), merge)
	}
	return order, merge, nil
}
