package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/example/chiya/internal/models"
)

// OrdersChannel is the Postgres NOTIFY channel raised after every order write.
const OrdersChannel = "orders_changed"

// PostgresStore persists orders with gorm and keeps subscribers current by
// re-reading the collection after local writes and remote notifications.
type PostgresStore struct {
	db   *gorm.DB
	feed *Feed
	log  logrus.FieldLogger
}

// NewPostgresStore wraps an open gorm connection.
func NewPostgresStore(db *gorm.DB, log logrus.FieldLogger) *PostgresStore {
	return &PostgresStore{
		db:   db,
		feed: NewFeed(),
		log:  log.WithField("component", "order_store"),
	}
}

func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position asc")
	})
}

func (s *PostgresStore) CreateOrder(ctx context.Context, order *models.Order) (string, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	order.SetItems(order.CartItems())

	if err := s.db.WithContext(ctx).Create(order).Error; err != nil {
		return "", fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	s.changed(ctx, order.ID)
	return order.ID.String(), nil
}

func (s *PostgresStore) UpdateOrder(ctx context.Context, id string, patch OrderPatch) error {
	orderID, err := parseID(id)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Order
		if err := tx.Select("id").First(&existing, "id = ?", orderID).Error; err != nil {
			return err
		}

		if patch.Items != nil {
			if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			lines := models.OrderItemsFrom(orderID, patch.Items)
			if len(lines) > 0 {
				if err := tx.Create(&lines).Error; err != nil {
					return err
				}
			}
		}

		updates := map[string]any{}
		if patch.TotalAmount != nil {
			updates["total_amount"] = *patch.TotalAmount
		}
		if patch.PaymentStatus != nil {
			updates["payment_status"] = *patch.PaymentStatus
		}
		if patch.OrderStatus != nil {
			updates["order_status"] = *patch.OrderStatus
		}
		if patch.UpdatedAt != nil {
			updates["updated_at"] = *patch.UpdatedAt
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&models.Order{}).Where("id = ?", orderID).Updates(updates).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	s.changed(ctx, orderID)
	return nil
}

func (s *PostgresStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	orderID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var order models.Order
	if err := withItems(s.db.WithContext(ctx)).First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (s *PostgresStore) ListOrders(ctx context.Context, limit, offset int) ([]models.Order, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Order{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = withItems(query).Order("created_at desc")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (s *PostgresStore) Subscribe(onSnapshot SnapshotFunc, onError func(error)) func() {
	unsubscribe := s.feed.Add(onSnapshot, onError)
	if !s.feed.HasSnapshot() {
		go s.Refresh(context.Background())
	}
	return unsubscribe
}

// Refresh re-reads every order and publishes the result to subscribers.
func (s *PostgresStore) Refresh(ctx context.Context) {
	orders, _, err := s.ListOrders(ctx, 0, 0)
	if err != nil {
		s.log.WithError(err).Error("failed to load order snapshot")
		s.feed.Fail(err)
		return
	}
	s.feed.Publish(orders)
}

func (s *PostgresStore) changed(ctx context.Context, id uuid.UUID) {
	s.Refresh(ctx)

	if err := s.db.WithContext(ctx).Exec("SELECT pg_notify(?, ?)", OrdersChannel, id.String()).Error; err != nil {
		s.log.WithError(err).Warn("failed to notify order change")
	}
}

// Listen refreshes snapshots whenever another instance writes an order.
// It blocks until ctx is done.
func (s *PostgresStore) Listen(ctx context.Context, dsn string) error {
	listener := pq.NewListener(dsn, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			s.log.WithError(err).Warn("order listener event")
		}
	})
	defer listener.Close()

	if err := listener.Listen(OrdersChannel); err != nil {
		return fmt.Errorf("listen %s: %w", OrdersChannel, err)
	}
	s.log.WithField("channel", OrdersChannel).Info("listening for order changes")

	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-listener.Notify:
			// nil means the connection was re-established and changes may have been missed.
			if n != nil {
				s.log.WithField("order_id", n.Extra).Debug("order changed")
			}
			s.Refresh(ctx)
		case <-time.After(90 * time.Second):
			go func() {
				if err := listener.Ping(); err != nil {
					s.log.WithError(err).Warn("order listener ping failed")
				}
			}()
		}
	}
}
