package services

import (
	"context"
	"errors"
	"eshop/internal/domain"
	rabbit "eshop/internal/infra/rabbitmq"
	"eshop/internal/repository"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

const (
	maxOrderNumberAttempts = 3
	publishTimeout         = 5 * time.Second
)

type CreateOrderInput struct {
	UserID          string
	Items           []domain.OrderItem
	ShippingAddress domain.Address
}

type OrderService struct {
	repo      repository.OrderRepository
	publisher rabbit.PublisherInterface

	now            func() time.Time
	newOrderNumber func(time.Time) string

	publishing sync.WaitGroup
}

func NewOrderService(r repository.OrderRepository, pub rabbit.PublisherInterface) *OrderService {
	return &OrderService{
		repo:           r,
		publisher:      pub,
		now:            time.Now,
		newOrderNumber: NewOrderNumber,
	}
}

// CreateOrder validates the input, then inserts a Pending order. An order
// number already in use is retried with a fresh number a bounded number of
// times; the existing order is never overwritten.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	if err := validateOrderInput(in); err != nil {
		return nil, err
	}

	items := make([]domain.OrderItem, len(in.Items))
	copy(items, in.Items)
	total := domain.CalculateTotal(items)

	var lastErr error
	for attempt := 1; attempt <= maxOrderNumberAttempts; attempt++ {
		// BSON dates keep milliseconds; the returned order must match what is read back.
		now := s.now().UTC().Truncate(time.Millisecond)
		order := &domain.Order{
			OrderNumber:     s.newOrderNumber(now),
			UserID:          in.UserID,
			OrderDate:       now,
			Status:          domain.StatusPending,
			TotalAmount:     total,
			Items:           items,
			ShippingAddress: in.ShippingAddress,
		}

		err := s.repo.Create(ctx, order)
		if err == nil {
			log.Printf("Created order %s (%s) for user %s", order.ID, order.OrderNumber, order.UserID)
			s.publishAsync(domain.EventOrderCreated, domain.NewOrderCreatedEvent(order))
			return order, nil
		}
		if !errors.Is(err, domain.ErrOrderNumberCollision) {
			return nil, err
		}
		log.Printf("Order number %s collided (attempt %d/%d)", order.OrderNumber, attempt, maxOrderNumberAttempts)
		lastErr = err
	}
	return nil, lastErr
}

func validateOrderInput(in CreateOrderInput) error {
	if strings.TrimSpace(in.UserID) == "" {
		return domain.NewInvalidUserID(in.UserID)
	}
	if utf8.RuneCountInString(in.UserID) > domain.MaxUserIDLen {
		return domain.NewInvalidInput(fmt.Sprintf("User id cannot exceed %d characters.", domain.MaxUserIDLen),
			map[string]any{"userId": in.UserID})
	}
	if len(in.Items) == 0 {
		return domain.NewEmptyOrder()
	}
	if err := in.ShippingAddress.Validate(); err != nil {
		return err
	}
	for _, it := range in.Items {
		if err := it.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.NewOrderNotFound(id)
	}
	return o, nil
}

func (s *OrderService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.repo.FindAll(ctx)
}

func (s *OrderService) ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	return s.repo.FindByUserID(ctx, userID)
}

// UpdateOrderStatus moves the order to the named status if the lifecycle
// allows it.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id, statusName string) (*domain.Order, error) {
	o, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	target, ok := domain.ParseOrderStatus(statusName)
	if !ok {
		return nil, domain.NewInvalidInput(fmt.Sprintf("Status '%s' is not a valid order status.", statusName),
			map[string]any{"status": statusName, "allowed": statusNames()})
	}
	if !domain.CanTransition(o.Status, target) {
		return nil, domain.NewInvalidTransition(o.Status, target)
	}

	if err := s.setStatus(ctx, o.ID, target); err != nil {
		return nil, err
	}

	from := o.Status
	o.Status = target
	log.Printf("Order %s status changed %s -> %s", o.ID, from, target)
	s.publishAsync(domain.EventOrderStatusChanged, domain.OrderStatusChangedEvent{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		From:        from,
		To:          target,
		ChangedAt:   s.now().UTC(),
	})
	return o, nil
}

// CancelOrder is only allowed from Pending or Confirmed.
func (s *OrderService) CancelOrder(ctx context.Context, id string) error {
	o, err := s.GetOrder(ctx, id)
	if err != nil {
		return err
	}
	if !domain.CanCancel(o.Status) {
		return domain.NewOrderNotCancellable(o.Status)
	}

	if err := s.setStatus(ctx, o.ID, domain.StatusCancelled); err != nil {
		return err
	}

	log.Printf("Order %s cancelled from %s", o.ID, o.Status)
	s.publishAsync(domain.EventOrderCancelled, domain.OrderCancelledEvent{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		From:        o.Status,
		CancelledAt: s.now().UTC(),
	})
	return nil
}

func (s *OrderService) setStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	updated, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return err
	}
	if !updated {
		return domain.NewOrderNotFound(id)
	}
	return nil
}

// publishAsync sends the event in the background; failures are only logged.
func (s *OrderService) publishAsync(pattern string, evt any) {
	if s.publisher == nil {
		return
	}

	s.publishing.Add(1)
	go func() {
		defer s.publishing.Done()

		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := s.publisher.Publish(ctx, pattern, evt); err != nil {
			log.Printf("Failed to publish %s event: %v", pattern, err)
		}
	}()
}

// WaitForEvents blocks until in-flight event publishes have finished.
func (s *OrderService) WaitForEvents() {
	s.publishing.Wait()
}

func statusNames() []string {
	all := domain.AllOrderStatuses()
	names := make([]string, len(all))
	for i, st := range all {
		names[i] = st.String()
	}
	return names
}
