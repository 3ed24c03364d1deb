package services

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"

	"github.com/dmitrijs2005/levelup/internal/common"
	"github.com/dmitrijs2005/levelup/internal/dbx"
	"github.com/dmitrijs2005/levelup/internal/logging"
	"github.com/dmitrijs2005/levelup/internal/server/events"
	"github.com/dmitrijs2005/levelup/internal/server/models"
	"github.com/dmitrijs2005/levelup/internal/server/repositories/repomanager"
)

// PlaceOrderItem is one requested line. Price is the unit price recorded on
// the order; when nil the product's current price is used.
type PlaceOrderItem struct {
	ProductID int64    `json:"productId"`
	Quantity  int      `json:"quantity"`
	Price     *float64 `json:"price,omitempty"`
}

// PlaceOrderRequest describes a new order. A nil Status becomes
// models.DefaultOrderStatus; a supplied Total is stored as given.
type PlaceOrderRequest struct {
	UserID int64            `json:"userId"`
	Status *string          `json:"status,omitempty"`
	Total  *float64         `json:"total,omitempty"`
	Items  []PlaceOrderItem `json:"items"`
}

type UpdateOrderRequest struct {
	Status string  `json:"status"`
	Total  float64 `json:"total"`
}

func (r PlaceOrderRequest) validate() error {
	if len(r.Items) == 0 {
		return fmt.Errorf("%w: order needs at least one item", common.ErrorInvalidInput)
	}
	for i, it := range r.Items {
		if it.Quantity < 1 {
			return fmt.Errorf("%w: item %d: quantity must be >= 1", common.ErrorInvalidInput, i)
		}
		if it.Price != nil && *it.Price < 0 {
			return fmt.Errorf("%w: item %d: price must be >= 0", common.ErrorInvalidInput, i)
		}
	}
	if r.Total != nil && *r.Total < 0 {
		return fmt.Errorf("%w: total must be >= 0", common.ErrorInvalidInput)
	}
	if r.Status != nil && strings.TrimSpace(*r.Status) == "" {
		return fmt.Errorf("%w: status must not be empty", common.ErrorInvalidInput)
	}
	return nil
}

type OrderService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	publisher   events.Publisher
	logger      logging.Logger
}

func NewOrderService(db *sql.DB, m repomanager.RepositoryManager, p events.Publisher, l logging.Logger) *OrderService {
	return &OrderService{db: db, repomanager: m, publisher: p, logger: l}
}

// PlaceOrder writes the header and all items in one transaction. Any
// unresolvable user or product aborts the whole order, so no partial order
// is ever visible.
func (s *OrderService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*models.Order, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	status := models.DefaultOrderStatus
	if req.Status != nil {
		status = strings.TrimSpace(*req.Status)
	}

	var order *models.Order
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := s.repomanager.Users(tx).GetByID(ctx, req.UserID)
		if err != nil {
			return fmt.Errorf("user %d: %w", req.UserID, err)
		}
		if !u.Active {
			return fmt.Errorf("%w: user %d is inactive", common.ErrorInvalidInput, req.UserID)
		}

		productRepo := s.repomanager.Products(tx)
		lines := make([]models.OrderItem, 0, len(req.Items))
		var computed float64
		for _, it := range req.Items {
			p, err := productRepo.GetForShare(ctx, it.ProductID)
			if err != nil {
				return fmt.Errorf("product %d: %w", it.ProductID, err)
			}
			if p.Discontinued {
				return fmt.Errorf("%w: product %d is discontinued", common.ErrorInvalidInput, it.ProductID)
			}
			price := p.Price
			if it.Price != nil {
				price = *it.Price
			}
			computed += price * float64(it.Quantity)
			lines = append(lines, models.OrderItem{ProductID: it.ProductID, Quantity: it.Quantity, Price: price})
		}

		total := math.Round(computed*100) / 100
		if req.Total != nil {
			total = *req.Total
		}

		orderRepo := s.repomanager.Orders(tx)
		order, err = orderRepo.CreateHeader(ctx, req.UserID, status, total)
		if err != nil {
			return err
		}
		for _, line := range lines {
			line.OrderID = order.ID
			item, err := orderRepo.AddItem(ctx, line)
			if err != nil {
				return err
			}
			order.Items = append(order.Items, *item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "order placed", "order_id", order.ID, "user_id", order.UserID, "items", len(order.Items), "total", order.Total)
	s.publish(ctx, events.NewOrderEvent(events.TypeOrderPlaced, order.ID, order.UserID, order.Total))
	return order, nil
}

// publish runs after commit. A broker failure is logged and never undoes
// the committed order.
func (s *OrderService) publish(ctx context.Context, e events.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Warn(ctx, "publish order event failed", "type", e.Type, "order_id", e.OrderID, "error", err)
	}
}

func (s *OrderService) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	return s.repomanager.Orders(s.db).GetByID(ctx, id)
}

func (s *OrderService) ListOrders(ctx context.Context) ([]*models.Order, error) {
	return s.repomanager.Orders(s.db).List(ctx)
}

func (s *OrderService) ListOrdersByUser(ctx context.Context, userID int64) ([]*models.Order, error) {
	return s.repomanager.Orders(s.db).ListByUser(ctx, userID)
}

func (s *OrderService) ListOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	repo := s.repomanager.Orders(s.db)
	if _, err := repo.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	return repo.ListItems(ctx, orderID)
}

// UpdateOrder changes status and total only; items are immutable once placed.
func (s *OrderService) UpdateOrder(ctx context.Context, id int64, req UpdateOrderRequest) (*models.Order, error) {
	status := strings.TrimSpace(req.Status)
	if status == "" {
		return nil, fmt.Errorf("%w: status is required", common.ErrorInvalidInput)
	}
	if req.Total < 0 {
		return nil, fmt.Errorf("%w: total must be >= 0", common.ErrorInvalidInput)
	}
	return s.repomanager.Orders(s.db).UpdateHeader(ctx, id, status, req.Total)
}

func (s *OrderService) DeleteOrder(ctx context.Context, id int64) error {
	repo := s.repomanager.Orders(s.db)
	o, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "order deleted", "order_id", id)
	s.publish(ctx, events.NewOrderEvent(events.TypeOrderDeleted, o.ID, o.UserID, o.Total))
	return nil
}
