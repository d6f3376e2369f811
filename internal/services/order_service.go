package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"time"

	"aiagents-backend/internal/models"
	"aiagents-backend/internal/payment"
	"aiagents-backend/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrAmountMismatch = ErrInvalidSignature.Wrap(errors.New("paid amount does not match order"))

// OrderFilter narrows admin and per-user order listings.
type OrderFilter struct {
	UserID    *uint
	AgentID   *uint
	Status    *string
	StartTime *time.Time
	EndTime   *time.Time
	MinAmount *float64
	MaxAmount *float64
	Page      int
	Limit     int
}

type PurchaseResult struct {
	Order        *models.Order        `json:"order"`
	PayURL       string               `json:"payUrl,omitempty"`
	Subscription *models.Subscription `json:"subscription,omitempty"`
}

type OrderService struct {
	db            *gorm.DB
	subscriptions *SubscriptionService
	driver        payment.Driver
	notifyURL     string
	returnURL     string
}

// NewOrderService builds the service. driver may be nil, in which case paid
// purchases stay PENDING until an admin completes them.
func NewOrderService(db *gorm.DB, subscriptions *SubscriptionService, driver payment.Driver, notifyURL, returnURL string) *OrderService {
	return &OrderService{
		db:            db,
		subscriptions: subscriptions,
		driver:        driver,
		notifyURL:     notifyURL,
		returnURL:     returnURL,
	}
}

func newOrderID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// Purchase creates an order for a published agent. Free agents complete
// immediately and come back with their subscription.
func (s *OrderService) Purchase(ctx context.Context, buyer models.User, agentID uint, channel string) (*PurchaseResult, error) {
	var agent models.Agent
	if err := s.db.WithContext(ctx).First(&agent, agentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAgentNotFound
		}
		return nil, err
	}
	if agent.Status != models.AgentStatusPublished {
		return nil, ErrAgentNotPurchasable
	}

	order := &models.Order{
		ID:      newOrderID(),
		UserID:  buyer.ID,
		AgentID: agent.ID,
		Amount:  agent.Price,
		Status:  models.OrderStatusPending,
	}

	if agent.IsFree() {
		order.PaymentMethod = models.PaymentMethodFree
		var sub *models.Subscription
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			now := time.Now().UTC()
			order.Status = models.OrderStatusCompleted
			order.CompletedAt = &now
			if err := tx.Create(order).Error; err != nil {
				return err
			}
			var err error
			sub, err = s.subscriptions.Activate(tx, *order)
			return err
		})
		if err != nil {
			return nil, err
		}
		return &PurchaseResult{Order: order, Subscription: sub}, nil
	}

	if s.driver != nil {
		order.PaymentMethod = s.driver.Name()
	} else {
		order.PaymentMethod = models.PaymentMethodManual
	}
	if err := s.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}

	result := &PurchaseResult{Order: order}
	if s.driver != nil {
		payURL, err := s.driver.Pay(ctx, payment.PayRequest{
			OrderID:   order.ID,
			Amount:    order.Amount,
			Subject:   agent.Name,
			NotifyURL: s.notifyURL,
			ReturnURL: s.returnURL,
			Channel:   channel,
		})
		if err != nil {
			return nil, fmt.Errorf("build payment url: %w", err)
		}
		result.PayURL = payURL
	}
	return result, nil
}

// CompleteOrder marks a PENDING order COMPLETED and activates the buyer's
// subscription in the same transaction. operatorID is 0 for gateway
// callbacks.
func (s *OrderService) CompleteOrder(ctx context.Context, orderID string, operatorID uint, externalID string) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		switch order.Status {
		case models.OrderStatusPending:
		case models.OrderStatusCompleted:
			return ErrOrderAlreadyPaid
		default:
			return ErrInvalidOrderStatus
		}

		now := time.Now().UTC()
		updates := map[string]interface{}{
			"status":       models.OrderStatusCompleted,
			"completed_at": now,
			"completed_by": operatorID,
		}
		if externalID != "" {
			updates["external_id"] = externalID
		}

		result := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", orderID, models.OrderStatusPending).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrOrderAlreadyPaid
		}

		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			return err
		}
		_, err := s.subscriptions.Activate(tx, order)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("order completed",
		zap.String("order_id", order.ID),
		zap.Uint("operator_id", operatorID),
		zap.Float64("amount", order.Amount))
	return &order, nil
}

// HandleNotify verifies a gateway callback and completes the order it names.
// Repeated callbacks for a completed order are accepted.
func (s *OrderService) HandleNotify(ctx context.Context, params map[string]string) error {
	if s.driver == nil {
		return ErrPaymentUnavailable
	}

	n, err := s.driver.Notify(params)
	if err != nil {
		if errors.Is(err, payment.ErrSignatureMismatch) {
			logger.Log.Warn("payment notify with bad signature", zap.String("order_id", n.OrderID))
			return ErrInvalidSignature.Wrap(err)
		}
		return err
	}
	if !n.Paid {
		return nil
	}

	order, err := s.GetOrderByID(ctx, n.OrderID)
	if err != nil {
		return err
	}
	if n.Amount != "" && n.Amount != fmt.Sprintf("%.2f", order.Amount) {
		return ErrAmountMismatch
	}

	_, err = s.CompleteOrder(ctx, n.OrderID, 0, n.ExternalID)
	if errors.Is(err, ErrOrderAlreadyPaid) {
		return nil
	}
	return err
}

// CancelOrder cancels a PENDING order owned by actor, or any for admins.
func (s *OrderService) CancelOrder(ctx context.Context, actor models.User, orderID string) (*models.Order, error) {
	order, err := s.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(order.UserID) {
		return nil, ErrOrderNotFound
	}

	result := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, models.OrderStatusPending).
		Update("status", models.OrderStatusCancelled)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrInvalidOrderStatus
	}

	return s.GetOrderByID(ctx, orderID)
}

// FindOrders retrieves a paginated, filtered list of orders.
func (s *OrderService) FindOrders(ctx context.Context, filter OrderFilter) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	query := s.filtered(ctx, filter)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := normalizePage(filter.Page, filter.Limit)
	if err := query.Order("created_at desc").Limit(limit).Offset((page - 1) * limit).Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// ExportOrders returns every order matching filter, ignoring pagination.
func (s *OrderService) ExportOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	var orders []models.Order
	err := s.filtered(ctx, filter).Order("created_at desc").Find(&orders).Error
	return orders, err
}

func (s *OrderService) filtered(ctx context.Context, filter OrderFilter) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Order{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.AgentID != nil {
		query = query.Where("agent_id = ?", *filter.AgentID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.StartTime != nil {
		query = query.Where("created_at >= ?", filter.StartTime.UTC())
	}
	if filter.EndTime != nil {
		query = query.Where("created_at <= ?", filter.EndTime.UTC())
	}
	if filter.MinAmount != nil {
		query = query.Where("amount >= ?", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		query = query.Where("amount <= ?", *filter.MaxAmount)
	}
	return query
}

func (s *OrderService) GetOrderByID(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// GenerateOrderCSV renders orders as CSV with a header row.
func GenerateOrderCSV(orders []models.Order) ([]byte, error) {
	b := &bytes.Buffer{}
	w := csv.NewWriter(b)

	header := []string{
		"ID", "Created At", "User ID", "Agent ID", "Amount",
		"Status", "Payment Method", "External ID", "Completed At", "Remark",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, o := range orders {
		completedAt := ""
		if o.CompletedAt != nil {
			completedAt = o.CompletedAt.UTC().Format(time.RFC3339)
		}
		record := []string{
			o.ID,
			o.CreatedAt.UTC().Format(time.RFC3339),
			fmt.Sprintf("%d", o.UserID),
			fmt.Sprintf("%d", o.AgentID),
			fmt.Sprintf("%.2f", o.Amount),
			string(o.Status),
			o.PaymentMethod,
			o.ExternalID,
			completedAt,
			o.Remark,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}
