package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"inventory-tracker/internal/auth"
	"inventory-tracker/internal/domain"
	"inventory-tracker/internal/repository"
	"inventory-tracker/internal/stock"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrUnauthenticated  = errors.New("not authenticated")
	ErrItemNameRequired = errors.New("item name is required")
	ErrNegativeQuantity = errors.New("quantity cannot go below zero")
)

// ItemInput is the loosely typed form of an item as submitted by a client.
// Quantity and MinStock accept numbers, numeric strings, empty strings or
// null.
type ItemInput struct {
	Name        string      `json:"name" validate:"required,max=255"`
	Quantity    interface{} `json:"quantity"`
	Unit        string      `json:"unit" validate:"max=50"`
	Category    string      `json:"category" validate:"max=100"`
	Description string      `json:"description" validate:"max=2000"`
	MinStock    interface{} `json:"min_stock"`
}

// InventoryService manages the caller's items. The owner is always taken
// from the authenticated identity in ctx.
type InventoryService interface {
	ListItems(ctx context.Context, search string) ([]domain.Item, error)
	GetItem(ctx context.Context, id uuid.UUID) (*domain.Item, error)
	LowStockItems(ctx context.Context) ([]domain.Item, error)
	CreateItem(ctx context.Context, in ItemInput) (*domain.Item, error)
	UpdateItem(ctx context.Context, id uuid.UUID, in ItemInput) (*domain.Item, error)
	AdjustQuantity(ctx context.Context, id uuid.UUID, delta float64) (*domain.Item, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
	ListActivity(ctx context.Context, limit int) ([]domain.ActivityLogEntry, error)
}

type inventoryService struct {
	items    repository.ItemRepository
	activity repository.ActivityRepository
	recorder *activityRecorder
	logger   *zap.Logger
	now      func() time.Time
}

// NewInventoryService creates a new instance of InventoryService
func NewInventoryService(
	items repository.ItemRepository,
	activity repository.ActivityRepository,
	logger *zap.Logger,
) InventoryService {
	return &inventoryService{
		items:    items,
		activity: activity,
		recorder: &activityRecorder{repo: activity, logger: logger, now: time.Now},
		logger:   logger,
		now:      time.Now,
	}
}

func owner(ctx context.Context) (uuid.UUID, error) {
	id, ok := auth.UserID(ctx)
	if !ok {
		return uuid.Nil, ErrUnauthenticated
	}
	return id, nil
}

func (s *inventoryService) ListItems(ctx context.Context, search string) ([]domain.Item, error) {
	userID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.items.List(ctx, userID, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

func (s *inventoryService) GetItem(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	userID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	item, err := s.items.FindByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

func (s *inventoryService) LowStockItems(ctx context.Context) ([]domain.Item, error) {
	items, err := s.ListItems(ctx, "")
	if err != nil {
		return nil, err
	}
	return stock.LowStock(items), nil
}

func (s *inventoryService) CreateItem(ctx context.Context, in ItemInput) (*domain.Item, error) {
	userID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	item := &domain.Item{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := applyInput(item, in); err != nil {
		return nil, err
	}

	if err := s.items.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	s.logger.Debug("Item created", zap.String("item_id", item.ID.String()), zap.String("user_id", userID.String()))

	s.recorder.record(ctx, userID, domain.ActionAdd, item.Name,
		fmt.Sprintf("Added %s %s", formatNumber(item.Quantity), item.Unit),
		domain.AddedPayload(item.Quantity, item.Unit))
	s.recordLowStock(ctx, item)

	return item, nil
}

func (s *inventoryService) UpdateItem(ctx context.Context, id uuid.UUID, in ItemInput) (*domain.Item, error) {
	item, err := s.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := applyInput(item, in); err != nil {
		return nil, err
	}
	return s.save(ctx, item)
}

func (s *inventoryService) AdjustQuantity(ctx context.Context, id uuid.UUID, delta float64) (*domain.Item, error) {
	item, err := s.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	next := item.Quantity + delta
	if next < 0 || math.IsNaN(next) || math.IsInf(next, 0) {
		return nil, ErrNegativeQuantity
	}
	item.Quantity = next

	return s.save(ctx, item)
}

func (s *inventoryService) save(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	item.UpdatedAt = s.now()

	if err := s.items.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	s.recorder.record(ctx, item.UserID, domain.ActionUpdate, item.Name,
		fmt.Sprintf("Updated to %s %s", formatNumber(item.Quantity), item.Unit),
		domain.UpdatedPayload(item.Quantity, item.Unit))
	s.recordLowStock(ctx, item)

	return item, nil
}

func (s *inventoryService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	item, err := s.GetItem(ctx, id)
	if err != nil {
		return err
	}

	if err := s.items.Delete(ctx, item.UserID, item.ID); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	s.recorder.record(ctx, item.UserID, domain.ActionDelete, item.Name, "Deleted item", domain.DeletedPayload())
	return nil
}

func (s *inventoryService) ListActivity(ctx context.Context, limit int) ([]domain.ActivityLogEntry, error) {
	userID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.activity.List(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	return entries, nil
}

func (s *inventoryService) recordLowStock(ctx context.Context, item *domain.Item) {
	if !stock.IsLowStock(*item) {
		return
	}
	min := *item.MinStock
	s.recorder.record(ctx, item.UserID, domain.ActionLowStock, item.Name,
		fmt.Sprintf("Quantity %s ≤ min stock %s", formatNumber(item.Quantity), formatNumber(min)),
		domain.LowStockPayload(item.Quantity, min))
}

// applyInput coerces in onto item. Quantity falls back to 0 and a missing
// threshold clears MinStock; negative values are clamped to 0.
func applyInput(item *domain.Item, in ItemInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return ErrItemNameRequired
	}

	item.Name = name
	item.Quantity = math.Max(0, stock.ParseQuantity(in.Quantity))
	item.Unit = strings.TrimSpace(in.Unit)
	item.Unit = item.UnitOrDefault()
	item.Category = strings.TrimSpace(in.Category)
	item.Description = strings.TrimSpace(in.Description)

	item.MinStock = stock.ParseThreshold(in.MinStock)
	if item.MinStock != nil && *item.MinStock < 0 {
		zero := 0.0
		item.MinStock = &zero
	}
	return nil
}
