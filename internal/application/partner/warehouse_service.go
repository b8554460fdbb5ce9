package partner

import (
	"context"
	"fmt"

	"github.com/batterydepartment/backend/internal/domain/inventory"
	"github.com/batterydepartment/backend/internal/domain/partner"
	"github.com/batterydepartment/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WarehouseService handles the multi-warehouse network of the supplier portal
type WarehouseService struct {
	warehouseRepo  partner.WarehouseRepository
	supplierRepo   partner.SupplierRepository
	inventoryRepo  inventory.InventoryRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewWarehouseService creates a new warehouse service
func NewWarehouseService(
	warehouseRepo partner.WarehouseRepository,
	supplierRepo partner.SupplierRepository,
	inventoryRepo inventory.InventoryRepository,
	logger *zap.Logger,
) *WarehouseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WarehouseService{
		warehouseRepo: warehouseRepo,
		supplierRepo:  supplierRepo,
		inventoryRepo: inventoryRepo,
		logger:        logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *WarehouseService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *WarehouseService) publishDomainEvents(ctx context.Context, warehouse *partner.Warehouse) {
	if s.eventPublisher == nil {
		return
	}
	events := warehouse.GetDomainEvents()
	if len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
		warehouse.ClearDomainEvents()
	}
}

// Create registers a new warehouse for an active supplier
func (s *WarehouseService) Create(ctx context.Context, req CreateWarehouseRequest) (*WarehouseResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, req.SupplierID)
	if err != nil {
		return nil, err
	}
	if !supplier.IsActive() {
		return nil, shared.NewDomainError("SUPPLIER_NOT_ACTIVE", "Warehouses can only be added for active suppliers")
	}

	if _, err := s.warehouseRepo.FindByCode(ctx, req.Code); err == nil {
		return nil, shared.NewDomainError("DUPLICATE_CODE", "A warehouse with this code already exists")
	}

	warehouse, err := partner.NewWarehouse(req.SupplierID, req.Code, req.Name, req.Region)
	if err != nil {
		return nil, err
	}
	if req.City != "" || req.Capacity > 0 {
		if err := warehouse.Update(req.Name, req.City, req.Capacity); err != nil {
			return nil, err
		}
	}
	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, fmt.Errorf("failed to save warehouse: %w", err)
	}
	s.publishDomainEvents(ctx, warehouse)

	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// Update updates a warehouse's basic information
func (s *WarehouseService) Update(ctx context.Context, id uuid.UUID, req UpdateWarehouseRequest) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := warehouse.Update(req.Name, req.City, req.Capacity); err != nil {
		return nil, err
	}
	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, fmt.Errorf("failed to save warehouse: %w", err)
	}
	s.publishDomainEvents(ctx, warehouse)

	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// Enable brings a warehouse back into fulfillment rotation
func (s *WarehouseService) Enable(ctx context.Context, id uuid.UUID) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := warehouse.Enable(); err != nil {
		return nil, err
	}
	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, fmt.Errorf("failed to save warehouse: %w", err)
	}
	s.publishDomainEvents(ctx, warehouse)

	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// Disable takes a warehouse out of rotation. Disabling a warehouse that
// still holds stock requires the force flag and is logged as an alert
// because the remaining units must be rehomed or written off.
func (s *WarehouseService) Disable(ctx context.Context, id uuid.UUID, req DisableWarehouseRequest) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	remainingStock, err := s.remainingStock(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := warehouse.Disable(remainingStock, req.Force); err != nil {
		return nil, err
	}
	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, fmt.Errorf("failed to save warehouse: %w", err)
	}

	if remainingStock > 0 {
		s.logger.Warn("warehouse force-disabled with stock on hand",
			zap.String("warehouse_id", warehouse.ID.String()),
			zap.String("warehouse_code", warehouse.Code),
			zap.Int("remaining_stock", remainingStock))
	}
	s.publishDomainEvents(ctx, warehouse)

	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// SetDefault makes the warehouse the network default, clearing the old one.
// Exactly one warehouse is the default at any time.
func (s *WarehouseService) SetDefault(ctx context.Context, id uuid.UUID) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	current, err := s.warehouseRepo.FindDefault(ctx)
	if err == nil && current.ID != warehouse.ID {
		current.ClearDefault()
		if err := s.warehouseRepo.Save(ctx, current); err != nil {
			return nil, fmt.Errorf("failed to clear previous default: %w", err)
		}
	}

	if err := warehouse.MarkDefault(); err != nil {
		return nil, err
	}
	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, fmt.Errorf("failed to save warehouse: %w", err)
	}
	s.publishDomainEvents(ctx, warehouse)

	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// GetByID retrieves a warehouse by ID
func (s *WarehouseService) GetByID(ctx context.Context, id uuid.UUID) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// ListActive retrieves all warehouses able to fulfill orders
func (s *WarehouseService) ListActive(ctx context.Context) ([]WarehouseResponse, error) {
	warehouses, err := s.warehouseRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	return ToWarehouseResponses(warehouses), nil
}

// ListBySupplier retrieves all warehouses belonging to a supplier
func (s *WarehouseService) ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]WarehouseResponse, error) {
	warehouses, err := s.warehouseRepo.FindBySupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	return ToWarehouseResponses(warehouses), nil
}

// SupplierInventory builds the supplier portal inventory dashboard, joining
// the supplier's warehouses with their stock levels.
func (s *WarehouseService) SupplierInventory(ctx context.Context, supplierID uuid.UUID) (*SupplierInventoryResponse, error) {
	warehouses, err := s.warehouseRepo.FindBySupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	response := &SupplierInventoryResponse{
		SupplierID: supplierID,
		Rows:       make([]SupplierInventoryRow, 0),
	}
	for i := range warehouses {
		wh := &warehouses[i]
		items, err := s.inventoryRepo.FindByWarehouse(ctx, wh.ID, shared.Filter{Page: 1, PageSize: 1000})
		if err != nil {
			return nil, err
		}
		for j := range items {
			item := &items[j]
			response.Rows = append(response.Rows, SupplierInventoryRow{
				WarehouseID:       wh.ID,
				WarehouseCode:     wh.Code,
				WarehouseName:     wh.Name,
				ProductID:         item.ProductID,
				AvailableQuantity: item.AvailableQuantity,
				LockedQuantity:    item.LockedQuantity,
				MinQuantity:       item.MinQuantity,
				IsBelowMinimum:    item.IsBelowMinimum(),
			})
		}
	}
	return response, nil
}

func (s *WarehouseService) remainingStock(ctx context.Context, warehouseID uuid.UUID) (int, error) {
	items, err := s.inventoryRepo.FindByWarehouse(ctx, warehouseID, shared.Filter{Page: 1, PageSize: 1000})
	if err != nil {
		return 0, err
	}
	total := 0
	for i := range items {
		total += items[i].TotalQuantity()
	}
	return total, nil
}
