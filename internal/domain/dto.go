package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Requests accepted by the HTTP layer. The store itself does not validate
// input; validation happens here via struct tags before a request reaches it.

type CreateProductRequest struct {
	SKU         string          `json:"sku" validate:"required,max=50"`
	Name        string          `json:"name" validate:"required,max=200"`
	Category    string          `json:"category" validate:"max=100"`
	Unit        UnitOfMeasure   `json:"unit" validate:"required,max=20"`
	Supplier    string          `json:"supplier" validate:"max=200"`
	BatchNumber string          `json:"batchNumber" validate:"max=100"`
	Warehouse   string          `json:"warehouse" validate:"max=100"`
	Stock       int             `json:"stock"`
	Price       decimal.Decimal `json:"price"`
	UnitCost    decimal.Decimal `json:"unitCost"`
	Currency    string          `json:"currency" validate:"omitempty,len=3"`
}

type UpdateProductRequest struct {
	SKU         string          `json:"sku" validate:"required,max=50"`
	Name        string          `json:"name" validate:"required,max=200"`
	Category    string          `json:"category" validate:"max=100"`
	Unit        UnitOfMeasure   `json:"unit" validate:"required,max=20"`
	Supplier    string          `json:"supplier" validate:"max=200"`
	BatchNumber string          `json:"batchNumber" validate:"max=100"`
	Warehouse   string          `json:"warehouse" validate:"max=100"`
	Stock       int             `json:"stock"`
	Price       decimal.Decimal `json:"price"`
	UnitCost    decimal.Decimal `json:"unitCost"`
	Currency    string          `json:"currency" validate:"omitempty,len=3"`
}

type AdjustStockRequest struct {
	Delta  int    `json:"delta" validate:"required"`
	Reason string `json:"reason" validate:"required,max=500"`
}

type BulkIDsRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required,min=1"`
}

type BulkStatusOverrideRequest struct {
	IDs    []uuid.UUID `json:"ids" validate:"required,min=1"`
	Status StockStatus `json:"status" validate:"required,oneof='In Stock' 'Low Stock' 'Out of Stock'"`
}

type OrderItemRequest struct {
	ProductID   *uuid.UUID      `json:"productId"`
	ProductName string          `json:"productName" validate:"required,max=200"`
	Quantity    int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

type PartyRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"max=50"`
	Address string `json:"address" validate:"max=500"`
}

type CreateSalesOrderRequest struct {
	Customer PartyRequest       `json:"customer" validate:"required"`
	Date     *time.Time         `json:"date"`
	Currency string             `json:"currency" validate:"omitempty,len=3"`
	Items    []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type CreatePurchaseOrderRequest struct {
	Vendor   PartyRequest       `json:"vendor" validate:"required"`
	Date     *time.Time         `json:"date"`
	Currency string             `json:"currency" validate:"omitempty,len=3"`
	Items    []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type UpdateSalesOrderStatusRequest struct {
	Status SalesOrderStatus `json:"status" validate:"required,oneof=Pending Fulfilled Cancelled"`
}

type UpdatePurchaseOrderStatusRequest struct {
	Status PurchaseOrderStatus `json:"status" validate:"required,oneof=Pending Received Cancelled"`
}

type UpdateTrackingNumberRequest struct {
	TrackingNumber string `json:"trackingNumber" validate:"required,max=100"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=200"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

type CreateUserRequest struct {
	Username    string     `json:"username" validate:"required,max=100"`
	Password    string     `json:"password" validate:"required,min=4,max=200"`
	DisplayName string     `json:"displayName" validate:"required,max=200"`
	Roles       []UserRole `json:"roles" validate:"required,min=1"`
}

type UpdateUserRequest struct {
	DisplayName string     `json:"displayName" validate:"required,max=200"`
	Password    string     `json:"password" validate:"omitempty,min=4,max=200"`
	Roles       []UserRole `json:"roles" validate:"required,min=1"`
	Status      UserStatus `json:"status" validate:"required,oneof=Active Blocked"`
}

type CreateSupplierRequest struct {
	Name          string `json:"name" validate:"required,max=200"`
	ContactPerson string `json:"contactPerson" validate:"max=200"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone" validate:"max=50"`
	Address       string `json:"address" validate:"max=500"`
	Materials     string `json:"materials" validate:"max=500"`
}

type CreateGatePassRequest struct {
	OrderID       uuid.UUID `json:"orderId" validate:"required"`
	DriverName    string    `json:"driverName" validate:"required,max=200"`
	VehicleNumber string    `json:"vehicleNumber" validate:"required,max=50"`
}

type ClearGatePassRequest struct {
	ClearedBy string `json:"clearedBy" validate:"required,max=200"`
}

type CreateReminderRequest struct {
	OrderID uuid.UUID `json:"orderId" validate:"required"`
	Task    string    `json:"task" validate:"required,max=500"`
	DueAt   time.Time `json:"dueAt" validate:"required"`
}

type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type RenameCategoryRequest struct {
	NewName string `json:"newName" validate:"required,max=100"`
}

type UpdateSettingsRequest struct {
	LowStockThreshold int    `json:"lowStockThreshold" validate:"required,gt=0"`
	DefaultCurrency   string `json:"defaultCurrency" validate:"omitempty,len=3"`
}

type IssueDocumentRequest struct {
	Carrier string `json:"carrier" validate:"max=100"`
}

// ListResponse is the collection envelope returned by list endpoints
type ListResponse struct {
	Data  any `json:"data"`
	Total int `json:"total"`
}

// SyncStatusResponse describes the offline queue and connectivity state
type SyncStatusResponse struct {
	Online        bool       `json:"online"`
	PendingCount  int        `json:"pendingCount"`
	LastDrainedAt *time.Time `json:"lastDrainedAt,omitempty"`
}

// InventoryReport summarizes stock across the product collection
type InventoryReport struct {
	TotalProducts   int             `json:"totalProducts"`
	TotalStockValue decimal.Decimal `json:"totalStockValue"`
	InStock         int             `json:"inStock"`
	LowStock        int             `json:"lowStock"`
	OutOfStock      int             `json:"outOfStock"`
	LowStockItems   []Product       `json:"lowStockItems"`
}

// OrderReport summarizes order totals by status
type OrderReport struct {
	TotalOrders    int                        `json:"totalOrders"`
	TotalValue     decimal.Decimal            `json:"totalValue"`
	CountByStatus  map[string]int             `json:"countByStatus"`
	ValueByStatus  map[string]decimal.Decimal `json:"valueByStatus"`
	HistoricalRows []WarehouseSalesRow        `json:"historicalRows,omitempty"`
}

// WarehouseSalesRow is a row of historical sales figures from the
// reporting warehouse.
type WarehouseSalesRow struct {
	Period   string          `json:"period"`
	Orders   int             `json:"orders"`
	Revenue  decimal.Decimal `json:"revenue"`
	Currency string          `json:"currency"`
}
