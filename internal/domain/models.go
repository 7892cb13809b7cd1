package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockStatus is derived from a product's stock level and the configured
// low-stock threshold. It is never set directly outside the bulk override
// operation.
type StockStatus string

const (
	StockStatusInStock    StockStatus = "In Stock"
	StockStatusLowStock   StockStatus = "Low Stock"
	StockStatusOutOfStock StockStatus = "Out of Stock"
)

// IsValid checks if the StockStatus is a valid enum value
func (s StockStatus) IsValid() bool {
	switch s {
	case StockStatusInStock, StockStatusLowStock, StockStatusOutOfStock:
		return true
	}
	return false
}

// HistoryEntry is an immutable audit record attached to a product or order.
// Histories are prepend-only and ordered newest first.
type HistoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	User      string    `json:"user"`
}

// UnitOfMeasure values commonly used for construction materials
type UnitOfMeasure string

const (
	UnitPiece  UnitOfMeasure = "pcs"
	UnitBag    UnitOfMeasure = "bag"
	UnitTonne  UnitOfMeasure = "tonne"
	UnitMeter  UnitOfMeasure = "m"
	UnitSqm    UnitOfMeasure = "m2"
	UnitCubic  UnitOfMeasure = "m3"
	UnitLitre  UnitOfMeasure = "l"
	UnitBundle UnitOfMeasure = "bundle"
)

// Product represents a stocked construction material
type Product struct {
	ID          uuid.UUID       `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Unit        UnitOfMeasure   `json:"unit"`
	Supplier    string          `json:"supplier,omitempty"`
	BatchNumber string          `json:"batchNumber,omitempty"`
	Warehouse   string          `json:"warehouse,omitempty"`
	Stock       int             `json:"stock"`
	Price       decimal.Decimal `json:"price"`
	UnitCost    decimal.Decimal `json:"unitCost"`
	Currency    string          `json:"currency"`
	Status      StockStatus     `json:"status"`
	History     []HistoryEntry  `json:"history"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// SalesOrderStatus is the state of a sales order
type SalesOrderStatus string

const (
	SalesOrderPending   SalesOrderStatus = "Pending"
	SalesOrderFulfilled SalesOrderStatus = "Fulfilled"
	SalesOrderCancelled SalesOrderStatus = "Cancelled"
)

// IsValid checks if the SalesOrderStatus is a valid enum value
func (s SalesOrderStatus) IsValid() bool {
	switch s {
	case SalesOrderPending, SalesOrderFulfilled, SalesOrderCancelled:
		return true
	}
	return false
}

// PurchaseOrderStatus is the state of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderPending   PurchaseOrderStatus = "Pending"
	PurchaseOrderReceived  PurchaseOrderStatus = "Received"
	PurchaseOrderCancelled PurchaseOrderStatus = "Cancelled"
)

// IsValid checks if the PurchaseOrderStatus is a valid enum value
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderPending, PurchaseOrderReceived, PurchaseOrderCancelled:
		return true
	}
	return false
}

// Party is the embedded counterparty on an order (customer or vendor)
type Party struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// OrderItem is a line item on a sales or purchase order. ProductName is a
// snapshot taken at creation; it does not follow later product renames.
// ProductID may be nil for free-text lines, in which case stock adjustments
// for the line are skipped.
type OrderItem struct {
	ProductID   *uuid.UUID      `json:"productId,omitempty"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// LineTotal returns quantity multiplied by unit price
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// SalesOrder represents an outbound order to a customer. Total is frozen at
// creation and never recomputed.
type SalesOrder struct {
	ID        uuid.UUID        `json:"id"`
	Customer  Party            `json:"customer"`
	Date      time.Time        `json:"date"`
	Currency  string           `json:"currency"`
	Items     []OrderItem      `json:"items"`
	Total     decimal.Decimal  `json:"total"`
	Status    SalesOrderStatus `json:"status"`
	History   []HistoryEntry   `json:"history"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// PurchaseOrder represents an inbound order from a vendor. Stock is only
// affected when the order transitions into or out of Received.
type PurchaseOrder struct {
	ID             uuid.UUID           `json:"id"`
	Vendor         Party               `json:"vendor"`
	Date           time.Time           `json:"date"`
	Currency       string              `json:"currency"`
	Items          []OrderItem         `json:"items"`
	Total          decimal.Decimal     `json:"total"`
	Status         PurchaseOrderStatus `json:"status"`
	TrackingNumber string              `json:"trackingNumber,omitempty"`
	History        []HistoryEntry      `json:"history"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

// UserStatus represents whether a user may log in
type UserStatus string

const (
	UserStatusActive  UserStatus = "Active"
	UserStatusBlocked UserStatus = "Blocked"
)

// UserRole is a role string carried by a user. Roles are not mutually
// exclusive.
type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleManager   UserRole = "manager"
	RoleSales     UserRole = "sales"
	RoleWarehouse UserRole = "warehouse"
	RoleGate      UserRole = "gate"
	RoleViewer    UserRole = "viewer"
)

// IsValid checks if the UserRole is a valid enum value
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleSales, RoleWarehouse, RoleGate, RoleViewer:
		return true
	}
	return false
}

// User represents a dashboard user. Passwords are compared in plaintext,
// carried over from the system this replaces (see DESIGN.md).
type User struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Password    string     `json:"-"`
	DisplayName string     `json:"displayName"`
	Roles       []UserRole `json:"roles"`
	Status      UserStatus `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// HasRole checks if the user carries the given role
func (u *User) HasRole(role UserRole) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Supplier represents a materials vendor
type Supplier struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contactPerson,omitempty"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Address       string    `json:"address,omitempty"`
	Materials     string    `json:"materials,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// GatePassStatus is the state of a gate pass
type GatePassStatus string

const (
	GatePassIssued GatePassStatus = "Issued"
	GatePassExited GatePassStatus = "Exited"
)

// GatePass authorizes a vehicle to leave the yard with goods for a sales
// order. Clearance metadata is only populated on the transition to Exited.
type GatePass struct {
	ID            uuid.UUID      `json:"id"`
	OrderID       uuid.UUID      `json:"orderId"`
	DriverName    string         `json:"driverName"`
	VehicleNumber string         `json:"vehicleNumber"`
	Status        GatePassStatus `json:"status"`
	IssuedAt      time.Time      `json:"issuedAt"`
	ClearedBy     string         `json:"clearedBy,omitempty"`
	ExitedAt      *time.Time     `json:"exitedAt,omitempty"`
}

// ReminderStatus is the state of a reminder
type ReminderStatus string

const (
	ReminderPending   ReminderStatus = "Pending"
	ReminderCompleted ReminderStatus = "Completed"
)

// Reminder is a follow-up task tied to an order
type Reminder struct {
	ID        uuid.UUID      `json:"id"`
	OrderID   uuid.UUID      `json:"orderId"`
	Task      string         `json:"task"`
	DueAt     time.Time      `json:"dueAt"`
	Status    ReminderStatus `json:"status"`
	CreatedAt time.Time      `json:"createdAt"`
}

// PackingSlip is an append-only document issued for a sales order
type PackingSlip struct {
	ID          uuid.UUID `json:"id"`
	OrderID     uuid.UUID `json:"orderId"`
	SlipNumber  string    `json:"slipNumber"`
	IssuedAt    time.Time `json:"issuedAt"`
	IssuedBy    string    `json:"issuedBy"`
	StoragePath string    `json:"storagePath,omitempty"`
}

// ShippingLabel is an append-only document issued for a sales order
type ShippingLabel struct {
	ID          uuid.UUID `json:"id"`
	OrderID     uuid.UUID `json:"orderId"`
	LabelNumber string    `json:"labelNumber"`
	Carrier     string    `json:"carrier,omitempty"`
	IssuedAt    time.Time `json:"issuedAt"`
	IssuedBy    string    `json:"issuedBy"`
	StoragePath string    `json:"storagePath,omitempty"`
}

// UncategorizedCategory is the sentinel category products fall back to when
// their own category is deleted. It can never be removed.
const UncategorizedCategory = "Uncategorized"

// Category is a flat, renameable product tag
type Category struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuditAction represents the type of audit action
type AuditAction string

const (
	AuditActionCreate       AuditAction = "create"
	AuditActionUpdate       AuditAction = "update"
	AuditActionDelete       AuditAction = "delete"
	AuditActionStatusChange AuditAction = "status_change"
	AuditActionStockAdjust  AuditAction = "stock_adjust"
	AuditActionLogin        AuditAction = "login"
	AuditActionExport       AuditAction = "export"
	AuditActionSync         AuditAction = "sync"
)

// AuditLog represents an audit trail entry for a mutation or login
type AuditLog struct {
	ID          uuid.UUID   `json:"id"`
	UserName    string      `json:"userName"`
	Action      AuditAction `json:"action"`
	EntityType  string      `json:"entityType"`
	EntityID    *uuid.UUID  `json:"entityId,omitempty"`
	Detail      string      `json:"detail,omitempty"`
	IPAddress   string      `json:"ipAddress,omitempty"`
	RequestID   string      `json:"requestId,omitempty"`
	PerformedAt time.Time   `json:"performedAt"`
}

// Settings holds the externally configurable knobs that flow into derived
// computations. Changing the threshold does not retroactively recompute
// product statuses; each product picks it up on its next mutation.
type Settings struct {
	LowStockThreshold int       `json:"lowStockThreshold"`
	DefaultCurrency   string    `json:"defaultCurrency"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// ActionType identifies a mutation in the offline sync contract
type ActionType string

const (
	ActionAddProduct          ActionType = "product.add"
	ActionUpdateProduct       ActionType = "product.update"
	ActionAdjustProductStock  ActionType = "product.adjust_stock"
	ActionDeleteProducts      ActionType = "product.delete"
	ActionOverrideStatus      ActionType = "product.override_status"
	ActionAddSalesOrder       ActionType = "sales_order.add"
	ActionSalesOrderStatus    ActionType = "sales_order.status"
	ActionAddPurchaseOrder    ActionType = "purchase_order.add"
	ActionPurchaseOrderStatus ActionType = "purchase_order.status"
	ActionPurchaseOrderTrack  ActionType = "purchase_order.tracking"
	ActionAddUser             ActionType = "user.add"
	ActionUpdateUser          ActionType = "user.update"
	ActionDeleteUser          ActionType = "user.delete"
	ActionAddSupplier         ActionType = "supplier.add"
	ActionUpdateSupplier      ActionType = "supplier.update"
	ActionDeleteSupplier      ActionType = "supplier.delete"
	ActionAddGatePass         ActionType = "gate_pass.add"
	ActionGatePassStatus      ActionType = "gate_pass.status"
	ActionAddReminder         ActionType = "reminder.add"
	ActionReminderStatus      ActionType = "reminder.status"
	ActionDeleteReminder      ActionType = "reminder.delete"
	ActionIssuePackingSlip    ActionType = "packing_slip.issue"
	ActionIssueShippingLabel  ActionType = "shipping_label.issue"
	ActionAddCategory         ActionType = "category.add"
	ActionRenameCategory      ActionType = "category.rename"
	ActionDeleteCategory      ActionType = "category.delete"
	ActionUpdateSettings      ActionType = "settings.update"
)

// Action is the record emitted for every mutation. Online it is dispatched
// to the remote system immediately; offline it is appended to the queue.
type Action struct {
	Type      ActionType `json:"type"`
	Payload   any        `json:"payload"`
	CreatedAt time.Time  `json:"createdAt"`
}
