package export

import (
	"strconv"

	"github.com/buildmart-as/inventory-api/internal/domain"
)

// ProductColumns is the standard product export projection
func ProductColumns() []Column[domain.Product] {
	return []Column[domain.Product]{
		{Header: "SKU", Value: func(p domain.Product) string { return p.SKU }},
		{Header: "Name", Value: func(p domain.Product) string { return p.Name }},
		{Header: "Category", Value: func(p domain.Product) string { return p.Category }},
		{Header: "Unit", Value: func(p domain.Product) string { return string(p.Unit) }},
		{Header: "Stock", Value: func(p domain.Product) string { return strconv.Itoa(p.Stock) }},
		{Header: "Price", Value: func(p domain.Product) string { return p.Price.StringFixed(2) }},
		{Header: "Currency", Value: func(p domain.Product) string { return p.Currency }},
		{Header: "Status", Value: func(p domain.Product) string { return string(p.Status) }},
		{Header: "Supplier", Value: func(p domain.Product) string { return p.Supplier }},
		{Header: "Warehouse", Value: func(p domain.Product) string { return p.Warehouse }},
	}
}

// SalesOrderColumns is the standard sales order export projection
func SalesOrderColumns() []Column[domain.SalesOrder] {
	return []Column[domain.SalesOrder]{
		{Header: "Order ID", Value: func(o domain.SalesOrder) string { return o.ID.String() }},
		{Header: "Customer", Value: func(o domain.SalesOrder) string { return o.Customer.Name }},
		{Header: "Date", Value: func(o domain.SalesOrder) string { return o.Date.Format("2006-01-02") }},
		{Header: "Items", Value: func(o domain.SalesOrder) string { return strconv.Itoa(len(o.Items)) }},
		{Header: "Total", Value: func(o domain.SalesOrder) string { return o.Total.StringFixed(2) }},
		{Header: "Currency", Value: func(o domain.SalesOrder) string { return o.Currency }},
		{Header: "Status", Value: func(o domain.SalesOrder) string { return string(o.Status) }},
	}
}

// OrderItemColumns is the line-item projection used on packing slips
// and shipping labels.
func OrderItemColumns() []Column[domain.OrderItem] {
	return []Column[domain.OrderItem]{
		{Header: "Product", Value: func(i domain.OrderItem) string { return i.ProductName }},
		{Header: "Quantity", Value: func(i domain.OrderItem) string { return strconv.Itoa(i.Quantity) }},
		{Header: "Unit Price", Value: func(i domain.OrderItem) string { return i.UnitPrice.StringFixed(2) }},
		{Header: "Line Total", Value: func(i domain.OrderItem) string { return i.LineTotal().StringFixed(2) }},
	}
}

// PurchaseOrderColumns is the standard purchase order export projection
func PurchaseOrderColumns() []Column[domain.PurchaseOrder] {
	return []Column[domain.PurchaseOrder]{
		{Header: "Order ID", Value: func(o domain.PurchaseOrder) string { return o.ID.String() }},
		{Header: "Vendor", Value: func(o domain.PurchaseOrder) string { return o.Vendor.Name }},
		{Header: "Date", Value: func(o domain.PurchaseOrder) string { return o.Date.Format("2006-01-02") }},
		{Header: "Items", Value: func(o domain.PurchaseOrder) string { return strconv.Itoa(len(o.Items)) }},
		{Header: "Total", Value: func(o domain.PurchaseOrder) string { return o.Total.StringFixed(2) }},
		{Header: "Currency", Value: func(o domain.PurchaseOrder) string { return o.Currency }},
		{Header: "Status", Value: func(o domain.PurchaseOrder) string { return string(o.Status) }},
		{Header: "Tracking", Value: func(o domain.PurchaseOrder) string { return o.TrackingNumber }},
	}
}
