package domain

import "time"

// DashboardStats is the admin overview.
type DashboardStats struct {
	TotalUsers       int               `json:"totalUsers"`
	TotalProducts    int               `json:"totalProducts"`
	TotalOrders      int               `json:"totalOrders"`
	TotalFiles       int               `json:"totalFiles"`
	RecentOrders     []RecentOrder     `json:"recentOrders"`
	LowStockProducts []LowStockProduct `json:"lowStockProducts"`
}

// RecentOrder is a condensed order row on the dashboard.
type RecentOrder struct {
	ID          string    `json:"id"`
	UserName    string    `json:"userName"`
	ProductName string    `json:"productName"`
	TotalPrice  float64   `json:"totalPrice"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// LowStockProduct is a product running out of stock.
type LowStockProduct struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}
