package models

type DashboardStats struct {
	TotalUsers    int64       `json:"totalUsers"`
	TotalOrders   int64       `json:"totalOrders"`
	TotalProducts int64       `json:"totalProducts"`
	RecentOrders  []OrderView `json:"recentOrders"`
}
