package services

import (
	"context"

	"github.com/HSouheill/shop_backend/models"
	"golang.org/x/sync/errgroup"
)

type counter interface {
	Count(ctx context.Context) (int64, error)
}

// DashboardService derives admin statistics on every call.
type DashboardService struct {
	users    counter
	products counter
	orders   *OrderService
}

func NewDashboardService(users *UserService, products *ProductService, orders *OrderService) *DashboardService {
	return &DashboardService{users: users, products: products, orders: orders}
}

// Stats reads the three counts and the recent orders concurrently. Any
// failure fails the whole call.
func (s *DashboardService) Stats(ctx context.Context) (models.DashboardStats, error) {
	var stats models.DashboardStats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.users.Count(ctx)
		stats.TotalUsers = n
		return err
	})
	g.Go(func() error {
		n, err := s.orders.Count(ctx)
		stats.TotalOrders = n
		return err
	})
	g.Go(func() error {
		n, err := s.products.Count(ctx)
		stats.TotalProducts = n
		return err
	})
	g.Go(func() error {
		recent, err := s.orders.Recent(ctx, DefaultRecentOrders)
		stats.RecentOrders = recent
		return err
	})

	if err := g.Wait(); err != nil {
		return models.DashboardStats{}, err
	}
	return stats, nil
}
