package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/kartly/kartly_go_server/internal/model"
	"github.com/kartly/kartly_go_server/internal/model/dto"
	"github.com/kartly/kartly_go_server/internal/repository"
)

type AdminService struct {
	vendorRepo *repository.VendorRepository
	orderRepo  *repository.OrderRepository
	subRepo    *repository.SubscriptionRepository
}

func NewAdminService(vendorRepo *repository.VendorRepository, orderRepo *repository.OrderRepository, subRepo *repository.SubscriptionRepository) *AdminService {
	return &AdminService{
		vendorRepo: vendorRepo,
		orderRepo:  orderRepo,
		subRepo:    subRepo,
	}
}

// Analytics 平台级汇总：商户、订单、营收和订阅分布
func (s *AdminService) Analytics() (*dto.AdminAnalyticsResponse, error) {
	metrics := &dto.AdminMetrics{}

	var err error
	if metrics.TotalVendors, err = s.vendorRepo.Count(); err != nil {
		return nil, err
	}
	if metrics.ActiveVendors, err = s.vendorRepo.CountByStatus(model.VendorStatusActive); err != nil {
		return nil, err
	}
	if metrics.TotalOrders, err = s.orderRepo.CountAll(); err != nil {
		return nil, err
	}
	if metrics.TotalPlatformRevenue, err = s.orderRepo.SumRevenue(); err != nil {
		return nil, err
	}
	if metrics.ActiveSubs, err = s.subRepo.CountByStatus(model.SubscriptionStatusActive); err != nil {
		return nil, err
	}
	if metrics.TrialSubs, err = s.subRepo.CountByStatus(model.SubscriptionStatusTrial); err != nil {
		return nil, err
	}
	if metrics.ExpiredSubs, err = s.subRepo.CountByStatus(model.SubscriptionStatusExpired); err != nil {
		return nil, err
	}

	subs, err := s.subRepo.ListWithVendor()
	if err != nil {
		return nil, err
	}

	items := make([]*dto.AdminSubscriptionItem, 0, len(subs))
	for _, sub := range subs {
		item := &dto.AdminSubscriptionItem{
			ID:        sub.ID,
			Status:    sub.Status,
			StartDate: sub.StartDate.Format("2006-01-02"),
			EndDate:   sub.EndDate.Format("2006-01-02"),
		}
		if sub.Vendor != nil {
			item.VendorName = sub.Vendor.Name
			item.ShopName = sub.Vendor.ShopName
			item.VendorStatus = sub.Vendor.Status
		}
		if sub.Plan != nil {
			item.Plan = sub.Plan.Name
		}
		items = append(items, item)
	}

	return &dto.AdminAnalyticsResponse{
		Metrics:       metrics,
		Subscriptions: items,
	}, nil
}

// ToggleVendorStatus 在 ACTIVE 和 SUSPENDED 之间切换商户状态
func (s *AdminService) ToggleVendorStatus(vendorID int64) (*dto.VendorInfo, error) {
	vendor, err := s.vendorRepo.GetByID(vendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVendorNotFound
		}
		return nil, err
	}

	next := model.VendorStatusSuspended
	if vendor.Status == model.VendorStatusSuspended {
		next = model.VendorStatusActive
	}

	if err := s.vendorRepo.UpdateFields(vendor.ID, map[string]interface{}{"status": next}); err != nil {
		return nil, err
	}

	vendor.Status = next
	return buildVendorInfo(vendor), nil
}
