package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/kartly/kartly_go_server/config"
	"github.com/kartly/kartly_go_server/internal/model"
	"github.com/kartly/kartly_go_server/internal/model/dto"
	"github.com/kartly/kartly_go_server/internal/repository"
)

var (
	ErrNoSubscription      = errors.New("商户没有有效订阅")
	ErrSubscriptionExpired = errors.New("订阅已过期")
	ErrUnknownPlan         = errors.New("未知的订阅套餐")
)

type SubscriptionService struct {
	subRepo  *repository.SubscriptionRepository
	planRepo *repository.PlanRepository
	cfg      *config.Config
}

func NewSubscriptionService(subRepo *repository.SubscriptionRepository, planRepo *repository.PlanRepository, cfg *config.Config) *SubscriptionService {
	return &SubscriptionService{
		subRepo:  subRepo,
		planRepo: planRepo,
		cfg:      cfg,
	}
}

// EnsureActive 订阅闸门：只读检查商户当前订阅是否可用。
// end_date 已过但状态还没被清扫任务翻转的订阅同样视为过期。
func (s *SubscriptionService) EnsureActive(vendorID int64) error {
	sub, err := s.subRepo.GetCurrentByVendor(vendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoSubscription
		}
		return err
	}

	if sub.EndDate.Before(time.Now()) {
		return ErrSubscriptionExpired
	}
	return nil
}

// Current 当前订阅视图，没有任何订阅记录时返回 ErrNoSubscription
func (s *SubscriptionService) Current(vendorID int64) (*dto.SubscriptionInfo, error) {
	sub, err := s.subRepo.GetCurrentByVendor(vendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSubscription
		}
		return nil, err
	}

	planName := ""
	if sub.Plan != nil {
		planName = sub.Plan.Name
	}

	return &dto.SubscriptionInfo{
		Plan:      planName,
		Status:    sub.Status,
		StartDate: sub.StartDate.Format("2006-01-02"),
		EndDate:   sub.EndDate.Format("2006-01-02"),
	}, nil
}

// StartTrial 注册时开通试用订阅
func (s *SubscriptionService) StartTrial(vendorID int64) (*model.Subscription, error) {
	return s.open(vendorID, model.PlanTrial, model.SubscriptionStatusTrial, "")
}

// Renew 按套餐名开通新订阅，旧的当前订阅置为 CANCELLED
func (s *SubscriptionService) Renew(vendorID int64, req *dto.RenewSubscriptionRequest) (*dto.SubscriptionInfo, error) {
	status := model.SubscriptionStatusActive
	if req.Plan == model.PlanTrial {
		status = model.SubscriptionStatusTrial
	}

	// 作废旧订阅，保证最新一条就是当前订阅
	if current, err := s.subRepo.GetCurrentByVendor(vendorID); err == nil {
		current.Status = model.SubscriptionStatusCancelled
		if err := s.subRepo.Update(current); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	sub, err := s.open(vendorID, req.Plan, status, "")
	if err != nil {
		return nil, err
	}

	return &dto.SubscriptionInfo{
		Plan:      sub.Plan.Name,
		Status:    sub.Status,
		StartDate: sub.StartDate.Format("2006-01-02"),
		EndDate:   sub.EndDate.Format("2006-01-02"),
	}, nil
}

// ExpireOverdue 把 end_date 已过的 ACTIVE/TRIAL 订阅批量翻转为 EXPIRED
func (s *SubscriptionService) ExpireOverdue() (int64, error) {
	return s.subRepo.ExpireOverdue(time.Now())
}

// CurrentPlan 当前订阅对应的套餐，额度检查用
func (s *SubscriptionService) CurrentPlan(vendorID int64) (*model.Subscription, *model.Plan, error) {
	sub, err := s.subRepo.GetCurrentByVendor(vendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNoSubscription
		}
		return nil, nil, err
	}
	return sub, sub.Plan, nil
}

func (s *SubscriptionService) open(vendorID int64, planName, status, paymentRef string) (*model.Subscription, error) {
	plan, err := s.ensurePlan(planName)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sub := &model.Subscription{
		VendorID:         vendorID,
		PlanID:           plan.ID,
		StartDate:        now,
		EndDate:          now.AddDate(0, 0, plan.DurationDays),
		Status:           status,
		PaymentReference: paymentRef,
	}

	if err := s.subRepo.Create(sub); err != nil {
		return nil, err
	}
	sub.Plan = plan
	return sub, nil
}

// ensurePlan 按配置懒创建套餐记录
func (s *SubscriptionService) ensurePlan(name string) (*model.Plan, error) {
	pc, ok := s.cfg.PlanByName(name)
	if !ok {
		return nil, ErrUnknownPlan
	}

	return s.planRepo.GetOrCreate(&model.Plan{
		Name:         pc.Name,
		Price:        pc.Price,
		DurationDays: pc.DurationDays,
		OrderLimit:   pc.OrderLimit,
	})
}
