package cron

import (
	"log"
	"time"

	"github.com/kartly/kartly_go_server/internal/repository"
	"github.com/kartly/kartly_go_server/internal/service"
)

type Service struct {
	subscriptionSvc *service.SubscriptionService
	orderRepo       *repository.OrderRepository
	staleAfterHours int
	stopChan        chan struct{}
}

func NewService(
	subscriptionSvc *service.SubscriptionService,
	orderRepo *repository.OrderRepository,
	staleAfterHours int,
) *Service {
	return &Service{
		subscriptionSvc: subscriptionSvc,
		orderRepo:       orderRepo,
		staleAfterHours: staleAfterHours,
		stopChan:        make(chan struct{}),
	}
}

// Start 启动定时任务
func (s *Service) Start() {
	go s.runDailyExpiry()
	go s.runStaleOrderSweep()
	log.Println("Cron service started (subscription expiry + stale orders)")
}

// Stop 停止定时任务
func (s *Service) Stop() {
	close(s.stopChan)
	log.Println("Cron service stopped")
}

// runDailyExpiry 每天 UTC 零点执行一次订阅过期清扫
func (s *Service) runDailyExpiry() {
	now := time.Now().UTC()
	nextMidnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
	timer := time.NewTimer(nextMidnight.Sub(now))

	for {
		select {
		case <-s.stopChan:
			timer.Stop()
			return
		case <-timer.C:
			s.expireSubscriptions()
			timer.Reset(24 * time.Hour)
		}
	}
}

// expireSubscriptions 把 end_date 已过的订阅翻转为 EXPIRED
func (s *Service) expireSubscriptions() {
	log.Println("Starting subscription expiry sweep...")
	count, err := s.subscriptionSvc.ExpireOverdue()
	if err != nil {
		log.Printf("Failed to expire subscriptions: %v", err)
		return
	}
	log.Printf("Subscription expiry sweep completed, expired: %d", count)
}

// runStaleOrderSweep 每小时清扫一次滞留在 INITIATED 的订单
func (s *Service) runStaleOrderSweep() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.sweepStaleOrders()
		}
	}
}

// sweepStaleOrders 超时未支付的订单标记为 FAILED，避免看板上堆积僵尸单
func (s *Service) sweepStaleOrders() {
	staleAfter := s.staleAfterHours
	if staleAfter <= 0 {
		staleAfter = 24
	}
	before := time.Now().Add(-time.Duration(staleAfter) * time.Hour)

	orders, err := s.orderRepo.ListStaleInitiated(before, 500)
	if err != nil {
		log.Printf("Stale order sweep: failed to list orders: %v", err)
		return
	}
	if len(orders) == 0 {
		return
	}

	ids := make([]int64, 0, len(orders))
	for _, order := range orders {
		ids = append(ids, order.ID)
	}

	count, err := s.orderRepo.MarkFailed(ids)
	if err != nil {
		log.Printf("Stale order sweep: failed to mark orders: %v", err)
		return
	}
	log.Printf("Stale order sweep completed, failed: %d", count)
}

// RunExpiryNow 立即执行订阅过期清扫（手动触发用）
func (s *Service) RunExpiryNow() (int64, error) {
	log.Println("Manual subscription expiry triggered...")
	return s.subscriptionSvc.ExpireOverdue()
}
