package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/kartly/kartly_go_server/config"
	"github.com/kartly/kartly_go_server/internal/database"
	"github.com/kartly/kartly_go_server/internal/model"
	"github.com/kartly/kartly_go_server/internal/repository"
)

var (
	dryRun          = flag.Bool("dry-run", true, "Dry run mode, don't actually write anything")
	sweepSubs       = flag.Bool("sweep-subscriptions", true, "Flip overdue ACTIVE/TRIAL subscriptions to EXPIRED")
	sweepOrders     = flag.Bool("sweep-orders", true, "Flip stale INITIATED orders to FAILED")
	staleAfterHours = flag.Int("stale-after", 24, "Hours before an INITIATED order counts as stale")
)

func main() {
	flag.Parse()

	log.Println("Starting maintenance sweep...")
	log.Printf("Mode: dry-run=%v", *dryRun)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	subRepo := repository.NewSubscriptionRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	if *sweepSubs {
		log.Println("Sweeping overdue subscriptions...")
		if *dryRun {
			var count int64
			err := db.Model(&model.Subscription{}).
				Where("status IN ? AND end_date < ?",
					[]string{model.SubscriptionStatusActive, model.SubscriptionStatusTrial},
					time.Now()).
				Count(&count).Error
			if err != nil {
				log.Printf("Failed to count overdue subscriptions: %v", err)
			} else {
				log.Printf("Would expire %d subscriptions", count)
			}
		} else {
			count, err := subRepo.ExpireOverdue(time.Now())
			if err != nil {
				log.Printf("Failed to expire subscriptions: %v", err)
			} else {
				log.Printf("Expired %d subscriptions", count)
			}
		}
	}

	if *sweepOrders {
		before := time.Now().Add(-time.Duration(*staleAfterHours) * time.Hour)
		log.Printf("Sweeping INITIATED orders older than %s...", before.Format(time.RFC3339))

		orders, err := orderRepo.ListStaleInitiated(before, 1000)
		if err != nil {
			log.Fatalf("Failed to list stale orders: %v", err)
		}

		for _, order := range orders {
			log.Printf("  - order %d (vendor %d, token %d, created %s)",
				order.ID, order.VendorID, order.TokenNumber,
				order.CreatedAt.Format(time.RFC3339))
		}

		if *dryRun {
			log.Printf("Would mark %d orders as FAILED", len(orders))
		} else {
			ids := make([]int64, 0, len(orders))
			for _, order := range orders {
				ids = append(ids, order.ID)
			}
			count, err := orderRepo.MarkFailed(ids)
			if err != nil {
				log.Fatalf("Failed to mark stale orders: %v", err)
			}
			log.Printf("Marked %d orders as FAILED", count)
		}
	}

	if *dryRun {
		log.Println("DRY RUN MODE - nothing was written")
		log.Println("Run with -dry-run=false to apply changes")
	} else {
		log.Println("Sweep completed")
	}
}
