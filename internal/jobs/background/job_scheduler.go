package background

import (
	"context"
	"log"
	"sync"
	"time"

	"steelstore/internal/analytics"
	"steelstore/internal/repositories"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

// JobScheduler runs the periodic maintenance work: keeping the dashboard
// figures warm and flagging stock and payment problems before someone
// notices them on a screen.
type JobScheduler struct {
	scheduler    gocron.Scheduler
	analyticsSvc *analytics.Service
	productRepo  repositories.ProductRepository
	vendorRepo   repositories.VendorRepository
	tenantID     uuid.UUID

	mu   sync.RWMutex
	jobs map[string]gocron.Job
}

func NewJobScheduler(analyticsSvc *analytics.Service, productRepo repositories.ProductRepository,
	vendorRepo repositories.VendorRepository, tenantID uuid.UUID) (*JobScheduler, error) {

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler:    scheduler,
		analyticsSvc: analyticsSvc,
		productRepo:  productRepo,
		vendorRepo:   vendorRepo,
		tenantID:     tenantID,
		jobs:         make(map[string]gocron.Job),
	}
	js.registerJobs()
	return js, nil
}

func (js *JobScheduler) Start() {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	dashboardJob, err := js.scheduler.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(js.refreshDashboardStats, context.Background()),
		gocron.WithName("dashboard-stats-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create dashboard refresh job: %v", err)
	} else {
		js.jobs["dashboard-stats-refresh"] = dashboardJob
	}

	lowStockJob, err := js.scheduler.NewJob(
		gocron.DurationJob(30*time.Minute),
		gocron.NewTask(js.checkLowStock, context.Background()),
		gocron.WithName("low-stock-alerts"),
	)
	if err != nil {
		log.Printf("Failed to create low stock job: %v", err)
	} else {
		js.jobs["low-stock-alerts"] = lowStockJob
	}

	outstandingJob, err := js.scheduler.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(js.checkOutstandingVendors, context.Background()),
		gocron.WithName("outstanding-vendor-check"),
	)
	if err != nil {
		log.Printf("Failed to create outstanding vendor job: %v", err)
	} else {
		js.jobs["outstanding-vendor-check"] = outstandingJob
	}

	log.Printf("Registered %d background jobs", len(js.jobs))
}

// refreshDashboardStats recomputes and caches the dashboard figures so the
// home screen never pays for a cold read.
func (js *JobScheduler) refreshDashboardStats(ctx context.Context) error {
	if err := js.analyticsSvc.RefreshDashboardStats(ctx, js.tenantID); err != nil {
		log.Printf("Failed to refresh dashboard stats: %v", err)
		return err
	}
	return nil
}

func (js *JobScheduler) checkLowStock(ctx context.Context) error {
	products, err := js.productRepo.LowStock(ctx, js.tenantID)
	if err != nil {
		log.Printf("Failed to check low stock: %v", err)
		return err
	}
	if len(products) > 0 {
		log.Printf("ALERT: %d products at or below their minimum stock level", len(products))
		// TODO: push these into a notification channel once one exists
	}
	return nil
}

func (js *JobScheduler) checkOutstandingVendors(ctx context.Context) error {
	vendors, err := js.vendorRepo.WithOutstanding(ctx, js.tenantID)
	if err != nil {
		log.Printf("Failed to check outstanding vendors: %v", err)
		return err
	}
	var total float64
	for _, v := range vendors {
		total += v.OutstandingBalance
	}
	if len(vendors) > 0 {
		log.Printf("ALERT: %d vendors with outstanding balances totaling %.2f", len(vendors), total)
	}
	return nil
}

// JobStatus reports what is currently scheduled.
func (js *JobScheduler) JobStatus() map[string]interface{} {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	return map[string]interface{}{
		"total_jobs": len(js.jobs),
		"jobs":       names,
	}
}
