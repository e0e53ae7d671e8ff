package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/bobby-s-dev/life-dashboard/internal/models"
	"github.com/bobby-s-dev/life-dashboard/internal/observability"
	"github.com/bobby-s-dev/life-dashboard/internal/services"
)

const runTimeout = 60 * time.Second

// FireWatch periodically checks the fire districts of the configured
// locations and reports which are under a Total Fire Ban. It keeps no state
// between runs.
type FireWatch struct {
	fire      services.FireSource
	districts []string
	schedule  string
	cron      *cron.Cron
	logger    *zap.Logger
	metrics   *observability.Metrics
	mu        sync.Mutex
	running   bool
}

func NewFireWatch(fire services.FireSource, locations []models.Location, schedule string, metrics *observability.Metrics, logger *zap.Logger) *FireWatch {
	return &FireWatch{
		fire:      fire,
		districts: watchedDistricts(locations),
		schedule:  schedule,
		cron:      cron.New(),
		logger:    logger,
		metrics:   metrics,
	}
}

func watchedDistricts(locations []models.Location) []string {
	seen := make(map[string]struct{})
	var districts []string
	for _, loc := range locations {
		if loc.FireDistrict == "" {
			continue
		}
		if _, ok := seen[loc.FireDistrict]; ok {
			continue
		}
		seen[loc.FireDistrict] = struct{}{}
		districts = append(districts, loc.FireDistrict)
	}
	return districts
}

func (s *FireWatch) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, s.runScheduled); err != nil {
		return fmt.Errorf("invalid fire watch schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("Fire watch started",
		zap.String("schedule", s.schedule),
		zap.Strings("districts", s.districts))
	return nil
}

func (s *FireWatch) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.logger.Info("Stopping fire watch")
	<-s.cron.Stop().Done()
	s.running = false
}

func (s *FireWatch) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()
	s.RunOnce(ctx)
}

// RunOnce fetches a fresh snapshot and returns the watched districts under a
// ban, sorted by name.
func (s *FireWatch) RunOnce(ctx context.Context) []string {
	runID := uuid.New().String()
	startTime := time.Now()
	s.logger.Info("Fire watch run triggered", zap.String("run_id", runID))

	snapshot := s.fire.FetchFireData(ctx)

	var banned []string
	for _, district := range s.districts {
		if snapshot[district].TotalFireBan {
			banned = append(banned, district)
		}
	}
	sort.Strings(banned)

	s.metrics.FireBanDistricts.Set(float64(len(banned)))

	if len(banned) > 0 {
		s.logger.Warn("Total Fire Ban declared for watched districts",
			zap.String("run_id", runID),
			zap.Strings("districts", banned))
	}
	s.logger.Info("Fire watch run completed",
		zap.String("run_id", runID),
		zap.Int("snapshot_districts", len(snapshot)),
		zap.Int("banned", len(banned)),
		zap.Duration("duration", time.Since(startTime)))
	return banned
}
