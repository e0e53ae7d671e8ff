// Package fire builds a per-district fire status from the CFA Total Fire Ban
// RSS feed and the BOM fire danger forecast product.
//
// The two feeds are fetched in parallel and parsed independently. Any failure
// degrades only the affected source to "no data": a missing ban feed means no
// district is under a ban, a missing ratings feed means no forecast. Districts
// are joined on exact name; the feeds are trusted to agree on spelling.
package fire

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/bobby-s-dev/life-dashboard/internal/models"
	"github.com/bobby-s-dev/life-dashboard/internal/observability"
	"github.com/bobby-s-dev/life-dashboard/pkg/client"
)

type Config struct {
	BanURL     string
	RatingsURL string
	UserAgent  string
	Timeout    time.Duration
}

type Service struct {
	fetcher *Fetcher
	logger  *zap.Logger
	metrics *observability.Metrics
}

func NewService(cfg Config, logger *zap.Logger, metrics *observability.Metrics) *Service {
	banClient := client.NewBaseClient(SourceBan, client.ClientConfig{
		Timeout: cfg.Timeout,
	}, logger)
	ratingsClient := client.NewBaseClient(SourceRatings, client.ClientConfig{
		Timeout: cfg.Timeout,
		Headers: map[string]string{"User-Agent": cfg.UserAgent},
	}, logger)

	fetcher := NewFetcher(
		Feed{Source: SourceBan, URL: cfg.BanURL, Client: banClient},
		Feed{Source: SourceRatings, URL: cfg.RatingsURL, Client: ratingsClient},
		cfg.Timeout,
		logger,
		metrics,
	)
	return NewServiceWithFetcher(fetcher, logger, metrics)
}

func NewServiceWithFetcher(fetcher *Fetcher, logger *zap.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		fetcher: fetcher,
		logger:  logger,
		metrics: metrics,
	}
}

// FetchFireData returns a fresh snapshot. It never fails; unavailable
// sources simply contribute nothing.
func (s *Service) FetchFireData(ctx context.Context) models.FireDataSnapshot {
	bodies := s.fetcher.FetchAll(ctx)

	ban := map[string]bool{}
	if bodies.Ban != nil {
		ban = ParseBanFeed(bodies.Ban)
		if len(ban) == 0 {
			s.logger.Warn("No ban status parsed from feed", zap.String("source", SourceBan))
		}
	}

	danger := map[string][]models.DangerDay{}
	if bodies.Ratings != nil {
		danger = ParseRatingsFeed(bodies.Ratings)
		if len(danger) == 0 {
			s.logger.Warn("No fire danger ratings parsed from feed", zap.String("source", SourceRatings))
		}
	}

	s.metrics.FeedDistricts.WithLabelValues(SourceBan).Set(float64(len(ban)))
	s.metrics.FeedDistricts.WithLabelValues(SourceRatings).Set(float64(len(danger)))

	snapshot := Merge(ban, danger)
	s.logger.Debug("Fire data assembled",
		zap.Int("districts", len(snapshot)),
		zap.Int("ban_districts", len(ban)),
		zap.Int("rating_districts", len(danger)))
	return snapshot
}
