package fire

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bobby-s-dev/life-dashboard/internal/observability"
)

const (
	SourceBan     = "cfa-ban"
	SourceRatings = "bom-ratings"
)

// Getter fetches a URL and returns the response body.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Feed is one upstream document and the client used to fetch it.
type Feed struct {
	Source string
	URL    string
	Client Getter
}

// FeedBodies holds the raw documents of one fetch round.
// A nil body means the source failed or timed out.
type FeedBodies struct {
	Ban     []byte
	Ratings []byte
}

type feedResult struct {
	source string
	body   []byte
}

// Fetcher retrieves the ban and ratings feeds in parallel. Each fetch runs
// under its own timeout; one source failing never cancels the other.
type Fetcher struct {
	ban     Feed
	ratings Feed
	timeout time.Duration
	logger  *zap.Logger
	metrics *observability.Metrics
}

func NewFetcher(ban, ratings Feed, timeout time.Duration, logger *zap.Logger, metrics *observability.Metrics) *Fetcher {
	return &Fetcher{
		ban:     ban,
		ratings: ratings,
		timeout: timeout,
		logger:  logger,
		metrics: metrics,
	}
}

// FetchAll waits for both feeds to succeed or fail.
func (f *Fetcher) FetchAll(ctx context.Context) FeedBodies {
	feeds := []Feed{f.ban, f.ratings}

	var wg sync.WaitGroup
	results := make(chan feedResult, len(feeds))

	for _, feed := range feeds {
		wg.Add(1)
		go func(feed Feed) {
			defer wg.Done()
			results <- feedResult{source: feed.Source, body: f.fetchOne(ctx, feed)}
		}(feed)
	}

	wg.Wait()
	close(results)

	var bodies FeedBodies
	for r := range results {
		switch r.source {
		case f.ban.Source:
			bodies.Ban = r.body
		case f.ratings.Source:
			bodies.Ratings = r.body
		}
	}
	return bodies
}

func (f *Fetcher) fetchOne(ctx context.Context, feed Feed) []byte {
	fetchCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	start := time.Now()
	body, err := feed.Client.Get(fetchCtx, feed.URL)
	f.metrics.FeedFetchDuration.WithLabelValues(feed.Source).Observe(time.Since(start).Seconds())

	if err != nil {
		f.metrics.FeedFetches.WithLabelValues(feed.Source, "error").Inc()
		f.logger.Warn("Fire feed fetch failed",
			zap.String("source", feed.Source),
			zap.String("url", feed.URL),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return nil
	}

	f.metrics.FeedFetches.WithLabelValues(feed.Source, "success").Inc()
	f.logger.Debug("Fire feed fetched",
		zap.String("source", feed.Source),
		zap.Int("body_size", len(body)),
		zap.Duration("duration", time.Since(start)))
	return body
}
