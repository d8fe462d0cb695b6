// Package extract coordinates the extraction gateway: content-hash caching,
// the single rate-limit retry, and flattening the nested result into the
// editable record.
package extract

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/tharindu-jay/policyscan/internal/record"
)

// rateLimitBackoff is how long we wait before the single retry after the
// service signals a rate limit.
const rateLimitBackoff = 60 * time.Second

// Service wraps a DocumentExtractor with caching and retry policy.
type Service struct {
	extractor DocumentExtractor
	cache     Cache
	logger    *slog.Logger

	backoff time.Duration
	sleep   func(ctx context.Context, d time.Duration) error
}

func NewService(extractor DocumentExtractor, cache Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		extractor: extractor,
		cache:     cache,
		logger:    logger,
		backoff:   rateLimitBackoff,
		sleep:     sleepCtx,
	}
}

// Extract returns the flattened record for the given document bytes, invoking
// the external extractor at most once per distinct content. On a rate-limit
// failure it waits one backoff interval and retries exactly once; any other
// failure propagates immediately.
func (s *Service) Extract(ctx context.Context, pdf []byte) (record.FlatRecord, error) {
	digest := ContentDigest(pdf)

	if cached, ok, err := s.cache.Get(ctx, digest); err != nil {
		s.logger.Warn("extract.cache.get_error", "digest", digest, "error", err)
	} else if ok {
		s.logger.Info("extract.cache.hit", "digest", digest)
		return cached, nil
	}

	start := time.Now()
	var raw record.RawExtraction
	var err error
	for attempt := 1; attempt <= 2; attempt++ {
		raw, err = s.extractor.ExtractDocument(ctx, pdf)
		if err == nil {
			break
		}
		if attempt == 1 && IsKind(err, RateLimited) {
			s.logger.Warn("extract.rate_limited",
				"digest", digest,
				"backoff_s", s.backoff.Seconds(),
			)
			if serr := s.sleep(ctx, s.backoff); serr != nil {
				return record.FlatRecord{}, serr
			}
			continue
		}
		s.logger.Error("extract.failed",
			"digest", digest,
			"attempt", attempt,
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return record.FlatRecord{}, err
	}
	if err != nil {
		s.logger.Error("extract.failed", "digest", digest, "attempt", 2, "error", err)
		return record.FlatRecord{}, err
	}

	flat := record.Flatten(raw)
	if perr := s.cache.Put(ctx, digest, flat); perr != nil {
		s.logger.Warn("extract.cache.put_error", "digest", digest, "error", perr)
	}

	s.logger.Info("extract.ok",
		"digest", digest,
		"covers", len(flat.Covers),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return flat, nil
}

// ContentDigest is the cache key for a document: hex SHA-256 of its bytes.
func ContentDigest(pdf []byte) string {
	sum := sha256.Sum256(pdf)
	return hex.EncodeToString(sum[:])
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
