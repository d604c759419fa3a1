package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang-stock-analyst/internal/analyzer/config"
	"golang-stock-analyst/internal/entity"
	"golang-stock-analyst/pkg/logger"
	"golang-stock-analyst/pkg/metrics"

	"github.com/patrickmn/go-cache"
)

// SnapshotRepository assembles the complete, read-only market data snapshot of a symbol.
type SnapshotRepository interface {
	Get(ctx context.Context, symbol string) (*entity.Snapshot, error)
}

type snapshotRepository struct {
	log     *logger.Logger
	yahoo   YahooFinanceRepository
	news    NewsRepository
	holders HoldersRepository
	cache   *cache.Cache
	now     func() time.Time
}

// NewSnapshotRepository creates a SnapshotRepository that caches snapshots for cfg.YahooFinance.CacheDuration.
func NewSnapshotRepository(cfg *config.Config, log *logger.Logger, yahoo YahooFinanceRepository, news NewsRepository, holders HoldersRepository) SnapshotRepository {
	ttl := cfg.YahooFinance.CacheDuration
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &snapshotRepository{
		log:     log,
		yahoo:   yahoo,
		news:    news,
		holders: holders,
		cache:   cache.New(ttl, 2*ttl),
		now:     time.Now,
	}
}

// NormalizeSymbol trims and upper-cases a ticker.
func NormalizeSymbol(symbol string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" {
		return "", ErrInvalidSymbol
	}
	return s, nil
}

// Get returns the cached snapshot or fetches all feeds concurrently.
// Fundamentals and price history are required; news and holders degrade to empty.
func (r *snapshotRepository) Get(ctx context.Context, symbol string) (*entity.Snapshot, error) {
	symbol, err := NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}

	if cached, found := r.cache.Get(symbol); found {
		metrics.ProviderRequests.WithLabelValues("snapshot", "cache_hit").Inc()
		r.log.DebugContext(ctx, "Snapshot cache hit", logger.StringField("symbol", symbol))
		return cached.(*entity.Snapshot), nil
	}

	var (
		wg           sync.WaitGroup
		fundamentals *Fundamentals
		history      *PriceHistory
		news         []entity.NewsItem
		holders      []entity.HolderRow
		fundErr      error
		histErr      error
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		fundamentals, fundErr = r.yahoo.GetFundamentals(ctx, symbol)
	}()
	go func() {
		defer wg.Done()
		history, histErr = r.yahoo.GetPriceHistory(ctx, symbol)
	}()
	go func() {
		defer wg.Done()
		var err error
		if news, err = r.news.GetNews(ctx, symbol); err != nil {
			r.log.Warn("News unavailable, continuing without it", logger.StringField("symbol", symbol), logger.ErrorField(err))
			news = nil
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if holders, err = r.holders.GetMajorHolders(ctx, symbol); err != nil {
			r.log.Warn("Major holders unavailable, continuing without them", logger.StringField("symbol", symbol), logger.ErrorField(err))
			holders = nil
		}
	}()
	wg.Wait()

	if fundErr != nil {
		r.log.ErrorContext(ctx, "Failed to get fundamentals", logger.StringField("symbol", symbol), logger.ErrorField(fundErr))
		return nil, fundErr
	}
	if histErr != nil {
		r.log.ErrorContext(ctx, "Failed to get price history", logger.StringField("symbol", symbol), logger.ErrorField(histErr))
		return nil, histErr
	}

	snapshot := &entity.Snapshot{
		Symbol:           symbol,
		Info:             fundamentals.Info,
		History:          history.Bars,
		IncomeStatements: fundamentals.IncomeStatements,
		Dividends:        history.Dividends,
		News:             news,
		Recommendations:  fundamentals.Recommendations,
		MajorHolders:     holders,
		FetchedAt:        r.now(),
	}

	r.cache.SetDefault(symbol, snapshot)
	r.log.InfoContext(ctx, "Snapshot assembled",
		logger.StringField("symbol", symbol),
		logger.IntField("bars", len(snapshot.History)),
		logger.IntField("news", len(snapshot.News)),
		logger.IntField("holders", len(snapshot.MajorHolders)))

	return snapshot, nil
}
