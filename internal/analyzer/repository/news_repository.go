package repository

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"golang-stock-analyst/internal/analyzer/config"
	"golang-stock-analyst/internal/entity"
	"golang-stock-analyst/pkg/logger"

	"github.com/mmcdole/gofeed"
)

const defaultPublisher = "Yahoo Finance"

type NewsRepository interface {
	GetNews(ctx context.Context, symbol string) ([]entity.NewsItem, error)
}

type newsRepository struct {
	cfg     *config.Config
	log     *logger.Logger
	fetcher *httpFetcher
}

// NewNewsRepository reads the Yahoo Finance headline RSS feed of a symbol.
func NewNewsRepository(cfg *config.Config, log *logger.Logger) NewsRepository {
	return &newsRepository{
		cfg:     cfg,
		log:     log,
		fetcher: newHTTPFetcher("yahoo_news", cfg.YahooFinance, log),
	}
}

// GetNews returns the headlines newest first. Items without a title are skipped.
func (r *newsRepository) GetNews(ctx context.Context, symbol string) ([]entity.NewsItem, error) {
	endpoint := fmt.Sprintf("%s?s=%s&region=US&lang=en-US", r.cfg.YahooFinance.NewsBaseURL, url.QueryEscape(symbol))
	r.log.DebugContext(ctx, "Processing RSS feed", logger.StringField("url", endpoint))

	body, err := r.fetcher.get(ctx, endpoint, "application/rss+xml, application/xml, text/xml")
	if err != nil {
		return nil, fmt.Errorf("failed to get news for %s: %w", symbol, err)
	}

	fp := gofeed.NewParser()
	feed, err := fp.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse news feed for %s: %w", symbol, err)
	}

	// Sort items by published date descending
	sort.SliceStable(feed.Items, func(i, j int) bool {
		if feed.Items[i].PublishedParsed == nil || feed.Items[j].PublishedParsed == nil {
			return false
		}
		return feed.Items[i].PublishedParsed.After(*feed.Items[j].PublishedParsed)
	})

	news := make([]entity.NewsItem, 0, len(feed.Items))
	for _, item := range feed.Items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}
		n := entity.NewsItem{
			Title:     title,
			Publisher: publisherOf(item),
			Link:      item.Link,
		}
		if item.PublishedParsed != nil {
			n.PublishedAt = item.PublishedParsed.UTC()
		}
		news = append(news, n)
	}

	return news, nil
}

func publisherOf(item *gofeed.Item) string {
	if len(item.Authors) > 0 && item.Authors[0] != nil && item.Authors[0].Name != "" {
		return item.Authors[0].Name
	}
	if item.DublinCoreExt != nil && len(item.DublinCoreExt.Creator) > 0 {
		return item.DublinCoreExt.Creator[0]
	}
	return defaultPublisher
}
