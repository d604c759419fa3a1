package repository

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang-stock-analyst/internal/analyzer/config"
	"golang-stock-analyst/internal/entity"
	"golang-stock-analyst/pkg/logger"

	"github.com/PuerkitoBio/goquery"
)

const majorHoldersSelector = `section[data-testid="holders-major-holders-table"] table`

type HoldersRepository interface {
	GetMajorHolders(ctx context.Context, symbol string) ([]entity.HolderRow, error)
}

type holdersRepository struct {
	cfg     *config.Config
	log     *logger.Logger
	fetcher *httpFetcher
}

// NewHoldersRepository scrapes the major holders breakdown from the Yahoo Finance holders page.
func NewHoldersRepository(cfg *config.Config, log *logger.Logger) HoldersRepository {
	return &holdersRepository{
		cfg:     cfg,
		log:     log,
		fetcher: newHTTPFetcher("yahoo_holders", cfg.YahooFinance, log),
	}
}

// GetMajorHolders returns the rows of the breakdown table as scraped, insiders first.
func (r *holdersRepository) GetMajorHolders(ctx context.Context, symbol string) ([]entity.HolderRow, error) {
	endpoint := fmt.Sprintf("%s/%s/holders", r.cfg.YahooFinance.HoldersBaseURL, url.PathEscape(symbol))

	body, err := r.fetcher.get(ctx, endpoint, "text/html")
	if err != nil {
		return nil, fmt.Errorf("failed to get holders page for %s: %w", symbol, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse holders page for %s: %w", symbol, err)
	}

	table := doc.Find(majorHoldersSelector).First()
	if table.Length() == 0 {
		table = doc.Find("table").First()
	}

	var rows []entity.HolderRow
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 2 {
			return
		}
		rows = append(rows, entity.HolderRow{
			Value: strings.TrimSpace(cells.Eq(0).Text()),
			Label: strings.TrimSpace(cells.Eq(1).Text()),
		})
	})

	r.log.DebugContext(ctx, "Scraped major holders", logger.StringField("symbol", symbol), logger.IntField("rows", len(rows)))
	return rows, nil
}
