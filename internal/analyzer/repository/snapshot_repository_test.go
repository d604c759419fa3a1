package repository

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"golang-stock-analyst/internal/entity"
	"golang-stock-analyst/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeYahoo struct {
	calls   atomic.Int32
	fundErr error
	histErr error
}

func (f *fakeYahoo) GetFundamentals(_ context.Context, symbol string) (*Fundamentals, error) {
	f.calls.Add(1)
	if f.fundErr != nil {
		return nil, f.fundErr
	}
	return &Fundamentals{Info: entity.Info{LongName: symbol + " Inc."}}, nil
}

func (f *fakeYahoo) GetPriceHistory(context.Context, string) (*PriceHistory, error) {
	if f.histErr != nil {
		return nil, f.histErr
	}
	return &PriceHistory{
		Bars:      []entity.PriceBar{{Close: 10}, {Close: 11}},
		Dividends: []entity.DividendPayment{{Amount: 0.1}},
	}, nil
}

type fakeNews struct{ err error }

func (f fakeNews) GetNews(context.Context, string) ([]entity.NewsItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []entity.NewsItem{{Title: "Acme opens new plant"}}, nil
}

type fakeHolders struct{ err error }

func (f fakeHolders) GetMajorHolders(context.Context, string) ([]entity.HolderRow, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []entity.HolderRow{{Value: "1%"}, {Value: "70%"}}, nil
}

func TestNormalizeSymbol(t *testing.T) {
	s, err := NormalizeSymbol("  aapl ")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", s)

	_, err = NormalizeSymbol("   ")
	assert.ErrorIs(t, err, ErrInvalidSymbol)
}

func TestSnapshotRepository_AssemblesAndCaches(t *testing.T) {
	yahoo := &fakeYahoo{}
	repo := NewSnapshotRepository(testConfig("http://unused"), logger.NewNop(), yahoo, fakeNews{}, fakeHolders{})

	first, err := repo.Get(context.Background(), "acme")
	require.NoError(t, err)

	assert.Equal(t, "ACME", first.Symbol)
	assert.Equal(t, "ACME Inc.", first.CompanyName())
	assert.Equal(t, []float64{10, 11}, first.Closes())
	assert.Len(t, first.Dividends, 1)
	assert.Len(t, first.News, 1)
	assert.Len(t, first.MajorHolders, 2)
	assert.False(t, first.FetchedAt.IsZero())

	second, err := repo.Get(context.Background(), "ACME ")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, int32(1), yahoo.calls.Load())
}

func TestSnapshotRepository_SecondaryFeedsDegrade(t *testing.T) {
	repo := NewSnapshotRepository(testConfig("http://unused"), logger.NewNop(),
		&fakeYahoo{}, fakeNews{err: errors.New("feed down")}, fakeHolders{err: ErrProviderUnavailable})

	snapshot, err := repo.Get(context.Background(), "ACME")
	require.NoError(t, err)

	assert.Empty(t, snapshot.News)
	assert.Empty(t, snapshot.MajorHolders)
	assert.Len(t, snapshot.History, 2)
}

func TestSnapshotRepository_RequiredFeedsFail(t *testing.T) {
	tests := []struct {
		name  string
		yahoo *fakeYahoo
		want  error
	}{
		{"fundamentals", &fakeYahoo{fundErr: ErrSymbolNotFound}, ErrSymbolNotFound},
		{"history", &fakeYahoo{histErr: ErrProviderUnavailable}, ErrProviderUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewSnapshotRepository(testConfig("http://unused"), logger.NewNop(), tt.yahoo, fakeNews{}, fakeHolders{})
			_, err := repo.Get(context.Background(), "ACME")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSnapshotRepository_FailuresAreNotCached(t *testing.T) {
	yahoo := &fakeYahoo{fundErr: ErrProviderUnavailable}
	repo := NewSnapshotRepository(testConfig("http://unused"), logger.NewNop(), yahoo, fakeNews{}, fakeHolders{})

	_, err := repo.Get(context.Background(), "ACME")
	require.Error(t, err)

	yahoo.fundErr = nil
	_, err = repo.Get(context.Background(), "ACME")
	require.NoError(t, err)
	assert.Equal(t, int32(2), yahoo.calls.Load())
}

func TestSnapshotRepository_CacheExpires(t *testing.T) {
	cfg := testConfig("http://unused")
	cfg.YahooFinance.CacheDuration = 20 * time.Millisecond
	yahoo := &fakeYahoo{}
	repo := NewSnapshotRepository(cfg, logger.NewNop(), yahoo, fakeNews{}, fakeHolders{})

	_, err := repo.Get(context.Background(), "ACME")
	require.NoError(t, err)

	time.Sleep(40 * time.Millisecond)
	_, err = repo.Get(context.Background(), "ACME")
	require.NoError(t, err)
	assert.Equal(t, int32(2), yahoo.calls.Load())
}
