package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang-stock-analyst/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const holdersPage = `<html><body>
<section data-testid="holders-major-holders-table">
  <table>
    <tbody>
      <tr><td> 0.07% </td><td>% of Shares Held by All Insider</td></tr>
      <tr><td>61.45%</td><td>% of Shares Held by Institutions</td></tr>
      <tr><td>6,542</td><td>Number of Institutions Holding Shares</td></tr>
    </tbody>
  </table>
</section>
<table><tr><td>Vanguard</td><td>1,234</td></tr></table>
</body></html>`

func TestHoldersRepository_GetMajorHolders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quote/ACME/holders", r.URL.Path)
		_, _ = w.Write([]byte(holdersPage))
	}))
	defer server.Close()

	rows, err := NewHoldersRepository(testConfig(server.URL), logger.NewNop()).GetMajorHolders(context.Background(), "ACME")
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, "0.07%", rows[0].Value)
	assert.Equal(t, "% of Shares Held by All Insider", rows[0].Label)
	assert.Equal(t, "61.45%", rows[1].Value)
}

func TestHoldersRepository_FallsBackToFirstTable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<table><tr><th>Value</th></tr><tr><td>5%</td><td>Insiders</td></tr></table>`))
	}))
	defer server.Close()

	rows, err := NewHoldersRepository(testConfig(server.URL), logger.NewNop()).GetMajorHolders(context.Background(), "ACME")
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, "5%", rows[0].Value)
}
