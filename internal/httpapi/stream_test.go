package httpapi

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/binary-boxer/internal/arena"
	"github.com/cory-johannsen/binary-boxer/internal/config"
	"github.com/cory-johannsen/binary-boxer/internal/game/dice"
	"github.com/cory-johannsen/binary-boxer/internal/game/ruleset"
)

func TestCommunityStream_SendsKeepAlive(t *testing.T) {
	logger := zaptest.NewLogger(t)
	feed := arena.NewBroadcaster(4, logger)
	svc := arena.NewService(ruleset.Default(), arena.NewMemoryStore(nil).Stores(), feed,
		dice.NewLoggedRoller(dice.NewCryptoSource(), logger), config.ArenaConfig{}, logger)
	s := NewServer(svc, feed, logger)
	s.keepAlive = 20 * time.Millisecond

	srv := httptest.NewServer(s.Routes())
	defer srv.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/community/stream", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	lines := bufio.NewScanner(resp.Body)
	require.True(t, lines.Scan())
	assert.Equal(t, ": keep-alive", lines.Text())
}
