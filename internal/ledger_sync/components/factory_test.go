package components

import (
	"log/slog"
	"testing"

	"github.com/pettycash-ledger/internal/config"
	"github.com/pettycash-ledger/internal/ledger_sync/service"
	"github.com/pettycash-ledger/internal/platform/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProcessingService(t *testing.T) {
	cfg := &config.Config{WorkerPool: config.WorkerPoolConfig{Size: 5}}

	processingService := CreateProcessingService(
		&persistence.PostgresDB{},
		&MockWalletRepo{},
		&MockOutboxRepo{},
		&MockLedgerRepo{},
		nil,
		slog.Default(),
		cfg,
	)

	wp, ok := processingService.(*service.WorkerPoolProcessingService)
	require.True(t, ok)
	defer wp.Shutdown()
	assert.Equal(t, 5, wp.Capacity())
}
