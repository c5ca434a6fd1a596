package app

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

// TestCreateApp_GraphIsValid validates the dependency graph without
// connecting to Telegram, Postgres or Kafka.
func TestCreateApp_GraphIsValid(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123456:test-token")
	t.Setenv("OWNER_ID", "1000")
	t.Setenv("DATABASE_HOST", "localhost")
	t.Setenv("KAFKA_BROKERS", "")

	err := fx.ValidateApp(CreateApp())
	require.NoError(t, err)
}
