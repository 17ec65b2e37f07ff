package telemetry

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetupFromEnvWithoutConfig(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { os.Chdir(wd) })
	require.NoError(t, os.Chdir(t.TempDir()))

	tel, err := SetupFromEnv(context.Background(), "test:telemetry")
	require.NoError(t, err)
	require.Nil(t, tel.TracerProvider)
	require.NoError(t, tel.Shutdown(context.Background()))
}
