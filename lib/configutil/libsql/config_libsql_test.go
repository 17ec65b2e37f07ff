package configlibsql

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const testSchema = `
CREATE TABLE IF NOT EXISTS kv (
	key TEXT NOT NULL,
	value TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS kv_key_idx ON kv(key);
`

func roundtrip(t *testing.T, cfg Struct) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	db, err := cfg.OpenDB(ctx, testSchema)
	require.NoError(t, err)
	defer db.Close()

	// applying twice must be harmless
	require.NoError(t, ApplySchema(ctx, db, testSchema))

	_, err = db.ExecContext(ctx, "INSERT INTO kv (key, value) VALUES (?, ?)", "11-12", "hello")
	require.NoError(t, err)

	var value string
	err = db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", "11-12").Scan(&value)
	require.NoError(t, err)
	require.Equal(t, "hello", value)
}

func TestOpenFile(t *testing.T) {
	roundtrip(t, Struct{File: filepath.Join(t.TempDir(), "nested", "test.db")})
}

func TestOpenMemory(t *testing.T) {
	roundtrip(t, Struct{File: ":memory:"})
}

func TestOpenRequiresTarget(t *testing.T) {
	_, err := Struct{}.OpenDB(context.Background(), testSchema)
	require.Error(t, err)
}

func TestWithEnv(t *testing.T) {
	t.Setenv("TESTDB_URL", "libsql://example.turso.io")
	t.Setenv("TESTDB_AUTH_TOKEN", "secret")

	cfg := Struct{File: "local.db", Url: "http://127.0.0.1:8080"}.WithEnv("TESTDB")
	require.Equal(t, "local.db", cfg.File)
	require.Equal(t, "libsql://example.turso.io", cfg.Url)
	require.Equal(t, "secret", cfg.AuthToken)
}

func TestOpenRemote(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping libsql server container in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "ghcr.io/tursodatabase/libsql-server:latest",
			ExposedPorts: []string{"8080/tcp"},
			WaitingFor:   wait.ForHTTP("/health").WithPort("8080/tcp").WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("could not start libsql server container: %v", err)
	}
	defer container.Terminate(ctx)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "8080/tcp")
	require.NoError(t, err)

	roundtrip(t, Struct{Url: fmt.Sprintf("http://%s:%s", host, port.Port())})
}
