package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const schema = `
create table if not exists notes (
	id integer primary key,
	body text not null
);
`

func TestSetupService(t *testing.T) {
	res, cleanup := SetupService(t, ServiceParams{Name: "testutil", DbSchema: schema})
	defer cleanup()

	// every query must see the same in-memory database
	_, err := res.DB.Exec("insert into notes (body) values ('a'), ('b')")
	require.NoError(t, err)
	var count int
	err = res.DB.QueryRow("select count(*) from notes").Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestSetupServiceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	res, cleanup := SetupService(t, ServiceParams{Name: "testutil-file", DbSchema: schema, DbPath: path})
	_, err := res.DB.Exec("insert into notes (body) values ('a')")
	require.NoError(t, err)
	cleanup()

	// the schema is idempotent and the rows survive a reopen
	res, cleanup = SetupService(t, ServiceParams{Name: "testutil-file", DbSchema: schema, DbPath: path})
	defer cleanup()
	var count int
	err = res.DB.QueryRow("select count(*) from notes").Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestSetupServiceWithoutDb(t *testing.T) {
	res, cleanup := SetupService(t, ServiceParams{Name: "testutil-nodb"})
	defer cleanup()
	require.Nil(t, res.DB)
}
