package testutil

import (
	"context"
	configlibsql "dailyreading-backend/lib/configutil/libsql"
	"dailyreading-backend/lib/telemetry"
	"database/sql"
	"fmt"
	"testing"
)

type ServiceParams struct {
	Name string
	// if unspecified, it will skip setting up a db
	DbSchema string
	// if unspecified, it will use `:memory:`
	DbPath string
}

type ServiceResult struct {
	DB *sql.DB
}

func SetupService(t testing.TB, params ServiceParams) (ServiceResult, func()) {
	cleanup := telemetry.SetupForTesting(t, fmt.Sprintf("test:%s", params.Name))
	if params.DbSchema == "" {
		return ServiceResult{}, cleanup
	}

	config := configlibsql.Struct{File: ":memory:"}
	if params.DbPath != "" {
		config.File = params.DbPath
	}
	db, err := config.OpenDB(context.Background(), params.DbSchema)
	if err != nil {
		t.Fatal(err)
	}

	return ServiceResult{
			DB: db,
		}, func() {
			db.Close()
			cleanup()
		}
}
