package main

import (
	"context"
	configlibsql "dailyreading-backend/lib/configutil/libsql"
	"dailyreading-backend/services/dailypassage/db"
	"fmt"
	"log/slog"
	"os"
)

const cacheDbPath = "<dev_state>/dailyreading.db"

func CreateCacheDB() error {
	database, err := configlibsql.Struct{File: cacheDbPath}.OpenDB(context.Background(), db.Schema)
	if err != nil {
		return err
	}
	fmt.Println("cache database ready at", cacheDbPath)
	return database.Close()
}

const localConfig = `{
  // local overrides of config.json5, this file is not committed
  skip_date_check: true,
  prefetch_cron: "",
}
`

func CreateLocalConfig() error {
	_, err := os.Stat("config.local.json5")
	if err == nil {
		fmt.Println("config.local.json5 already exists")
		return nil
	}
	fmt.Println("writing config.local.json5")
	return os.WriteFile("config.local.json5", []byte(localConfig), 0666)
}

func PrintConfigLocations() {
	slog.Info("the daemon reads config.json5 merged with config.local.json5, telemetry export is configured by an optional telemetry.json5 anywhere above the working directory.")
}
