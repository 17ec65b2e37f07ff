package main

import (
	"context"
	"dailyreading-backend/cmd/dailyreading-cli/commands"
	"dailyreading-backend/lib/telemetry"
)

func main() {
	telemetry.InitSlog(false)
	tel, _ := telemetry.SetupFromEnv(context.Background(), "dailyreading-cli")
	defer tel.Shutdown(context.Background())

	commands.ExecuteContext(context.Background())
}
