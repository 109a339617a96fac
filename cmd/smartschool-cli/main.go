package main

import (
	"context"
	"smartschool-api/cmd/smartschool-cli/commands"
	"smartschool-api/lib/telemetry"
)

func main() {
	telemetry.InitSlog(false)
	telemetry.SetupFromEnv(context.Background(), "smartschool-cli")
	commands.ExecuteContext(context.Background())
}
