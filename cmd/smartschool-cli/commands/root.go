package commands

import (
	"context"
	"fmt"
	"os"
	"smartschool-api/lib/configutil"
	"smartschool-api/lib/restyutil"
	"smartschool-api/lib/scrapers/smartschool"
	"smartschool-api/lib/telemetry"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "smartschool-cli",
	Short: "smartschool-cli reads agenda data from a smartschool portal.",
}

var verbose *bool

func init() {
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging/instrumentation.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func fatal(message string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", message, err)
	os.Exit(1)
}

type Config struct {
	MainUrl  string `json:"main_url"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func resolveCredentials() smartschool.Credentials {
	cfg, err := configutil.ReadConfig[Config]("smartschool.json5")
	if err == nil {
		return smartschool.Credentials{
			Username: cfg.Username,
			Password: cfg.Password,
			MainUrl:  cfg.MainUrl,
		}
	}
	if !os.IsNotExist(err) {
		fatal("read smartschool.json5", err)
	}

	creds, err := smartschool.EnvCredentials()
	if err != nil {
		fatal("no smartschool.json5 found and env credentials incomplete", err)
	}
	return creds
}

func createAgenda(ctx context.Context) *smartschool.Agenda {
	if *verbose {
		telemetry.InitSlog(true)
	}

	creds := resolveCredentials()
	if err := creds.Validate(); err != nil {
		fatal("invalid credentials", err)
	}

	client, err := smartschool.NewClient(ctx, smartschool.ClientOptions{
		BaseUrl: creds.MainUrl,
	})
	if err != nil {
		fatal("failed to initialize smartschool client", err)
	}
	if *verbose {
		client.SetInstrumentOutput(restyutil.NewFilesystemOutput(".dev/resty/smartschool"))
	}

	err = client.LoginUsernamePassword(ctx, creds.Username, creds.Password)
	if err != nil {
		fatal("failed to login to smartschool", err)
	}

	return smartschool.NewAgenda(client, smartschool.AgendaOptions{})
}
