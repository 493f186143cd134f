// Command callemail drives a call/email record against a running intake
// backend from the terminal.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/freedom_case_2/callemail/internal/api"
	"github.com/freedom_case_2/callemail/internal/callemail"
	"github.com/freedom_case_2/callemail/internal/config"
	"github.com/freedom_case_2/callemail/internal/formvalues"
	"github.com/freedom_case_2/callemail/internal/geocode"
	"github.com/freedom_case_2/callemail/internal/notify"
)

var (
	baseURL string
	apiPath string
	apiKey  string
	userID  int64
	verbose bool
	timeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:           "callemail",
	Short:         "Work with call/email incident records",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	f := rootCmd.PersistentFlags()
	f.StringVar(&baseURL, "url", cfg.APIBaseURL, "intake backend base URL")
	f.StringVar(&apiPath, "path", cfg.APIPath, "call_email collection path")
	f.StringVar(&apiKey, "api-key", cfg.APIKey, "key sent as X-Api-Key")
	f.Int64Var(&userID, "user", cfg.UserID, "operator id sent as X-User-Id")
	f.BoolVarP(&verbose, "verbose", "v", false, "log API calls")
	f.DurationVar(&timeout, "timeout", cfg.RequestTimeout, "per-command timeout")

	geocoderURL = cfg.GeocoderURL
	geocoderUserAgent = cfg.GeocoderUserAgent
	geocoderCountries = cfg.GeocoderCountries

	rootCmd.AddCommand(showCmd, createCmd, saveCmd, duplicateCmd, personCmd, geocodeCmd, lookupsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

var (
	geocoderURL       string
	geocoderUserAgent string
	geocoderCountries string
)

// printNavigator reports where the operator would be taken next.
type printNavigator struct{}

func (printNavigator) Redirect(url string) {
	fmt.Fprintln(os.Stdout, "open:", url)
}

func newStore() *callemail.Store {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	client := api.NewClient(baseURL, logger)
	if apiPath != "" {
		client.BasePath = apiPath
	}
	client.APIKey = apiKey
	client.UserID = userID
	return callemail.New(callemail.Options{
		API:       client,
		Forms:     formvalues.New(),
		Notifier:  notify.WriterNotifier{W: os.Stdout},
		Navigator: printNavigator{},
		Geocoder: &geocode.NominatimGeocoder{
			BaseURL:      geocoderURL,
			UserAgent:    geocoderUserAgent,
			CountryCodes: geocoderCountries,
		},
		Logger:   logger,
		BasePath: apiPath,
	})
}
