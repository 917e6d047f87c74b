package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	tea "github.com/charmbracelet/bubbletea"

	"pummel/internal/banner"
	"pummel/internal/cli"
	"pummel/internal/mock"
	"pummel/internal/runner"
	"pummel/internal/storage"
	"pummel/internal/tui/app"
)

var (
	cfgFile string

	// CLI flags
	targetURL   string
	mode        string
	method      string
	payload     string
	authToken   string
	requests    int
	concurrency int
	delayMs     int
	timeout     int
	headers     []string
	outPrefix   string
	noHistory   bool
)

var rootCmd = &cobra.Command{
	Use:   "pummel",
	Short: "Pummel - fixed-count HTTP stress tester",
	Long: `
Pummel fires a fixed number of HTTP requests at a target from a bounded
pool of concurrent workers and reports latency, status and error stats.

Two ways to use it:
1. TUI mode (default): interactive configuration and live progress
2. Headless mode: pass --url and flags, good for scripts and CI`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("url") {
			return runHeadless()
		}
		return runTUI()
	},
	SilenceUsage: true,
}

func Execute() {
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		fmt.Println(banner.GetString())
		cmd.Usage()
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(mockCmd)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pummel.yaml)")

	rootCmd.Flags().StringVarP(&targetURL, "url", "u", "", "Target URL (enables headless mode)")
	rootCmd.Flags().StringVarP(&mode, "mode", "m", "api", "Run mode: api or page")
	rootCmd.Flags().StringVarP(&method, "method", "X", "GET", "HTTP method (api mode)")
	rootCmd.Flags().StringVarP(&payload, "payload", "b", "", "JSON body for POST/PUT")
	rootCmd.Flags().StringVarP(&authToken, "token", "t", "", "Bearer token for the Authorization header")
	rootCmd.Flags().IntVarP(&requests, "requests", "n", 50, "Total number of requests (1-1000)")
	rootCmd.Flags().IntVarP(&concurrency, "concurrency", "c", 5, "Concurrent workers (1-100)")
	rootCmd.Flags().IntVarP(&delayMs, "delay", "d", 0, "Per-worker delay between requests (ms)")
	rootCmd.Flags().IntVar(&timeout, "timeout", runner.DefaultTimeoutSec, "Request timeout (s)")
	rootCmd.Flags().StringSliceVarP(&headers, "header", "H", []string{}, "Extra header (e.g. \"Key: Value\")")
	rootCmd.Flags().StringVarP(&outPrefix, "out", "o", "", "Output filename prefix for reports")
	rootCmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record the run in history")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigType("yaml")
			viper.SetConfigName(".pummel")
		}
	}
	viper.SetEnvPrefix("pummel")
	viper.AutomaticEnv()
	viper.ReadInConfig()
}

func buildConfig() runner.Config {
	cfg := runner.Config{
		URL:         targetURL,
		Mode:        runner.Mode(strings.ToLower(mode)),
		Method:      method,
		Payload:     payload,
		AuthToken:   authToken,
		Requests:    requests,
		Concurrency: concurrency,
		DelayMs:     delayMs,
		TimeoutSec:  timeout,
		OutPrefix:   outPrefix,
	}

	cfg.Headers = make(map[string]string)
	for _, h := range headers {
		parts := strings.SplitN(h, ":", 2)
		if len(parts) == 2 {
			cfg.Headers[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
		}
	}
	return cfg
}

func openHistory() *storage.Store {
	if noHistory {
		return nil
	}
	store, err := storage.OpenDefault()
	if err != nil {
		fmt.Printf("⚠️  History unavailable: %v\n", err)
		return nil
	}
	return store
}

func runHeadless() error {
	store := openHistory()
	if store != nil {
		defer store.Close()
	}
	return cli.Start(buildConfig(), store)
}

func runTUI() error {
	store := openHistory()
	if store != nil {
		defer store.Close()
	}

	defaultCfg := runner.Config{
		Mode:        runner.ModeAPI,
		URL:         viper.GetString("url"),
		Method:      "GET",
		Requests:    50,
		Concurrency: 5,
	}

	m := app.New(defaultCfg, store)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running pummel: %w", err)
	}
	return nil
}

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Run a local mock target server",
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetInt("port")
		mock.Start(mock.ServerConfig{Port: port})
		select {}
	},
}

func init() {
	mockCmd.Flags().IntP("port", "p", 8080, "Port to run the mock target on")
}
