package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/matthewsawatzky/whitelabel/internal/config"
	"github.com/matthewsawatzky/whitelabel/internal/db"
	"github.com/matthewsawatzky/whitelabel/internal/server"
	"github.com/matthewsawatzky/whitelabel/internal/util"
)

type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

type rootState struct {
	configPath string
	dataDir    string
	logLevel   string
}

type serveFlags struct {
	port   int
	bind   string
	noQR   bool
	apiKey string
}

func NewRootCmd(v VersionInfo) *cobra.Command {
	state := &rootState{}
	serve := &serveFlags{}

	cmd := &cobra.Command{
		Use:           "whitelabel",
		Short:         "Turn design tokens into white-label themes, favicons and pull requests",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().StringVar(&state.configPath, "config", "", "config path (default: platform user config)")
	cmd.PersistentFlags().StringVar(&state.dataDir, "data-dir", "", "data directory for the SQLite store")
	cmd.PersistentFlags().StringVar(&state.logLevel, "log-level", "", "log level: debug|info|warn|error")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the favicon and theme HTTP service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, state, serve, v)
		},
	}
	serveCmd.Flags().IntVar(&serve.port, "port", 0, "server port")
	serveCmd.Flags().StringVar(&serve.bind, "bind", "", "bind address (default from config, typically 0.0.0.0)")
	serveCmd.Flags().StringVar(&serve.apiKey, "api-key", "", "static API key accepted in addition to issued keys")
	serveCmd.Flags().BoolVar(&serve.noQR, "no-qr", false, "do not print a QR code for the first URL")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print config location and effective config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, cfg, err := loadConfig(state)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", cfgPath)
			fmt.Fprintf(out, "Data dir: %s\n", cfg.DataDir)
			if cfg.APIKey != "" {
				cfg.APIKey = "********"
			}
			b, _ := json.MarshalIndent(cfg, "", "  ")
			fmt.Fprintln(out, string(b))
			return nil
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "whitelabel %s\ncommit: %s\nbuilt: %s\n", v.Version, v.Commit, v.Date)
		},
	}

	cmd.AddCommand(
		serveCmd,
		buildGenerateCommand(state),
		buildPreviewCommand(state),
		buildPublishCommand(state),
		buildKeyCommands(state),
		buildHistoryCommand(state),
		configCmd,
		versionCmd,
	)
	return cmd
}

func loadConfig(state *rootState) (string, config.Config, error) {
	cfgPath := strings.TrimSpace(state.configPath)
	if cfgPath == "" {
		p, err := config.ConfigPathFromEnv()
		if err != nil {
			return "", config.Config{}, err
		}
		cfgPath = p
	}
	cfg, err := config.LoadOrDefault(cfgPath, state.dataDir)
	if err != nil {
		return "", config.Config{}, err
	}
	if state.logLevel != "" {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(state.logLevel))
	}
	return cfgPath, cfg, nil
}

// cliLogger logs to stderr so command output on stdout stays clean.
func cliLogger(cfg config.Config) *slog.Logger {
	return server.NewLogger(os.Stderr, cfg.LogLevel)
}

func openStore(cfg config.Config) (*db.Store, error) {
	return db.Open(cfg.DataDir)
}

func runServe(cmd *cobra.Command, state *rootState, flags *serveFlags, v VersionInfo) error {
	cfgPath, cfg, err := loadConfig(state)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = flags.port
	}
	if cmd.Flags().Changed("bind") {
		cfg.Bind = flags.bind
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = flags.apiKey
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	opts := server.Options{
		DataDir:         cfg.DataDir,
		Bind:            cfg.Bind,
		Port:            cfg.Port,
		LogLevel:        cfg.LogLevel,
		APIKey:          cfg.APIKey,
		AllowedOrigins:  cfg.AllowedOrigins,
		MaxUploadSizeMB: cfg.MaxUploadSizeMB,
		NeutralColorVar: cfg.NeutralColorVar,
		Languages:       cfg.Languages,
		Version:         v.Version,
	}

	out := cmd.OutOrStdout()
	urls := util.DiscoverURLs(opts.Bind, opts.Port)
	fmt.Fprintf(out, "Config:  %s\n", cfgPath)
	fmt.Fprintf(out, "Data:    %s\n", cfg.DataDir)
	fmt.Fprintf(out, "Origins: %s\n", strings.Join(cfg.AllowedOrigins, ", "))
	if cfg.APIKey == "" {
		fmt.Fprintln(out, "API key: none configured (issue one with `whitelabel key add`)")
	} else {
		fmt.Fprintln(out, "API key: set")
	}
	fmt.Fprintln(out, "URLs:")
	for _, u := range urls {
		fmt.Fprintf(out, "  - %s\n", u)
		fmt.Fprintf(out, "    health: %shealth\n", u)
	}
	if len(urls) > 0 && !flags.noQR {
		fmt.Fprintln(out, "QR (scan from a device on the same LAN):")
		_ = util.PrintTerminalQR(out, urls[len(urls)-1])
	}
	fmt.Fprintln(out, "Press Ctrl+C to stop.")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return server.Run(ctx, opts)
}

func promptLine(in io.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprintf(out, "%s: ", label)
	text, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && text == "" {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func promptPassword(in io.Reader, out io.Writer, prompt string) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprintf(out, "%s: ", prompt)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		return string(b), err
	}
	return promptLine(in, out, prompt)
}
