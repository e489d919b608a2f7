package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matthewsawatzky/whitelabel/internal/config"
	"github.com/matthewsawatzky/whitelabel/internal/db"
	"github.com/matthewsawatzky/whitelabel/internal/favicon"
	"github.com/matthewsawatzky/whitelabel/internal/publish"
)

const envAppPassword = "BITBUCKET_APP_PASSWORD"

type publishFlags struct {
	brand     string
	icon      string
	siteName  string
	workspace string
	repo      string
	trunk     string
	username  string
	password  string
	message   string
}

func buildPublishCommand(state *rootState) *cobra.Command {
	f := &publishFlags{}
	cmd := &cobra.Command{
		Use:   "publish <document>",
		Short: "Generate a white label and open a pull request with the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPublish(cmd, state, f, args[0])
		},
	}
	cmd.Flags().StringVar(&f.brand, "brand", "", "white label name (default from config)")
	cmd.Flags().StringVar(&f.icon, "icon", "", "source image for the favicon set")
	cmd.Flags().StringVar(&f.siteName, "site-name", "", "web manifest name (default: white label name)")
	cmd.Flags().StringVar(&f.workspace, "workspace", "", "Bitbucket workspace (default from config)")
	cmd.Flags().StringVar(&f.repo, "repo", "", "repository slug (default from config)")
	cmd.Flags().StringVar(&f.trunk, "trunk", "", "branch the pull request targets (default from config)")
	cmd.Flags().StringVar(&f.username, "username", "", "Bitbucket username (default from config)")
	cmd.Flags().StringVar(&f.password, "app-password", "", "Bitbucket app password (default: $"+envAppPassword+" or prompt)")
	cmd.Flags().StringVar(&f.message, "message", "", "commit message for every file (default: \"Add <path>\")")
	return cmd
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func runPublish(cmd *cobra.Command, state *rootState, f *publishFlags, docPath string) error {
	_, cfg, err := loadConfig(state)
	if err != nil {
		return err
	}
	brand, err := brandOrDefault(f.brand, cfg)
	if err != nil {
		return err
	}
	workspace := firstNonEmpty(f.workspace, cfg.Bitbucket.Workspace)
	repo := firstNonEmpty(f.repo, cfg.Bitbucket.RepoSlug)
	if workspace == "" || repo == "" {
		return fmt.Errorf("bitbucket workspace and repository are required (flags or config)")
	}
	username := firstNonEmpty(f.username, cfg.Bitbucket.Username)
	if username == "" {
		return publish.ErrMissingAuth
	}

	out, err := runPipeline(cfg, docPath, brand)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var icons *favicon.Set
	if f.icon != "" {
		icons, err = generateIcons(ctx, cfg, f.icon, firstNonEmpty(f.siteName, brand))
		if err != nil {
			return err
		}
	}

	password := firstNonEmpty(f.password, os.Getenv(envAppPassword))
	if password == "" {
		password, err = promptPassword(cmd.InOrStdin(), cmd.ErrOrStderr(), "Bitbucket app password for "+username)
		if err != nil {
			return err
		}
	}

	pr := publish.WhiteLabelRequest(repo, brand, out.Artifacts, icons, username)
	pr.CommitMessage = f.message

	w := cmd.OutOrStdout()
	client := publish.NewClient(workspace, cliLogger(cfg))
	client.BaseURL = firstNonEmpty(cfg.Bitbucket.BaseURL, publish.DefaultBaseURL)
	client.Trunk = firstNonEmpty(f.trunk, cfg.Bitbucket.Trunk, publish.DefaultTrunk)
	client.Progress = func(msg string) { fmt.Fprintln(w, msg) }

	res, err := client.Publish(ctx, pr, publish.Credentials{Username: username, Token: password})
	if err != nil {
		return err
	}
	recordRun(cfg, brand, db.RunPublish, map[string]any{
		"branch":       pr.Branch,
		"files":        len(pr.Files),
		"pull_request": res,
	})
	fmt.Fprintf(w, "Pull request #%d: %s\n", res.ID, res.URL)
	return nil
}

func generateIcons(ctx context.Context, cfg config.Config, path, siteName string) (*favicon.Set, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open icon: %w", err)
	}
	defer file.Close()
	img, _, err := favicon.Decode(file)
	if err != nil {
		return nil, err
	}
	return favicon.NewGenerator(cliLogger(cfg)).Generate(ctx, img, siteName)
}
