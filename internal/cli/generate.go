package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matthewsawatzky/whitelabel/internal/config"
	"github.com/matthewsawatzky/whitelabel/internal/db"
	"github.com/matthewsawatzky/whitelabel/internal/extract"
	"github.com/matthewsawatzky/whitelabel/internal/generate"
	"github.com/matthewsawatzky/whitelabel/internal/pipeline"
	"github.com/matthewsawatzky/whitelabel/internal/util"
)

func brandOrDefault(flag string, cfg config.Config) (string, error) {
	brand := strings.TrimSpace(flag)
	if brand == "" {
		brand = strings.TrimSpace(cfg.Brand)
	}
	if brand == "" {
		return "", fmt.Errorf("no white label name: pass --brand or set \"brand\" in the config")
	}
	return brand, nil
}

// runPipeline loads the document at path and generates artifacts for brand.
func runPipeline(cfg config.Config, path, brand string) (*pipeline.Output, error) {
	doc, err := extract.Load(path)
	if err != nil {
		return nil, err
	}
	p := pipeline.New(generate.Options{NeutralColorVar: cfg.NeutralColorVar, Languages: cfg.Languages}, cliLogger(cfg))
	return p.Run(doc, brand)
}

func recordRun(cfg config.Config, brand, kind string, summary any) {
	store, err := openStore(cfg)
	if err != nil {
		cliLogger(cfg).Warn("run history unavailable", "err", err)
		return
	}
	defer store.Close()
	b, _ := json.Marshal(summary)
	if _, err := store.RecordRun(brand, kind, string(b)); err != nil {
		cliLogger(cfg).Warn("run history write failed", "err", err)
	}
	_ = store.RecordAudit("cli", "cli."+kind, brand, string(b))
}

func buildGenerateCommand(state *rootState) *cobra.Command {
	var (
		brand  string
		outDir string
	)
	cmd := &cobra.Command{
		Use:   "generate <document>",
		Short: "Generate theme sources and app config from an exported design document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, err := loadConfig(state)
			if err != nil {
				return err
			}
			name, err := brandOrDefault(brand, cfg)
			if err != nil {
				return err
			}
			out, err := runPipeline(cfg, args[0], name)
			if err != nil {
				return err
			}

			files := out.Artifacts.Files(name)
			files = append(files, generate.File{Path: generate.AppConfigPath(name), Content: []byte(out.Artifacts.AppConfig)})
			w := cmd.OutOrStdout()
			for _, f := range files {
				written, err := util.WriteFileUnder(outDir, f.Path, f.Content)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "wrote %s\n", written)
			}
			s := out.Summary()
			fmt.Fprintf(w, "%d colors applied, %d skipped, %d color entries\n", s.Applied, s.Skipped, s.Colors)
			recordRun(cfg, name, db.RunGenerate, s)
			return nil
		},
	}
	cmd.Flags().StringVar(&brand, "brand", "", "white label name (default from config)")
	cmd.Flags().StringVar(&outDir, "out", ".", "directory the generated files are written under")
	return cmd
}

func buildPreviewCommand(state *rootState) *cobra.Command {
	var brand string
	cmd := &cobra.Command{
		Use:   "preview <document>",
		Short: "Show the theme extracted from a document as color swatches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, err := loadConfig(state)
			if err != nil {
				return err
			}
			name, err := brandOrDefault(brand, cfg)
			if err != nil {
				name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}
			out, err := runPipeline(cfg, args[0], name)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderPreview(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&brand, "brand", "", "white label name used for color names")
	return cmd
}
