package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/matthewsawatzky/whitelabel/internal/auth"
)

func buildKeyCommands(state *rootState) *cobra.Command {
	keyCmd := &cobra.Command{Use: "key", Short: "API key management"}

	addCmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Issue a new API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, err := loadConfig(state)
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			issued, err := auth.NewKey()
			if err != nil {
				return err
			}
			if err := store.CreateAPIKey(issued.ID, args[0], issued.Hash); err != nil {
				return err
			}
			_ = store.RecordAudit("cli", "key.add", issued.ID, "")
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "created key %s (%s)\n", issued.ID, args[0])
			fmt.Fprintf(w, "token: %s\n", issued.Token)
			fmt.Fprintln(w, "The token is shown once; send it as the X-API-Key header.")
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List API keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, err := loadConfig(state)
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			keys, err := store.ListAPIKeys()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tCREATED\tLAST USED")
			for _, k := range keys {
				status := "active"
				if k.Revoked {
					status = "revoked"
				}
				last := "never"
				if k.LastUsedAt != nil {
					last = k.LastUsedAt.Local().Format(time.DateTime)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", k.ID, k.Name, status, k.CreatedAt.Local().Format(time.DateTime), last)
			}
			return tw.Flush()
		},
	}

	revokeCmd := &cobra.Command{
		Use:   "revoke <id>",
		Short: "Revoke an API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, err := loadConfig(state)
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.RevokeAPIKey(args[0]); err != nil {
				return err
			}
			_ = store.RecordAudit("cli", "key.revoke", args[0], "")
			fmt.Fprintf(cmd.OutOrStdout(), "revoked key %s\n", args[0])
			return nil
		},
	}

	keyCmd.AddCommand(addCmd, listCmd, revokeCmd)
	return keyCmd
}

func buildHistoryCommand(state *rootState) *cobra.Command {
	var (
		brand string
		limit int
		audit bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent generations and publishes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, err := loadConfig(state)
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			if audit {
				logs, err := store.ListAudit(limit)
				if err != nil {
					return err
				}
				fmt.Fprintln(tw, "WHEN\tACTOR\tACTION\tTARGET")
				for _, l := range logs {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", l.CreatedAt.Local().Format(time.DateTime), l.Actor, l.Action, l.Target)
				}
				return tw.Flush()
			}

			runs, err := store.ListRuns(brand, limit)
			if err != nil {
				return err
			}
			fmt.Fprintln(tw, "WHEN\tKIND\tBRAND\tID\tSUMMARY")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.CreatedAt.Local().Format(time.DateTime), r.Kind, r.Brand, r.ID, r.Summary)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&brand, "brand", "", "only show runs for this white label")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of entries")
	cmd.Flags().BoolVar(&audit, "audit", false, "show the audit log instead of runs")
	return cmd
}
