package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/fitch/internal/store"
)

var dbPath string

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Keep submitted proof documents in a local database",
}

var storePutCmd = &cobra.Command{
	Use:   "put <name> <file>",
	Short: "Submit a proof document under a name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}
		return withStore(func(ctx context.Context, s *store.Store) error {
			sub, err := s.Put(ctx, args[0], string(body))
			if err != nil {
				return err
			}
			logger.Debug("stored submission", zap.String("id", sub.ID), zap.String("name", sub.Name))
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", sub.ID, integrity(sub.Verified))
			return nil
		})
	},
}

var storeGetOutput string

var storeGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Print the latest document submitted under a name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(ctx context.Context, s *store.Store) error {
			sub, err := s.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if storeGetOutput != "" {
				return os.WriteFile(storeGetOutput, []byte(sub.Body), 0o644)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), sub.Body)
			return err
		})
	},
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every submission, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(ctx context.Context, s *store.Store) error {
			subs, err := s.List(ctx)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tAUTHORS\tINTEGRITY\tSUBMITTED\tID")
			for _, sub := range subs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					sub.Name, strings.Join(sub.Authors, ", "), integrity(sub.Verified),
					sub.CreatedAt.Local().Format(time.DateTime), sub.ID)
			}
			return tw.Flush()
		})
	},
}

func init() {
	storeCmd.PersistentFlags().StringVar(&dbPath, "db", "fitch.db", "Submission database path")
	storeGetCmd.Flags().StringVarP(&storeGetOutput, "output", "o", "", "Write the document to this file")

	storeCmd.AddCommand(storePutCmd)
	storeCmd.AddCommand(storeGetCmd)
	storeCmd.AddCommand(storeListCmd)
}

func withStore(fn func(context.Context, *store.Store) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(ctx, s)
}

func integrity(verified bool) string {
	if verified {
		return "verified"
	}
	return "unverified"
}
