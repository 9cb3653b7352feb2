package main

import (
	"fmt"

	"github.com/scylladb/termtables"
	"github.com/spf13/cobra"

	"github.com/jroosing/hydrawhois/internal/database"
)

func historyEntry(opts *options) *cobra.Command {
	var (
		dbPath string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List lookups recorded by the hydrawhois service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.Open(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			lookups, err := db.ListLookups(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if opts.json {
				return writeJSON(lookups)
			}

			tbl := termtables.CreateTable()
			tbl.AddHeaders("When", "Domain", "Server", "Outcome", "Error", "ms")
			for _, l := range lookups {
				srv := l.ReferralServer
				if srv == "" {
					srv = l.RootServer
				}
				tbl.AddRow(
					l.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					l.Domain,
					srv,
					l.Outcome,
					l.ErrorKind,
					fmt.Sprintf("%d", l.DurationMs))
			}
			fmt.Println(tbl.Render())
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "hydrawhois.db", "Path to the history database")
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of lookups to show")
	return cmd
}
