package control

import (
	"context"
	"errors"
	"fmt"

	"parasite/internal/catalog"
	"parasite/internal/config"

	"github.com/spf13/cobra"
)

// NewHistoryCmd lists recently written samples from the catalog.
func NewHistoryCmd(cfgPath *string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently extracted samples",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			if !cfg.Catalog.Enabled {
				return errors.New("catalog is disabled in config")
			}
			store, err := catalog.Open(cfg.Paths.CatalogPath)
			if err != nil {
				return err
			}
			defer store.Close()
			entries, err := history(cmd.Context(), store, limit)
			if err != nil {
				return err
			}
			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				return writeJSON(cmd.OutOrStdout(), entries)
			}
			w := cmd.OutOrStdout()
			for _, h := range entries {
				fmt.Fprintf(w, "%s  %s  %.3fs  %s\n", h.CreatedAt.Format("2006-01-02 15:04:05"), h.Path, h.EndSec-h.StartSec, h.Text)
			}
			if len(entries) == 0 {
				fmt.Fprintln(w, "no samples yet")
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "max entries (0 for all)")
	cmd.Flags().Bool("json", false, "output JSON")
	return cmd
}

func history(ctx context.Context, store *catalog.Store, limit int) ([]HistoryEntry, error) {
	samples, err := store.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]HistoryEntry, 0, len(samples))
	for _, s := range samples {
		out = append(out, HistoryEntry{
			ID:          s.ID,
			Path:        s.Path,
			Text:        s.Text,
			Query:       s.Query,
			StartSec:    s.Start.Seconds(),
			EndSec:      s.End.Seconds(),
			StartOffset: s.StartOffset.Seconds(),
			EndOffset:   s.EndOffset.Seconds(),
			CreatedAt:   s.CreatedAt,
		})
	}
	return out, nil
}
