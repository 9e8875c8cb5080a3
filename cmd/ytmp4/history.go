package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/artur/ytmp4/internal/database/models"
	"github.com/artur/ytmp4/internal/database/repository"
)

func (a *app) historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent downloads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.history(limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of downloads to show")
	return cmd
}

func (a *app) history(limit int) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	db, err := openHistory(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer db.Close()

	videoRepo := repository.NewVideoRepository(db.DB)
	statsRepo := repository.NewStatsRepository(db.DB)

	downloads, err := videoRepo.GetRecentDownloads(limit)
	if err != nil {
		return err
	}
	completed, err := videoRepo.GetTotalDownloads()
	if err != nil {
		return err
	}
	popular, err := videoRepo.GetPopularVideos(3)
	if err != nil {
		return err
	}
	counts, err := statsRepo.GetStatusCounts()
	if err != nil {
		return err
	}
	totalBytes, err := statsRepo.GetTotalBytes()
	if err != nil {
		return err
	}
	kinds, err := statsRepo.GetErrorKindCounts(3)
	if err != nil {
		return err
	}

	if len(downloads) == 0 {
		fmt.Fprintln(a.stdout, "No downloads yet.")
		return nil
	}

	writeDownloads(a.stdout, downloads)

	fmt.Fprintf(a.stdout, "\n%d completed (%s), %d failed\n",
		completed, humanize.Bytes(uint64(totalBytes)), counts.Failed)
	for _, k := range kinds {
		fmt.Fprintf(a.stdout, "  %s: %d\n", k.Kind, k.Count)
	}

	if len(popular) > 0 {
		fmt.Fprintln(a.stdout, "\nMost downloaded:")
		for _, v := range popular {
			title := v.VideoTitle
			if title == "" {
				title = v.VideoID
			}
			fmt.Fprintf(a.stdout, "  %s (%dx)\n", title, v.DownloadCount)
		}
	}
	return nil
}

func writeDownloads(w io.Writer, downloads []models.VideoDownload) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tSTATUS\tQUALITY\tSIZE\tTITLE / ERROR")
	for _, d := range downloads {
		detail := d.VideoTitle
		size := "-"
		quality := d.Quality
		if d.Status == models.StatusCompleted {
			size = humanize.Bytes(uint64(d.FileSizeBytes))
			if d.Height > 0 {
				quality = fmt.Sprintf("%dp", d.Height)
			}
		} else {
			target := d.VideoURL
			if d.VideoTitle != "" {
				target = d.VideoTitle
			}
			detail = d.ErrorKind + ": " + target
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			humanize.Time(d.ExecutedAt), d.Status, quality, size, detail)
	}
	tw.Flush()
}
