package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mizunime/mizunime/internal/browse"
	"github.com/mizunime/mizunime/internal/catalog"
	"github.com/mizunime/mizunime/internal/tui"
)

const commandTimeout = 60 * time.Second

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse the catalog in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

func runTUI() error {
	logger.Info("mizunime starting", "version", version)
	// the terminal browser always wants fresh pages
	client := catalog.NewClient(cfg, logger, catalog.WithoutCache())
	return tui.Start(client, cfg, logger)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the catalog",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		pages, _ := cmd.Flags().GetInt("pages")

		ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
		defer cancel()

		client := catalog.NewClient(cfg, logger)
		first, err := client.Search(ctx, query, 1)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}

		acc := browse.NewAccumulator(query, first, logger)
		for acc.Page() < pages && acc.LoadMore(ctx, client) {
		}

		items := acc.Items()
		if len(items) == 0 {
			fmt.Printf("No results for %q\n", query)
			return nil
		}
		fmt.Printf("Found %d results for %q:\n\n", len(items), query)
		printItems(os.Stdout, items)
		if acc.HasMore() {
			fmt.Printf("\nMore results available, use --pages %d\n", acc.Page()+1)
		}
		return nil
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Show the weekly release schedule, starting with today",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
		defer cancel()

		loc, err := cfg.Location()
		if err != nil {
			return err
		}
		schedule, err := catalog.NewClient(cfg, logger).Schedule(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch schedule: %w", err)
		}

		groups := browse.Group(schedule, time.Now().In(loc))
		if len(groups) == 0 {
			fmt.Println("Jadwal belum tersedia.")
			return nil
		}
		for _, g := range groups {
			header := g.Day
			if g.Today {
				header += " (Hari Ini)"
			}
			fmt.Printf("%s\n%s\n", header, strings.Repeat("=", len(header)))
			printItems(os.Stdout, g.Items)
			fmt.Println()
		}
		return nil
	},
}

var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "List the latest releases",
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		if page < 1 {
			page = 1
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
		defer cancel()

		res, err := catalog.NewClient(cfg, logger).Home(ctx, page)
		if err != nil {
			return fmt.Errorf("failed to fetch latest releases: %w", err)
		}

		feed := browse.NewFeedAt(page, res.Items, logger)
		fmt.Printf("Latest releases, page %d:\n\n", feed.Page())
		printItems(os.Stdout, feed.Items())
		if feed.CanNext() {
			fmt.Printf("\nNext page: mizunime home --page %d\n", feed.Page()+1)
		}
		return nil
	},
}

// printItems writes one aligned row per item with its link on the site
func printItems(w io.Writer, items []catalog.AnimeItem) {
	base := strings.TrimRight(cfg.Web.PublicURL, "/")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, item := range items {
		fmt.Fprintf(tw, "%d.\t%s\t%s\t%s\t%s\n", i+1, item.Title, item.EpisodeLabel(), item.TypeLabel(), base+item.Href())
	}
	tw.Flush()
}

func init() {
	searchCmd.Flags().IntP("pages", "n", 1, "number of result pages to load")
	homeCmd.Flags().IntP("page", "p", 1, "feed page")
}
