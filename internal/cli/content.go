package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/bhaktivani/bhaktivani/internal/entities"
	"github.com/bhaktivani/bhaktivani/internal/entrypoint"
	"github.com/bhaktivani/bhaktivani/internal/offline"
)

func newLanguagesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List content languages and their download state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return opts.withApp(cmd, func(ctx context.Context, app *entrypoint.App) error {
				for _, lang := range entities.ContentLanguages {
					downloaded, err := app.Manager.IsLanguageDownloaded(ctx, lang.ID)
					if err != nil {
						return err
					}
					state := "not downloaded"
					if downloaded {
						state = "downloaded"
					}
					_, _ = fmt.Fprintf(out, "%-10s %-4s %-12s %s\n", lang.ID, lang.Code, lang.NativeName, state)
				}
				return nil
			})
		},
	}
}

func newDownloadCmd(opts *rootOptions) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "download <language>",
		Short: "Download a language for offline reading",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			language, err := entities.ParseContentLanguage(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			return opts.withApp(cmd, func(ctx context.Context, app *entrypoint.App) error {
				var onProgress func(offline.Progress)
				if !quiet {
					onProgress = func(p offline.Progress) {
						_, _ = fmt.Fprintf(out, "[%d/%d] %s\n", p.Downloaded, p.Total, p.Current)
					}
				}
				if err := app.Manager.DownloadLanguage(ctx, language, onProgress); err != nil {
					return fmt.Errorf("download %s: %w", language, err)
				}

				download, err := app.Manager.DownloadProgress(ctx, language)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(out, "Downloaded %d stotras for %s\n", download.DownloadedStotras, language)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print per-item progress")
	return cmd
}

func newClearCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <language>",
		Short: "Remove the downloaded content of a language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			language, err := entities.ParseContentLanguage(args[0])
			if err != nil {
				return err
			}
			return opts.withApp(cmd, func(ctx context.Context, app *entrypoint.App) error {
				n, err := app.Manager.ClearLanguage(ctx, language)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d stotras for %s\n", n, language)
				return nil
			})
		},
	}
}

func newRefreshCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Download every already-downloaded language again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return opts.withApp(cmd, func(ctx context.Context, app *entrypoint.App) error {
				result, err := app.Manager.RefreshDownloaded(ctx)
				for _, lang := range result.Refreshed {
					_, _ = fmt.Fprintf(out, "refreshed %s\n", lang)
				}
				for lang, msg := range result.Failed {
					_, _ = fmt.Fprintf(out, "failed    %s: %s\n", lang, msg)
				}
				if len(result.Refreshed) == 0 && len(result.Failed) == 0 && err == nil {
					_, _ = fmt.Fprintln(out, "No downloaded languages")
				}
				return err
			})
		},
	}
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <language>",
		Short: "Show reading statistics for a language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			language, err := entities.ParseContentLanguage(args[0])
			if err != nil {
				return err
			}
			return opts.withApp(cmd, func(ctx context.Context, app *entrypoint.App) error {
				stats, source, err := app.Manager.LanguageStats(ctx, language)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(out, "Language:      %s (%s)\n", language, source)
				_, _ = fmt.Fprintf(out, "Stotras:       %d\n", stats.TotalStotras)
				_, _ = fmt.Fprintf(out, "Favorites:     %d\n", stats.FavoriteStotras)
				_, _ = fmt.Fprintf(out, "Completed:     %d\n", stats.CompletedStotras)
				_, _ = fmt.Fprintf(out, "Reading time:  %d min\n", stats.TotalReadingTime)
				_, _ = fmt.Fprintf(out, "Avg progress:  %.1f%%\n", stats.AverageProgress)
				return nil
			})
		},
	}
}

func newSearchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <language> <query>",
		Short: "Search stotras by title, native title or description",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			language, err := entities.ParseContentLanguage(args[0])
			if err != nil {
				return err
			}
			return opts.withApp(cmd, func(ctx context.Context, app *entrypoint.App) error {
				result, err := app.Manager.SearchStotras(ctx, language, args[1])
				if err != nil {
					return err
				}
				printStotras(cmd.OutOrStdout(), result.Stotras)
				return nil
			})
		},
	}
}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Store the bundled catalog when the cache is empty",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, app *entrypoint.App) error {
				n, err := app.Manager.SeedIfEmpty(ctx)
				if err != nil {
					return err
				}
				if n == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cache already populated")
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d stotras\n", n)
				return nil
			})
		},
	}
}

func newResetCmd(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all cached content and user state, then seed again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("reset deletes favorites and reading progress; pass --yes to confirm")
			}
			return opts.withApp(cmd, func(ctx context.Context, app *entrypoint.App) error {
				n, err := app.Manager.Reset(ctx)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Cache reset, %d stotras seeded\n", n)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the reset")
	return cmd
}

func printStotras(out io.Writer, stotras []entities.Stotra) {
	if len(stotras) == 0 {
		_, _ = fmt.Fprintln(out, "No stotras found")
		return
	}
	for _, s := range stotras {
		fav := " "
		if s.IsFavorite {
			fav = "*"
		}
		_, _ = fmt.Fprintf(out, "%s %-45s %-10s %3.0f%%  %s\n", fav, s.ID, s.Category, s.ReadingProgress, s.Title)
	}
}
