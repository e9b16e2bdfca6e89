package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bhaktivani/bhaktivani/internal/catalog"
	"github.com/bhaktivani/bhaktivani/internal/entities"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and export content packs",
	}
	cmd.AddCommand(newCatalogValidateCmd(), newCatalogExportCmd())
	return cmd
}

func newCatalogValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a YAML or JSON content pack (default: the bundled catalog)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var stotras []entities.Stotra
			name := "bundled catalog"

			if len(args) == 1 {
				name = args[0]
				data, err := os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("read pack: %w", err)
				}
				pack, err := catalog.Parse(data)
				if err != nil {
					return err
				}
				stotras = pack.Stotras
			} else {
				var err error
				stotras, err = catalog.NewBundled().Stotras(cmd.Context())
				if err != nil {
					return err
				}
			}

			if err := catalog.Validate(stotras); err != nil {
				return fmt.Errorf("%s is invalid: %w", name, err)
			}

			counts := make(map[entities.ContentLanguage]int)
			for _, s := range stotras {
				counts[s.Language]++
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "%s: %d stotras OK\n", name, len(stotras))
			for _, lang := range entities.ContentLanguages {
				_, _ = fmt.Fprintf(out, "  %-10s %d\n", lang.ID, counts[lang.ID])
			}
			return nil
		},
	}
}

func newCatalogExportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the bundled catalog as a content pack to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stotras, err := catalog.NewBundled().Stotras(cmd.Context())
			if err != nil {
				return err
			}
			pack := catalog.Pack{Version: 1, Stotras: stotras}
			out := cmd.OutOrStdout()

			switch format {
			case "yaml", "yml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(pack); err != nil {
					return err
				}
				return enc.Close()
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(pack)
			default:
				return fmt.Errorf("unsupported format %q (use yaml or json)", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: yaml or json")
	return cmd
}
