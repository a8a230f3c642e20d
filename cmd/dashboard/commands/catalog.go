package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/wonny/aistocks/internal/catalog"
	"github.com/wonny/aistocks/internal/contracts"
	"github.com/wonny/aistocks/internal/selection"
)

// catalogCmd groups catalog commands
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and validate instrument catalogs",
	Long: `Subcommands:
  show      - Print the active catalog
  validate  - Validate a catalog YAML file
  export    - Write the built-in catalog as YAML

Example:
  go run ./cmd/dashboard catalog show
  go run ./cmd/dashboard catalog validate catalog.yaml
  go run ./cmd/dashboard catalog export > catalog.yaml`,
}

var (
	catalogShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Print the active catalog",
		RunE:  runCatalogShow,
	}

	catalogValidateCmd = &cobra.Command{
		Use:   "validate [path]",
		Short: "Validate a catalog YAML file",
		Args:  cobra.ExactArgs(1),
		RunE:  runCatalogValidate,
	}

	catalogExportCmd = &cobra.Command{
		Use:   "export",
		Short: "Write the built-in catalog as YAML",
		RunE:  runCatalogExport,
	}
)

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogValidateCmd)
	catalogCmd.AddCommand(catalogExportCmd)
}

func runCatalogShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	cat, err := catalog.LoadOrDefault(cfg.Data.CatalogFile)
	if err != nil {
		return err
	}
	return printCatalog(cat)
}

func runCatalogValidate(cmd *cobra.Command, args []string) error {
	cat, err := catalog.Load(args[0])
	if err != nil {
		return err
	}

	hash, err := catalog.Hash(cat)
	if err != nil {
		return err
	}

	PrintSuccess(fmt.Sprintf("%s is valid: %d instruments, %d categories (sha256 %s)",
		args[0], len(cat.Instruments), len(cat.Categories), hash[:12]))
	return nil
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	data, err := catalog.Marshal(catalog.Default())
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func printCatalog(cat *contracts.Catalog) error {
	hash, err := catalog.Hash(cat)
	if err != nil {
		return err
	}

	PrintHeader(os.Stdout, "Instrument Catalog")
	PrintKeyValue(os.Stdout, "SHA-256", hash, 8)
	fmt.Println()

	membership := make(map[string][]string)
	for _, c := range cat.Categories {
		for _, m := range c.Members {
			membership[m] = append(membership[m], c.Name)
		}
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Instrument", "Label", "Color", "Categories"})
	for _, inst := range cat.Instruments {
		t.AppendRow(table.Row{inst.Name, selection.ShortLabel(inst.Name), inst.Color, strings.Join(membership[inst.Name], ", ")})
	}
	t.Render()
	return nil
}
