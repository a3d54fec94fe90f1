package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/spf13/cobra"

	"github.com/realmforge/rwgen/api"
	"github.com/realmforge/rwgen/internal/contents"
	"github.com/realmforge/rwgen/internal/export"
	"github.com/realmforge/rwgen/internal/structure"
	"github.com/realmforge/rwgen/internal/table"
)

var (
	configPath  string
	dataPath    string
	projectPath string
	outputPath  string
	sqliteTable string
)

func init() {
	generateCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to a run config (HCL)")
	generateCmd.Flags().StringVarP(&dataPath, "data", "d", "", "Path to the data file (csv/json/yaml/db)")
	generateCmd.Flags().StringVarP(&projectPath, "project", "p", "", "Path to the saved project file")
	generateCmd.Flags().StringVarP(&outputPath, "out", "o", "", "Path of the export document to write")
	generateCmd.Flags().StringVar(&sqliteTable, "table", "", "Table name for SQLite data sources")
	rootCmd.AddCommand(generateCmd)
}

// runConfig is the HCL shape of a saved generate run. Flags override
// whatever the file sets.
type runConfig struct {
	Data    string        `hcl:"data,optional"`
	Project string        `hcl:"project,optional"`
	Output  string        `hcl:"output,optional"`
	Table   string        `hcl:"table,optional"`
	Details *detailsBlock `hcl:"details,block"`
}

type detailsBlock struct {
	Name         string `hcl:"name,optional"`
	Version      string `hcl:"version,optional"`
	Abbrev       string `hcl:"abbrev,optional"`
	Summary      string `hcl:"summary,optional"`
	Description  string `hcl:"description,optional"`
	Requirements string `hcl:"requirements,optional"`
	Credits      string `hcl:"credits,optional"`
	Legal        string `hcl:"legal,optional"`
	Other        string `hcl:"other_notes,optional"`
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Expand a saved project against a data file into an export document",
	RunE: func(cmd *cobra.Command, args []string) error {
		var cfg runConfig
		if configPath != "" {
			if err := hclsimple.DecodeFile(configPath, nil, &cfg); err != nil {
				return fmt.Errorf("read config %s: %w", configPath, err)
			}
		}
		if dataPath == "" {
			dataPath = cfg.Data
		}
		if projectPath == "" {
			projectPath = cfg.Project
		}
		if outputPath == "" {
			outputPath = cfg.Output
		}
		if sqliteTable == "" {
			sqliteTable = cfg.Table
		}
		if dataPath == "" || projectPath == "" || outputPath == "" {
			return fmt.Errorf("generate needs --data, --project and --out (or a config providing them)")
		}

		projRaw, err := os.ReadFile(projectPath)
		if err != nil {
			return fmt.Errorf("read project %s: %w", projectPath, err)
		}
		// The project names its own structure file; load that first so
		// the topics can re-bind to it.
		tree, proj, err := loadProjectAndStructure(projRaw, projectPath)
		if err != nil {
			return err
		}

		var tbl *table.Memory
		if filepath.Ext(dataPath) == ".db" {
			if sqliteTable == "" {
				return fmt.Errorf("sqlite data source needs --table")
			}
			tbl, err = table.LoadSQLite(dataPath, sqliteTable)
		} else {
			tbl, err = table.Load(dataPath)
		}
		if err != nil {
			return err
		}

		details := proj.Details
		if cfg.Details != nil {
			details = api.Details{
				Name:         cfg.Details.Name,
				Version:      cfg.Details.Version,
				Abbrev:       cfg.Details.Abbrev,
				Summary:      cfg.Details.Summary,
				Description:  cfg.Details.Description,
				Requirements: cfg.Details.Requirements,
				Credits:      cfg.Details.Credits,
				Legal:        cfg.Details.Legal,
				Other:        cfg.Details.Other,
			}
		}

		// Assets resolve relative to the data file's directory.
		assets := export.NewAssetResolver(osfs.New(filepath.Dir(dataPath)))
		ctx := export.NewContext(tree.Domains, assets)
		ctx.Progress = func(done, total int) {
			if total >= 1000 && done%500 == 0 {
				log.Printf("processed %d/%d rows", done, total)
			}
		}
		engine := &export.Engine{Tree: tree, Details: details, Ctx: ctx}

		// Never leave a stale document behind: remove first, and abort
		// if the old file cannot be removed.
		if err := os.Remove(outputPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove old output %s: %w", outputPath, err)
		}
		out, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("create output %s: %w", outputPath, err)
		}
		genErr := engine.Generate(out, proj.Topics, tbl)
		if closeErr := out.Close(); genErr == nil {
			genErr = closeErr
		}
		if genErr != nil {
			_ = os.Remove(outputPath) // a partial document is worse than none
			return genErr
		}

		for _, w := range ctx.Warnings() {
			log.Printf("warning: %s", w)
		}
		fmt.Printf("Wrote %s (%d rows, %d warnings)\n", outputPath, tbl.RowCount(), len(ctx.Warnings()))
		return nil
	},
}

func loadProjectAndStructure(projRaw []byte, projectPath string) (*structure.Tree, *contents.Project, error) {
	structPath, err := contents.PeekStructurePath(projRaw)
	if err != nil {
		return nil, nil, fmt.Errorf("read project %s: %w", projectPath, err)
	}
	f, err := os.Open(structPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open structure %s: %w", structPath, err)
	}
	defer func() { _ = f.Close() }() // safe to ignore

	tree, err := structure.Load(f)
	if err != nil {
		return nil, nil, err
	}
	proj, err := contents.LoadProject(projRaw, tree)
	if err != nil {
		return nil, nil, err
	}
	return tree, proj, nil
}
