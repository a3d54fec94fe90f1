package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/realmforge/rwgen/internal/structure"
)

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

var categoriesCmd = &cobra.Command{
	Use:   "categories [structure.xml]",
	Short: "List the category templates a structure file defines",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open structure %s: %w", args[0], err)
		}
		defer func() { _ = f.Close() }() // safe to ignore

		tree, err := structure.Load(f)
		if err != nil {
			return err
		}
		for _, name := range tree.CategoryNames() {
			cat, _ := tree.Category(name)
			fmt.Printf("%-30s %d partitions\n", name, countKind(cat, structure.KindPartition))
		}
		return nil
	},
}

func countKind(n *structure.Node, k structure.Kind) int {
	count := 0
	for _, c := range n.Children {
		if c.Kind == k {
			count++
		}
		count += countKind(c, k)
	}
	return count
}
