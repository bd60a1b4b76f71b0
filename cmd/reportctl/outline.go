package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/reportview/internal/doctree"
)

var outlineJSON bool

var outlineCmd = &cobra.Command{
	Use:   "outline <file>",
	Short: "Print the collapsible section outline of a report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openPage(args[0])
		if err != nil {
			return err
		}
		tree := p.Tree()
		if outlineJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(tree)
		}
		printTree(tree)
		return nil
	},
}

func init() {
	outlineCmd.Flags().BoolVar(&outlineJSON, "json", false, "emit JSON")
	rootCmd.AddCommand(outlineCmd)
}

func printTree(t *doctree.DocTree) {
	fmt.Println(t.Title)
	t.Walk(func(n *doctree.DocNode, depth int) {
		fmt.Printf("%s[%d] h%d %s", strings.Repeat("  ", depth+1), n.Index, n.Level, n.Title)
		if n.ID != "" {
			fmt.Printf(" #%s", n.ID)
		}
		fmt.Println()
	})
}
