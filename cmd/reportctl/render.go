package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	renderOut       string
	renderCollapsed bool
)

var renderCmd = &cobra.Command{
	Use:   "render <file>",
	Short: "Write the sectioned HTML of a report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openPage(args[0])
		if err != nil {
			return err
		}
		if renderCollapsed {
			p.Collapse.SetAll(false)
		}
		if renderOut == "" || renderOut == "-" {
			return p.Render(os.Stdout)
		}
		f, err := os.Create(renderOut)
		if err != nil {
			return err
		}
		if err := p.Render(f); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "output", "o", "", "output file (default stdout)")
	renderCmd.Flags().BoolVar(&renderCollapsed, "collapsed", false, "render with every section collapsed")
	rootCmd.AddCommand(renderCmd)
}
