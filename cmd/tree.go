package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// treeCmd represents the tree command
var treeCmd = &cobra.Command{
	Use:   "tree [path]",
	Short: "Print only the directory tree of a project",
	Long: `The 'tree' command prints the directory block of the digest without reading any file.
With --tree_summary_only the collapsed view is printed: chains of directories holding a
single subdirectory are joined into one line and each line carries its file count.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rootDependencies, err := handleRootCommand(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		tree, err := rootDependencies.Analyzer.RenderTree(ctx, targetPath(args), rootDependencies.ScanConfig)
		if err != nil {
			return err
		}
		fmt.Print(tree)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(treeCmd)
}
