package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meysamhadeli/codigest/code_analyzer"
	"github.com/meysamhadeli/codigest/constants/lipgloss"
)

// resetCacheCmd represents the reset-cache command
var resetCacheCmd = &cobra.Command{
	Use:   "reset-cache",
	Short: "Reset the reduced-content cache",
	Long: `The 'reset-cache' command removes every cached file reduction (signatures, structure
summaries, manifest essentials). Entries are invalidated automatically when a source file
changes; use this command after upgrading or when the cache directory grows too large.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		stats, _ := cmd.Flags().GetBool("stats")

		return handleResetCacheCommand(force, stats, cmd)
	},
}

func init() {
	// Define command-specific flags
	resetCacheCmd.Flags().BoolP("force", "f", false, "Force cache reset without confirmation")
	resetCacheCmd.Flags().BoolP("stats", "s", false, "Show cache statistics instead of resetting")

	rootCmd.AddCommand(resetCacheCmd)
}

func handleResetCacheCommand(force bool, showStats bool, cmd *cobra.Command) error {
	rootDependencies, err := handleRootCommand(cmd)
	if err != nil {
		return err
	}

	if showStats {
		cacheStats, err := rootDependencies.Analyzer.GetCacheStats()
		if errors.Is(err, code_analyzer.ErrCacheDisabled) {
			fmt.Println(lipgloss.Yellow.Render("Cache is disabled"))
			return nil
		}
		if err != nil {
			return fmt.Errorf("could not read cache statistics: %w", err)
		}

		fmt.Println(lipgloss.Info.Render("Cache Statistics:"))
		fmt.Printf("  Cache Directory: %s\n", cacheStats.CacheDir)
		fmt.Printf("  Cached Files: %d\n", cacheStats.CacheFiles)
		fmt.Printf("  Total Size: %.2f MB\n", float64(cacheStats.TotalSize)/(1024*1024))
		if !cacheStats.OldestEntry.IsZero() {
			fmt.Printf("  Oldest Entry: %s\n", cacheStats.OldestEntry.Format("2006-01-02 15:04:05"))
			fmt.Printf("  Newest Entry: %s\n", cacheStats.NewestEntry.Format("2006-01-02 15:04:05"))
		}
		return nil
	}

	// Confirm reset (if not forced)
	if !force {
		reader := bufio.NewReader(os.Stdin)
		fmt.Print("Are you sure you want to reset the cache? (y/N): ")
		response, _ := reader.ReadString('\n')
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Println(lipgloss.Yellow.Render("Cache reset cancelled."))
			return nil
		}
	}

	spinnerInstance, _ := newSpinner().Start("Resetting cache...")
	err = rootDependencies.Analyzer.ClearCache()
	_ = spinnerInstance.Stop()

	if errors.Is(err, code_analyzer.ErrCacheDisabled) {
		fmt.Println(lipgloss.Yellow.Render("Cache is disabled. No cache to reset."))
		return nil
	}
	if err != nil {
		return fmt.Errorf("error resetting cache: %w", err)
	}

	fmt.Println(lipgloss.Green.Render("✓ Cache has been successfully reset!"))
	return nil
}
