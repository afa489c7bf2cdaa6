package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/meysamhadeli/codigest/code_analyzer"
	"github.com/meysamhadeli/codigest/code_analyzer/contracts"
	"github.com/meysamhadeli/codigest/code_analyzer/models"
	"github.com/meysamhadeli/codigest/config"
	"github.com/meysamhadeli/codigest/constants/lipgloss"
	"github.com/meysamhadeli/codigest/token_management"
	contracts_token "github.com/meysamhadeli/codigest/token_management/contracts"
	"github.com/meysamhadeli/codigest/utils"
)

// RootDependencies holds everything a command needs after configuration is loaded
type RootDependencies struct {
	Cwd             string
	Config          *config.Config
	ScanConfig      models.ScanConfiguration
	Analyzer        contracts.ICodeAnalyzer
	TokenManagement contracts_token.ITokenManagement
	Logger          *pterm.Logger
}

var rootCmd = &cobra.Command{
	Use:   "codigest [path]",
	Short: "Generate a bounded-size digest of a .NET project",
	Long: `codigest walks a project directory, selects the most relevant solution, project,
source and configuration files within per-category and global caps, reduces each file
(signatures only for C#, structure only for JSON/YAML, essentials only for project files)
and prints one text artifact with a banner, the directory tree and the file sections.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion, _ := cmd.Flags().GetBool("version"); showVersion {
			fmt.Println(config.DefaultConfig.Version)
			return nil
		}

		rootDependencies, err := handleRootCommand(cmd)
		if err != nil {
			return err
		}
		return handleDigestCommand(cmd, rootDependencies, targetPath(args))
	},
}

func init() {
	config.InitFlags(rootCmd)
	rootCmd.PersistentFlags().Bool("verbose", false, "Print debug diagnostics to stderr.")
	rootCmd.Flags().StringP("output", "o", "", "Write the digest to a file instead of stdout.")
	rootCmd.Flags().Bool("pretty", false, "Syntax-highlight file sections on the terminal.")
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}
}

// handleRootCommand loads configuration and wires the dependencies shared by all subcommands
func handleRootCommand(cmd *cobra.Command) (*RootDependencies, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("unable to resolve working directory: %w", err)
	}

	logger := pterm.DefaultLogger.WithWriter(os.Stderr).WithLevel(pterm.LogLevelWarn)
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logger = logger.WithLevel(pterm.LogLevelDebug)
	}

	cfg, err := config.LoadConfigs(rootCmd, cwd)
	if err != nil {
		return nil, err
	}

	scanConfig, err := cfg.ToScanConfiguration()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger.Debug("configuration loaded", logger.Args("summary", scanConfig.Summary()))

	return &RootDependencies{
		Cwd:        cwd,
		Config:     cfg,
		ScanConfig: scanConfig,
		Analyzer: code_analyzer.NewCodeAnalyzer(cwd, code_analyzer.AnalyzerOptions{
			UseCache: cfg.EnableCache,
			CacheDir: cfg.CacheDir,
			Version:  cfg.Version,
			Logger:   logger,
		}),
		TokenManagement: token_management.NewTokenManager(cfg.TokenBudget),
		Logger:          logger,
	}, nil
}

func handleDigestCommand(cmd *cobra.Command, rootDependencies *RootDependencies, root string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	spinner, _ := newSpinner().Start("Building project digest...")

	// Scan in the background while the spinner animates
	var digest *models.Digest
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		digest, err = rootDependencies.Analyzer.GenerateDigest(groupCtx, root, rootDependencies.ScanConfig)
		return err
	})
	err := group.Wait()

	_ = spinner.Stop()
	if err != nil {
		return err
	}

	text := digest.String()
	output, _ := cmd.Flags().GetString("output")
	pretty, _ := cmd.Flags().GetBool("pretty")

	switch {
	case output != "":
		if err := os.WriteFile(output, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write digest: %w", err)
		}
		fmt.Fprintln(os.Stderr, lipgloss.Green.Render(fmt.Sprintf("✓ Digest written to %s", output)))
	case pretty:
		if err := utils.RenderDigestWithHighlight(os.Stdout, digest, rootDependencies.Config.Theme); err != nil {
			return err
		}
	default:
		fmt.Print(text)
	}

	tm := rootDependencies.TokenManagement
	tm.DisplaySummary(tm.Summarize(text, len(digest.FileData)))
	return nil
}

func newSpinner() *pterm.SpinnerPrinter {
	return pterm.DefaultSpinner.
		WithStyle(pterm.NewStyle(pterm.FgLightBlue)).
		WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").
		WithDelay(100 * time.Millisecond).
		WithRemoveWhenDone(true).
		WithWriter(os.Stderr)
}

func targetPath(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
