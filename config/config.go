package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meysamhadeli/codigest/code_analyzer/models"
)

// EnvPrefix prefixes every environment variable read by the tool.
const EnvPrefix = "CODIGEST"

// Config represents the structure of the configuration file
type Config struct {
	Version     string      `mapstructure:"version"`
	Theme       string      `mapstructure:"theme"`
	EnableCache bool        `mapstructure:"enable_cache"`
	CacheDir    string      `mapstructure:"cache_dir"`
	TokenBudget int         `mapstructure:"token_budget"`
	Scan        *ScanConfig `mapstructure:"scan"`
}

// ScanConfig mirrors models.ScanConfiguration with plain, file-friendly types
type ScanConfig struct {
	AllowedExtensions       []string       `mapstructure:"allowed_extensions"`
	ExcludedDirectories     []string       `mapstructure:"excluded_directories"`
	GeneratedFileSuffixes   []string       `mapstructure:"generated_file_suffixes"`
	CategoryCaps            map[string]int `mapstructure:"category_caps"`
	MaxFiles                int            `mapstructure:"max_files"`
	MaxLinesPerFile         int            `mapstructure:"max_lines_per_file"`
	MaxBytesPerFile         int            `mapstructure:"max_bytes_per_file"`
	MaxTreeDepth            int            `mapstructure:"max_tree_depth"`
	MaxFilesPerDirectory    int            `mapstructure:"max_files_per_directory"`
	IncludeTree             bool           `mapstructure:"include_tree"`
	TreeSummaryOnly         bool           `mapstructure:"tree_summary_only"`
	StripSourceToSignatures bool           `mapstructure:"strip_source_to_signatures"`
	OnlyHighSignal          bool           `mapstructure:"only_high_signal"`
	RespectGitignore        bool           `mapstructure:"respect_gitignore"`
}

// DefaultConfig values
var DefaultConfig = Config{
	Version:     "0.4.0",
	Theme:       "dracula",
	EnableCache: true,
	TokenBudget: 0,
	Scan:        scanConfigFrom(models.DefaultScanConfiguration()),
}

// flagKeys maps persistent flag names to configuration keys.
var flagKeys = map[string]string{
	"theme":                      "theme",
	"enable_cache":               "enable_cache",
	"cache_dir":                  "cache_dir",
	"token_budget":               "token_budget",
	"extensions":                 "scan.allowed_extensions",
	"exclude":                    "scan.excluded_directories",
	"max_files":                  "scan.max_files",
	"max_lines_per_file":         "scan.max_lines_per_file",
	"max_bytes_per_file":         "scan.max_bytes_per_file",
	"max_tree_depth":             "scan.max_tree_depth",
	"max_files_per_directory":    "scan.max_files_per_directory",
	"include_tree":               "scan.include_tree",
	"tree_summary_only":          "scan.tree_summary_only",
	"strip_source_to_signatures": "scan.strip_source_to_signatures",
	"only_high_signal":           "scan.only_high_signal",
	"respect_gitignore":          "scan.respect_gitignore",
}

// cfgFile holds the path to the configuration file (set via CLI)
var cfgFile string

// LoadConfigs initializes the configuration from file, flags, and environment
// variables, and returns the final config. A missing default config file is
// not an error; an unreadable explicit one is.
func LoadConfigs(rootCmd *cobra.Command, cwd string) (*Config, error) {
	if err := loadDotEnv(filepath.Join(cwd, ".env")); err != nil {
		return nil, err
	}
	return loadConfigs(viper.New(), rootCmd, cwd, cfgFile)
}

// loadDotEnv exports the CODIGEST_* entries of a .env file. Variables already
// set in the environment win.
func loadDotEnv(path string) error {
	values, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error reading %s: %w", path, err)
	}

	for name, value := range values {
		if !strings.HasPrefix(name, EnvPrefix+"_") {
			continue
		}
		if _, set := os.LookupEnv(name); set {
			continue
		}
		if err := os.Setenv(name, value); err != nil {
			return err
		}
	}
	return nil
}

func loadConfigs(v *viper.Viper, rootCmd *cobra.Command, cwd, configFile string) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
	} else if path := findConfigFile(cwd); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	if rootCmd != nil {
		bindFlags(v, rootCmd)
	}

	var config Config
	if err := v.Unmarshal(&config, decoderOptions...); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	if config.Scan == nil {
		config.Scan = scanConfigFrom(models.DefaultScanConfiguration())
	}

	return &config, nil
}

// decoderOptions reject configuration keys that match no field.
var decoderOptions = []viper.DecoderConfigOption{
	viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)),
	func(dc *mapstructure.DecoderConfig) {
		dc.ErrorUnused = true
	},
}

// findConfigFile looks for codigest-config.{yml,yaml,json} in dir.
func findConfigFile(dir string) string {
	for _, name := range []string{"codigest-config.yml", "codigest-config.yaml", "codigest-config.json"} {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// setDefaults sets all default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("version", DefaultConfig.Version)
	v.SetDefault("theme", DefaultConfig.Theme)
	v.SetDefault("enable_cache", DefaultConfig.EnableCache)
	v.SetDefault("cache_dir", DefaultConfig.CacheDir)
	v.SetDefault("token_budget", DefaultConfig.TokenBudget)

	scan := DefaultConfig.Scan
	v.SetDefault("scan.allowed_extensions", scan.AllowedExtensions)
	v.SetDefault("scan.excluded_directories", scan.ExcludedDirectories)
	v.SetDefault("scan.generated_file_suffixes", scan.GeneratedFileSuffixes)
	v.SetDefault("scan.category_caps", scan.CategoryCaps)
	v.SetDefault("scan.max_files", scan.MaxFiles)
	v.SetDefault("scan.max_lines_per_file", scan.MaxLinesPerFile)
	v.SetDefault("scan.max_bytes_per_file", scan.MaxBytesPerFile)
	v.SetDefault("scan.max_tree_depth", scan.MaxTreeDepth)
	v.SetDefault("scan.max_files_per_directory", scan.MaxFilesPerDirectory)
	v.SetDefault("scan.include_tree", scan.IncludeTree)
	v.SetDefault("scan.tree_summary_only", scan.TreeSummaryOnly)
	v.SetDefault("scan.strip_source_to_signatures", scan.StripSourceToSignatures)
	v.SetDefault("scan.only_high_signal", scan.OnlyHighSignal)
	v.SetDefault("scan.respect_gitignore", scan.RespectGitignore)
}

// bindEnv explicitly binds the short environment variable names, e.g.
// CODIGEST_MAX_FILES for scan.max_files. The long form CODIGEST_SCAN_MAX_FILES
// is covered by AutomaticEnv.
func bindEnv(v *viper.Viper) {
	for _, key := range flagKeys {
		short := key[strings.LastIndex(key, ".")+1:]
		_ = v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(short))
	}
}

// bindFlags binds the CLI flags to configuration values.
func bindFlags(v *viper.Viper, rootCmd *cobra.Command) {
	for flag, key := range flagKeys {
		if f := rootCmd.PersistentFlags().Lookup(flag); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}
}

// InitFlags initializes the flags for the root command.
func InitFlags(rootCmd *cobra.Command) {
	// Use PersistentFlags so that these flags are available in all subcommands
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Specifies the path to a configuration file (JSON or YAML) that contains all the settings for the application.")

	rootCmd.PersistentFlags().String("theme", DefaultConfig.Theme, "Chroma style used by --pretty (e.g., 'dracula', 'monokai', 'github').")
	rootCmd.PersistentFlags().Bool("enable_cache", DefaultConfig.EnableCache, "Enable or disable caching of reduced file content.")
	rootCmd.PersistentFlags().String("cache_dir", DefaultConfig.CacheDir, "Directory for the reduced-content cache (default: user cache directory).")
	rootCmd.PersistentFlags().Int("token_budget", DefaultConfig.TokenBudget, "Warn when the digest is estimated above this many tokens (0 disables).")

	scan := DefaultConfig.Scan
	rootCmd.PersistentFlags().StringSlice("extensions", scan.AllowedExtensions, "File extensions to include.")
	rootCmd.PersistentFlags().StringSlice("exclude", scan.ExcludedDirectories, "Directory names to skip (case-insensitive).")
	rootCmd.PersistentFlags().Int("max_files", scan.MaxFiles, "Maximum number of files in the digest.")
	rootCmd.PersistentFlags().Int("max_lines_per_file", scan.MaxLinesPerFile, "Maximum number of lines per file section.")
	rootCmd.PersistentFlags().Int("max_bytes_per_file", scan.MaxBytesPerFile, "Maximum number of bytes read from each file.")
	rootCmd.PersistentFlags().Int("max_tree_depth", scan.MaxTreeDepth, "Maximum depth of the directory tree view.")
	rootCmd.PersistentFlags().Int("max_files_per_directory", scan.MaxFilesPerDirectory, "Maximum number of files listed per directory in the tree view (0 lists all).")
	rootCmd.PersistentFlags().Bool("include_tree", scan.IncludeTree, "Include the directory tree block.")
	rootCmd.PersistentFlags().Bool("tree_summary_only", scan.TreeSummaryOnly, "Render the collapsed tree summary instead of the full listing.")
	rootCmd.PersistentFlags().Bool("strip_source_to_signatures", scan.StripSourceToSignatures, "Reduce C# sources to type and member signatures.")
	rootCmd.PersistentFlags().Bool("only_high_signal", scan.OnlyHighSignal, "Rank files by signal before applying caps.")
	rootCmd.PersistentFlags().Bool("respect_gitignore", scan.RespectGitignore, "Skip paths matched by the root .gitignore.")

	// Version flag
	rootCmd.Flags().BoolP("version", "v", false, "Specifies the version of the application.")
}

// ToScanConfiguration converts the loaded values into a validated scan configuration.
func (c *Config) ToScanConfiguration() (models.ScanConfiguration, error) {
	scan := c.Scan
	if scan == nil {
		scan = DefaultConfig.Scan
	}

	cfg := models.NewScanConfiguration(scan.AllowedExtensions, scan.ExcludedDirectories, scan.GeneratedFileSuffixes)
	cfg.MaxFiles = scan.MaxFiles
	cfg.MaxLinesPerFile = scan.MaxLinesPerFile
	cfg.MaxBytesPerFile = scan.MaxBytesPerFile
	cfg.MaxTreeDepth = scan.MaxTreeDepth
	cfg.MaxFilesPerDirectory = scan.MaxFilesPerDirectory
	cfg.IncludeTree = scan.IncludeTree
	cfg.TreeSummaryOnly = scan.TreeSummaryOnly
	cfg.StripSourceToSignatures = scan.StripSourceToSignatures
	cfg.OnlyHighSignal = scan.OnlyHighSignal
	cfg.RespectGitignore = scan.RespectGitignore

	var errs []error
	for name, limit := range scan.CategoryCaps {
		category, ok := parseCategory(name)
		if !ok {
			errs = append(errs, fmt.Errorf("unknown category %q in category_caps", name))
			continue
		}
		cfg.CategoryCaps[category] = limit
	}
	if c.TokenBudget < 0 {
		errs = append(errs, fmt.Errorf("token_budget must be >= 0, got %d", c.TokenBudget))
	}
	if err := cfg.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return models.ScanConfiguration{}, err
	}

	return cfg, nil
}

func parseCategory(name string) (models.Category, bool) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	for _, category := range models.CategoryOrder {
		if string(category) == normalized {
			return category, true
		}
	}
	return "", false
}

func scanConfigFrom(cfg models.ScanConfiguration) *ScanConfig {
	caps := make(map[string]int, len(cfg.CategoryCaps))
	for category, limit := range cfg.CategoryCaps {
		caps[string(category)] = limit
	}
	return &ScanConfig{
		AllowedExtensions:       sortedKeys(cfg.AllowedExtensions),
		ExcludedDirectories:     sortedKeys(cfg.ExcludedDirectories),
		GeneratedFileSuffixes:   append([]string(nil), cfg.GeneratedFileSuffixes...),
		CategoryCaps:            caps,
		MaxFiles:                cfg.MaxFiles,
		MaxLinesPerFile:         cfg.MaxLinesPerFile,
		MaxBytesPerFile:         cfg.MaxBytesPerFile,
		MaxTreeDepth:            cfg.MaxTreeDepth,
		MaxFilesPerDirectory:    cfg.MaxFilesPerDirectory,
		IncludeTree:             cfg.IncludeTree,
		TreeSummaryOnly:         cfg.TreeSummaryOnly,
		StripSourceToSignatures: cfg.StripSourceToSignatures,
		OnlyHighSignal:          cfg.OnlyHighSignal,
		RespectGitignore:        cfg.RespectGitignore,
	}
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
