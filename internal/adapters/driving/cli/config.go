package cli

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pemre/couchspinner/internal/core/domain"
	"github.com/pemre/couchspinner/internal/core/services"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change couchspinner settings.

Settings are read from config.toml in the config directory, then overridden
by COUCHSPINNER_* environment variables and command line flags.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective settings",
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if configStore == nil {
			return errors.New("config store not initialised")
		}
		fmt.Fprintln(cmd.OutOrStdout(), configStore.Path())
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting in config.toml",
	Long: `Change a setting in config.toml.

Keys:
  ` + strings.Join(services.SettingKeys, "\n  "),
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not initialised")
	}

	cmd.Println("Effective Settings")
	cmd.Println("==================")
	cmd.Printf("  Config file: %s\n", configStore.Path())
	cmd.Println()

	cmd.Println("[General]")
	cmd.Printf("  %s = %t\n", services.KeyVerbose, settings.Verbose)
	cmd.Println()

	cmd.Println("[Cache]")
	cmd.Printf("  %s = %s\n", services.KeyCacheBackend, settings.Cache.Backend)
	cmd.Printf("  %s = %q\n", services.KeyCacheNamespace, settings.Cache.Namespace)
	cmd.Printf("  %s = %q\n", services.KeyCacheSession, settings.Cache.Session)
	cmd.Printf("  %s = %q\n", services.KeyCacheDir, settings.Cache.Dir)
	cmd.Printf("  %s = %d\n", services.KeyCacheQuotaBytes, settings.Cache.QuotaBytes)
	cmd.Println()

	cmd.Println("[Archive]")
	cmd.Printf("  %s = %d\n", services.KeyArchiveMaxEntry, settings.Archive.MaxEntryBytes)
	cmd.Printf("  %s = %d\n", services.KeyArchiveDecodeJobs, settings.Archive.DecodeConcurrency)
	cmd.Println()

	cmd.Println("[Identity]")
	cmd.Printf("  %s = %d\n", services.KeyIdentityMemoSize, settings.Identity.MemoSize)
	cmd.Println()

	cmd.Println("[Watch]")
	cmd.Printf("  %s = %s\n", services.KeyWatchMinInterval, settings.Watch.MinInterval)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not initialised")
	}

	key, raw := args[0], args[1]
	if !slices.Contains(services.SettingKeys, key) {
		return fmt.Errorf("%w: unknown key %q", domain.ErrInvalidInput, key)
	}

	var value any = raw
	if !slices.Contains(stringKeys, key) {
		value = parseConfigValue(raw)
	}
	if err := validateConfigValue(key, value); err != nil {
		return err
	}
	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}

	cmd.Printf("%s = %v\n", key, value)
	return nil
}

// stringKeys are stored verbatim, even when the value looks like a number.
var stringKeys = []string{services.KeyCacheNamespace, services.KeyCacheSession, services.KeyCacheDir}

// parseConfigValue keeps integers and booleans typed in config.toml.
func parseConfigValue(raw string) any {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}

// validateConfigValue rejects values LoadSettings would ignore.
func validateConfigValue(key string, value any) error {
	invalid := fmt.Errorf("%w: %s cannot be %v", domain.ErrInvalidInput, key, value)

	switch key {
	case services.KeyVerbose:
		if _, ok := value.(bool); !ok {
			return invalid
		}
	case services.KeyCacheBackend:
		if s, ok := value.(string); !ok || !domain.CacheBackend(s).IsValid() {
			return invalid
		}
	case services.KeyCacheNamespace, services.KeyCacheSession, services.KeyCacheDir:
		if _, ok := value.(string); !ok {
			return invalid
		}
	case services.KeyCacheQuotaBytes, services.KeyArchiveMaxEntry:
		if n, ok := value.(int64); !ok || n < 0 {
			return invalid
		}
	case services.KeyArchiveDecodeJobs, services.KeyIdentityMemoSize:
		if n, ok := value.(int64); !ok || n <= 0 {
			return invalid
		}
	case services.KeyWatchMinInterval:
		switch v := value.(type) {
		case int64:
			if v < 0 {
				return invalid
			}
		case string:
			if d, err := time.ParseDuration(v); err != nil || d < 0 {
				return invalid
			}
		default:
			return invalid
		}
	}
	return nil
}
