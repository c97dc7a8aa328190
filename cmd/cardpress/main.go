// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the cardpress CLI.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/cardpress/internal/logging"
	"github.com/pdiddy/cardpress/internal/secrets"
	"github.com/pdiddy/cardpress/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// envKeyReplacer maps nested keys to variable names: render.cadence is
// CARDPRESS_RENDER_CADENCE.
var envKeyReplacer = strings.NewReplacer(".", "_")

// cfg is the merged configuration of the running command.
var cfg types.Config

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the cardpress CLI.
var rootCmd = &cobra.Command{
	Use:   "cardpress",
	Short: "Turn menus and item lists into branded card documents",
	Long: `cardpress reads a list of item names from a Word document, a plain-text
list or a PDF menu and writes a Word document with one branded card per
item, two cards to a page.

PDF menus are read by the Claude API. Put the key in .secrets/anthropic-api-key
or ANTHROPIC_API_KEY. The serve subcommand exposes the same pipeline as an
HTTP upload endpoint.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if _, err := secrets.Export(s); err != nil {
			return err
		}

		c, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		c.AI.APIKey = secretDefault(secrets.KeyAnthropic, c.AI.APIKey)
		if c.AI.APIKey == "" {
			c.AI.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		cfg = c

		if err := logging.Setup(cfg.Log); err != nil {
			return err
		}
		logger := logging.GetLogger("cli")
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug().Str("file", used).Msg("using config file")
		}
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug().Strs("keys", keys).Msg("loaded secrets")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./cardpress.yaml or $XDG_CONFIG_HOME/cardpress/cardpress.yaml)")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.Bool("log-pretty", false, "human-readable log output")
	pf.String("log-file", "", "also write logs to this rotating file")
	pf.String("model", "", "Claude model for PDF extraction")
	pf.String("ai-mode", "document", "what PDF extraction sends: document or text")
	pf.String("converter", "native", "PDF-to-text backend for --ai-mode text: native or pdftotext")

	_ = viper.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("log.pretty", pf.Lookup("log-pretty"))
	_ = viper.BindPFlag("log.file", pf.Lookup("log-file"))
	_ = viper.BindPFlag("ai.model", pf.Lookup("model"))
	_ = viper.BindPFlag("ai.mode", pf.Lookup("ai-mode"))
	_ = viper.BindPFlag("ai.converter", pf.Lookup("converter"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("cardpress")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath(filepath.Join(xdg.ConfigHome, "cardpress"))
	}

	viper.SetEnvPrefix("CARDPRESS")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "Reading config:", err)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
