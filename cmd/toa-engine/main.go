// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the toa-engine CLI.
package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/toa-engine/internal/convert"
	"github.com/pdiddy/toa-engine/internal/secrets"
	"github.com/pdiddy/toa-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets secrets.Secrets

var rootCmd = &cobra.Command{
	Use:   "toa-engine",
	Short: "Find legal citations and build Tables of Authorities",
	Long: `toa-engine scans legal briefs for citations to cases, statutes,
constitutional provisions, rules, regulations, treatises and other
authorities, and builds the Table of Authorities for the document.

Documents are text files, PDFs (converted with pdftotext) or URLs. Pages
are taken from form feeds or <!-- page N --> markers when present.
Scans can be saved to a local history database, searched, and rendered
again later with per-citation inclusion toggles.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		for _, name := range s.Unread {
			logrus.Warnf("could not read secret %s", name)
		}
		if len(s.Values) > 0 {
			logrus.Debugf("loaded %d secret(s)", len(s.Values))
		}
		return nil
	},
}

func init() {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./toa-engine.yaml or ~/.config/toa-engine/toa-engine.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().String("patterns", "", "YAML file of additional citation patterns")
	rootCmd.PersistentFlags().String("data-dir", "", "directory holding the scan history database")

	_ = viper.BindPFlag("parser.patterns_file", rootCmd.PersistentFlags().Lookup("patterns"))
	_ = viper.BindPFlag("store.data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
}

func setDefaults() {
	format := types.DefaultFormatConfig()
	viper.SetDefault("parser.include_footnotes", true)
	viper.SetDefault("parser.min_confidence", 0.0)
	viper.SetDefault("parser.patterns_file", "")

	viper.SetDefault("format.passim_threshold", format.PassimThreshold)
	viper.SetDefault("format.max_line_length", format.MaxLineLength)
	viper.SetDefault("format.use_dot_leaders", format.UseDotLeaders)
	viper.SetDefault("format.include_page_counts", format.IncludePageCounts)
	viper.SetDefault("format.only_included", format.OnlyIncluded)
	viper.SetDefault("format.as_ooxml", format.AsOOXML)

	viper.SetDefault("source.chars_per_page", 3000)
	viper.SetDefault("source.timeout", 30*time.Second)
	viper.SetDefault("source.user_agent", "toa-engine/"+version)
	viper.SetDefault("source.max_retries", 5)
	viper.SetDefault("source.pdftotext_image", convert.DefaultImage)

	viper.SetDefault("store.data_dir", "data")
	viper.SetDefault("store.max_results", 20)

	viper.SetDefault("artifact.type", string(types.ArtifactLocal))
	viper.SetDefault("artifact.local_path", filepath.Join("output", "toa"))
	viper.SetDefault("artifact.s3_bucket", "")
	viper.SetDefault("artifact.s3_region", "us-east-1")
	viper.SetDefault("artifact.aws_access_key", "")
	viper.SetDefault("artifact.aws_secret_key", "")

	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.max_body_bytes", 10<<20)
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logrus.Warnf("reading .env: %v", err)
	}

	setDefaults()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("toa-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "toa-engine"))
		}
	}

	viper.SetEnvPrefix("TOA_ENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		logrus.Infof("using config file %s", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		logrus.Warnf("reading config %s: %v", cfgFile, err)
	}
}

// loadConfig resolves flags, environment, config file and defaults into
// one Config. Secrets only fill artifact credentials left empty.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.Config{}, err
	}
	loadedSecrets.ApplyArtifact(&cfg.Artifact)
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
