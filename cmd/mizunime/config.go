package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mizunime/mizunime/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := cfgFile
		if configPath == "" {
			configPath = defaultConfigPath()
		}

		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s", configPath)
		}
		if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := config.SaveDefaultConfig(configPath); err != nil {
			return fmt.Errorf("failed to save default configuration: %w", err)
		}

		fmt.Printf("Default configuration generated successfully at: %s\n", configPath)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if used := vp.ConfigFileUsed(); used != "" {
			fmt.Printf("# %s\n", used)
		} else {
			fmt.Println("# no config file, using defaults")
		}
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(cfg)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Display configuration file path",
	Run: func(cmd *cobra.Command, args []string) {
		switch {
		case cfgFile != "":
			fmt.Println(cfgFile)
		case vp != nil && vp.ConfigFileUsed() != "":
			fmt.Println(vp.ConfigFileUsed())
		default:
			fmt.Println(defaultConfigPath())
		}
	},
}

func defaultConfigPath() string {
	return filepath.Join(config.GetConfigDir(), "config.yaml")
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
}
