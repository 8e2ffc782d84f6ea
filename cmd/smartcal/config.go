package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nhle/smartcal/internal/credential"
	"github.com/nhle/smartcal/internal/model"
)

var (
	configForce    bool
	configPassword string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and manage configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			fatal("Failed to encode config", err)
		}
		if err := enc.Close(); err != nil {
			fatal("Failed to encode config", err)
		}
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := os.Stat(configPath); err == nil && !configForce {
			fatal("Config exists", fmt.Errorf("%s already exists (use --force to overwrite)", configPath))
		}
		if err := model.SaveConfig(configPath, model.DefaultAppConfig()); err != nil {
			fatal("Failed to write config", err)
		}
		fmt.Printf("Wrote %s\n", configPath)
	},
}

var configSetPasswordCmd = &cobra.Command{
	Use:   "set-password",
	Short: "Store the HTTP basic auth password in the system keyring",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		password := configPassword
		if password == "" {
			var err error
			password, err = readPassword()
			if err != nil {
				fatal("Failed to read password", err)
			}
		}
		key := cfg.Server.BasicAuth.PasswordKey
		if err := credential.Set(key, password); err != nil {
			fatal("Failed to store password", err)
		}
		fmt.Printf("Stored password under %q.\n", key)
	},
}

func readPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("empty password")
	}
	return line, nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configInitCmd, configSetPasswordCmd)

	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing file")
	configSetPasswordCmd.Flags().StringVar(&configPassword, "password", "", "Password (read from stdin when empty)")
}
