package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flowviz-labs/flowviz/internal/auth"
	cfgpkg "github.com/flowviz-labs/flowviz/internal/config"
)

var userPassword string

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage dashboard users",
}

var userAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Add or update a dashboard user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if userPassword == "" {
			return fmt.Errorf("--password is required")
		}
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		hash, err := auth.HashPassword(userPassword)
		if err != nil {
			return err
		}
		if cfg.Users == nil {
			cfg.Users = make(map[string]string)
		}
		cfg.Users[name] = hash
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Printf("✓ Saved user %s\n", name)
		return nil
	},
}

var userRemoveCmd = &cobra.Command{
	Use:   "remove <username>",
	Short: "Remove a dashboard user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		if _, ok := cfg.Users[name]; !ok {
			return fmt.Errorf("unknown user: %s", name)
		}
		delete(cfg.Users, name)
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Printf("✓ Removed user %s\n", name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userRemoveCmd)
	userAddCmd.Flags().StringVar(&userPassword, "password", "", "password to hash and store")
}
