package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hidl/internal/driver"
	"hidl/internal/project"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the on-disk parse cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "dir",
		Short: "Print the cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := cacheFromConfig(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cache.Dir())
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every cached parse result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := cacheFromConfig(cmd)
			if err != nil {
				return err
			}
			if err := cache.DropAll(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", cache.Dir())
			return nil
		},
	})
	return cmd
}

// cacheFromConfig opens the cache named by hidl.toml, or the default one.
// Package roots are not needed here.
func cacheFromConfig(cmd *cobra.Command) (*driver.DiskCache, error) {
	configPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, err
	}
	var cfg *project.Config
	if configPath != "" {
		cfg, err = project.LoadConfig(configPath)
	} else {
		cfg, _, err = project.LoadConfigFrom(".")
	}
	if err != nil {
		return nil, err
	}
	return openDiskCache(cfg)
}
