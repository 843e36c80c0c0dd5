package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neobrew-cli/neobrew/pkg/cache"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or manage the on-disk catalog response cache",
	}

	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cacheInspectCommand())

	return cmd
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), c.appCtx.CacheDir())
			return nil
		},
	}
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached catalog response",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.store.Clear(); err != nil {
				return err
			}
			printSuccess("cache cleared")
			return nil
		},
	}
}

func (c *CLI) cacheInspectCommand() *cobra.Command {
	var isCask bool

	cmd := &cobra.Command{
		Use:   "inspect <name>",
		Short: "Print the cached JSON document for a formula or cask, if any",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := cache.Formula
			if isCask {
				kind = cache.Cask
			}
			body, err := c.store.Read(kind, args[0])
			if err != nil {
				return err
			}
			printKeyValue("digest", cache.Hash(body))
			var pretty map[string]any
			if err := json.Unmarshal(body, &pretty); err != nil {
				fmt.Println(string(body))
				return nil
			}
			out, err := json.MarshalIndent(pretty, "", "  ")
			if err != nil {
				fmt.Println(string(body))
				return nil
			}
			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().BoolVar(&isCask, "cask", false, "inspect the cask cache instead of the formula cache")

	return cmd
}
