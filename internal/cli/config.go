package cli

import (
	"fmt"
	"sort"
	"strings"

	"pomo-cli/internal/store"

	"github.com/spf13/cobra"
)

type configView map[string]string

func (v configView) Text() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, v[k])
	}
	return b.String()
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read and write global settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show every setting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			v := configView{}
			for _, k := range store.ConfigKeys() {
				v[k], _ = cfg.Get(k)
			}
			return writeOut(cmd, app, out(v))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Print one setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			val, err := cfg.Get(args[0])
			if err != nil {
				return writeErr(cmd, fmt.Errorf("%w (known keys: %s)", err, strings.Join(store.ConfigKeys(), ", ")))
			}
			return writeOut(cmd, app, out(configView{args[0]: val}))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> [value]",
		Short: "Change one setting (omit the value to clear it)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			val := ""
			if len(args) == 2 {
				val = args[1]
			}
			if err := cfg.Set(args[0], val); err != nil {
				return writeErr(cmd, err)
			}
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			got, _ := cfg.Get(args[0])
			return writeOut(cmd, app, out(configView{args[0]: got}))
		},
	})

	return cmd
}
