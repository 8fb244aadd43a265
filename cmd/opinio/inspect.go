package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"opinio/internal/app"
	"opinio/internal/router"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func newViewsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "views [name]",
		Short:   "Print the views of a freshly initialized engine",
		Example: "  opinio views\n  opinio views status",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			a, err := app.New(app.Options{APIHost: cfg.APIHost, GithubClientID: cfg.GithubClientID, OAuthRedirectURL: cfg.OAuthRedirectURL})
			if err != nil {
				return err
			}
			defer a.Close()
			if len(args) == 1 {
				v, err := a.View(args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), v)
			}
			return printJSON(cmd.OutOrStdout(), a.Views().All())
		},
	}
}

func newRoutesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the route table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printRoutes(cmd.OutOrStdout(), router.Table, router.DefaultRoute)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "opinio", version)
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printRoutes(w io.Writer, routes []router.Route, def string) error {
	sorted := append([]router.Route(nil), routes...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	for _, r := range sorted {
		mark := ""
		if r.ID == def {
			mark = " (default)"
		}
		if _, err := fmt.Fprintf(w, "%-16s #%-22s %s%s\n", r.ID, r.Pattern, r.Title, mark); err != nil {
			return err
		}
	}
	return nil
}
