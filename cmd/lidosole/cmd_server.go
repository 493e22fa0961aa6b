package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lidosole/lidosole/app/routes"
	"github.com/lidosole/lidosole/internal/server"
	"github.com/lidosole/lidosole/pkg/cache"
	"github.com/lidosole/lidosole/pkg/router"
	"github.com/lidosole/lidosole/pkg/storage"
	"github.com/lidosole/lidosole/pkg/ws"
)

// lidosole serve — start the HTTP server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start()
	},
}

// lidosole route:list — print all registered named routes.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered named routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := bootDB()
		if err != nil {
			return err
		}

		r := router.New()
		err = routes.RegisterAPI(r, routes.Deps{
			DB:    db,
			Cache: cache.Nop(),
			Disk:  storage.Connect().Default(),
			Hub:   ws.NewHub(),
		})
		if err != nil {
			return err
		}

		infos := r.Routes()
		sort.Slice(infos, func(i, j int) bool { return infos[i].Path < infos[j].Path })

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "PATH\tNAME")
		fmt.Fprintln(w, "----\t----")
		for _, ri := range infos {
			fmt.Fprintf(w, "%s\t%s\n", ri.Path, ri.Name)
		}
		return w.Flush()
	},
}
