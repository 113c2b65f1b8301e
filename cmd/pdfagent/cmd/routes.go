package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Eventual-Inc/pdfagent/pkg/app"
)

func init() {
	rootCmd.AddCommand(routesCmd)
}

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Lists the routes served by the function",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := bootstrap(context.Background(), cfg, logger)
		if err != nil {
			return err
		}
		defer svc.Close()
		fmt.Fprint(cmd.OutOrStdout(), routesTable(svc.app.Routes()))
		return nil
	},
}

func routesTable(routes []app.Route) string {
	rows := make([][]string, 0, len(routes))
	for _, r := range routes {
		method := r.Method
		if method == "" {
			method = "ANY"
		}
		rows = append(rows, []string{method, r.Path, strconv.FormatBool(r.Auth), r.Description})
	}
	return renderTable([]string{"METHOD", "PATH", "AUTH", "DESCRIPTION"}, rows)
}
