package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Eventual-Inc/pdfagent/pkg/lambdahost"
)

func init() {
	rootCmd.AddCommand(lambdaCmd)
}

var lambdaCmd = &cobra.Command{
	Use:   "lambda",
	Short: "Runs the function inside the AWS Lambda runtime",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := bootstrap(context.Background(), cfg, logger)
		if err != nil {
			return err
		}
		defer svc.Close()
		lambdahost.New(svc.adapter, svc.log.WithField("component", "lambda")).Start()
		return nil
	},
}
