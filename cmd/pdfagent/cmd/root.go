package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Eventual-Inc/pdfagent/pkg/config"
)

var (
	configFile string
	cfg        *config.Config
	logger     *logrus.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pdfagent",
	Short: "PDF parsing functions behind a Lambda-style invocation adapter",
	Long: `pdfagent hosts the lambda_handler function, an API that downloads PDFs,
extracts their text and lets a Gemini agent summarise them.

The same function can be served over HTTP, run inside the AWS Lambda runtime
or invoked once from the command line with an event file.
`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (yaml, json or toml)")
}

func initConfig() {
	var err error
	cfg, err = config.Load(viper.GetViper(), configFile)
	if err != nil {
		cobra.CheckErr(err)
	}
	logger, err = cfg.NewLogger()
	if err != nil {
		cobra.CheckErr(fmt.Errorf("error configuring logging: %w", err))
	}
}
