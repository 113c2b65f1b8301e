package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Eventual-Inc/pdfagent/pkg/invocation"
	"github.com/Eventual-Inc/pdfagent/pkg/value"
)

var (
	eventFile    string
	outputFormat string
)

func init() {
	rootCmd.AddCommand(invokeCmd)
	invokeCmd.Flags().StringVarP(&eventFile, "event", "e", "", "path to the JSON event (default: stdin)")
	invokeCmd.Flags().StringVarP(&outputFormat, "output", "o", "json", "output format: json or yaml")
}

var invokeCmd = &cobra.Command{
	Use:   "invoke",
	Short: "Invokes the function once",
	Long:  `Invokes the function a single time with a JSON event, useful for debugging and for adhoc runs`,
	RunE: func(cmd *cobra.Command, args []string) error {
		payload, err := readEvent(cmd.InOrStdin(), eventFile)
		if err != nil {
			return err
		}

		svc, err := bootstrap(context.Background(), cfg, logger)
		if err != nil {
			return err
		}
		defer svc.Close()

		out, err := svc.adapter.HandleJSON(cmd.Context(), payload)
		if err != nil {
			envelope := value.Map{
				"errorType":    value.String(invocation.ErrorType(err)),
				"errorMessage": value.String(err.Error()),
			}
			if encoded, encErr := value.MarshalMap(envelope); encErr == nil {
				_ = writeOutput(cmd.OutOrStdout(), encoded, outputFormat)
			}
			return err
		}
		return writeOutput(cmd.OutOrStdout(), out, outputFormat)
	},
}

func readEvent(stdin io.Reader, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading event file: %w", err)
	}
	return data, nil
}

// writeOutput prints an encoded response in the requested format.
func writeOutput(w io.Writer, encoded []byte, format string) error {
	switch format {
	case "json", "":
		_, err := fmt.Fprintln(w, string(bytes.TrimSpace(encoded)))
		return err
	case "yaml":
		m, err := value.UnmarshalMap(encoded)
		if err != nil {
			return err
		}
		plain, err := m.Interface()
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(plain); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
