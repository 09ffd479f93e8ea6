package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update <serial-number> <content-file>",
	Short: "Update a pass",
	Long:  `Replace a pass's content from a JSON file, rebuild its bundle and push update hints to registered devices`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		serial := args[0]

		data, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("failed to read content file: %w", err)
		}
		if !json.Valid(data) {
			return fmt.Errorf("content file is not valid JSON")
		}

		reqBody, err := json.Marshal(map[string]any{
			"passData": json.RawMessage(data),
		})
		if err != nil {
			return err
		}

		var result struct {
			LastModified int64 `json:"lastModified"`
		}
		if err := doJSON("POST", "/admin/passes/"+serial, reqBody, &result); err != nil {
			return err
		}

		fmt.Printf("updated, last modified %d\n", result.LastModified)
		return nil
	},
}
