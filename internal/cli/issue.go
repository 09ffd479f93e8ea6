package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var issueCmd = &cobra.Command{
	Use:   "issue <email> [content-file]",
	Short: "Issue a new pass",
	Long:  `Issue a new pass for the given recipient, optionally with initial content from a JSON file`,
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		email := args[0]

		content := json.RawMessage("{}")
		if len(args) == 2 {
			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("failed to read content file: %w", err)
			}
			if !json.Valid(data) {
				return fmt.Errorf("content file is not valid JSON")
			}
			content = data
		}

		reqBody, err := json.Marshal(map[string]any{
			"email":    email,
			"passData": content,
		})
		if err != nil {
			return err
		}

		var result struct {
			SerialNumber        string `json:"serialNumber"`
			AuthenticationToken string `json:"authenticationToken"`
		}
		if err := doJSON("POST", "/admin/passes", reqBody, &result); err != nil {
			return err
		}

		fmt.Printf("serial number:        %s\n", result.SerialNumber)
		fmt.Printf("authentication token: %s\n", result.AuthenticationToken)
		return nil
	},
}
