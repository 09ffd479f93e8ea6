package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List issued passes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var passes []struct {
			SerialNumber string `json:"serialNumber"`
			Email        string `json:"email"`
			LastModified int64  `json:"lastModified"`
			EmailStatus  string `json:"emailStatus"`
		}
		if err := doJSON("GET", "/admin/passes", nil, &passes); err != nil {
			return err
		}

		for _, p := range passes {
			fmt.Printf("%s\t%s\t%d\t%s\n", p.SerialNumber, p.Email, p.LastModified, p.EmailStatus)
		}
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show pass counts per email lifecycle state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var counts map[string]int64
		if err := doJSON("GET", "/admin/metrics", nil, &counts); err != nil {
			return err
		}

		states := make([]string, 0, len(counts))
		for state := range counts {
			states = append(states, state)
		}
		sort.Strings(states)

		for _, state := range states {
			fmt.Printf("%s\t%d\n", state, counts[state])
		}
		return nil
	},
}
