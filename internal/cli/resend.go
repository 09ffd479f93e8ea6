package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resendCmd = &cobra.Command{
	Use:   "resend <serial-number>",
	Short: "Queue a download mail for a pass",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := doJSON("POST", "/admin/resend/"+args[0], nil, nil); err != nil {
			return err
		}
		fmt.Println("mail queued")
		return nil
	},
}
