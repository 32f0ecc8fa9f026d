package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cob-tracker/internal/duration"
)

var durationCmd = &cobra.Command{
	Use:   "duration START END",
	Short: "Print the shift length between two HH:MM times",
	Long: `Print the shift length between two HH:MM times. An end before the start
is read as the next day:

  cob-tracker duration 22:00 02:00   # 4h 0m`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := duration.Text(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(durationCmd)
}
