package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lidosole/lidosole/app/jobs"
	"github.com/lidosole/lidosole/pkg/schedule"
)

// lidosole schedule:list — show the registered housekeeping tasks.
var scheduleListCmd = &cobra.Command{
	Use:   "schedule:list",
	Short: "List the scheduled housekeeping tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := bootDB()
		if err != nil {
			return err
		}
		jobs.Register(db)

		for _, entry := range schedule.List() {
			fmt.Println(entry)
		}
		return nil
	},
}
