package commands

import (
	"github.com/spf13/cobra"

	"github.com/arvindgk/facilityresv/internal/clientreq"
	"github.com/arvindgk/facilityresv/internal/codec"
)

var queryCmd = &cobra.Command{
	Use:   "query <facility> [days]",
	Short: "Query a facility's availability for a comma-separated list of days",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		facility := args[0]
		daysCSV := ""
		if len(args) == 2 {
			daysCSV = args[1]
		}

		conn, cfg, err := dial(cmd)
		if err != nil {
			return err
		}
		defer conn.Close()

		reply, err := invoke(conn, cfg, codec.OpQuery, clientreq.Query(facility, daysCSV))
		if err != nil {
			return err
		}
		printReply(reply)
		return nil
	},
}
