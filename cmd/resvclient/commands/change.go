package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/arvindgk/facilityresv/internal/clientreq"
	"github.com/arvindgk/facilityresv/internal/codec"
)

var changeCmd = &cobra.Command{
	Use:   "change <bookingId> <shiftMinutes>",
	Short: "Shift a booking's start and end time by the same number of minutes",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return err
		}
		shift, err := strconv.Atoi(args[1])
		if err != nil {
			return err
		}

		conn, cfg, err := dial(cmd)
		if err != nil {
			return err
		}
		defer conn.Close()

		reply, err := invoke(conn, cfg, codec.OpChange, clientreq.Change(id, int32(shift)))
		if err != nil {
			return err
		}
		printReply(reply)
		return nil
	},
}
