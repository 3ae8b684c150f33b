package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/arvindgk/facilityresv/internal/clientreq"
	"github.com/arvindgk/facilityresv/internal/codec"
)

var extendCmd = &cobra.Command{
	Use:   "extend <bookingId> <startDeltaMinutes> <endDeltaMinutes>",
	Short: "Shift a booking's start and end independently",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return err
		}
		startDelta, err := strconv.Atoi(args[1])
		if err != nil {
			return err
		}
		endDelta, err := strconv.Atoi(args[2])
		if err != nil {
			return err
		}

		conn, cfg, err := dial(cmd)
		if err != nil {
			return err
		}
		defer conn.Close()

		payload := clientreq.Extend(id, int32(startDelta), int32(endDelta))
		reply, err := invoke(conn, cfg, codec.OpExtend, payload)
		if err != nil {
			return err
		}
		printReply(reply)
		return nil
	},
}
