package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/arvindgk/facilityresv/internal/clientreq"
	"github.com/arvindgk/facilityresv/internal/codec"
)

var queryBookingCmd = &cobra.Command{
	Use:   "query-booking <bookingId>",
	Short: "Print the details of a single booking",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return err
		}

		conn, cfg, err := dial(cmd)
		if err != nil {
			return err
		}
		defer conn.Close()

		reply, err := invoke(conn, cfg, codec.OpQueryBooking, clientreq.QueryBooking(id))
		if err != nil {
			return err
		}
		printReply(reply)
		return nil
	},
}
