package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/arvindgk/facilityresv/internal/clientreq"
	"github.com/arvindgk/facilityresv/internal/codec"
)

var bookCmd = &cobra.Command{
	Use:   "book <facility> <day> <startMinute> <endMinute>",
	Short: "Book a facility for a time slot on a given day (0=Mon..6=Sun)",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := strconv.Atoi(args[1])
		if err != nil {
			return err
		}
		start, err := strconv.Atoi(args[2])
		if err != nil {
			return err
		}
		end, err := strconv.Atoi(args[3])
		if err != nil {
			return err
		}

		conn, cfg, err := dial(cmd)
		if err != nil {
			return err
		}
		defer conn.Close()

		payload := clientreq.Book(args[0], int32(day), int32(start), int32(end))
		reply, err := invoke(conn, cfg, codec.OpBook, payload)
		if err != nil {
			return err
		}
		printReply(reply)
		return nil
	},
}
