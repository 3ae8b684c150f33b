package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/arvindgk/facilityresv/internal/clientreq"
	"github.com/arvindgk/facilityresv/internal/codec"
	"github.com/arvindgk/facilityresv/internal/semantics"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor <facility> <seconds>",
	Short: "Register for availability updates on a facility and print them as they arrive",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		seconds, err := strconv.Atoi(args[1])
		if err != nil {
			return err
		}

		conn, cfg, err := dial(cmd)
		if err != nil {
			return err
		}
		defer conn.Close()

		start := time.Now()
		reply, err := invoke(conn, cfg, codec.OpMonitorRegister, clientreq.MonitorRegister(args[0], int32(seconds)))
		if err != nil {
			return err
		}
		printReply(reply)
		if reply.IsError() {
			return nil
		}

		// Bounded receive loop for the subscription's declared duration,
		// plus a one-second grace period for the final fan-out in flight.
		until := start.Add(time.Duration(seconds)*time.Second + time.Second)
		return semantics.AwaitMonitorUpdates(conn, until, func(update codec.Message) {
			facility, off, err := codec.ReadString(update.Payload, 0)
			if err != nil {
				return
			}
			text, _, err := codec.ReadString(update.Payload, off)
			if err != nil {
				return
			}
			fmt.Printf("[update %s]\n%s\n", facility, text)
		})
	},
}
