// Package commands implements the CLI commands for the facility
// reservation client.
package commands

import (
	"fmt"
	"net"
	"os"

	"github.com/spf13/cobra"

	"github.com/arvindgk/facilityresv/internal/codec"
	"github.com/arvindgk/facilityresv/internal/config"
	"github.com/arvindgk/facilityresv/internal/logger"
	"github.com/arvindgk/facilityresv/internal/lossim"
	"github.com/arvindgk/facilityresv/internal/semantics"
	"github.com/arvindgk/facilityresv/internal/transport"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var (
	flagHost      string
	flagPort      int
	flagSemantics string
	flagLossRate  float64
	flagSeed      int64
	flagLogLevel  string
)

var rootCmd = &cobra.Command{
	Use:   "resvclient",
	Short: "Facility reservation client",
	Long: `resvclient sends one reservation-protocol request per invocation
over UDP, retrying under at-most-once or at-least-once semantics per §4.4,
and prints the server's reply.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return InitLogger(flagLogLevel, "text")
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagHost, "host", "", "server host (default 127.0.0.1)")
	rootCmd.PersistentFlags().IntVar(&flagPort, "port", 0, "server port (default 5000)")
	rootCmd.PersistentFlags().StringVar(&flagSemantics, "semantics", "", "invocation semantics: AMO or ALO (default AMO)")
	rootCmd.PersistentFlags().Float64Var(&flagLossRate, "loss-rate", 0, "loss simulator drop rate in [0,1] (default 0.0)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "loss simulator PRNG seed (default 777)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "INFO", "log level: DEBUG, INFO, WARN, ERROR")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(bookCmd)
	rootCmd.AddCommand(changeCmd)
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(cancelCmd)
	rootCmd.AddCommand(extendCmd)
	rootCmd.AddCommand(queryBookingCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// Exit prints an error to stderr and exits with status 1.
func Exit(format string, args ...any) {
	rootCmd.PrintErrf(format+"\n", args...)
	os.Exit(1)
}

// dial loads the client configuration from persistent flags and opens a
// loss-simulated UDP socket connected to the server.
func dial(cmd *cobra.Command) (*transport.Conn, config.ClientConfig, error) {
	cfg, err := config.LoadClient(
		flagHost,
		flagPort, cmd.Flags().Changed("port"),
		flagSemantics,
		flagLossRate, cmd.Flags().Changed("loss-rate"),
		flagSeed, cmd.Flags().Changed("seed"),
	)
	if err != nil {
		return nil, config.ClientConfig{}, err
	}

	conn, err := transport.Dial(net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port)))
	if err != nil {
		return nil, config.ClientConfig{}, fmt.Errorf("dial %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	conn.SetLossSimulator(lossim.New(cfg.LossRate, cfg.Seed))

	logger.Debug("dialed server", "host", cfg.Host, "port", cfg.Port, "semantics", config.SemanticsName(cfg.Semantics))
	return conn, cfg, nil
}

// invoke builds a request message with a fresh id and the configured
// semantics tag, sends it through the retry loop, and returns the reply.
func invoke(conn *transport.Conn, cfg config.ClientConfig, opcode uint8, payload []byte) (codec.Message, error) {
	msg := codec.Message{
		Version:   codec.ProtocolVersion,
		Semantics: cfg.Semantics,
		Opcode:    opcode,
		RequestID: semantics.FreshRequestID(),
		Payload:   payload,
	}
	return semantics.Invoke(conn, msg)
}

// printReply renders a reply's payload, distinguishing an error reply.
func printReply(reply codec.Message) {
	text, _, err := codec.ReadString(reply.Payload, 0)
	if err != nil {
		fmt.Println(string(reply.Payload))
		return
	}
	if reply.IsError() {
		fmt.Printf("ERROR: %s\n", text)
		return
	}
	fmt.Println(text)
}
