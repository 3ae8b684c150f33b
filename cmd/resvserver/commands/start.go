package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/arvindgk/facilityresv/internal/adminhttp"
	"github.com/arvindgk/facilityresv/internal/codec"
	"github.com/arvindgk/facilityresv/internal/config"
	"github.com/arvindgk/facilityresv/internal/facility"
	"github.com/arvindgk/facilityresv/internal/logger"
	"github.com/arvindgk/facilityresv/internal/lossim"
	"github.com/arvindgk/facilityresv/internal/metrics"
	"github.com/arvindgk/facilityresv/internal/monitor"
	"github.com/arvindgk/facilityresv/internal/router"
	"github.com/arvindgk/facilityresv/internal/semantics"
	"github.com/arvindgk/facilityresv/internal/tracing"
	"github.com/arvindgk/facilityresv/internal/transport"
)

var (
	flagPort       int
	flagSemantics  string
	flagLossRate   float64
	flagSeed       int64
	flagFacilities []string
	flagAdminAddr  string
	flagLogLevel   string
	flagLogFormat  string
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the facility reservation server",
	Long: `start runs the server's single-threaded receive/dispatch/send loop
against a fixed set of facilities, per the §6 CLI interface: port, semantics,
lossRate and seed, defaulting to 5000 AMO 0.0 42.`,
	RunE: runStart,
}

func init() {
	startCmd.Flags().IntVar(&flagPort, "port", 0, "UDP port to listen on (default 5000)")
	startCmd.Flags().StringVar(&flagSemantics, "semantics", "", "invocation semantics: AMO or ALO (default AMO)")
	startCmd.Flags().Float64Var(&flagLossRate, "loss-rate", 0, "loss simulator drop rate in [0,1] (default 0.0)")
	startCmd.Flags().Int64Var(&flagSeed, "seed", 0, "loss simulator PRNG seed (default 42)")
	startCmd.Flags().StringSliceVar(&flagFacilities, "facility", []string{"RoomA", "RoomB", "LT1"}, "facility names to preload")
	startCmd.Flags().StringVar(&flagAdminAddr, "admin-addr", ":9090", "address for the /healthz and /metrics endpoints")
	startCmd.Flags().StringVar(&flagLogLevel, "log-level", "INFO", "log level: DEBUG, INFO, WARN, ERROR")
	startCmd.Flags().StringVar(&flagLogFormat, "log-format", "text", "log format: text or json")
}

func runStart(cmd *cobra.Command, args []string) error {
	if err := InitLogger(flagLogLevel, flagLogFormat); err != nil {
		return err
	}

	cfg, err := config.LoadServer(
		flagPort, cmd.Flags().Changed("port"),
		flagSemantics,
		flagLossRate, cmd.Flags().Changed("loss-rate"),
		flagSeed, cmd.Flags().Changed("seed"),
	)
	if err != nil {
		return err
	}

	shutdownTracing := tracing.Init("facilityresv-server")
	defer func() { _ = shutdownTracing(context.Background()) }()

	m := metrics.New(nil)

	conn, err := transport.Listen(fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return fmt.Errorf("start server: %w", err)
	}
	defer conn.Close()
	conn.SetLossSimulator(lossim.New(cfg.LossRate, cfg.Seed))

	store := facility.NewStore(flagFacilities)
	registry := monitor.NewRegistry()
	cache := semantics.NewReplyCache()

	env := &router.Environment{
		Store:      store,
		Registry:   registry,
		Now:        time.Now,
		FreshReqID: semantics.FreshRequestID,
	}

	logger.Info("server listening",
		"addr", conn.LocalAddr().String(),
		"semantics", config.SemanticsName(cfg.Semantics),
		"loss_rate", cfg.LossRate,
		"seed", cfg.Seed,
		"facilities", flagFacilities,
	)

	adminSrv := &adminServer{
		addr: flagAdminAddr,
		statusFunc: func() adminhttp.Status {
			return adminhttp.Status{
				SocketBound: conn.Bound(),
				Semantics:   config.SemanticsName(cfg.Semantics),
			}
		},
	}
	go adminSrv.run()
	defer adminSrv.shutdown()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		<-sigChan
		logger.Info("shutdown signal received")
		close(done)
		_ = conn.Close()
	}()

	serveLoop(conn, env, cfg.Semantics, cache, m, done)
	return nil
}

// serveLoop is the server's single-threaded cooperative loop (§5): receive
// one datagram, decode, dispatch, mutate store, fan out, send reply,
// repeat. No locking is needed anywhere in this path.
func serveLoop(conn *transport.Conn, env *router.Environment, semanticsMode uint8, cache *semantics.ReplyCache, m *metrics.Server, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		default:
		}

		result, err := conn.Receive()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			var decodeErr *codec.DecodeError
			if errors.As(err, &decodeErr) {
				logger.Debug("discarding malformed datagram", "peer", result.Peer, "error", err)
				continue
			}
			logger.Warn("receive error", "error", err)
			continue
		}

		m.RecordPruned(env.Registry.Prune(env.Now()))

		peerKey := result.Peer.String()
		opcodeName := codec.OpcodeName(result.Msg.Opcode)
		lc := logger.NewLogContext(peerKey).WithOpcode(opcodeName)

		ctx, span := tracing.StartRequestSpan(context.Background(), opcodeName)
		traceID, spanID := tracing.IDs(ctx)
		lc = lc.WithTrace(traceID, spanID)

		logger.DebugCtx(logger.WithContext(ctx, lc), "request received",
			logger.Opcode(result.Msg.Opcode, opcodeName),
			logger.RequestID(result.Msg.RequestID),
			logger.PeerAddr(peerKey),
			logger.Semantics(config.SemanticsName(result.Msg.Semantics)),
		)

		start := time.Now()

		var reply codec.Message
		var updates []router.Update
		var cacheHit bool
		if semanticsMode == codec.SemanticsAMO {
			var err error
			reply, updates, cacheHit, err = semantics.DispatchAMO(cache, env, result.Peer, peerKey, result.Msg)
			if err != nil {
				logger.Warn("AMO dispatch failed", "peer", peerKey, "error", err)
				continue
			}
		} else {
			res := router.Handle(env, result.Peer, result.Msg)
			reply, updates = res.Reply, res.Updates
		}

		if reply.IsError() {
			text, _, _ := codec.ReadString(reply.Payload, 0)
			tracing.RecordError(span, fmt.Errorf("%s", text))
		}
		span.End()

		m.RecordRequest(opcodeName, time.Since(start), reply.IsError())
		m.SetCacheSize(cache.Len())
		m.SetSubscriberCount(env.Registry.TotalSubscriptions())

		logger.DebugCtx(logger.WithContext(ctx, lc), "request handled",
			logger.CacheHit(cacheHit),
			logger.ErrorFlag(reply.IsError()),
			logger.DurationMs(logger.Duration(start)),
			logger.SubscriberCount(env.Registry.TotalSubscriptions()),
		)

		for _, u := range updates {
			dropped, err := conn.SendTo(u.Peer, u.Msg)
			if err != nil {
				logger.Warn("monitor update send failed", "peer", u.Peer.String(), "error", err)
				continue
			}
			if dropped {
				m.RecordDrop()
				logger.Debug("monitor update dropped by loss simulator", logger.PeerAddr(u.Peer.String()), logger.Dropped(true))
			}
		}

		dropped, err := conn.SendTo(result.Peer, reply)
		if err != nil {
			logger.Warn("reply send failed", "peer", peerKey, "error", err)
			continue
		}
		if dropped {
			m.RecordDrop()
			logger.Debug("reply dropped by loss simulator", logger.PeerAddr(peerKey), logger.Dropped(true))
		}
	}
}
