package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/ddknet/node/app/services/node/handlers"
	"github.com/ddknet/node/foundation/blockchain/genesis"
	"github.com/ddknet/node/foundation/blockchain/signature"
	"github.com/ddknet/node/foundation/blockchain/state"
	"github.com/ddknet/node/foundation/blockchain/storage/badger"
	"github.com/ddknet/node/foundation/blockchain/worker"
	"github.com/ddknet/node/foundation/events"
	"github.com/ddknet/node/foundation/keystore"
	"github.com/ddknet/node/foundation/logger"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("NODE")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	cfg := struct {
		conf.Version
		Web struct {
			ReadTimeout     time.Duration `conf:"default:5s"`
			WriteTimeout    time.Duration `conf:"default:10s"`
			IdleTimeout     time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
			DebugHost       string        `conf:"default:0.0.0.0:7080"`
			PublicHost      string        `conf:"default:0.0.0.0:8080"`
			CORSOrigins     []string      `conf:"default:*"`
		}
		State struct {
			GenesisPath    string `conf:"default:zblock/genesis.json"`
			DBPath         string `conf:"default:zblock/ledger"`
			SelectStrategy string `conf:"default:priority"`
			ForgerName     string `conf:"default:forger1"`
		}
		KeyStore struct {
			Folder string `conf:"default:zblock/accounts/"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "DDK ledger node",
		},
	}

	// Parse will set the defaults and then look for any overriding values
	// in environment variables and command line flags.
	const prefix = "NODE"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	// Display the current configuration to the logs.
	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Key Store Support

	// The keystore provides the delegate key pairs and names for the
	// addresses. The names come from the file names in the accounts folder.
	ks, err := keystore.New(cfg.KeyStore.Folder)
	if err != nil {
		return fmt.Errorf("unable to load key store: %w", err)
	}

	// Logging the accounts for documentation in the logs.
	for address, name := range ks.Copy() {
		log.Infow("startup", "status", "keystore", "name", name, "address", address)
	}

	// A node without the forger key follows the chain but never forges.
	var forgerKey *signature.KeyPair
	switch kp, err := ks.KeyPair(cfg.State.ForgerName); {
	case err != nil:
		log.Infow("startup", "status", "forging disabled", "forger", cfg.State.ForgerName, "ERROR", err)
	default:
		forgerKey = &kp
		log.Infow("startup", "status", "forging enabled", "forger", cfg.State.ForgerName, "address", kp.Address())
	}

	// =========================================================================
	// Blockchain Support

	gen, err := genesis.Load(cfg.State.GenesisPath)
	if err != nil {
		return fmt.Errorf("unable to load genesis: %w", err)
	}

	store, err := badger.New(cfg.State.DBPath)
	if err != nil {
		return fmt.Errorf("unable to open storage: %w", err)
	}

	// The blockchain packages accept a function of this signature to allow the
	// application to log. These raw messages are also sent to any websocket
	// client that is connected into the system through the events package.
	evts := events.New()
	ev := func(v string, args ...any) {
		s := fmt.Sprintf(v, args...)
		log.Infow(s, "traceid", "00000000-0000-0000-0000-000000000000")
		evts.Send(s)
	}

	// The state value represents the blockchain node and manages the ledger,
	// the mempool and the storage of blocks.
	st, err := state.New(state.Config{
		Genesis:        gen,
		Storage:        store,
		SelectStrategy: cfg.State.SelectStrategy,
		EvHandler:      ev,
	})
	if err != nil {
		store.Close()
		return err
	}
	defer st.Shutdown()

	// The worker package implements the forging and transaction sharing
	// workflows. The worker will register itself with the state.
	worker.Run(st, forgerKey, ev)

	// =========================================================================
	// Start Debug Service

	log.Infow("startup", "status", "debug router started", "host", cfg.Web.DebugHost)

	// Construct the mux for the debug calls.
	debugMux := handlers.DebugMux(build, log, st)

	// Start the service listening for debug requests.
	// Not concerned with shutting this down with load shedding.
	go func() {
		if err := http.ListenAndServe(cfg.Web.DebugHost, debugMux); err != nil {
			log.Errorw("shutdown", "status", "debug router closed", "host", cfg.Web.DebugHost, "ERROR", err)
		}
	}()

	// =========================================================================
	// Service Start/Stop Support

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	// Make a channel to listen for errors coming from the listener. Use a
	// buffered channel so the goroutine can exit if we don't collect this error.
	serverErrors := make(chan error, 1)

	// =========================================================================
	// Start Public Service

	log.Infow("startup", "status", "initializing public API support")

	// Construct the mux for the public API calls.
	publicMux := handlers.PublicMux(handlers.MuxConfig{
		Shutdown: shutdown,
		Log:      log,
		State:    st,
		KeyStore: ks,
		Evts:     evts,
		Origins:  cfg.Web.CORSOrigins,
	})

	// Construct a server to service the requests against the mux.
	public := http.Server{
		Addr:         cfg.Web.PublicHost,
		Handler:      publicMux,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	// Start the service listening for api requests.
	go func() {
		log.Infow("startup", "status", "public api router started", "host", public.Addr)
		serverErrors <- public.ListenAndServe()
	}()

	// =========================================================================
	// Shutdown

	// Blocking main and waiting for shutdown.
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Infow("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

		// Release any web sockets that are currently active.
		log.Infow("shutdown", "status", "shutdown web socket channels")
		evts.Shutdown()

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		// Asking listener to shut down and shed load.
		log.Infow("shutdown", "status", "shutdown public API started")
		if err := public.Shutdown(ctx); err != nil {
			public.Close()
			return fmt.Errorf("could not stop public service gracefully: %w", err)
		}
	}

	return nil
}
