package main

import (
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/whisperd/filewhisperer"
	"github.com/whisperd/filewhisperer/internal/core"
	"github.com/whisperd/filewhisperer/internal/extractors"
	"github.com/whisperd/filewhisperer/internal/server"
)

// batchKinds is the startup report order of the sibling batching pools.
var batchKinds = []core.BatchKind{
	core.BatchOCR, core.BatchWord, core.BatchPDF, core.BatchHTML, core.BatchArchive,
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "filewhisperer",
	Short: "Recursive file dissection service.",
	Long: `Serves the Whispering RPC: given a file by path or by inline bytes, it
returns the tree of everything recursively uncovered inside it (archive
members, document embeddings, images, OCR text, barcodes, URLs, email
parts). Configuration comes from the environment; see the README for the
variable reference.`,
	Version: filewhisperer.VERSION,
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()
		port, _ := flags.GetInt("port")
		logLevel, _ := flags.GetString("log-level")

		logger := core.NewLogger()
		if logLevel != "debug" {
			logger.D.SetOutput(io.Discard)
		}

		registry := extractors.DefaultRegistry(logger)
		batch := core.NewBatchProcessor(core.LoadBatchConfig(logger),
			extractors.BatchWorkers(logger), logger)
		defer batch.Close()
		for _, kind := range batchKinds {
			logger.Infof("batch pool %s enabled: %v", kind, batch.Enabled(kind))
		}

		poolSize := core.WorkersFromEnv(core.EnvTreePoolSize, runtime.NumCPU(), logger)
		engines := core.NewEnginePool(poolSize, core.AcquireTimeoutFromEnv(logger),
			func() *core.Dissector {
				return core.NewDissector(registry, batch, logger)
			})
		logger.Infof("engine pool sized to %d instances", engines.Size())

		serializer, err := server.NewReplySerializer(logger)
		if err != nil {
			logger.Errorf("%v", err)
			os.Exit(1)
		}
		service := server.NewWhisperService(engines, serializer, logger)
		defer service.Close()

		listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err != nil {
			logger.Errorf("cannot listen on port %d: %v", port, err)
			os.Exit(1)
		}
		grpcServer := server.NewGRPCServer(service)

		signals := make(chan os.Signal, 1)
		signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-signals
			logger.Info("shutting down")
			grpcServer.GracefulStop()
		}()

		logger.Infof("filewhisperer %s (%s) listening on port %d",
			filewhisperer.VERSION, filewhisperer.GIT_HASH, port)
		if err := grpcServer.Serve(listener); err != nil {
			logger.Errorf("server stopped: %v", err)
			os.Exit(1)
		}
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.IntP("port", "p", 50051, "Port to listen on.")
	flags.StringP("log-level", "l", "info", "Logging verbosity: debug or info.")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
