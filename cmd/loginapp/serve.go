package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/sakhura/loginapp/pkg/ftpserver"
	"github.com/sakhura/loginapp/pkg/logging"
	"github.com/sakhura/loginapp/pkg/status"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve per-user home directories over FTP",
		Long: `Starts an FTP server whose logins go through the same rules as the login
command. Each user is confined to root_dir/home_pattern.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFromFlags()
			if err != nil {
				return err
			}
			if a.config.RootDir == "" {
				return fmt.Errorf("root_dir is required to serve")
			}

			fs := afero.NewOsFs()
			if err := fs.MkdirAll(a.config.RootDir, 0755); err != nil {
				return fmt.Errorf("failed to create root directory: %w", err)
			}

			server, err := ftpserver.New(&ftpserver.Config{
				ListenAddr:           a.config.ListenAddr,
				Port:                 a.config.Port,
				RootDir:              a.config.RootDir,
				HomePattern:          a.config.HomePattern,
				PassiveTransferPorts: a.config.PassivePortRange,
				IdleTimeout:          a.config.IdleTimeout,
				TLSCertFile:          a.config.TLSCertFile,
				TLSKeyFile:           a.config.TLSKeyFile,
			}, a.policy, fs)
			if err != nil {
				return fmt.Errorf("failed to create FTP server: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var statusWriter *status.Writer
			if a.config.StatusDir != "" {
				statusWriter, err = status.New(fs, a.config.StatusDir, time.Duration(a.config.StatusInterval)*time.Second, version)
				if err != nil {
					return err
				}
				statusWriter.SetMetricsProvider(server)
				if err := statusWriter.WriteStartFile(); err != nil {
					logging.App.Error("Failed to write start file", "error", err)
				}
				statusWriter.StartHeartbeat()
			}

			go func() {
				<-ctx.Done()
				logging.App.Info("Shutting down FTP server")
				if err := server.Stop(); err != nil {
					logging.App.Error("Error stopping FTP server", "error", err)
				}
			}()

			fmt.Fprintf(cmd.OutOrStdout(), "Starting loginapp %s on %s:%d\n", version, a.config.ListenAddr, a.config.Port)
			serveErr := server.ListenAndServe()
			if ctx.Err() == nil && serveErr == nil {
				serveErr = fmt.Errorf("FTP server stopped unexpectedly")
			}

			if statusWriter != nil {
				reason := "signal"
				if ctx.Err() == nil {
					reason = "error"
				}
				statusWriter.Stop()
				if err := statusWriter.WriteStopFile(reason, time.Since(server.GetStartTime())); err != nil {
					logging.App.Error("Failed to write stop file", "error", err)
				}
			}

			if ctx.Err() != nil {
				return nil
			}
			return serveErr
		},
	}
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
