// Package cmd wires flags, logging and the HTTP/HTTPS/HTTP3 listeners around
// the piping server core.
package cmd

import (
	"fmt"
	"net/http"
	"os"

	"github.com/quic-go/quic-go/http3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/Cj-bc/piping-server/piping"
	"github.com/Cj-bc/piping-server/version"
)

var (
	httpPort    uint16
	enableHTTPS bool
	httpsPort   uint16
	keyPath     string
	crtPath     string
	enableHTTP3 bool
)

func init() {
	RootCmd.Flags().Uint16Var(&httpPort, "http-port", 8080, "HTTP port")
	RootCmd.Flags().BoolVar(&enableHTTPS, "enable-https", false, "Serve HTTPS")
	RootCmd.Flags().Uint16Var(&httpsPort, "https-port", 8443, "HTTPS port")
	RootCmd.Flags().StringVar(&keyPath, "key-path", "", "Private key path")
	RootCmd.Flags().StringVar(&crtPath, "crt-path", "", "Certificate path")
	RootCmd.Flags().BoolVar(&enableHTTP3, "enable-http3", false, "Serve HTTP/3 (experimental)")
}

var RootCmd = &cobra.Command{
	Use:          "piping-server",
	Short:        "Streaming data transfer between every device over pure HTTP",
	Version:      version.Version,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
		pipingServer := piping.NewServer(enableHTTPS, logger)
		handler := http.HandlerFunc(pipingServer.Handler)

		errCh := make(chan error)
		if enableHTTPS {
			if crtPath == "" || keyPath == "" {
				return errors.New("--key-path and --crt-path should be specified with --enable-https")
			}
			go func() {
				logger.Info().Msgf("Listening HTTPS on %d...", httpsPort)
				errCh <- http.ListenAndServeTLS(fmt.Sprintf(":%d", httpsPort), crtPath, keyPath, handler)
			}()
			if enableHTTP3 {
				go func() {
					logger.Info().Msgf("Listening HTTP/3 on %d...", httpsPort)
					server := &http3.Server{
						Addr:    fmt.Sprintf(":%d", httpsPort),
						Handler: handler,
					}
					errCh <- server.ListenAndServeTLS(crtPath, keyPath)
				}()
			}
		} else if enableHTTP3 {
			return errors.New("--enable-http3 needs --enable-https")
		}
		go func() {
			logger.Info().Msgf("Listening HTTP on %d...", httpPort)
			// h2c lets clients use HTTP/2 duplex streams without TLS.
			errCh <- http.ListenAndServe(fmt.Sprintf(":%d", httpPort), h2c.NewHandler(handler, &http2.Server{}))
		}()
		return <-errCh
	},
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
