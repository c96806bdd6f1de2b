/*
 * Copyright 2020 The Yorkie Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/reoring/castkit/internal/logging"
	"github.com/reoring/castkit/internal/metrics"
	"github.com/reoring/castkit/server"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the pokeview HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.conf.Server.Addr = addr
			}
			if a.conf.Log.Level != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}

			m, err := metrics.NewMetrics()
			if err != nil {
				return err
			}
			v, closeViewer, err := a.newViewer(cmd.Context(), m)
			if err != nil {
				return err
			}
			defer closeViewer()

			s := server.New(v, server.Options{
				Addr:            a.conf.Server.Addr,
				ShutdownTimeout: a.conf.Server.ShutdownTimeout,
				MaxBodyBytes:    a.conf.Server.MaxBodyBytes,
				Logger:          logging.New("server"),
				Metrics:         m,
			})
			if err := s.Start(); err != nil {
				return err
			}

			if code := handleSignal(s); code != 0 {
				return fmt.Errorf("exit code: %d", code)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}

func handleSignal(s *server.Server) int {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	sig := <-sigCh
	graceful := sig == syscall.SIGINT || sig == syscall.SIGTERM

	gracefulCh := make(chan struct{})
	go func() {
		s.Shutdown(graceful)
		close(gracefulCh)
	}()

	select {
	case <-sigCh:
		return 1
	case <-gracefulCh:
		return 0
	}
}
