/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"

	"github.com/neuromusic/waver/server"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// ServeCmd represents the serve command
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Stream simulation frames to WebSocket clients",
	Long: `Serve accepts WebSocket connections, configures simulations from
scenario documents sent by each client and streams the computed frames
back as JSON messages. Prometheus metrics are exposed on a separate
listener.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("serve called")
		var (
			cfgPath, _ = cmd.Flags().GetString("serverConfig")
			addr, _    = cmd.Flags().GetString("addr")
			cfg        = server.LoadConfig(cfgPath)
		)
		if len(addr) != 0 {
			cfg.Addr = addr
		}
		if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
			log.SetLevel(lvl)
		} else {
			log.WithFields(log.Fields{"level": cfg.LogLevel}).Warn("unknown log level, keeping default")
		}
		m, err := server.NewMetrics(nil)
		if err != nil {
			panic(err)
		}
		log.WithFields(log.Fields{
			"addr":        cfg.Addr,
			"metricsAddr": cfg.MetricsAddr,
		}).Info("listening")
		if err = server.NewServer(cfg, m).Serve(); err != nil {
			log.WithFields(log.Fields{"err": err}).Fatal("server stopped")
		}
	},
}

func init() {
	rootCmd.AddCommand(ServeCmd)
	ServeCmd.Flags().StringP("serverConfig", "C", "waver.ini", "server configuration file (INI)")
	ServeCmd.Flags().StringP("addr", "a", "", "websocket listen address, overriding the configuration file")
}
