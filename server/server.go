// Package server streams simulation runs to WebSocket clients: a
// scenario is configured per connection, frames are pushed as the run
// advances, and Prometheus metrics cover the run lifecycle.
package server

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

type Server struct {
	cfg      Config
	metrics  *Metrics
	upgrader websocket.Upgrader
}

func NewServer(cfg Config, m *Metrics) *Server {
	return &Server{
		cfg:     cfg,
		metrics: m,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// serveWs handles websocket requests from the peer.
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithField("err", err).Error("websocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	hub := NewHub(s.cfg, s.metrics, conn)
	go hub.handleResponses(cancel)
	go hub.handleRequests(ctx)

	for {
		var msg Request
		if err := conn.ReadJSON(&msg); err != nil {
			hub.logger.WithField("err", err).Info("client disconnected")
			break
		}
		hub.req <- msg
	}
	close(hub.req)
}

// Handler is the WebSocket mux, exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWs)
	return mux
}

// Serve blocks on the WebSocket listener, with the metrics endpoint on
// its own listener when MetricsAddr is set.
func (s *Server) Serve() error {
	if s.cfg.MetricsAddr != "" {
		go func() {
			mm := http.NewServeMux()
			mm.Handle("/metrics", s.metrics.Handler())
			log.WithField("addr", s.cfg.MetricsAddr).Info("metrics listening")
			if err := http.ListenAndServe(s.cfg.MetricsAddr, mm); err != nil {
				log.WithField("err", err).Error("metrics listener failed")
			}
		}()
	}
	log.WithField("addr", s.cfg.Addr).Info("listening")
	return http.ListenAndServe(s.cfg.Addr, s.Handler())
}
