package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/neuromusic/waver/scenario"
	"github.com/neuromusic/waver/utils"
	"github.com/neuromusic/waver/wave"
)

// Request is a client message. configure carries a YAML scenario in
// Content; run and stop carry nothing.
type Request struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
}

// Response is a server message. configured fills Title/Dt/Steps/Shape,
// frame fills Step/T/Shape/Data, done fills Steps, error fills Error.
type Response struct {
	Type  string    `json:"type"`
	Error string    `json:"error,omitempty"`
	Title string    `json:"title,omitempty"`
	Dt    float64   `json:"dt,omitempty"`
	Steps int       `json:"steps,omitempty"`
	Step  int       `json:"step"`
	T     float64   `json:"t"`
	Shape []int     `json:"shape,omitempty"`
	Data  []float64 `json:"data,omitempty"`
}

// Hub owns one client connection: the reader in serveWs feeds req, the
// writer goroutine drains resp to the socket, and runs advance on their
// own goroutine so stop can interrupt them between steps.
type Hub struct {
	conn    *websocket.Conn
	cfg     Config
	metrics *Metrics
	logger  *log.Entry

	req     chan Request
	resp    chan Response
	runExit chan error

	sim    *wave.Simulation
	cancel context.CancelFunc
	start  time.Time
}

func NewHub(cfg Config, m *Metrics, conn *websocket.Conn) *Hub {
	return &Hub{
		conn:    conn,
		cfg:     cfg,
		metrics: m,
		logger:  log.WithFields(log.Fields{"remote": conn.RemoteAddr().String()}),
		req:     make(chan Request, 10),
		resp:    make(chan Response, 64),
		runExit: make(chan error, 1),
	}
}

func (h *Hub) handleResponses(cancel context.CancelFunc) {
	defer cancel()
	for r := range h.resp {
		if err := h.conn.WriteJSON(&r); err != nil {
			h.logger.WithField("err", err).Info("write failed, dropping client")
			return
		}
	}
}

func (h *Hub) handleRequests(ctx context.Context) {
	defer close(h.resp)
	defer h.shutdown()
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-h.runExit:
			h.finishRun(ctx, err)
		case msg, ok := <-h.req:
			if !ok {
				return
			}
			h.dispatch(ctx, msg)
		}
	}
}

// send delivers r unless ctx dies first, so a departed client can never
// wedge a goroutine on the full response buffer.
func (h *Hub) send(ctx context.Context, r Response) {
	select {
	case h.resp <- r:
	case <-ctx.Done():
	}
}

func (h *Hub) dispatch(ctx context.Context, msg Request) {
	switch msg.Type {
	case "configure":
		h.configure(ctx, msg.Content)
	case "run":
		h.startRun(ctx)
	case "stop":
		h.stop(ctx)
	default:
		h.logger.WithField("type", msg.Type).Warn("no such type")
		h.send(ctx, Response{Type: "error", Error: fmt.Sprintf("no such type %q", msg.Type)})
	}
}

func (h *Hub) configure(ctx context.Context, content string) {
	if h.cancel != nil {
		h.send(ctx, Response{Type: "error", Error: "run in progress"})
		return
	}
	params := &scenario.Parameters{}
	if err := params.Parse([]byte(content)); err != nil {
		h.fail(ctx, "parse scenario", err)
		return
	}
	s, err := params.Build()
	if err != nil {
		h.fail(ctx, "build scenario", err)
		return
	}
	h.sim = s
	h.logger.WithFields(log.Fields{
		"title": params.Title,
		"cells": s.Grid.NCells(),
		"steps": s.Time.NSteps,
	}).Info("scenario configured")
	h.send(ctx, Response{
		Type:  "configured",
		Title: params.Title,
		Dt:    s.Time.Step,
		Steps: s.Time.NSteps,
		Shape: s.Grid.Shape,
	})
}

func (h *Hub) startRun(ctx context.Context) {
	if h.sim == nil {
		h.send(ctx, Response{Type: "error", Error: "no scenario configured"})
		return
	}
	if h.cancel != nil {
		h.send(ctx, Response{Type: "error", Error: "run already in progress"})
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	h.cancel = cancel
	h.start = time.Now()
	h.metrics.ActiveRuns.Inc()
	s := h.sim
	s.SetUpdate(h.streamingUpdate(runCtx, frameStride(s.Time.NSteps, h.cfg.FrameLimit)))
	go func() {
		h.runExit <- s.RunContext(runCtx)
	}()
}

func (h *Hub) stop(ctx context.Context) {
	if h.cancel == nil {
		h.send(ctx, Response{Type: "error", Error: "no run in progress"})
		return
	}
	h.cancel()
}

// streamingUpdate chains the snapshot update and streams every
// stride-th frame. Streaming never changes field values; a frame whose
// send loses to cancellation is simply not counted.
func (h *Hub) streamingUpdate(ctx context.Context, stride int) wave.Update {
	return func(step int, t float64, src *wave.Source, frame utils.Tensor) error {
		if err := wave.SnapshotUpdate(step, t, src, frame); err != nil {
			return err
		}
		h.metrics.Steps.Inc()
		if step%stride != 0 {
			return nil
		}
		select {
		case h.resp <- Response{
			Type:  "frame",
			Step:  step,
			T:     t,
			Shape: frame.Shape(),
			Data:  append([]float64{}, frame.Data()...),
		}:
			h.metrics.FramesSent.Inc()
		case <-ctx.Done():
		}
		return nil
	}
}

// settleRun clears the run state and records the outcome in the metrics
// and the log.
func (h *Hub) settleRun(err error) {
	h.cancel = nil
	seconds := time.Since(h.start).Seconds()
	h.metrics.ActiveRuns.Dec()
	h.metrics.RunDuration.Observe(seconds)
	switch {
	case err == nil:
		h.metrics.Runs.WithLabelValues("completed").Inc()
		h.logger.WithFields(log.Fields{
			"steps":   h.sim.Time.NSteps,
			"seconds": seconds,
		}).Info("run completed")
	case errors.Is(err, context.Canceled):
		h.metrics.Runs.WithLabelValues("canceled").Inc()
		h.logger.Info("run canceled")
	default:
		h.metrics.Runs.WithLabelValues("failed").Inc()
		h.logger.WithField("err", err).Error("run failed")
	}
}

// finishRun settles the run and reports its outcome to the client.
func (h *Hub) finishRun(ctx context.Context, err error) {
	h.settleRun(err)
	if err == nil {
		h.send(ctx, Response{Type: "done", Steps: h.sim.Time.NSteps})
		return
	}
	h.send(ctx, Response{Type: "error", Error: err.Error()})
}

// shutdown interrupts an active run and waits it out. The run cannot
// block on the response buffer once its context dies, so the wait
// always ends.
func (h *Hub) shutdown() {
	if h.cancel == nil {
		return
	}
	h.cancel()
	h.settleRun(<-h.runExit)
}

func (h *Hub) fail(ctx context.Context, op string, err error) {
	h.logger.WithFields(log.Fields{"op": op, "err": err}).Warn("request failed")
	h.send(ctx, Response{Type: "error", Error: err.Error()})
}

// frameStride spaces streamed frames so one run emits at most limit of
// them; zero limit streams every step.
func frameStride(nsteps, limit int) int {
	if limit <= 0 || nsteps <= limit {
		return 1
	}
	return (nsteps + limit - 1) / limit
}
