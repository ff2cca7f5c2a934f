package server

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/san-kum/protolab/internal/config"
	"github.com/san-kum/protolab/internal/diffusion"
	"github.com/san-kum/protolab/internal/experiment"
	"github.com/san-kum/protolab/internal/metrics"
)

// Hub serves one websocket connection. Requests are handled on the read
// loop, replies go through send so that only writeLoop touches the conn.
type Hub struct {
	conn   *websocket.Conn
	logger *log.Entry

	send chan Reply
	quit chan struct{}

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewHub(conn *websocket.Conn, logger *log.Entry) *Hub {
	return &Hub{
		conn:   conn,
		logger: logger,
		send:   make(chan Reply, 64),
		quit:   make(chan struct{}),
	}
}

// reply queues r for the writer. It returns false once the hub is closed.
func (h *Hub) reply(r Reply) bool {
	select {
	case h.send <- r:
		return true
	case <-h.quit:
		return false
	}
}

func (h *Hub) writeLoop() {
	for {
		select {
		case r := <-h.send:
			if err := h.conn.WriteJSON(&r); err != nil {
				h.logger.WithError(err).Warn("write failed")
			}
		case <-h.quit:
			return
		}
	}
}

func (h *Hub) handleRequest(msg Msg) {
	switch msg.Type {
	case TypeStart:
		h.stopRun()
		if err := h.startRun(msg); err != nil {
			h.reply(Reply{Type: TypeError, Content: err.Error()})
		}
	case TypeStop:
		h.stopRun()
		h.reply(Reply{Type: TypeStopped, Content: "stopped"})
	default:
		h.logger.WithField("type", msg.Type).Warn("no such type")
		h.reply(Reply{Type: TypeError, Content: fmt.Sprintf("unknown message type %q", msg.Type)})
	}
}

func (h *Hub) startRun(msg Msg) error {
	cfg := config.GetPreset(msg.Preset)
	if cfg == nil {
		return fmt.Errorf("unknown preset %q", msg.Preset)
	}
	every := msg.Every
	if every < 1 {
		every = 1
	}

	logger := h.logger.WithField("preset", msg.Preset)
	exp := experiment.New(cfg, experiment.WithLogger(logger))
	if err := exp.Setup(experiment.NewRegistry().DefaultMetrics(cfg)...); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	shape := exp.Field().Shape()

	exp.AddObserver(experiment.ObserverFunc(func(fr diffusion.Frame) bool {
		last := exp.Driver().State() == diffusion.Done
		if fr.Step%every != 0 && !last {
			return true
		}
		return h.reply(Reply{
			Type:        TypeFrame,
			Step:        fr.Step,
			Time:        fr.Time,
			TotalEnergy: fr.Diagnostics.TotalEnergy,
			Mean:        fr.Diagnostics.MeanValue,
			Values:      fr.Field.Copy(),
			Shape:       shape,
		})
	}))

	h.reply(Reply{Type: TypeStarted, Shape: shape})
	logger.WithField("every", every).Info("stream started")

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		res, err := exp.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return
		}
		if err != nil {
			h.reply(Reply{Type: TypeError, Content: err.Error()})
			return
		}
		finite, dropped := metrics.Finite(res.Metrics)
		h.reply(Reply{
			Type:      TypeDone,
			Step:      res.Steps,
			Time:      exp.Driver().Clock().Current(),
			Metrics:   finite,
			NonFinite: dropped,
		})
		logger.WithField("steps", res.Steps).Info("stream done")
	}()
	return nil
}

// stopRun cancels the active run and waits for it to return.
func (h *Hub) stopRun() {
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
	h.wg.Wait()
}

func (h *Hub) close() {
	h.stopRun()
	close(h.quit)
}
