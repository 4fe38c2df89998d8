// Package relay is a development stand-in for the game backend's channel: it
// accepts websocket connections and rebroadcasts every text frame to every
// connection. Connection tests and local two-client smoke runs use it; it
// implements none of the game rules.
package relay

import (
	"context"

	"go.uber.org/zap"
)

type Msg interface{ isHubMsg() }

type Join struct {
	ConnID string
	Outbox chan []byte
}

type Leave struct{ ConnID string }

type Broadcast struct {
	From string
	Data []byte
}

type Shutdown struct{}

func (Join) isHubMsg()      {}
func (Leave) isHubMsg()     {}
func (Broadcast) isHubMsg() {}
func (Shutdown) isHubMsg()  {}

// Hub fans frames out to all connections, the sender included, so a single
// test connection can observe its own round trip.
type Hub struct {
	inbox  chan Msg
	conns  map[string]chan []byte
	ctx    context.Context
	cancel context.CancelFunc
	log    *zap.Logger
}

func NewHub(parent context.Context, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan Msg, 64),
		conns:  make(map[string]chan []byte),
		ctx:    ctx,
		cancel: cancel,
		log:    log,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- Msg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case Join:
				h.conns[msg.ConnID] = msg.Outbox
				h.log.Debug("relay conn joined", zap.String("conn", msg.ConnID))

			case Leave:
				if ch, ok := h.conns[msg.ConnID]; ok {
					close(ch)
					delete(h.conns, msg.ConnID)
				}

			case Broadcast:
				for id, ch := range h.conns {
					select {
					case ch <- msg.Data:
					default:
						// Slow consumer - drop the connection.
						close(ch)
						delete(h.conns, id)
						h.log.Warn("relay dropped slow conn", zap.String("conn", id))
					}
				}

			case Shutdown:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) shutdown() {
	for id, ch := range h.conns {
		close(ch)
		delete(h.conns, id)
	}
	h.cancel()
}
