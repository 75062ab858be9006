// Package stream pushes committed sensor readings to websocket consumers.
// Values leave the hub in the loop-input contract: clamped to the clinical
// display range and integer-rounded.
package stream

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"icgm-sensor-lab/internal/domain"
	"icgm-sensor-lab/internal/observability"
)

// Config configures hub connection behavior.
type Config struct {
	// WriteTimeout is the timeout for writing one message to a consumer.
	WriteTimeout time.Duration
	// PingInterval is the interval for sending ping frames.
	PingInterval time.Duration
}

// DefaultConfig returns default hub configuration.
func DefaultConfig() Config {
	return Config{
		WriteTimeout: 10 * time.Second,
		PingInterval: 30 * time.Second,
	}
}

// ReadingMessage is the wire format of one streamed reading.
type ReadingMessage struct {
	DatasetName string `json:"dataset_name"`
	SensorNum   int    `json:"sensor_num"`
	Tick        int    `json:"tick"`
	TimestampMs int64  `json:"timestamp_ms"`
	Value       int    `json:"value"` // clamped, rounded mg/dL
}

// Hub broadcasts sensor readings to all connected consumers.
type Hub struct {
	config   Config
	upgrader websocket.Upgrader

	connsMu sync.Mutex
	conns   map[*websocket.Conn]struct{}

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewHub creates a broadcast hub.
func NewHub(config *Config) *Hub {
	cfg := DefaultConfig()
	if config != nil {
		cfg = *config
	}
	return &Hub{
		config: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		conns: make(map[*websocket.Conn]struct{}),
		done:  make(chan struct{}),
	}
}

// Handler upgrades incoming requests and registers the consumer until its
// connection closes.
func (h *Hub) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("stream: upgrade failed: %v", err)
			return
		}

		h.connsMu.Lock()
		h.conns[conn] = struct{}{}
		h.connsMu.Unlock()

		h.wg.Add(2)
		go h.readPump(conn)
		go h.pingLoop(conn)
	}
}

// readPump drains consumer messages to detect close.
func (h *Hub) readPump(conn *websocket.Conn) {
	defer h.wg.Done()
	defer h.drop(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// pingLoop keeps the connection alive until the hub or connection closes.
func (h *Hub) pingLoop(conn *websocket.Conn) {
	defer h.wg.Done()
	ticker := time.NewTicker(h.config.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
			deadline := time.Now().Add(h.config.WriteTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				h.drop(conn)
				return
			}
		}
	}
}

// drop unregisters and closes a consumer connection.
func (h *Hub) drop(conn *websocket.Conn) {
	h.connsMu.Lock()
	if _, ok := h.conns[conn]; ok {
		delete(h.conns, conn)
		conn.Close()
	}
	h.connsMu.Unlock()
}

// ConsumerCount reports the number of connected consumers.
func (h *Hub) ConsumerCount() int {
	h.connsMu.Lock()
	defer h.connsMu.Unlock()
	return len(h.conns)
}

// Broadcast pushes one reading to every connected consumer. Consumers that
// cannot be written to within the timeout are dropped.
func (h *Hub) Broadcast(r domain.SensorReading) error {
	msg := ReadingMessage{
		DatasetName: r.DatasetName,
		SensorNum:   r.SensorNum,
		Tick:        r.Tick,
		Value:       domain.ClampBG(r.SensorBG),
	}
	if !r.Timestamp.IsZero() {
		msg.TimestampMs = r.Timestamp.UnixMilli()
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	h.connsMu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.connsMu.Unlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.drop(conn)
		}
	}

	observability.RecordReadingStreamed()
	return nil
}

// Close shuts down the hub and closes all consumer connections.
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
	})

	h.connsMu.Lock()
	for conn := range h.conns {
		conn.Close()
		delete(h.conns, conn)
	}
	h.connsMu.Unlock()

	h.wg.Wait()
}
