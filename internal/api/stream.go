package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/nerrad567/devicelink/internal/fault"
	"github.com/nerrad567/devicelink/internal/telemetry"
)

// Stream connection limits.
const (
	wsMaxMessageSize = 4096
	wsPongWait       = 60 * time.Second
	wsPingInterval   = wsPongWait * 9 / 10
	wsWriteWait      = 10 * time.Second
)

// upgrader configures the WebSocket upgrader.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		// Devices send no Origin; browsers are filtered by CORS
		return true
	},
}

// handleSampleStream upgrades to a WebSocket on which the device sends one
// reading per text frame. Every frame is answered with an envelope holding
// the new sample id or the reason it was rejected.
//
// The device is resolved before the upgrade so an unknown owner or device
// fails as an ordinary JSON response.
func (s *Server) handleSampleStream(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	deviceID := chi.URLParam(r, "arduId")

	if _, err := s.registry.Get(r.Context(), userID, deviceID); err != nil {
		s.writeFault(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error
		s.logger.Warn("websocket upgrade failed", "error", err, "device_id", deviceID)
		return
	}

	s.logger.Debug("sample stream opened", "account_id", userID, "device_id", deviceID)
	s.serveSampleStream(r.Context(), conn, userID, deviceID)
	s.logger.Debug("sample stream closed", "account_id", userID, "device_id", deviceID)
}

func (s *Server) serveSampleStream(ctx context.Context, conn *websocket.Conn, userID, deviceID string) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer conn.Close()

	go keepAlive(ctx, conn)

	conn.SetReadLimit(wsMaxMessageSize)
	//nolint:errcheck // Best-effort deadline on connection setup
	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		msgType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read error", "error", err, "device_id", deviceID)
			}
			return
		}
		//nolint:errcheck // Best-effort deadline reset
		conn.SetReadDeadline(time.Now().Add(wsPongWait))

		reply := s.ingestFrame(ctx, msgType, message, userID, deviceID)
		data, err := json.Marshal(reply)
		if err != nil {
			s.logger.Error("encoding stream reply", "error", err)
			return
		}

		//nolint:errcheck // Best-effort deadline on write
		conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			s.logger.Debug("websocket write failed", "error", err, "device_id", deviceID)
			return
		}
	}
}

// ingestFrame stores the reading carried by one frame.
func (s *Server) ingestFrame(ctx context.Context, msgType int, message []byte, userID, deviceID string) envelope {
	if msgType != websocket.TextMessage {
		return envelope{Status: statusKO, Error: "frames must be text"}
	}

	value, err := telemetry.ParseValue(message)
	if err != nil {
		return envelope{Status: statusKO, Error: fault.Message(err)}
	}

	id, err := s.telemetry.Append(ctx, userID, deviceID, value)
	if err != nil {
		if fault.Kind(err) == nil {
			s.logger.Error("stream append failed", "error", err, "device_id", deviceID)
			return envelope{Status: statusKO, Error: "internal server error"}
		}
		return envelope{Status: statusKO, Error: fault.Message(err)}
	}
	return envelope{Status: statusOK, Data: idData{ID: id}}
}

// keepAlive pings until ctx ends, then closes the connection so a blocked
// read returns. WriteControl is safe alongside the reader's writes.
func keepAlive(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
			//nolint:errcheck // Best-effort close message
			conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(wsWriteWait))
			conn.Close()
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}
