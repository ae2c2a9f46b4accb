// Package remote accepts recognized voice text from a single websocket
// client and streams vehicle telemetry back to it.
package remote

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	log "github.com/sirupsen/logrus"

	"robotcar/command"
	"robotcar/streamer"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	writeWait      = 2 * time.Second
	pongWait       = 10 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 2048
	clientBuffer   = 32
)

// Submitter takes recognized text; *vehicle.Car implements it.
type Submitter interface {
	Submit(text string) command.VoiceCommand
}

type Server struct {
	submitter Submitter
	telemetry *streamer.Streamer[Telemetry]
	upgrader  websocket.Upgrader
	wsMutex   sync.Mutex
}

// NewServer builds a server. telemetry may be nil, then only voice text
// is accepted.
func NewServer(submitter Submitter, telemetry *streamer.Streamer[Telemetry]) *Server {
	return &Server{
		submitter: submitter,
		telemetry: telemetry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  maxMessageSize,
			WriteBufferSize: maxMessageSize,
			CheckOrigin:     checkOrigin,
		},
	}
}

func checkOrigin(r *http.Request) bool {
	return true
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.ServeWS)
	return mux
}

// ListenAndServe serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, address string) error {
	srv := &http.Server{
		Addr:              address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	log.WithField("address", address).Info("Remote control server listening")
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	if !s.wsMutex.TryLock() {
		log.Print("Websocket multiple connections are not allowed with ", r.RemoteAddr)
		http.Error(w, "another client is connected", http.StatusConflict)
		return
	}
	defer s.wsMutex.Unlock()
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Print("Websocket upgrade error: ", err)
		return
	}
	defer conn.Close()

	session := uuid.NewString()
	logger := log.WithFields(log.Fields{"session": session, "remote": r.RemoteAddr})
	logger.Info("Websocket connection established")

	var client *streamer.Client[Telemetry]
	if s.telemetry != nil {
		client = s.telemetry.NewClient(clientBuffer)
	}
	if err := writeJSON(conn, &Telemetry{Type: Hello, Session: session}); err != nil {
		logger.WithError(err).Warn("Websocket write error")
		if client != nil {
			client.Close()
		}
		return
	}

	done := make(chan struct{})
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeLoop(conn, client, done, logger)
	}()

	s.readLoop(conn, logger)

	close(done)
	if client != nil {
		client.Close()
	}
	<-writerDone
	logger.Info("Websocket connection terminated")
}

func (s *Server) readLoop(conn *websocket.Conn, logger *log.Entry) {
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.WithError(err).Warn("Websocket read error")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))
		msg, err := command.Unmarshal(raw)
		if err != nil {
			logger.WithError(err).Warn("Websocket message format error")
			continue
		}
		switch msg.Type {
		case command.VoiceText:
			s.submitter.Submit(msg.Text)
		default:
			logger.WithField("type", msg.Type).Warn("Unknown message type")
		}
	}
}

// writeLoop owns every write after the greeting.
func (s *Server) writeLoop(conn *websocket.Conn, client *streamer.Client[Telemetry], done <-chan struct{}, logger *log.Entry) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	var telemetry <-chan *Telemetry
	if client != nil {
		telemetry = client.C
	}
	for {
		select {
		case <-done:
			return
		case msg, ok := <-telemetry:
			if !ok {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				telemetry = nil
				continue
			}
			if err := writeJSON(conn, msg); err != nil {
				logger.WithError(err).Warn("Websocket write error")
				conn.Close()
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				conn.Close()
				return
			}
		}
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}
