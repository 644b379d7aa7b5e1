package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/lox/playnine/internal/report"
	"github.com/lox/playnine/internal/simulator"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

// connection is one websocket client. It runs at most one simulation at a
// time.
type connection struct {
	ws     *websocket.Conn
	server *Server
	send   chan *Message
	logger zerolog.Logger
	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	runCancel context.CancelFunc
	runs      sync.WaitGroup
}

func newConnection(ws *websocket.Conn, server *Server) *connection {
	ctx, cancel := context.WithCancel(server.ctx)
	return &connection{
		ws:     ws,
		server: server,
		send:   make(chan *Message, 256),
		logger: server.logger.With().Str("conn", uuid.NewString()).Logger(),
		ctx:    ctx,
		cancel: cancel,
	}
}

// serve blocks until the client goes away or the server closes.
func (c *connection) serve() {
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		c.writePump()
	}()

	c.readPump()

	c.cancel()
	c.runs.Wait()
	<-writerDone
	_ = c.ws.Close() // Ignore close errors during cleanup
}

// readPump handles incoming messages from the client
func (c *connection) readPump() {
	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error().Err(err).Msg("WebSocket error")
			}
			return
		}
		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteJSON(msg); err != nil {
				c.logger.Debug().Err(err).Msg("Failed to write message")
				c.cancel()
				_ = c.ws.Close() // Unblocks the reader
				return
			}

		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.cancel()
				_ = c.ws.Close()
				return
			}

		case <-c.ctx.Done():
			_ = c.ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			_ = c.ws.Close()
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *connection) handleMessage(msg *Message) {
	c.logger.Debug().Str("type", string(msg.Type)).Msg("Received message")

	switch msg.Type {
	case TypeRun:
		var req RunRequest
		if len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, &req); err != nil {
				c.sendError(CodeBadRequest, "Failed to parse run request")
				return
			}
		}
		c.startRun(req)

	case TypeCancel:
		c.mu.Lock()
		if c.runCancel != nil {
			c.runCancel()
		}
		c.mu.Unlock()

	default:
		c.sendError(CodeBadRequest, "Unknown message type: "+string(msg.Type))
	}
}

func (c *connection) startRun(req RunRequest) {
	cfg, err := req.Apply(c.server.config.Base)
	if err != nil {
		c.sendError(CodeBadRequest, err.Error())
		return
	}
	if cfg.Simulations > c.server.config.MaxSimulations {
		c.sendError(CodeTooLarge, fmt.Sprintf("simulations must be at most %d", c.server.config.MaxSimulations))
		return
	}

	c.mu.Lock()
	if c.runCancel != nil {
		c.mu.Unlock()
		c.sendError(CodeBusy, "a run is already in progress")
		return
	}
	ctx, cancel := context.WithCancel(c.ctx)
	c.runCancel = cancel
	c.mu.Unlock()

	cfg.Monitor = monitor{c}
	c.sendMessage(TypeStarted, StartedData{
		TargetScore: cfg.TargetScore,
		Rounds:      cfg.Rounds,
		Simulations: cfg.Simulations,
		Predicate:   cfg.Predicate,
		Mode:        cfg.Mode,
		Description: fmt.Sprintf("%s, total score across %d rounds %s",
			cfg.Mode.Description(cfg.Rules), cfg.Rounds, cfg.Predicate.Describe(cfg.TargetScore)),
	})

	c.runs.Add(1)
	go func() {
		defer c.runs.Done()

		res, err := simulator.Run(ctx, cfg)

		c.mu.Lock()
		c.runCancel = nil
		c.mu.Unlock()
		cancel()

		if err != nil && !simulator.IsCancelled(err) {
			c.logger.Error().Err(err).Msg("Simulation failed")
			c.sendError(CodeRunFailed, err.Error())
			return
		}

		c.logger.Info().
			Str("run", res.RunID).
			Int("completed", res.Completed).
			Int("successes", res.Successes).
			Bool("cancelled", res.Cancelled).
			Dur("elapsed", res.Elapsed).
			Msg("Simulation finished")
		c.sendMessage(TypeResult, report.NewDocument(res))
	}()
}

// sendMessage queues a message, giving up once the connection is closing.
func (c *connection) sendMessage(messageType MessageType, data any) {
	msg, err := NewMessage(messageType, data)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to create message")
		return
	}

	select {
	case c.send <- msg:
	case <-c.ctx.Done():
	}
}

func (c *connection) sendError(code, message string) {
	c.sendMessage(TypeError, ErrorData{Code: code, Message: message})
}

// monitor streams simulator events to the client.
type monitor struct {
	c *connection
}

func (m monitor) OnProgress(percent int) {
	m.c.sendMessage(TypeProgress, ProgressData{Percent: percent})
}

func (m monitor) OnMatchFound(match simulator.MatchRecord) {
	m.c.sendMessage(TypeMatch, match)
}
