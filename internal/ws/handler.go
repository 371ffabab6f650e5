package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"psychic-poker/internal/service/poker"
	"psychic-poker/internal/service/solver"
	"psychic-poker/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	TypeSolve  = "solve"
	TypeResult = "result"
	TypeError  = "error"
)

type Handler struct {
	solver *solver.Service
}

func NewHandler(solverSvc *solver.Service) *Handler {
	return &Handler{solver: solverSvc}
}

type OutgoingMessage struct {
	Type string      `json:"type"`
	Seq  int64       `json:"seq"`
	Data interface{} `json:"data"`
}

type incomingMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type solveRequest struct {
	Line string `json:"line"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (h *Handler) HandleSolveWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.Error("Failed to upgrade websocket", zap.Error(err))
		return
	}

	logger.Log.Info("New WebSocket connection", zap.String("remote", c.ClientIP()))

	cl := newClient(conn, h.solver)
	cl.run(c.Request.Context())
}

type client struct {
	conn      *websocket.Conn
	solver    *solver.Service
	outbound  chan OutgoingMessage
	done      chan struct{}
	stopped   chan struct{}
	seq       int64
	pingEvery time.Duration
}

func newClient(conn *websocket.Conn, solverSvc *solver.Service) *client {
	conn.SetReadLimit(1 << 16)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})
	return &client{
		conn:      conn,
		solver:    solverSvc,
		outbound:  make(chan OutgoingMessage, 16),
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
		pingEvery: 25 * time.Second,
	}
}

func (c *client) run(ctx context.Context) {
	go c.writePump()
	c.readPump(ctx)
}

// readPump handles requests one at a time, so replies leave in the order
// their requests arrived.
func (c *client) readPump(ctx context.Context) {
	defer func() {
		close(c.done)
		c.conn.Close()
	}()

	for {
		mt, message, err := c.conn.ReadMessage()
		if err != nil {
			logger.Log.Info("WS read error", zap.Error(err))
			return
		}
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}
		c.seq++

		var incoming incomingMessage
		if err := json.Unmarshal(message, &incoming); err != nil {
			c.send(errorMessage(c.seq, "invalid payload"))
			continue
		}
		if incoming.Type != TypeSolve {
			c.send(errorMessage(c.seq, "unsupported message type"))
			continue
		}
		c.send(c.handleSolve(ctx, c.seq, incoming.Data))
	}
}

func (c *client) handleSolve(ctx context.Context, seq int64, raw json.RawMessage) OutgoingMessage {
	var req solveRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return errorMessage(seq, "invalid solve request")
	}
	deal, err := poker.ParseDeal(req.Line)
	if err != nil {
		return errorMessage(seq, err.Error())
	}
	result, err := c.solver.Solve(ctx, deal)
	if err != nil {
		logger.Log.Warn("WS solve failed", zap.String("line", req.Line), zap.Error(err))
		return errorMessage(seq, err.Error())
	}
	return OutgoingMessage{Type: TypeResult, Seq: seq, Data: result}
}

func (c *client) send(msg OutgoingMessage) {
	select {
	case c.outbound <- msg:
	case <-c.stopped:
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(c.pingEvery)
	defer func() {
		ticker.Stop()
		close(c.stopped)
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.outbound:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteJSON(msg); err != nil {
				logger.Log.Info("WS write error", zap.Error(err))
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second)); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

func errorMessage(seq int64, message string) OutgoingMessage {
	return OutgoingMessage{Type: TypeError, Seq: seq, Data: gin.H{"message": message}}
}
