package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/okian/passnet/pkg/logger"
)

const socketWriteTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	// the page is served from this origin or from a local dev server
	CheckOrigin: func(r *http.Request) bool { return true },
}

// socketConn serializes writes on a websocket connection.
type socketConn struct {
	c       *websocket.Conn
	writeMu sync.Mutex
}

func (s *socketConn) writeJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.c.SetWriteDeadline(time.Now().Add(socketWriteTimeout))
	return s.c.WriteMessage(websocket.TextMessage, data)
}

// SocketHandler streams pointer callbacks over a websocket. Each text
// message is one interaction; each reply is the resulting highlight or an
// error body.
type SocketHandler struct {
	deps SessionDependencies
}

// NewSocketHandler creates a new websocket handler.
func NewSocketHandler(deps SessionDependencies) *SocketHandler {
	return &SocketHandler{deps: deps}
}

// HandleSocket handles GET /api/sessions/{id}/ws requests.
func (h *SocketHandler) HandleSocket(w http.ResponseWriter, r *http.Request) {
	const op = "api.socket"
	id := r.PathValue("id")

	// reject unknown sessions before upgrading so the client sees a plain 4xx
	view, err := h.deps.Graph(r.Context(), id)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}

	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		return
	}
	defer func() { _ = c.Close() }()
	c.SetReadLimit(maxBodyBytes)
	conn := &socketConn{c: c}

	// Detach from the request context; it is canceled once the handler hijacks.
	ctx := context.WithoutCancel(r.Context())
	log := logger.Get().Named("ws").With(logger.String("session", id))

	if err := conn.writeJSON(view.Highlight); err != nil {
		return
	}

	for {
		msgType, msg, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug(ctx, "websocket read ended", logger.Error(err))
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		in, err := decodeInteraction(msg)
		if err != nil {
			_ = conn.writeJSON(errorResponse{Code: "bad_request", Message: WrapKind(op, ErrBadRequest, err).Error()})
			continue
		}

		hl, err := h.deps.Interact(ctx, id, in)
		if err != nil {
			_, code := classify(err)
			if werr := conn.writeJSON(errorResponse{Code: code, Message: Wrap(op, err).Error()}); werr != nil {
				return
			}
			continue
		}
		if err := conn.writeJSON(hl); err != nil {
			log.Debug(ctx, "websocket write failed", logger.Error(err))
			return
		}
	}
}
