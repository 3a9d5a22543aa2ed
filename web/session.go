package web

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/Fl0rencess720/SearchChat/chat"
)

const maxFrameBytes = 64 << 10

// session is one open page. It owns the page's transcript and handles its
// frames one at a time, so turns of a session never overlap.
type session struct {
	id         string
	conn       *websocket.Conn
	turns      TurnHandler
	logger     *slog.Logger
	transcript chat.Transcript

	writeMu sync.Mutex
}

func (s *session) run(ctx context.Context) {
	s.conn.SetReadLimit(maxFrameBytes)
	s.send(stateFrame("", s.transcript))

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("session read failed", "session", s.id, "error", err)
			}
			return
		}

		var frame clientFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			s.Error(fmt.Sprintf("Malformed message: %v", err))
			continue
		}

		switch frame.Type {
		case frameSubmit:
			s.send(serverFrame{Type: frameBusy})
			input, transcript := s.turns.HandleTurn(ctx, frame.Message, s.transcript, frame.Credential, s)
			s.transcript = transcript
			s.send(stateFrame(input, s.transcript))
		case frameClear:
			s.transcript = nil
			s.send(stateFrame("", s.transcript))
		default:
			s.Error(fmt.Sprintf("Unknown message type %q", frame.Type))
		}
	}
}

// Warn implements chat.Notifier.
func (s *session) Warn(msg string) {
	s.send(serverFrame{Type: frameNotice, Level: levelWarning, Text: msg})
}

// Error implements chat.Notifier.
func (s *session) Error(msg string) {
	s.send(serverFrame{Type: frameNotice, Level: levelError, Text: msg})
}

func (s *session) send(frame serverFrame) {
	data, err := json.Marshal(frame)
	if err != nil {
		s.logger.Error("Failed to marshal frame", "type", frame.Type, "error", err)
		return
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.logger.Debug("session write failed", "session", s.id, "error", err)
	}
}

func (s *session) close() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.Close()
}
