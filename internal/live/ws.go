package live

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/fluentvoice/speech-trainer/internal/asr"
	"github.com/fluentvoice/speech-trainer/internal/ipa"
	"github.com/fluentvoice/speech-trainer/internal/mic"
	"github.com/fluentvoice/speech-trainer/internal/observability"
	"github.com/fluentvoice/speech-trainer/internal/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Origin policy is enforced upstream; the gateway accepts all.
		return true
	},
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

const pollInterval = 100 * time.Millisecond

// SessionDeps carries the collaborators a live session needs.
type SessionDeps struct {
	Recognizer asr.Recognizer
	IPA        *ipa.Client
	Publisher  session.Publisher
	Mic        mic.Config
	FrameSize  int
	Language   string
}

// sessionEvent is a server-to-client frame: a state transition, the final
// analysis, or a failure.
type sessionEvent struct {
	Type     string    `json:"type"`
	State    string    `json:"state"`
	Reason   string    `json:"reason,omitempty"`
	Error    string    `json:"error,omitempty"`
	Analysis *Analysis `json:"analysis,omitempty"`
}

// SessionHandler serves GET /ws/session. The client streams binary PCM16
// frames; the server captures one utterance, transcribes it, and pushes state
// transitions plus the final analysis as JSON text frames.
func SessionHandler(deps SessionDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error().Err(err).Msg("websocket upgrade failed")
			return
		}
		defer conn.Close()

		src := mic.NewStreamSource(deps.FrameSize)
		ctrl := session.New(src, deps.Recognizer, session.Config{
			Mic:       deps.Mic,
			Language:  deps.Language,
			Publisher: deps.Publisher,
		})
		logger := observability.WithCorrelationID(ctrl.ID())
		logger.Info().Str("remote", r.RemoteAddr).Msg("live session opened")

		ctrl.Start(r.Context())

		// Reader: client audio feeds the stream source until the client
		// stops or disconnects. Closing the source ends the capture.
		go func() {
			defer src.Close()
			for {
				msgType, data, err := conn.ReadMessage()
				if err != nil {
					if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
						logger.Warn().Err(err).Msg("websocket read failed")
					}
					return
				}
				switch msgType {
				case websocket.BinaryMessage:
					src.Push(data)
				case websocket.TextMessage:
					if string(data) == "stop" {
						return
					}
				}
			}
		}()

		// Writer: poll the controller and push transitions. Only this
		// goroutine writes to the connection.
		if err := conn.WriteJSON(sessionEvent{Type: "state", State: string(session.StateListening)}); err != nil {
			return
		}
		last := session.StateListening

		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		for range ticker.C {
			if msg, ok := ctrl.Poll(); ok {
				writeFinal(conn, r, deps, msg)
				logger.Info().Str("state", string(msg.State)).Msg("live session finished")
				return
			}
			if st := ctrl.State(); st != last {
				last = st
				if err := conn.WriteJSON(sessionEvent{Type: "state", State: string(st)}); err != nil {
					return
				}
			}
		}
	}
}

func writeFinal(conn *websocket.Conn, r *http.Request, deps SessionDeps, msg session.Message) {
	var event sessionEvent
	switch msg.State {
	case session.StateReady:
		analysis := buildAnalysis(r.Context(), deps.IPA, msg.Result.Transcript, msg.Result.Confidence)
		event = sessionEvent{Type: "result", State: string(msg.State), Analysis: &analysis}
	case session.StateFailed:
		event = sessionEvent{Type: "error", State: string(msg.State), Reason: string(msg.Reason)}
		if msg.Err != nil {
			event.Error = msg.Err.Error()
		}
	default:
		event = sessionEvent{Type: "state", State: string(msg.State)}
	}
	if err := conn.WriteJSON(event); err != nil {
		return
	}
	deadline := time.Now().Add(time.Second)
	conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
}
