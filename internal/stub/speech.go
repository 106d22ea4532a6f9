package stub

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

// simulatedTranscript is what the stub "hears" regardless of audio content.
const simulatedTranscript = "This is a simulated transcription of your voice command"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type speechFrame struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	Language string `json:"language,omitempty"`
	Format   string `json:"format,omitempty"`
	Error    string `json:"error,omitempty"`
}

// handleRecognize runs one stubbed recognition session: it drains audio
// frames and answers the end frame with a canned transcript.
func (h *Handler) handleRecognize(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[speech] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	var audioBytes int
	for {
		messageType, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		if messageType == websocket.BinaryMessage {
			audioBytes += len(raw)
			continue
		}

		var f speechFrame
		if err := json.Unmarshal(raw, &f); err != nil {
			continue
		}

		switch f.Type {
		case "config":
			log.Printf("[speech] session configured: language=%s format=%s", f.Language, f.Format)
		case "end":
			if audioBytes == 0 {
				_ = conn.WriteJSON(speechFrame{Type: "end"})
				return
			}
			_ = conn.WriteJSON(speechFrame{Type: "result", Text: simulatedTranscript})
			_ = conn.WriteJSON(speechFrame{Type: "end"})
			return
		}
	}
}
