package web

import "github.com/Fl0rencess720/SearchChat/chat"

const (
	frameSubmit = "submit"
	frameClear  = "clear"

	frameBusy   = "busy"
	frameNotice = "notice"
	frameState  = "state"

	levelWarning = "warning"
	levelError   = "error"
)

// clientFrame is sent by the page.
type clientFrame struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	Credential string `json:"credential"`
}

// serverFrame is sent to the page. Only the fields of the given type are set.
type serverFrame struct {
	Type       string          `json:"type"`
	Level      string          `json:"level,omitempty"`
	Text       string          `json:"text,omitempty"`
	Input      *string         `json:"input,omitempty"`
	Transcript *chat.Transcript `json:"transcript,omitempty"`
}

func stateFrame(input string, transcript chat.Transcript) serverFrame {
	if transcript == nil {
		transcript = chat.Transcript{}
	}
	return serverFrame{Type: frameState, Input: &input, Transcript: &transcript}
}
