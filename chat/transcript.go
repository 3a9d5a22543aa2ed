package chat

// Exchange is one (user message, agent response) pair of a session.
type Exchange struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

// Transcript is the ordered record of a session's exchanges.
type Transcript []Exchange

// Append returns a transcript with the pair added at the end.
// The receiver's backing array is never written to.
func (t Transcript) Append(user, assistant string) Transcript {
	out := make(Transcript, len(t), len(t)+1)
	copy(out, t)
	return append(out, Exchange{User: user, Assistant: assistant})
}
