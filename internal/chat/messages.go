package chat

// Message is one inbound wire frame. Field presence depends on Kind.
type Message struct {
	Kind    string   `json:"kind"`
	Name    string   `json:"name,omitempty"`
	Text    string   `json:"text,omitempty"`
	NewName string   `json:"newName,omitempty"`
	PM      *Private `json:"pm,omitempty"`
}

// Private is the payload of a "privateMessage" frame. An empty To addresses
// the sender itself.
type Private struct {
	To      string `json:"to,omitempty"`
	Message string `json:"message"`
}

// ──────────────────────────── Outbound DTOs ─────────────────────────────────

// Note is a system announcement (join/leave/rename).
type Note struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// Chat carries a member's text, including private messages (text prefixed
// with the private marker).
type Chat struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
	Text string `json:"text"`
}

const privateMarker = "[PRIVATE] "

func newNote(text string) Note { return Note{Kind: "note", Text: text} }

func newChat(name, text string) Chat { return Chat{Kind: "chat", Name: name, Text: text} }
