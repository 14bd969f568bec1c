package entity

type MessageRole string

const (
	RoleUser  MessageRole = "user"
	RoleModel MessageRole = "model"
)

type Message struct {
	Role    MessageRole
	Content string
}

// Conversation is an ordered, append-only dialogue.
type Conversation []Message

// Append returns a new conversation with msgs added after the existing turns.
// The receiver is never modified, so earlier snapshots stay valid.
func (c Conversation) Append(msgs ...Message) Conversation {
	out := make(Conversation, 0, len(c)+len(msgs))
	out = append(out, c...)
	return append(out, msgs...)
}

func (c Conversation) Last() (Message, bool) {
	if len(c) == 0 {
		return Message{}, false
	}
	return c[len(c)-1], true
}

type ToolCall struct {
	ID        string
	Name      string
	Arguments map[string]any
}
