package entity

type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleTool      MessageRole = "tool"
)

type Message struct {
	Role       MessageRole
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string
	Name       string
}

// Conversation is the append-only message history of a single analysis.
type Conversation struct {
	messages []Message
}

func NewConversation(systemPrompt, question string) *Conversation {
	c := &Conversation{}
	if systemPrompt != "" {
		c.Append(Message{Role: RoleSystem, Content: systemPrompt})
	}
	c.Append(Message{Role: RoleUser, Content: question})
	return c
}

func (c *Conversation) Append(msgs ...Message) {
	c.messages = append(c.messages, msgs...)
}

// Messages returns a copy so callers cannot rewrite earlier turns.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Conversation) Len() int {
	return len(c.messages)
}

type TokenUsage struct {
	InputTokens  int
	OutputTokens int
}

func (u TokenUsage) Total() int {
	return u.InputTokens + u.OutputTokens
}

func (u *TokenUsage) Add(other TokenUsage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
}
