package domain

import (
	"strings"
	"sync"
	"time"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

const DefaultChatTitle = "New Chat"

type Message struct {
	Role        Role            `json:"role"`
	Content     string          `json:"content"`
	Mode        InstructionMode `json:"mode,omitempty"`
	Failed      bool            `json:"failed,omitempty"`
	FailureKind FailureKind     `json:"failure_kind,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type Chat struct {
	ID        string             `json:"id"`
	Title     string             `json:"title"`
	Documents []UploadedDocument `json:"documents"`
	Messages  []Message          `json:"messages"`
	LastTips  string             `json:"last_tips,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

func (c *Chat) HasDocuments() bool {
	return len(c.Documents) > 0
}

// PutDocument adds doc, replacing an earlier document with the same name in place.
func (c *Chat) PutDocument(doc UploadedDocument) {
	for i := range c.Documents {
		if c.Documents[i].Name == doc.Name {
			c.Documents[i] = doc
			return
		}
	}
	c.Documents = append(c.Documents, doc)
}

// DocumentTexts returns the text of every document that extracted cleanly, in upload order.
func (c *Chat) DocumentTexts() []string {
	texts := make([]string, 0, len(c.Documents))
	for _, doc := range c.Documents {
		if doc.Failed() {
			continue
		}
		texts = append(texts, doc.Text)
	}
	return texts
}

func (c *Chat) AppendMessage(msg Message) {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	c.Messages = append(c.Messages, msg)
}

// AppendGeneration records an assistant reply produced for mode.
func (c *Chat) AppendGeneration(mode InstructionMode, gen Generation) {
	msg := Message{
		Role:    RoleAssistant,
		Content: gen.Display(),
		Mode:    mode,
	}
	if gen.Failure != nil {
		msg.Failed = true
		msg.FailureKind = gen.Failure.Kind
	}
	c.AppendMessage(msg)
}

func (c *Chat) HasMessages() bool {
	return len(c.Messages) > 0
}

// LatestByMode returns the newest assistant message produced for mode.
func (c *Chat) LatestByMode(mode InstructionMode) (Message, bool) {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleAssistant && c.Messages[i].Mode == mode {
			return c.Messages[i], true
		}
	}
	return Message{}, false
}

func (c *Chat) Clone() *Chat {
	if c == nil {
		return nil
	}
	out := *c
	out.Documents = append([]UploadedDocument(nil), c.Documents...)
	out.Messages = append([]Message(nil), c.Messages...)
	return &out
}

// TipsFilename names the action-items download after the chat's first document.
func (c *Chat) TipsFilename() string {
	name := "document"
	if len(c.Documents) > 0 {
		name = c.Documents[0].BaseName()
	}
	name = strings.ReplaceAll(name, `"`, "_")
	return name + "_tips.txt"
}

// Workspace holds one browser session's chats. Callers serialize access with Lock/Unlock.
type Workspace struct {
	mu sync.Mutex

	ID            string
	Chats         []*Chat
	CurrentChatID string
	CreatedAt     time.Time
	LastSeenAt    time.Time
}

func NewWorkspace(id string, now time.Time) *Workspace {
	return &Workspace{
		ID:         id,
		CreatedAt:  now,
		LastSeenAt: now,
	}
}

func (w *Workspace) Lock()   { w.mu.Lock() }
func (w *Workspace) Unlock() { w.mu.Unlock() }

func (w *Workspace) Chat(id string) (*Chat, bool) {
	for _, chat := range w.Chats {
		if chat.ID == id {
			return chat, true
		}
	}
	return nil, false
}

func (w *Workspace) CurrentChat() (*Chat, bool) {
	if w.CurrentChatID == "" {
		return nil, false
	}
	return w.Chat(w.CurrentChatID)
}

func (w *Workspace) AddChat(chat *Chat) {
	w.Chats = append(w.Chats, chat)
	w.CurrentChatID = chat.ID
}

// WorkspaceView is a render-safe copy of a workspace.
type WorkspaceView struct {
	SessionID   string
	Chats       []*Chat
	CurrentChat *Chat
}

func (w *Workspace) View() WorkspaceView {
	view := WorkspaceView{SessionID: w.ID}
	for _, chat := range w.Chats {
		cloned := chat.Clone()
		view.Chats = append(view.Chats, cloned)
		if chat.ID == w.CurrentChatID {
			view.CurrentChat = cloned
		}
	}
	return view
}
