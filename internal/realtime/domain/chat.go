package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Chat direct conversation between exactly two actors
type Chat struct {
	ID             string     `bson:"_id" json:"id"`
	PairKey        string     `bson:"pair_key" json:"-"`
	Participants   []ActorRef `bson:"participants" json:"participants"`
	LastMessageID  string     `bson:"last_message_id,omitempty" json:"last_message_id,omitempty"`
	LastActivityAt time.Time  `bson:"last_activity_at" json:"last_activity_at"`
	LastSeq        int64      `bson:"last_seq" json:"-"`
	Version        int64      `bson:"version" json:"-"`
	CreatedAt      time.Time  `bson:"created_at" json:"created_at"`
}

// HasParticipant check actor is one of the two participants
func (c *Chat) HasParticipant(a ActorRef) bool {
	for _, p := range c.Participants {
		if p.Equal(a) {
			return true
		}
	}
	return false
}

// Peer the other participant, false when a is not a participant
func (c *Chat) Peer(a ActorRef) (ActorRef, bool) {
	if len(c.Participants) != 2 || !c.HasParticipant(a) {
		return ActorRef{}, false
	}
	if c.Participants[0].Equal(a) {
		return c.Participants[1], true
	}
	return c.Participants[0], true
}

// MessageKind content kind
type MessageKind string

const (
	// TextMessage plain text
	TextMessage MessageKind = "text"
	// FileMessage content is an attachment object key
	FileMessage MessageKind = "file"
	// ImageMessage content is an image object key
	ImageMessage MessageKind = "image"
)

// Valid known message kind
func (k MessageKind) Valid() bool {
	return k == TextMessage || k == FileMessage || k == ImageMessage
}

// IsAttachment file or image
func (k MessageKind) IsAttachment() bool {
	return k == FileMessage || k == ImageMessage
}

// ReadReceipt actor + time of read
type ReadReceipt struct {
	Actor  ActorRef  `bson:"actor" json:"actor"`
	ReadAt time.Time `bson:"read_at" json:"read_at"`
}

// Message one chat message, only ReadBy is mutated after insert
type Message struct {
	ID            string        `bson:"_id" json:"id"`
	ChatID        string        `bson:"chat_id" json:"chat_id"`
	Seq           int64         `bson:"seq" json:"seq"`
	Sender        ActorRef      `bson:"sender" json:"sender"`
	Content       string        `bson:"content" json:"content"`
	Kind          MessageKind   `bson:"kind" json:"kind"`
	ReadBy        []ReadReceipt `bson:"read_by" json:"read_by"`
	CreatedAt     time.Time     `bson:"created_at" json:"created_at"`
	AttachmentURL string        `bson:"-" json:"attachment_url,omitempty"`
}

// IsReadBy check actor has a read receipt
func (m *Message) IsReadBy(a ActorRef) bool {
	for _, r := range m.ReadBy {
		if r.Actor.Equal(a) {
			return true
		}
	}
	return false
}

// Before ordering by (created_at, seq)
func (m *Message) Before(o *Message) bool {
	if !m.CreatedAt.Equal(o.CreatedAt) {
		return m.CreatedAt.Before(o.CreatedAt)
	}
	return m.Seq < o.Seq
}

// Cursor position in a chat history, pages return messages strictly older
type Cursor struct {
	CreatedAt time.Time
	Seq       int64
}

// String opaque form "createdAtMillis:seq"
func (c Cursor) String() string {
	return fmt.Sprintf("%d:%d", c.CreatedAt.UnixMilli(), c.Seq)
}

// CursorOf cursor pointing at message
func CursorOf(m *Message) Cursor {
	return Cursor{CreatedAt: m.CreatedAt, Seq: m.Seq}
}

// ParseCursor parse opaque cursor, empty string means newest page
func ParseCursor(s string) (*Cursor, error) {
	if s == "" {
		return nil, nil
	}
	ms, seq, ok := strings.Cut(s, ":")
	if !ok {
		return nil, ErrInvalidCursor
	}
	millis, err := strconv.ParseInt(ms, 10, 64)
	if err != nil {
		return nil, ErrInvalidCursor
	}
	n, err := strconv.ParseInt(seq, 10, 64)
	if err != nil {
		return nil, ErrInvalidCursor
	}
	return &Cursor{CreatedAt: time.UnixMilli(millis).UTC(), Seq: n}, nil
}

// MessagePage chronological page of history
type MessagePage struct {
	Messages   []*Message `json:"messages"`
	NextCursor string     `json:"next_cursor,omitempty"`
	HasMore    bool       `json:"has_more"`
}

// ChatSummary chat list entry
type ChatSummary struct {
	Chat        *Chat   `json:"chat"`
	Peer        Profile `json:"peer"`
	UnreadCount int64   `json:"unread_count"`
}

// ReadResult messages newly marked read
type ReadResult struct {
	ChatID     string    `json:"chat_id"`
	Reader     ActorRef  `json:"reader"`
	MessageIDs []string  `json:"message_ids"`
	ReadAt     time.Time `json:"read_at"`
}

// Now server clock truncated to storage precision (ms)
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
