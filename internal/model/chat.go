package model

import "time"

type ChatSender string

const (
	SenderUser      ChatSender = "user"
	SenderAssistant ChatSender = "assistant"
)

// ChatMessage is one entry of a user's tutor transcript. Append-only.
//
// swagger:model ChatMessage
type ChatMessage struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint       `gorm:"index:idx_chat_user_time;not null" json:"userId"`
	Sender    ChatSender `gorm:"size:20;not null" json:"sender"`
	Text      string     `gorm:"type:text;not null" json:"text"`
	Timestamp time.Time  `gorm:"index:idx_chat_user_time;not null" json:"timestamp"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
