package model

import (
	"time"

	"github.com/google/uuid"
)

// QAEntry is one canned answer for the health assistant, matched against a
// question by its keyword list.
type QAEntry struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Question  string    `db:"question" json:"question"`
	Answer    string    `db:"answer" json:"answer"`
	Keywords  string    `db:"keywords" json:"keywords"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type CreateQAEntryRequest struct {
	Question string `json:"question" binding:"required,max=500"`
	Answer   string `json:"answer" binding:"required"`
	Keywords string `json:"keywords" binding:"required,max=500"`
}

type AskRequest struct {
	Question string `json:"question" binding:"required,max=500"`
}

type AssistantReply struct {
	Answer  string     `json:"answer"`
	Matched bool       `json:"matched"`
	EntryID *uuid.UUID `json:"entry_id,omitempty"`
}
