package dtos

import "github.com/justsurfingit/jobchat/internal/chat"

type SessionCreationRequest struct {
	// Optional; defaults to the configured language.
	Language string `json:"language" binding:"omitempty,oneof=zh en"`
}

type MessageRequest struct {
	Text string `json:"text" binding:"required"`
}

type LanguageRequest struct {
	Language string `json:"language" binding:"required,oneof=zh en"`
}

type SessionResponse struct {
	ID         string        `json:"id"`
	Language   chat.Language `json:"language"`
	Finished   bool          `json:"finished"`
	Busy       bool          `json:"busy"`
	DocumentID string        `json:"document_id,omitempty"`
	Fields     chat.FieldSet `json:"fields"`
	Missing    []chat.Field  `json:"missing"`
	Turns      []chat.Turn   `json:"turns"`
}

type MessageResponse struct {
	Appended   []chat.Turn     `json:"appended"`
	Field      chat.Field      `json:"field,omitempty"`
	Saved      bool            `json:"saved"`
	DocumentID string          `json:"document_id,omitempty"`
	Session    SessionResponse `json:"session"`
}

func NewSessionResponse(s *chat.Session) SessionResponse {
	snap := s.Snapshot()
	missing := snap.Fields.Missing()
	if missing == nil {
		missing = []chat.Field{}
	}
	return SessionResponse{
		ID:         snap.ID,
		Language:   snap.Language,
		Finished:   snap.Finished,
		Busy:       s.Busy(),
		DocumentID: snap.DocumentID,
		Fields:     snap.Fields,
		Missing:    missing,
		Turns:      snap.Turns,
	}
}
