package service

import (
	"time"

	"venus/internal/apperr"
	"venus/internal/models"
	"venus/internal/validator"
)

// MatchInput records a match with partnerID and, optionally, the latest message in their thread.
type MatchInput struct {
	PartnerID       string     `json:"partner_id" validate:"required,uuid"`
	ThreadID        string     `json:"thread_id" validate:"required,uuid"`
	LastMessage     *string    `json:"last_message" validate:"omitempty,max=2000"`
	LastMessageDate *time.Time `json:"last_message_date"`
}

type MatchService struct {
	matches MatchStore
	now     func() time.Time
}

func NewMatchService(matches MatchStore) *MatchService {
	return &MatchService{matches: matches, now: time.Now}
}

func (s *MatchService) Save(userID string, in MatchInput) (*models.Match, error) {
	if err := validator.Struct(in); err != nil {
		return nil, apperr.Validation(err.Error(), err)
	}
	if in.PartnerID == userID {
		return nil, apperr.Validation("cannot match with yourself", nil)
	}
	m := &models.Match{
		MyID:      userID,
		PartnerID: in.PartnerID,
		ThreadID:  in.ThreadID,
		Audit:     models.NewAudit(userID),
	}
	if in.LastMessage != nil {
		sentAt := s.now()
		if in.LastMessageDate != nil {
			sentAt = *in.LastMessageDate
		}
		sender := userID
		m.LastMessage = in.LastMessage
		m.LastMessageDate = &sentAt
		m.SentBy = &sender
	}
	return s.matches.Upsert(m)
}

func (s *MatchService) List(userID string) ([]models.Match, error) {
	return s.matches.ListForUser(userID)
}
