package api

import (
	"time"

	"relimeter/domain/reliability"
	"relimeter/internal/errors"
)

// articleDateLayout is the wire format for publication dates.
const articleDateLayout = "2006-01-02"

// ArticlePayload carries one article's scoring inputs.
type ArticlePayload struct {
	JournalName     string `json:"journal_name" binding:"required"`
	PublicationDate string `json:"publication_date" binding:"required"`
	TherapeuticArea string `json:"therapeutic_area" binding:"required"`
	AbstractPresent *bool  `json:"abstract_present"`
	PeerReviewed    *bool  `json:"peer_reviewed"`
}

// ToFeatures converts the payload into engine input.
func (p ArticlePayload) ToFeatures() (reliability.ArticleFeatures, error) {
	published, err := time.Parse(articleDateLayout, p.PublicationDate)
	if err != nil {
		return reliability.ArticleFeatures{}, errors.InvalidInput("publication_date must be YYYY-MM-DD")
	}
	return reliability.ArticleFeatures{
		JournalName:     p.JournalName,
		PublicationDate: published,
		TherapeuticArea: p.TherapeuticArea,
		AbstractPresent: p.AbstractPresent,
		PeerReviewed:    p.PeerReviewed,
	}, nil
}

// ScoreRequest scores a single article.
type ScoreRequest struct {
	Article ArticlePayload `json:"article" binding:"required"`
	UseCase string         `json:"use_case" binding:"required"`
}

// BatchRequest scores up to MaxBatchSize articles under one use case.
type BatchRequest struct {
	Articles []ArticlePayload `json:"articles" binding:"required,min=1,max=50,dive"`
	UseCase  string           `json:"use_case" binding:"required"`
}

// TopRequest asks for the ranked journals of one therapeutic area.
type TopRequest struct {
	TherapeuticArea string `json:"therapeutic_area" binding:"required"`
	UseCase         string `json:"use_case" binding:"required"`
	Date            string `json:"date"`
	Limit           int    `json:"limit"`
}

// ParseDate returns the requested snapshot day, or nil for "latest".
func (r TopRequest) ParseDate() (*time.Time, error) {
	if r.Date == "" {
		return nil, nil
	}
	parsed, err := time.Parse(articleDateLayout, r.Date)
	if err != nil {
		return nil, errors.InvalidInput("date must be YYYY-MM-DD")
	}
	return &parsed, nil
}
