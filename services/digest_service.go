// services/digest_service.go
package services

import (
	"context"
	"fmt"
	"log"

	"invoice-dashboard/models"

	"github.com/shopspring/decimal"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

// MessageSender is the part of the Twilio API the digest uses.
type MessageSender interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

type PendingDigest struct {
	Count      int64
	TotalCents int64
}

func (d PendingDigest) Message() string {
	noun := "invoices"
	if d.Count == 1 {
		noun = "invoice"
	}
	return fmt.Sprintf("Invoice dashboard: %d pending %s totalling $%s",
		d.Count, noun, decimal.New(d.TotalCents, -2).StringFixed(2))
}

type DigestService struct {
	db     *gorm.DB
	sender MessageSender
	from   string
	to     string
}

// NewDigestService builds a digest that texts `to` from `from`. With empty
// Twilio credentials the digest is only logged.
func NewDigestService(db *gorm.DB, accountSID, authToken, from, to string) *DigestService {
	s := &DigestService{db: db, from: from, to: to}
	if accountSID != "" && authToken != "" && from != "" && to != "" {
		client := twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		})
		s.sender = client.Api
	}
	return s
}

// WithSender replaces the message sender.
func (s *DigestService) WithSender(sender MessageSender, from, to string) *DigestService {
	s.sender, s.from, s.to = sender, from, to
	return s
}

func (s *DigestService) Summarize(ctx context.Context) (PendingDigest, error) {
	var digest PendingDigest
	err := s.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Select("COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total_cents").
		Where("status = ?", models.StatusPending).
		Scan(&digest).Error
	if err != nil {
		return PendingDigest{}, fmt.Errorf("summarize pending invoices: %w", err)
	}
	return digest, nil
}

// Send summarises pending invoices and texts the result when a sender is
// configured. Nothing is sent when no invoice is pending.
func (s *DigestService) Send(ctx context.Context) error {
	digest, err := s.Summarize(ctx)
	if err != nil {
		return err
	}
	if digest.Count == 0 {
		log.Println("No pending invoices, digest skipped")
		return nil
	}

	message := digest.Message()
	if s.sender == nil {
		log.Println(message)
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(s.to)
	params.SetFrom(s.from)
	params.SetBody(message)

	resp, err := s.sender.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("send digest to %s: %w", s.to, err)
	}
	if resp != nil && resp.Sid != nil {
		log.Printf("Digest sent to %s, SID: %s", s.to, *resp.Sid)
	} else {
		log.Printf("Digest sent to %s, but no SID returned", s.to)
	}
	return nil
}
