package services

import (
	"context"
	"errors"
	"testing"

	"invoice-dashboard/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

type fakeSender struct {
	sent []*twilioApi.CreateMessageParams
	err  error
}

func (f *fakeSender) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, params)
	sid := "SM123"
	return &twilioApi.ApiV2010Message{Sid: &sid}, nil
}

func TestDigestSummarizeCountsPendingOnly(t *testing.T) {
	db := setupTestDB(t)
	alice := seedCustomer(t, db, "Alice", "alice@example.com")
	seedInvoice(t, db, alice, 1000, models.StatusPending, "2026-01-01")
	seedInvoice(t, db, alice, 2550, models.StatusPending, "2026-01-02")
	seedInvoice(t, db, alice, 9999, models.StatusPaid, "2026-01-03")

	digest, err := NewDigestService(db, "", "", "", "").Summarize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PendingDigest{Count: 2, TotalCents: 3550}, digest)
	assert.Equal(t, "Invoice dashboard: 2 pending invoices totalling $35.50", digest.Message())
	assert.Equal(t, "Invoice dashboard: 1 pending invoice totalling $0.05", PendingDigest{Count: 1, TotalCents: 5}.Message())
}

func TestDigestSendTextsRecipient(t *testing.T) {
	db := setupTestDB(t)
	alice := seedCustomer(t, db, "Alice", "alice@example.com")
	seedInvoice(t, db, alice, 1000, models.StatusPending, "2026-01-01")

	sender := &fakeSender{}
	svc := NewDigestService(db, "", "", "", "").WithSender(sender, "+15550000000", "+15551111111")
	require.NoError(t, svc.Send(context.Background()))

	require.Len(t, sender.sent, 1)
	params := sender.sent[0]
	assert.Equal(t, "+15551111111", *params.To)
	assert.Equal(t, "+15550000000", *params.From)
	assert.Equal(t, "Invoice dashboard: 1 pending invoice totalling $10.00", *params.Body)
}

func TestDigestSendSkipsWhenNothingPending(t *testing.T) {
	db := setupTestDB(t)
	sender := &fakeSender{}
	svc := NewDigestService(db, "", "", "", "").WithSender(sender, "+15550000000", "+15551111111")

	require.NoError(t, svc.Send(context.Background()))
	assert.Empty(t, sender.sent)
}

func TestDigestSendWithoutSenderOnlyLogs(t *testing.T) {
	db := setupTestDB(t)
	alice := seedCustomer(t, db, "Alice", "alice@example.com")
	seedInvoice(t, db, alice, 1000, models.StatusPending, "2026-01-01")

	assert.NoError(t, NewDigestService(db, "", "", "", "").Send(context.Background()))
}

func TestDigestSendReportsDeliveryFailure(t *testing.T) {
	db := setupTestDB(t)
	alice := seedCustomer(t, db, "Alice", "alice@example.com")
	seedInvoice(t, db, alice, 1000, models.StatusPending, "2026-01-01")

	boom := errors.New("twilio down")
	svc := NewDigestService(db, "", "", "", "").WithSender(&fakeSender{err: boom}, "+15550000000", "+15551111111")
	assert.ErrorIs(t, svc.Send(context.Background()), boom)
}

func TestStartScheduler(t *testing.T) {
	db := setupTestDB(t)
	digest := NewDigestService(db, "", "", "", "")

	c, err := StartScheduler(digest, "0 9 * * *", NewViewCache(), "@every 10m")
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 2)
	c.Stop()

	c, err = StartScheduler(digest, "", NewViewCache(), "")
	require.NoError(t, err)
	assert.Empty(t, c.Entries())
	c.Stop()

	_, err = StartScheduler(digest, "not a schedule", NewViewCache(), "")
	assert.Error(t, err)
}
