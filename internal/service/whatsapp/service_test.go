package whatsapp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mamadbah2/farmstead/internal/config"
	"github.com/mamadbah2/farmstead/internal/domain/models"
	client "github.com/mamadbah2/farmstead/pkg/clients/whatsapp"
)

type fakeClient struct {
	sent []client.TextMessage
	err  error
}

func (f *fakeClient) SendText(_ context.Context, msg client.TextMessage) (*client.SendResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, msg)
	return &client.SendResult{MessageIDs: []string{"wamid.x"}}, nil
}

func TestNotifyManager(t *testing.T) {
	fc := &fakeClient{}
	svc := NewMetaWhatsAppService(config.WhatsAppConfig{ManagerID: "221700000000"}, fc, nil)

	require.NoError(t, svc.NotifyManager(context.Background(), "Weekly digest"))
	require.NoError(t, svc.NotifyManager(context.Background(), "   "))
	require.Len(t, fc.sent, 1)
	assert.Equal(t, "221700000000", fc.sent[0].To)
	assert.Equal(t, "Weekly digest", fc.sent[0].Body)
}

func TestSendOutbound(t *testing.T) {
	fc := &fakeClient{}
	svc := NewMetaWhatsAppService(config.WhatsAppConfig{}, fc, nil)

	err := svc.SendOutbound(context.Background(), models.OutboundMessageRequest{To: " 221 ", Message: "hi", PreviewURL: true})
	require.NoError(t, err)
	assert.Equal(t, "221", fc.sent[0].To)
	assert.True(t, fc.sent[0].PreviewURL)

	assert.ErrorIs(t, svc.SendOutbound(context.Background(), models.OutboundMessageRequest{Message: "x"}), ErrNoRecipient)

	fc.err = errors.New("boom")
	err = svc.SendOutbound(context.Background(), models.OutboundMessageRequest{To: "1", Message: "x"})
	assert.ErrorContains(t, err, "boom")
}

func TestLogServiceRecordsInsteadOfSending(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	svc := New(config.WhatsAppConfig{}, zap.New(core))

	_, isLog := svc.(*LogService)
	require.True(t, isLog)

	require.NoError(t, svc.NotifyManager(context.Background(), "Reminders"))
	require.NoError(t, svc.SendOutbound(context.Background(), models.OutboundMessageRequest{To: "1", Message: "x"}))
	assert.Equal(t, 2, logs.Len())
	assert.ErrorIs(t, svc.SendOutbound(context.Background(), models.OutboundMessageRequest{}), ErrNoRecipient)
}

func TestNewPicksCloudAPIWhenConfigured(t *testing.T) {
	svc := New(config.WhatsAppConfig{AccessToken: "t", PhoneNumberID: "p", BaseURL: "http://localhost", APIVersion: "v20.0"}, nil)
	_, isMeta := svc.(*MetaWhatsAppService)
	assert.True(t, isMeta)
}
