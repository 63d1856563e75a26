package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"rightssphere/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

func newAlertService(t *testing.T, ch AlertChannels) (*AlertService, *RealtimeHub) {
	t.Helper()
	hub := NewRealtimeHub()
	svc := NewAlertService(newTestDB(t), ch, NewAlertBus(hub), nopLogger())
	svc.now = func() time.Time { return fixedNow }
	return svc, hub
}

func address(s string) models.Location { return models.Location{Address: s} }

func countAlerts(t *testing.T, svc *AlertService) int64 {
	t.Helper()
	var n int64
	require.NoError(t, svc.db.Model(&models.Alert{}).Count(&n).Error)
	return n
}

func TestSendAlertWithoutContactsFails(t *testing.T) {
	svc, _ := newAlertService(t, AlertChannels{Social: &fakeBroadcaster{}})

	res, err := svc.Send(context.Background(), SendAlertInput{UserID: "u1", Location: address("5th & Main")})
	require.NoError(t, err)

	assert.Equal(t, models.AlertFailed, res.Alert.Status)
	assert.Equal(t, 0, res.SentCount)
	assert.Empty(t, res.Results)

	var stored models.Alert
	require.NoError(t, svc.db.First(&stored, "alert_id = ?", res.Alert.AlertID).Error)
	assert.Equal(t, models.AlertFailed, stored.Status)
	assert.Equal(t, "emergency", stored.AlertType)
	assert.Equal(t, "5th & Main", stored.Location.Address)
}

func TestSendAlertSocialSuccess(t *testing.T) {
	social := &fakeBroadcaster{}
	svc, _ := newAlertService(t, AlertChannels{Social: social})

	res, err := svc.Send(context.Background(), SendAlertInput{
		UserID:   "u1",
		Location: address("5th & Main"),
		Contacts: []models.Contact{
			{ID: "1", Type: models.ChannelFarcaster, Value: "@family"},
			{ID: "2", FID: "1234"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, models.AlertSent, res.Alert.Status)
	assert.Equal(t, 1, res.SentCount)
	require.Len(t, res.Results, 1)
	assert.Equal(t, "0xcast", res.Results[0].Reference)

	require.Len(t, social.calls, 1)
	assert.Equal(t, []string{"@family", "1234"}, social.calls[0].RecipientFIDs)
	assert.Equal(t, "5th & Main", social.calls[0].Location)
	assert.Equal(t, "3/14/2025, 3:09:26 PM", social.calls[0].Timestamp)
	assert.Contains(t, social.calls[0].Message, "5th & Main")
}

func TestSendAlertBroadcastFailureIsSwallowed(t *testing.T) {
	contacts := []models.Contact{{Type: models.ChannelFarcaster, Value: "@family"}}

	t.Run("failed result", func(t *testing.T) {
		svc, _ := newAlertService(t, AlertChannels{Social: &fakeBroadcaster{fail: true}})
		res, err := svc.Send(context.Background(), SendAlertInput{UserID: "u1", Location: address("x"), Contacts: contacts})
		require.NoError(t, err)
		assert.Equal(t, models.AlertFailed, res.Alert.Status)
		require.Len(t, res.Results, 1)
		assert.False(t, res.Results[0].Success)
	})

	t.Run("error", func(t *testing.T) {
		svc, _ := newAlertService(t, AlertChannels{Social: &fakeBroadcaster{err: errors.New("boom")}})
		res, err := svc.Send(context.Background(), SendAlertInput{UserID: "u1", Location: address("x"), Contacts: contacts})
		require.NoError(t, err)
		assert.Equal(t, models.AlertFailed, res.Alert.Status)
		assert.Equal(t, 0, res.SentCount)
	})
}

func TestSendAlertRequiresUserAndLocation(t *testing.T) {
	svc, _ := newAlertService(t, AlertChannels{})

	cases := []SendAlertInput{
		{Location: address("x")},
		{UserID: "u1"},
		{UserID: "  ", Location: address("x")},
		{UserID: "u1", Location: models.Location{State: "Texas"}},
	}
	for _, in := range cases {
		_, err := svc.Send(context.Background(), in)
		assert.ErrorIs(t, err, ErrValidation)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "User ID and location are required", verr.Msg)
	}
	assert.Zero(t, countAlerts(t, svc))
}

func TestSendAlertFansOutToAllChannels(t *testing.T) {
	sms := &fakeSMS{failOn: map[string]bool{"+15550002222": true}}
	mail := &fakeEmail{}
	svc, _ := newAlertService(t, AlertChannels{Social: &fakeBroadcaster{}, SMS: sms, Email: mail})

	res, err := svc.Send(context.Background(), SendAlertInput{
		UserID:        "u1",
		Location:      address("x"),
		CustomMessage: "Pulled over on I-35",
		Contacts: []models.Contact{
			{Type: models.ChannelFarcaster, Value: "@family"},
			{Type: models.ChannelSMS, Value: "+15550001111"},
			{Phone: "+15550002222", Email: "friend@example.com"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, models.AlertSent, res.Alert.Status)
	assert.Equal(t, "Pulled over on I-35", res.Alert.MessageTemplate)
	require.Len(t, res.Results, 4)
	assert.Equal(t, 3, res.SentCount)

	byChannel := map[models.Channel]int{}
	for _, r := range res.Results {
		byChannel[r.Channel]++
		if r.Recipient == "+15550002222" {
			assert.False(t, r.Success)
			assert.NotEmpty(t, r.Message)
		}
	}
	assert.Equal(t, map[models.Channel]int{models.ChannelFarcaster: 1, models.ChannelSMS: 2, models.ChannelEmail: 1}, byChannel)
	assert.Equal(t, []string{"+15550001111"}, sms.sent)
	assert.Equal(t, []string{"friend@example.com"}, mail.to)
}

func TestSendAlertSkipsUnconfiguredChannels(t *testing.T) {
	svc, _ := newAlertService(t, AlertChannels{})

	res, err := svc.Send(context.Background(), SendAlertInput{
		UserID:   "u1",
		Location: address("x"),
		Contacts: []models.Contact{{Type: models.ChannelSMS, Value: "+15550001111"}, {Email: "a@b.c"}},
	})
	require.NoError(t, err)
	assert.Empty(t, res.Results)
	assert.Equal(t, models.AlertFailed, res.Alert.Status)
}

func TestSendAlertRendersCoordinates(t *testing.T) {
	social := &fakeBroadcaster{}
	svc, _ := newAlertService(t, AlertChannels{Social: social})
	lat, lng := 30.2672, -97.7431

	res, err := svc.Send(context.Background(), SendAlertInput{
		UserID:   "u1",
		Location: models.Location{Latitude: &lat, Longitude: &lng},
		Contacts: []models.Contact{{FID: "99"}},
	})
	require.NoError(t, err)
	assert.Contains(t, res.Alert.MessageTemplate, "30.2672, -97.7431")
	assert.Contains(t, res.Alert.MessageTemplate, "3/14/2025, 3:09:26 PM")
	assert.Equal(t, "30.2672, -97.7431", social.calls[0].Location)
}

func TestListAlertsNewestFirst(t *testing.T) {
	svc, _ := newAlertService(t, AlertChannels{})
	ctx := context.Background()

	for i, loc := range []string{"first", "second"} {
		at := fixedNow.Add(time.Duration(i) * time.Minute)
		svc.now = func() time.Time { return at }
		_, err := svc.Send(ctx, SendAlertInput{UserID: "u1", Location: address(loc)})
		require.NoError(t, err)
	}
	_, err := svc.Send(ctx, SendAlertInput{UserID: "u2", Location: address("other")})
	require.NoError(t, err)

	alerts, err := svc.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, "second", alerts[0].Location.Address)
	assert.Equal(t, "first", alerts[1].Location.Address)

	_, err = svc.ListByUser(ctx, "")
	assert.ErrorIs(t, err, ErrValidation)
}
