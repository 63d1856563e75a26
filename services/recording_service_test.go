package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"rightssphere/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadRecording(t *testing.T) {
	pinner := &fakePinner{}
	svc := NewRecordingService(newTestDB(t), pinner, nopLogger())
	svc.now = func() time.Time { return fixedNow }

	res, err := svc.Upload(context.Background(), UploadRecordingInput{
		UserID:   "u1",
		Location: models.Location{Address: "Main St"},
		Notes:    "stopped for tail light",
		Content:  strings.NewReader("webm-bytes"),
	})
	require.NoError(t, err)

	assert.Equal(t, "QmFile", res.IPFSHash)
	assert.Equal(t, "https://gateway.test/ipfs/QmFile", res.IPFSURL)
	assert.Equal(t, res.IPFSURL, res.Log.RecordingURL)
	require.NotNil(t, res.Log.Notes)
	assert.Equal(t, "stopped for tail light", *res.Log.Notes)

	require.Len(t, pinner.files, 1)
	f := pinner.files[0]
	assert.Equal(t, "recording_u1_1741964966000.webm", f.filename)
	assert.Equal(t, "audio/webm", f.contentType)
	assert.Equal(t, "webm-bytes", string(f.data))
	assert.Equal(t, "police_interaction_recording", f.meta["type"])
	assert.Equal(t, "0", f.meta["duration"])

	var loc models.Location
	require.NoError(t, json.Unmarshal([]byte(f.meta["location"]), &loc))
	assert.Equal(t, "Main St", loc.Address)

	logs, err := svc.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "QmFile", logs[0].IPFSHash)
}

func TestUploadRecordingValidation(t *testing.T) {
	pinner := &fakePinner{}
	svc := NewRecordingService(newTestDB(t), pinner, nopLogger())

	_, err := svc.Upload(context.Background(), UploadRecordingInput{UserID: "u1"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Upload(context.Background(), UploadRecordingInput{Content: strings.NewReader("x")})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, pinner.files)
}

func TestUploadRecordingPinFailureWritesNothing(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecordingService(db, &fakePinner{err: ErrUpstream}, nopLogger())

	_, err := svc.Upload(context.Background(), UploadRecordingInput{UserID: "u1", Content: strings.NewReader("x")})
	assert.ErrorIs(t, err, ErrUpstream)

	var n int64
	require.NoError(t, db.Model(&models.InteractionLog{}).Count(&n).Error)
	assert.Zero(t, n)
}
