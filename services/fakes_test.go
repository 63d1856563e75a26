package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"rightssphere/config"
	"rightssphere/models"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.OpenDB(config.DBConfig{Driver: "sqlite", URL: "file::memory:"})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

type fakeBroadcaster struct {
	mu    sync.Mutex
	calls []EmergencyAlert
	fail  bool
	err   error
}

func (f *fakeBroadcaster) SendEmergencyAlert(ctx context.Context, a EmergencyAlert) ([]DispatchResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, a)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	res := DispatchResult{Channel: models.ChannelFarcaster, Success: !f.fail}
	if f.fail {
		res.Message = "cast rejected"
	} else {
		res.Reference = "0xcast"
	}
	return []DispatchResult{res}, nil
}

type fakeSMS struct {
	mu     sync.Mutex
	sent   []string
	failOn map[string]bool
}

func (f *fakeSMS) SendSMS(ctx context.Context, phone, message string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn[phone] {
		return "", errors.New("sns: invalid parameter")
	}
	f.sent = append(f.sent, phone)
	return "msg-" + phone, nil
}

type fakeEmail struct {
	mu       sync.Mutex
	to       []string
	subjects []string
}

func (f *fakeEmail) SendEmail(ctx context.Context, to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.to = append(f.to, to)
	f.subjects = append(f.subjects, subject)
	return nil
}

// fakeCompleter returns reply and counts calls.
type fakeCompleter struct {
	mu    sync.Mutex
	reply string
	err   error
	reqs  []CompletionRequest
}

func (f *fakeCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	return f.reply, f.err
}

func (f *fakeCompleter) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reqs)
}

type pinnedFile struct {
	filename    string
	contentType string
	data        []byte
	doc         any
	meta        map[string]string
}

type fakePinner struct {
	files []pinnedFile
	err   error
}

func (f *fakePinner) PinFile(ctx context.Context, filename, contentType string, r io.Reader, meta map[string]string) (*PinResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, err
	}
	f.files = append(f.files, pinnedFile{filename: filename, contentType: contentType, data: buf.Bytes(), meta: meta})
	return &PinResult{Hash: "QmFile", URL: f.URL("QmFile")}, nil
}

func (f *fakePinner) PinJSON(ctx context.Context, filename string, v any, meta map[string]string) (*PinResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.files = append(f.files, pinnedFile{filename: filename, doc: v, meta: meta})
	return &PinResult{Hash: "QmCard", URL: f.URL("QmCard")}, nil
}

func (f *fakePinner) URL(hash string) string {
	return "https://gateway.test/ipfs/" + hash
}

func nopLogger() *zap.Logger { return zap.NewNop() }
