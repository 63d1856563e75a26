package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"rightssphere/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UploadRecordingInput struct {
	UserID      string
	Location    models.Location
	Notes       string
	ContentType string
	Content     io.Reader
}

type UploadRecordingResult struct {
	Log      *models.InteractionLog
	IPFSHash string
	IPFSURL  string
}

type RecordingService struct {
	db     *gorm.DB
	pinner Pinner
	log    *zap.Logger
	now    func() time.Time
}

func NewRecordingService(db *gorm.DB, pinner Pinner, log *zap.Logger) *RecordingService {
	return &RecordingService{db: db, pinner: pinner, log: log.Named("recordings"), now: time.Now}
}

// Upload pins the recording and stores an interaction log pointing at it.
func (s *RecordingService) Upload(ctx context.Context, in UploadRecordingInput) (*UploadRecordingResult, error) {
	if in.Content == nil || strings.TrimSpace(in.UserID) == "" {
		return nil, invalid("Recording file and user ID are required")
	}

	now := s.now()
	locJSON, err := json.Marshal(in.Location)
	if err != nil {
		return nil, fmt.Errorf("encode location: %w", err)
	}
	filename := fmt.Sprintf("recording_%s_%d.webm", in.UserID, now.UnixMilli())
	meta := map[string]string{
		"user_id":   in.UserID,
		"timestamp": now.UTC().Format(time.RFC3339),
		"location":  string(locJSON),
		"duration":  "0",
		"type":      "police_interaction_recording",
	}

	pinned, err := s.pinner.PinFile(ctx, filename, orDefault(in.ContentType, "audio/webm"), in.Content, meta)
	if err != nil {
		return nil, err
	}

	entry := &models.InteractionLog{
		LogID:        uuid.NewString(),
		UserID:       in.UserID,
		Timestamp:    now.UTC(),
		Location:     in.Location,
		RecordingURL: pinned.URL,
		IPFSHash:     pinned.Hash,
	}
	if notes := strings.TrimSpace(in.Notes); notes != "" {
		entry.Notes = &notes
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, fmt.Errorf("save interaction log: %w: %w", ErrStore, err)
	}

	s.log.Info("recording stored",
		zap.String("user_id", in.UserID),
		zap.String("hash", pinned.Hash),
		zap.String("file", filename),
	)
	return &UploadRecordingResult{Log: entry, IPFSHash: pinned.Hash, IPFSURL: pinned.URL}, nil
}

// ListByUser returns a user's interaction logs, newest first.
func (s *RecordingService) ListByUser(ctx context.Context, userID string) ([]models.InteractionLog, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, invalid("User ID is required")
	}
	logs := []models.InteractionLog{}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("timestamp desc").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list interaction logs: %w: %w", ErrStore, err)
	}
	return logs, nil
}
