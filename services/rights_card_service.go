package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rightssphere/catalog"
	"rightssphere/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const rightsCardVersion = "1.0"

// CardSharer casts a rights card to the social graph.
type CardSharer interface {
	ShareRightsCard(ctx context.Context, s RightsCardShare) (*CastResponse, error)
}

type CreateCardInput struct {
	State            string
	Scenario         string
	Language         string
	ShareOnFarcaster bool
}

// ShareOutcome reports the optional social share of a card.
type ShareOutcome struct {
	Success bool   `json:"success"`
	Hash    string `json:"hash,omitempty"`
	Error   string `json:"error,omitempty"`
}

type CreateCardResult struct {
	Card  *models.RightsCard
	Share *ShareOutcome
}

// pinnedCard is the document stored on IPFS.
type pinnedCard struct {
	State     string `json:"state"`
	Scenario  string `json:"scenario"`
	Language  string `json:"language"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Summary   string `json:"summary"`
	CreatedAt string `json:"createdAt"`
	Version   string `json:"version"`
}

type RightsCardService struct {
	db     *gorm.DB
	gen    *Generator
	pinner Pinner
	sharer CardSharer
	appURL string
	log    *zap.Logger
	now    func() time.Time
}

func NewRightsCardService(db *gorm.DB, gen *Generator, pinner Pinner, sharer CardSharer, appURL string, log *zap.Logger) *RightsCardService {
	return &RightsCardService{
		db:     db,
		gen:    gen,
		pinner: pinner,
		sharer: sharer,
		appURL: strings.TrimRight(appURL, "/"),
		log:    log.Named("rights_cards"),
		now:    time.Now,
	}
}

// Create generates a card, pins it, stores it and optionally casts it.
// A failed cast is reported in the result, not returned as an error.
func (s *RightsCardService) Create(ctx context.Context, in CreateCardInput) (*CreateCardResult, error) {
	in.State = strings.TrimSpace(in.State)
	if in.State == "" {
		return nil, invalid("State is required")
	}
	if !catalog.Default().IsState(in.State) {
		return nil, invalid("Unknown state: " + in.State)
	}
	in.Scenario = orDefault(in.Scenario, "general")
	in.Language = orDefault(in.Language, "en")

	content, err := s.gen.GenerateRightsCard(ctx, CardParams{State: in.State, Scenario: in.Scenario, Language: in.Language})
	if err != nil {
		return nil, err
	}

	now := s.now()
	doc := pinnedCard{
		State:     in.State,
		Scenario:  in.Scenario,
		Language:  in.Language,
		Title:     content.Title,
		Content:   content.Content,
		Summary:   content.Summary,
		CreatedAt: now.UTC().Format(time.RFC3339),
		Version:   rightsCardVersion,
	}
	filename := fmt.Sprintf("rights_card_%s_%d.json", strings.ReplaceAll(in.State, " ", "_"), now.UnixMilli())
	pinned, err := s.pinner.PinJSON(ctx, filename, doc, map[string]string{
		"state":    in.State,
		"scenario": in.Scenario,
		"language": in.Language,
		"version":  rightsCardVersion,
		"type":     "rights_card",
	})
	if err != nil {
		return nil, err
	}

	card := &models.RightsCard{
		CardID:       uuid.NewString(),
		State:        in.State,
		Scenario:     in.Scenario,
		Language:     in.Language,
		Title:        content.Title,
		Content:      content.Content,
		Summary:      content.Summary,
		Version:      rightsCardVersion,
		IPFSHash:     pinned.Hash,
		IPFSURL:      pinned.URL,
		ShareableURL: s.appURL + "/share/" + pinned.Hash,
	}
	if err := s.db.WithContext(ctx).Create(card).Error; err != nil {
		return nil, fmt.Errorf("save rights card: %w: %w", ErrStore, err)
	}

	res := &CreateCardResult{Card: card}
	if in.ShareOnFarcaster {
		res.Share = s.share(ctx, card)
	}
	return res, nil
}

func (s *RightsCardService) share(ctx context.Context, card *models.RightsCard) *ShareOutcome {
	if s.sharer == nil {
		return &ShareOutcome{Error: ErrNotConfigured.Error()}
	}
	cast, err := s.sharer.ShareRightsCard(ctx, RightsCardShare{
		Title:   card.Title,
		Content: card.Summary,
		State:   card.State,
		IPFSURL: card.IPFSURL,
		AppURL:  s.appURL,
	})
	if err != nil {
		s.log.Warn("sharing rights card", zap.String("hash", card.IPFSHash), zap.Error(err))
		return &ShareOutcome{Error: err.Error()}
	}
	out := &ShareOutcome{Success: true}
	if cast != nil && cast.Cast != nil {
		out.Hash = cast.Cast.Hash
	}
	return out
}

// Lookup returns the gateway URL for hash and the stored card, which is nil
// when the hash was not created by this server.
func (s *RightsCardService) Lookup(ctx context.Context, hash string) (string, *models.RightsCard, error) {
	hash = strings.TrimSpace(hash)
	if hash == "" {
		return "", nil, invalid("IPFS hash is required")
	}
	var card models.RightsCard
	err := s.db.WithContext(ctx).Where("ipfs_hash = ?", hash).First(&card).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.pinner.URL(hash), nil, nil
	case err != nil:
		return "", nil, fmt.Errorf("get rights card: %w: %w", ErrStore, err)
	}
	return s.pinner.URL(hash), &card, nil
}
