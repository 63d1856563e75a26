package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rightssphere/catalog"
	"rightssphere/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type GuideService struct {
	db      *gorm.DB
	gen     *Generator
	catalog *catalog.Catalog
	log     *zap.Logger
}

func NewGuideService(db *gorm.DB, gen *Generator, log *zap.Logger) *GuideService {
	return &GuideService{db: db, gen: gen, catalog: catalog.Default(), log: log.Named("guides")}
}

// Generate returns the stored guide for (state, language), generating and
// storing one first if none exists.
func (s *GuideService) Generate(ctx context.Context, p GuideParams) (*models.LegalGuide, error) {
	p.State = strings.TrimSpace(p.State)
	if p.State == "" {
		return nil, invalid("State is required")
	}
	if !s.catalog.IsState(p.State) {
		return nil, invalid("Unknown state: " + p.State)
	}
	p.Language = orDefault(p.Language, "en")

	existing, err := s.Get(ctx, p.State, p.Language)
	switch {
	case err == nil:
		return existing, nil
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	content, err := s.gen.GenerateLegalGuide(ctx, p)
	if err != nil {
		return nil, err
	}

	guide := &models.LegalGuide{
		GuideID:  uuid.NewString(),
		State:    p.State,
		Language: p.Language,
		Title:    p.State + " Rights During Police Interactions",
		Content:  content,
	}
	if err := s.db.WithContext(ctx).Create(guide).Error; err != nil {
		// Lost a race with another request for the same guide.
		if prior, getErr := s.Get(ctx, p.State, p.Language); getErr == nil {
			return prior, nil
		}
		return nil, fmt.Errorf("save guide: %w: %w", ErrStore, err)
	}
	s.log.Info("guide generated", zap.String("state", p.State), zap.String("language", p.Language))
	return guide, nil
}

func (s *GuideService) Get(ctx context.Context, state, language string) (*models.LegalGuide, error) {
	state = strings.TrimSpace(state)
	if state == "" {
		return nil, invalid("State is required")
	}
	var guide models.LegalGuide
	err := s.db.WithContext(ctx).
		Where("state = ? AND language = ?", state, orDefault(language, "en")).
		First(&guide).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("guide %s/%s: %w", state, language, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get guide: %w: %w", ErrStore, err)
	}
	return &guide, nil
}
