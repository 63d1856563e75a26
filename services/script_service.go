package services

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"rightssphere/catalog"
	"rightssphere/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ScriptService struct {
	db      *gorm.DB
	gen     *Generator
	catalog *catalog.Catalog
	log     *zap.Logger
}

func NewScriptService(db *gorm.DB, gen *Generator, log *zap.Logger) *ScriptService {
	return &ScriptService{db: db, gen: gen, catalog: catalog.Default(), log: log.Named("scripts")}
}

func scenarioTitle(c *catalog.Catalog, scenario string) string {
	for _, s := range c.Scenarios {
		if s.ID == scenario {
			return s.Title + " Script"
		}
	}
	r, size := utf8.DecodeRuneInString(scenario)
	return string(unicode.ToUpper(r)) + scenario[size:] + " Script"
}

// Generate creates and stores a new script. Advanced scripts are premium.
func (s *ScriptService) Generate(ctx context.Context, p ScriptParams) (*models.Script, error) {
	p.Scenario = strings.TrimSpace(p.Scenario)
	if p.Scenario == "" {
		return nil, invalid("Scenario is required")
	}
	p.Language = orDefault(p.Language, "en")

	content, err := s.gen.GenerateScript(ctx, p)
	if err != nil {
		return nil, err
	}

	script := &models.Script{
		ScriptID:  uuid.NewString(),
		Scenario:  p.Scenario,
		Title:     scenarioTitle(s.catalog, p.Scenario),
		Content:   content,
		Language:  p.Language,
		IsPremium: p.IsAdvanced,
	}
	if err := s.db.WithContext(ctx).Create(script).Error; err != nil {
		return nil, fmt.Errorf("save script: %w: %w", ErrStore, err)
	}
	return script, nil
}

// List returns stored scripts followed by the built-in samples. Empty
// filters match everything.
func (s *ScriptService) List(ctx context.Context, scenario, language string) ([]models.Script, error) {
	q := s.db.WithContext(ctx).Order("created_at desc")
	if scenario != "" {
		q = q.Where("scenario = ?", scenario)
	}
	if language != "" {
		q = q.Where("language = ?", language)
	}
	scripts := []models.Script{}
	if err := q.Find(&scripts).Error; err != nil {
		return nil, fmt.Errorf("list scripts: %w: %w", ErrStore, err)
	}

	scenarios := []string{scenario}
	if scenario == "" {
		scenarios = scenarios[:0]
		for _, sc := range s.catalog.Scenarios {
			scenarios = append(scenarios, sc.ID)
		}
	}
	for _, sc := range scenarios {
		for _, sample := range s.catalog.Scripts(sc, language) {
			scripts = append(scripts, models.Script{
				ScriptID: sample.ID,
				Scenario: sc,
				Title:    sample.Title,
				Content:  sample.Content,
				Language: sample.Language,
			})
		}
	}
	return scripts, nil
}
