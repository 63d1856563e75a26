package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"rightssphere/metrics"

	"go.uber.org/zap"
)

// CompletionRequest is one system+user prompt exchange.
type CompletionRequest struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float32
	// JSON asks the model for a single JSON object.
	JSON bool
}

// Completer is a generative-text backend.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

type GuideParams struct {
	State    string
	Language string
	Scenario string
}

type ScriptParams struct {
	Scenario   string
	Language   string
	State      string
	IsAdvanced bool
}

type CardParams struct {
	State    string
	Scenario string
	Language string
}

// RightsCardContent is the generated part of a rights card.
type RightsCardContent struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Summary string `json:"summary"`
}

// Generator builds the legal prompts and sends them to a Completer.
type Generator struct {
	backend Completer
	log     *zap.Logger
}

func NewGenerator(backend Completer, log *zap.Logger) *Generator {
	return &Generator{backend: backend, log: log.Named("generator")}
}

func (g *Generator) GenerateLegalGuide(ctx context.Context, p GuideParams) (string, error) {
	p.Language = orDefault(p.Language, "en")
	p.Scenario = orDefault(p.Scenario, "general")

	prompt := fmt.Sprintf(`Generate a comprehensive, accurate legal rights guide for %[1]s state regarding police interactions. 

Requirements:
- Focus on %[2]s scenarios
- Language: %[3]s
- Include specific state laws and procedures
- Format as markdown with clear sections
- Include practical advice and warnings
- Emphasize constitutional rights
- Keep content factual and legally sound
- Include disclaimer about consulting attorneys

Structure:
1. Your Rights in %[1]s
2. What Police Can and Cannot Do
3. During Different Types of Interactions
4. Important State-Specific Laws
5. What to Do If Rights Are Violated
6. Emergency Contacts and Resources

Make it mobile-friendly and easy to read under stress.`, p.State, p.Scenario, p.Language)

	out, err := g.complete(ctx, "guide", CompletionRequest{
		System:      "You are a legal expert specializing in constitutional rights and police interaction law. Provide accurate, state-specific legal information while emphasizing the importance of professional legal counsel.",
		Prompt:      prompt,
		MaxTokens:   2000,
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("generate legal guide: %w", err)
	}
	return out, nil
}

func (g *Generator) GenerateScript(ctx context.Context, p ScriptParams) (string, error) {
	p.Language = orDefault(p.Language, "en")

	advancedNote := "Keep language simple and non-confrontational."
	if p.IsAdvanced {
		advancedNote = "Include advanced de-escalation techniques and legal terminology."
	}
	stateNote := ""
	if p.State != "" {
		stateNote = fmt.Sprintf("Consider %s state-specific laws and procedures.", p.State)
	}

	prompt := fmt.Sprintf(`Generate a polite, effective communication script for a %s police interaction.

Requirements:
- Language: %s
- Tone: Respectful, calm, assertive about rights
- %s
- %s
- Include specific phrases to use
- Avoid confrontational language
- Emphasize cooperation while protecting rights
- Include what NOT to say
- Keep it concise for high-stress situations

The script should help someone:
1. Stay calm and respectful
2. Assert their constitutional rights
3. Avoid self-incrimination
4. De-escalate the situation
5. Document the interaction appropriately`, p.Scenario, p.Language, advancedNote, stateNote)

	out, err := g.complete(ctx, "script", CompletionRequest{
		System:      "You are an expert in police interaction training and constitutional rights. Create scripts that protect citizens while maintaining respectful communication with law enforcement.",
		Prompt:      prompt,
		MaxTokens:   800,
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("generate script: %w", err)
	}
	return out, nil
}

// GenerateRightsCard asks for a JSON card and fills any missing field with
// a default derived from the state.
func (g *Generator) GenerateRightsCard(ctx context.Context, p CardParams) (*RightsCardContent, error) {
	p.Language = orDefault(p.Language, "en")
	p.Scenario = orDefault(p.Scenario, "general")

	prompt := fmt.Sprintf(`Create a shareable "Know Your Rights" card for %s state.

Requirements:
- Focus on %s interactions
- Language: %s
- Concise, social media friendly format
- Include key rights and phone numbers
- Add relevant hashtags
- Make it visually descriptive for card generation
- Include emergency contacts
- Add legal disclaimer

Format as JSON with:
- title: Catchy, informative title
- content: Main rights information (markdown)
- summary: One-sentence summary for social sharing`, p.State, p.Scenario, p.Language)

	out, err := g.complete(ctx, "rights_card", CompletionRequest{
		System:      "You are creating shareable legal rights content for social media. Make it accurate, concise, and engaging while maintaining legal precision.",
		Prompt:      prompt,
		MaxTokens:   1000,
		Temperature: 0.3,
		JSON:        true,
	})
	if err != nil {
		return nil, fmt.Errorf("generate rights card: %w", err)
	}

	var card RightsCardContent
	if strings.TrimSpace(out) != "" {
		if err := json.Unmarshal([]byte(stripCodeFence(out)), &card); err != nil {
			return nil, fmt.Errorf("generate rights card: %w: malformed JSON: %v", ErrUpstream, err)
		}
	}
	card.Title = orDefault(card.Title, p.State+" Rights Card")
	card.Summary = orDefault(card.Summary, "Know your rights during police interactions in "+p.State)
	return &card, nil
}

func (g *Generator) complete(ctx context.Context, kind string, req CompletionRequest) (string, error) {
	out, err := g.backend.Complete(ctx, req)
	metrics.GeneratorCalls.WithLabelValues(kind, metrics.Status(err)).Inc()
	if err != nil {
		g.log.Error("completion failed", zap.String("kind", kind), zap.Error(err))
		return "", err
	}
	return out, nil
}

// stripCodeFence removes a ```json ... ``` wrapper some models add.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
