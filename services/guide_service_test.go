package services

import (
	"context"
	"testing"

	"rightssphere/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateGuideStoresNewGuide(t *testing.T) {
	llm := &fakeCompleter{reply: "# Your Rights in Texas"}
	svc := NewGuideService(newTestDB(t), NewGenerator(llm, nopLogger()), nopLogger())

	guide, err := svc.Generate(context.Background(), GuideParams{State: "Texas"})
	require.NoError(t, err)

	assert.Equal(t, "Texas Rights During Police Interactions", guide.Title)
	assert.Equal(t, "en", guide.Language)
	assert.Equal(t, "# Your Rights in Texas", guide.Content)
	assert.NotEmpty(t, guide.GuideID)
	require.Equal(t, 1, llm.calls())
	assert.Contains(t, llm.reqs[0].Prompt, "Texas")
	assert.Contains(t, llm.reqs[0].Prompt, "general scenarios")
}

func TestGenerateGuideReturnsExistingWithoutGenerating(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&models.LegalGuide{
		GuideID:  "g-1",
		State:    "Ohio",
		Language: "en",
		Title:    "Ohio Rights During Police Interactions",
		Content:  "stored",
	}).Error)

	llm := &fakeCompleter{reply: "fresh"}
	svc := NewGuideService(db, NewGenerator(llm, nopLogger()), nopLogger())

	guide, err := svc.Generate(context.Background(), GuideParams{State: "Ohio", Language: "en"})
	require.NoError(t, err)
	assert.Equal(t, "stored", guide.Content)
	assert.Zero(t, llm.calls())

	// A different language is a different guide.
	guide, err = svc.Generate(context.Background(), GuideParams{State: "Ohio", Language: "es"})
	require.NoError(t, err)
	assert.Equal(t, "fresh", guide.Content)
	assert.Equal(t, 1, llm.calls())
}

func TestGenerateGuideRequiresState(t *testing.T) {
	llm := &fakeCompleter{}
	svc := NewGuideService(newTestDB(t), NewGenerator(llm, nopLogger()), nopLogger())

	_, err := svc.Generate(context.Background(), GuideParams{State: " "})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, llm.calls())
}

func TestGenerateGuideRejectsUnknownState(t *testing.T) {
	llm := &fakeCompleter{}
	svc := NewGuideService(newTestDB(t), NewGenerator(llm, nopLogger()), nopLogger())

	_, err := svc.Generate(context.Background(), GuideParams{State: "Atlantis"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, llm.calls())
}

func TestGetGuideTrimsState(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&models.LegalGuide{GuideID: "g-1", State: "Nevada", Language: "en", Title: "t"}).Error)
	svc := NewGuideService(db, NewGenerator(&fakeCompleter{}, nopLogger()), nopLogger())

	guide, err := svc.Get(context.Background(), "  Nevada ", "")
	require.NoError(t, err)
	assert.Equal(t, "g-1", guide.GuideID)
}

func TestGetGuideNotFound(t *testing.T) {
	svc := NewGuideService(newTestDB(t), NewGenerator(&fakeCompleter{}, nopLogger()), nopLogger())

	_, err := svc.Get(context.Background(), "Nowhere", "en")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Get(context.Background(), "", "en")
	assert.ErrorIs(t, err, ErrValidation)
}
