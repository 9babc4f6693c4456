package core

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileSchemaIsStrict(t *testing.T) {
	assert.Equal(t, "object", profileSchema["type"])
	assert.Equal(t, false, profileSchema["additionalProperties"])
	assert.ElementsMatch(t,
		[]string{"entityName", "poeticSummary", "shadowEcho", "strengths", "unrealizedPotential"},
		profileSchema["required"])
	assert.NotContains(t, profileSchema, "$schema")

	props, ok := profileSchema["properties"].(map[string]any)
	require.True(t, ok)
	strengths, ok := props["strengths"].(map[string]any)
	require.True(t, ok)
	items, ok := strengths["items"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, items["additionalProperties"])
	assert.ElementsMatch(t, []string{"description", "title"}, items["required"])
}

func TestQuestionsSchemaRequiresQuestions(t *testing.T) {
	assert.ElementsMatch(t, []string{"questions"}, questionsSchema["required"])
}

func TestGeminiSchemaMirrorsProfileShape(t *testing.T) {
	s := geminiSchema(profileSchema)
	require.NotNil(t, s)

	assert.Equal(t, genai.TypeObject, s.Type)
	assert.ElementsMatch(t,
		[]string{"entityName", "poeticSummary", "shadowEcho", "strengths", "unrealizedPotential"},
		s.Required)
	require.Contains(t, s.Properties, "strengths")
	assert.Equal(t, genai.TypeString, s.Properties["entityName"].Type)

	strengths := s.Properties["strengths"]
	assert.Equal(t, genai.TypeArray, strengths.Type)
	require.NotNil(t, strengths.Items)
	assert.Equal(t, genai.TypeObject, strengths.Items.Type)
	assert.ElementsMatch(t, []string{"description", "title"}, strengths.Items.Required)
}

func TestGeminiSchemaQuestions(t *testing.T) {
	s := geminiSchema(questionsSchema)
	require.NotNil(t, s)
	require.Contains(t, s.Properties, "questions")
	q := s.Properties["questions"]
	assert.Equal(t, genai.TypeArray, q.Type)
	require.NotNil(t, q.Items)
	assert.Equal(t, genai.TypeString, q.Items.Type)

	assert.Nil(t, geminiSchema(nil))
}
