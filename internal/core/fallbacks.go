package core

import (
	"strings"

	"github.com/mirrorworld/mirror-api/internal/store"
)

const (
	defaultEmotionColor = "bg-electric-blue"
	defaultEntityName   = "The Illuminated Voyager"
)

var emotionColors = map[string]string{
	"curiosity":  "bg-electric-blue",
	"wonder":     "bg-electric-blue",
	"hope":       "bg-ethereal-green",
	"joy":        "bg-ethereal-green",
	"anxiety":    "bg-warning-orange",
	"fear":       "bg-warning-orange",
	"confidence": "bg-neon-purple",
	"excitement": "bg-neon-purple",
	"sadness":    "bg-twilight-blue",
	"confusion":  "bg-twilight-blue",
}

func emotionColor(name string) string {
	if color, ok := emotionColors[strings.ToLower(name)]; ok {
		return color
	}
	return defaultEmotionColor
}

var fallbackQuestionList = []string{
	"If you could glimpse a parallel reality where you took a different path in life, what would you hope to see there?",
	"What aspects of yourself do others praise that you find difficult to accept or believe?",
	"Describe a moment when you surprised yourself with an ability or strength you didn't know you possessed.",
	"What recurring patterns or symbols appear in your dreams that might reveal hidden aspects of your psyche?",
	"If your future self could send you a message about a quality you're underestimating now, what would it be?",
	"What truth about yourself feels too vulnerable to share, yet might liberate you if expressed?",
	"When do you feel most alive and aligned with your authentic self?",
	"What part of your identity feels like it's waiting to be discovered or acknowledged?",
	"If your consciousness could exist in any form other than human, what would it choose and why?",
	"What invisible thread connects the seemingly disparate parts of your life story?",
}

// fallbackQuestions returns the first min(count, 10) canned questions.
func fallbackQuestions(count int) []string {
	if count <= 0 || count > len(fallbackQuestionList) {
		count = len(fallbackQuestionList)
	}
	out := make([]string, count)
	copy(out, fallbackQuestionList[:count])
	return out
}

func defaultEmotions() []Emotion {
	return []Emotion{
		{Name: "Curiosity", Value: 60, Color: "bg-electric-blue"},
		{Name: "Hope", Value: 80, Color: "bg-ethereal-green"},
		{Name: "Anxiety", Value: 30, Color: "bg-warning-orange"},
		{Name: "Confidence", Value: 45, Color: "bg-neon-purple"},
		{Name: "Wonder", Value: 70, Color: "bg-electric-blue"},
	}
}

func defaultSentiment() Sentiment {
	return Sentiment{Positive: 33, Negative: 33, Neutral: 34}
}

func blankSentiment() Sentiment {
	return Sentiment{Positive: 0, Negative: 0, Neutral: 100}
}

func fallbackAnalysis() ResponseAnalysis {
	return ResponseAnalysis{Sentiment: defaultSentiment(), Emotions: defaultEmotions()}
}

func fallbackStrengths() []store.Strength {
	return []store.Strength{
		{
			Title:       "Intuitive Problem Solving",
			Description: "You possess an uncanny ability to sense solutions without conscious reasoning, connecting patterns in ways others miss.",
		},
		{
			Title:       "Emotional Intelligence Catalyst",
			Description: "Your presence creates emotional clarity for others, allowing them to understand their own feelings better when in your company.",
		},
		{
			Title:       "Adaptive Resilience",
			Description: "You transform challenges into opportunities with unusual grace, bending rather than breaking under pressure in ways you rarely acknowledge.",
		},
	}
}

const (
	fallbackUnrealizedPotential = "In the Mirror World, your alternate self has cultivated an extraordinary ability to weave disparate concepts into harmonious innovations. Where you see limitations, they perceive infinite pathways. This version of you has learned to harness the chaotic energy of uncertainty, transforming it into a creative force that reshapes reality itself.\n\n" +
		"Your mirror self understands that vulnerability is not weakness but a profound source of connection. They have built bridges between worlds through authentic expression, bringing together communities that in your reality remain fragmented and isolated.\n\n" +
		"These capabilities exist within you as dormant potential, waiting to be awakened through conscious recognition and cultivation."

	fallbackPoeticSummary = "\"Between worlds of possibility and worlds of reality,\n" +
		"You stand at the nexus, a being of luminous duality.\n" +
		"What you perceive as shadows are merely\n" +
		"The penumbra of your brilliance, cast long\n" +
		"Across the dimensions your spirit traverses.\n\n" +
		"In the mirror's reflection, see not what you lack,\n" +
		"But the radiance of potential awakening.\n" +
		"The universe conspires to unveil your essence—\n" +
		"A constellation of gifts waiting to ignite.\""

	fallbackShadowEcho = "Where your mirror self embodies light, the shadow manifests darkness. This aspect resists vulnerability, preferring isolation to connection. It clings to certainty, stifling innovation through rigid thinking patterns. Your shadow rejects intuitive wisdom in favor of purely analytical approaches, disconnecting from the emotional intelligence that guides your authentic self.\n\n" +
		"The shadow is not your enemy, but a teacher. By acknowledging its presence, you gain awareness of the internal forces that may sometimes limit your highest potential."
)

// fallbackProfile is served verbatim whenever the model call itself fails.
func fallbackProfile() MirrorProfile {
	return MirrorProfile{
		EntityName:          defaultEntityName,
		Strengths:           fallbackStrengths(),
		UnrealizedPotential: fallbackUnrealizedPotential,
		PoeticSummary:       fallbackPoeticSummary,
		ShadowEcho:          fallbackShadowEcho,
	}
}
