package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUpstream = errors.New("upstream exploded")

func TestGenerateQuestionsFallbackForEveryCount(t *testing.T) {
	svc := NewAnalysisService(&fakeGenerator{err: errUpstream}, time.Second)

	for count := 1; count <= MaxQuestionCount; count++ {
		qs := svc.GenerateQuestions(context.Background(), count)
		want := count
		if want > len(fallbackQuestionList) {
			want = len(fallbackQuestionList)
		}
		require.Len(t, qs, want, "count %d", count)
		assert.Equal(t, fallbackQuestionList[:want], qs)
	}
}

func TestGenerateQuestionsOutOfRangeCountMeansTen(t *testing.T) {
	gen := &fakeGenerator{output: `{"questions":["a","b","c","d","e","f","g","h","i","j","k","l"]}`}
	svc := NewAnalysisService(gen, time.Second)

	for _, count := range []int{0, -3, 21} {
		qs := svc.GenerateQuestions(context.Background(), count)
		assert.Len(t, qs, DefaultQuestionCount)
		assert.Contains(t, gen.lastRequest().User, "Generate 10 ")
	}
}

func TestGenerateQuestionsUsesModelOutput(t *testing.T) {
	gen := &fakeGenerator{output: "```json\n{\"questions\":[\"What hums beneath your silence?\",\"Which door do you never open?\",\"Third\"]}\n```"}
	svc := NewAnalysisService(gen, time.Second)

	qs := svc.GenerateQuestions(context.Background(), 2)
	assert.Equal(t, []string{"What hums beneath your silence?", "Which door do you never open?"}, qs)

	req := gen.lastRequest()
	assert.Equal(t, questionsSystemInstruction, req.System)
	assert.Equal(t, questionsSchema, req.Schema)
}

func TestGenerateQuestionsMalformedOutputFallsBack(t *testing.T) {
	svc := NewAnalysisService(&fakeGenerator{output: `{"questions":"not a list"}`}, time.Second)
	assert.Equal(t, fallbackQuestionList[:4], svc.GenerateQuestions(context.Background(), 4))
}

func TestAnalyzeBlankResponseSkipsModel(t *testing.T) {
	gen := &fakeGenerator{output: `{"emotions":{"hope":1}}`}
	svc := NewAnalysisService(gen, time.Second)

	for _, text := range []string{"", "   ", "\n\t"} {
		a := svc.AnalyzeResponse(context.Background(), text)
		assert.Equal(t, Sentiment{Positive: 0, Negative: 0, Neutral: 100}, a.Sentiment)
		assert.Equal(t, defaultEmotions(), a.Emotions)
	}
	assert.Zero(t, gen.calls())
}

func TestAnalyzeResponseSendsTextVerbatim(t *testing.T) {
	gen := &fakeGenerator{output: `{"emotions":{"CURIOSITY":77},"sentiment":{"positive":60,"negative":15,"neutral":25}}`}
	svc := NewAnalysisService(gen, time.Second)

	a := svc.AnalyzeResponse(context.Background(), "I keep wondering what's next.")
	assert.Equal(t, []Emotion{{Name: "Curiosity", Value: 77, Color: "bg-electric-blue"}}, a.Emotions)
	assert.Equal(t, Sentiment{Positive: 60, Negative: 15, Neutral: 25}, a.Sentiment)

	req := gen.lastRequest()
	assert.Equal(t, "I keep wondering what's next.", req.User)
	assert.Nil(t, req.Schema)
}

func TestAnalyzeResponseUpstreamFailure(t *testing.T) {
	svc := NewAnalysisService(&fakeGenerator{err: errUpstream}, time.Second)
	a := svc.AnalyzeResponse(context.Background(), "something real")
	assert.Equal(t, fallbackAnalysis(), a)
}

func TestModelCallsAreBoundedByTimeout(t *testing.T) {
	gen := &fakeGenerator{block: true}
	svc := NewAnalysisService(gen, 20*time.Millisecond)

	start := time.Now()
	a := svc.AnalyzeResponse(context.Background(), "slow upstream")
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, fallbackAnalysis(), a)
}

func TestGenerateProfileUpstreamErrorReturnsCannedProfile(t *testing.T) {
	svc := NewAnalysisService(&fakeGenerator{err: errUpstream}, time.Second)

	p := svc.GenerateProfile(context.Background(), []string{"a", "b", "c"})
	assert.Equal(t, fallbackProfile(), p)
	assert.Equal(t, "The Illuminated Voyager", p.EntityName)
	assert.Len(t, p.Strengths, 3)
	assert.True(t, strings.HasPrefix(p.PoeticSummary, "\"Between worlds of possibility"))
}

func TestGenerateProfileNonObjectReturnsCannedProfile(t *testing.T) {
	svc := NewAnalysisService(&fakeGenerator{output: "The mirror is cloudy today."}, time.Second)
	assert.Equal(t, fallbackProfile(), svc.GenerateProfile(context.Background(), []string{"a", "b", "c"}))
}

func TestGenerateProfileJoinsNonBlankResponses(t *testing.T) {
	gen := &fakeGenerator{output: `{"entityName":"The Lantern Keeper","strengths":[],"unrealizedPotential":"u","poeticSummary":"p","shadowEcho":"s"}`}
	svc := NewAnalysisService(gen, time.Second)

	p := svc.GenerateProfile(context.Background(), []string{"first", "  ", "second", "", "third"})
	assert.Equal(t, "The Lantern Keeper", p.EntityName)
	assert.Empty(t, p.Strengths)
	assert.Equal(t, "s", p.ShadowEcho)
	assert.Equal(t, profileUserPrompt("first\n\nsecond\n\nthird"), gen.lastRequest().User)
	assert.Equal(t, profileSchema, gen.lastRequest().Schema)
}

func TestUnavailableGeneratorFallsBack(t *testing.T) {
	svc := NewAnalysisService(unavailableGenerator{provider: "gemini"}, time.Second)

	assert.Equal(t, fallbackQuestionList[:3], svc.GenerateQuestions(context.Background(), 3))
	assert.Equal(t, fallbackProfile(), svc.GenerateProfile(context.Background(), []string{"a", "b", "c"}))

	_, err := unavailableGenerator{provider: "openai"}.GenerateJSON(context.Background(), JSONRequest{})
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestFallbackContentIsNotShared(t *testing.T) {
	first := fallbackQuestions(10)
	first[0] = "mutated"
	assert.NotEqual(t, "mutated", fallbackQuestions(10)[0])

	p := fallbackProfile()
	p.Strengths[0].Title = "mutated"
	assert.NotEqual(t, "mutated", fallbackProfile().Strengths[0].Title)
}
