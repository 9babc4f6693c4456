package core

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mirrorworld/mirror-api/internal/store"
)

// brokenStore fails every write and read.
type brokenStore struct{}

var errStoreDown = errors.New("store down")

func (brokenStore) SaveResponse(context.Context, *store.Response) (*store.Response, error) {
	return nil, errStoreDown
}
func (brokenStore) GetResponsesBySessionID(context.Context, string) ([]store.Response, error) {
	return nil, errStoreDown
}
func (brokenStore) SaveProfile(context.Context, *store.Profile) (*store.Profile, error) {
	return nil, errStoreDown
}
func (brokenStore) GetProfileBySessionID(context.Context, string) (*store.Profile, error) {
	return nil, errStoreDown
}
func (brokenStore) Close() error { return nil }

type MirrorServiceSuite struct {
	suite.Suite
	gen   *fakeGenerator
	store *store.MemoryStore
	svc   *MirrorService
	ctx   context.Context
}

func TestMirrorServiceSuite(t *testing.T) {
	suite.Run(t, new(MirrorServiceSuite))
}

func (s *MirrorServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.gen = &fakeGenerator{}
	s.store = store.NewMemoryStore()
	s.svc = NewMirrorService(s.store, NewAnalysisService(s.gen, time.Second))
	s.svc.now = func() time.Time { return time.Date(2026, 3, 4, 5, 6, 7, 8_000_000, time.UTC) }
}

func (s *MirrorServiceSuite) TestAnalyzeWithoutIndexDoesNotPersist() {
	s.gen.output = `{"emotions":{"hope":70},"sentiment":{"positive":80,"negative":5,"neutral":15}}`

	a := s.svc.AnalyzeResponse(s.ctx, "sess-1", "Tomorrow looks bright", nil)
	s.Equal("Hope", a.Emotions[0].Name)

	rows, err := s.store.GetResponsesBySessionID(s.ctx, "sess-1")
	s.Require().NoError(err)
	s.Empty(rows)
}

func (s *MirrorServiceSuite) TestAnalyzeWithIndexPersistsEmotions() {
	s.gen.output = `{"emotions":{"hope":70,"anxiety":20},"sentiment":{"positive":80,"negative":5,"neutral":15}}`
	idx := 2

	a := s.svc.AnalyzeResponse(s.ctx, "sess-1", "Tomorrow looks bright", &idx)

	rows, err := s.store.GetResponsesBySessionID(s.ctx, "sess-1")
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Equal(2, rows[0].QuestionIndex)
	s.Equal("Tomorrow looks bright", rows[0].ResponseText)
	s.Equal("2026-03-04T05:06:07.008Z", rows[0].CreatedAt)

	var stored []Emotion
	s.Require().NoError(json.Unmarshal(rows[0].EmotionData, &stored))
	s.Equal(a.Emotions, stored)
}

func (s *MirrorServiceSuite) TestAnalyzeSurvivesStoreFailure() {
	svc := NewMirrorService(brokenStore{}, NewAnalysisService(&fakeGenerator{err: errUpstream}, time.Second))
	idx := 0
	a := svc.AnalyzeResponse(s.ctx, "sess-1", "hello", &idx)
	s.Equal(fallbackAnalysis(), a)
}

func (s *MirrorServiceSuite) TestSaveResponse() {
	saved, err := s.svc.SaveResponse(s.ctx, "sess-1", 4, "answer", json.RawMessage(`[{"name":"Wonder","value":10,"color":"bg-electric-blue"}]`))
	s.Require().NoError(err)
	s.NotZero(saved.ID)
	s.Equal("sess-1", saved.SessionID)
	s.Equal(4, saved.QuestionIndex)
	s.Equal("2026-03-04T05:06:07.008Z", saved.CreatedAt)
}

func (s *MirrorServiceSuite) TestSaveResponsePropagatesStoreErrors() {
	svc := NewMirrorService(brokenStore{}, NewAnalysisService(s.gen, time.Second))
	_, err := svc.SaveResponse(s.ctx, "sess-1", 0, "answer", nil)
	s.ErrorIs(err, errStoreDown)
}

func (s *MirrorServiceSuite) TestGenerateProfileNeedsThreeNonBlankResponses() {
	_, err := s.svc.GenerateProfile(s.ctx, "sess-1", []string{"one", "two", "", "  ", "\t"})
	s.ErrorIs(err, ErrNotEnoughResponses)
	s.Zero(s.gen.calls())

	p, err := s.store.GetProfileBySessionID(s.ctx, "sess-1")
	s.NoError(err)
	s.Nil(p)
}

func (s *MirrorServiceSuite) TestGenerateProfileUpsertsPerSession() {
	s.gen.output = `{"entityName":"The First Echo","strengths":[{"title":"A","description":"a"}],"unrealizedPotential":"u1","poeticSummary":"p1","shadowEcho":"s1"}`
	_, err := s.svc.GenerateProfile(s.ctx, "sess-1", []string{"one", "two", "three", "", ""})
	s.Require().NoError(err)
	first, err := s.svc.GetProfile(s.ctx, "sess-1")
	s.Require().NoError(err)
	s.Require().NotNil(first)

	s.gen.output = `{"entityName":"The Second Echo","strengths":[],"unrealizedPotential":"u2","poeticSummary":"p2","shadowEcho":"s2"}`
	p, err := s.svc.GenerateProfile(s.ctx, "sess-1", []string{"four", "five", "six"})
	s.Require().NoError(err)
	s.Equal("The Second Echo", p.EntityName)

	second, err := s.svc.GetProfile(s.ctx, "sess-1")
	s.Require().NoError(err)
	s.Require().NotNil(second)
	s.Equal(first.ID, second.ID)
	s.Equal("The Second Echo", second.EntityName)
	s.Equal("s2", second.ShadowEcho)
	s.Empty(second.Strengths)
}

func (s *MirrorServiceSuite) TestGenerateProfileSurvivesStoreFailure() {
	svc := NewMirrorService(brokenStore{}, NewAnalysisService(&fakeGenerator{err: errUpstream}, time.Second))
	p, err := svc.GenerateProfile(s.ctx, "sess-1", []string{"a", "b", "c"})
	s.Require().NoError(err)
	s.Equal(fallbackProfile(), p)
}

func (s *MirrorServiceSuite) TestReadBacksWrapStoreErrors() {
	svc := NewMirrorService(brokenStore{}, NewAnalysisService(s.gen, time.Second))
	_, err := svc.GetResponses(s.ctx, "sess-1")
	s.ErrorIs(err, errStoreDown)
	_, err = svc.GetProfile(s.ctx, "sess-1")
	s.ErrorIs(err, errStoreDown)
}

func TestInterviewQuestionsAreOrderedCopies(t *testing.T) {
	qs := InterviewQuestions()
	require.Len(t, qs, 10)
	for i, q := range qs {
		assert.Equal(t, i+1, q.ID)
		assert.NotEmpty(t, q.Text)
	}
	qs[0].Text = "mutated"
	assert.Equal(t, "When do you feel most like yourself?", InterviewQuestions()[0].Text)
}
