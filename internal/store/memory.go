package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps everything for the process lifetime. Profiles are keyed by
// session id, so concurrent saves for one session collapse to last-write-wins.
type MemoryStore struct {
	mu        sync.Mutex
	nextID    int64
	responses map[string][]Response
	profiles  map[string]Profile
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID:    1,
		responses: make(map[string][]Response),
		profiles:  make(map[string]Profile),
	}
}

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) allocID() int64 {
	id := m.nextID
	m.nextID++
	return id
}

func (m *MemoryStore) SaveResponse(_ context.Context, resp *Response) (*Response, error) {
	if err := validateResponse(resp); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	saved := *resp
	saved.ID = m.allocID()
	saved.EmotionData = cloneRaw(resp.EmotionData)
	m.responses[resp.SessionID] = append(m.responses[resp.SessionID], saved)

	out := saved
	out.EmotionData = cloneRaw(saved.EmotionData)
	return &out, nil
}

func (m *MemoryStore) GetResponsesBySessionID(_ context.Context, sessionID string) ([]Response, error) {
	m.mu.Lock()
	rows := m.responses[sessionID]
	out := make([]Response, len(rows))
	for i, r := range rows {
		out[i] = r
		out[i].EmotionData = cloneRaw(r.EmotionData)
	}
	m.mu.Unlock()

	// Insertion order already breaks ties by id.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].QuestionIndex < out[j].QuestionIndex
	})
	return out, nil
}

func (m *MemoryStore) SaveProfile(_ context.Context, profile *Profile) (*Profile, error) {
	if err := validateProfile(profile); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	saved := *profile
	saved.Strengths = cloneStrengths(profile.Strengths)
	if existing, ok := m.profiles[profile.SessionID]; ok {
		saved.ID = existing.ID
	} else {
		saved.ID = m.allocID()
	}
	m.profiles[profile.SessionID] = saved

	out := saved
	out.Strengths = cloneStrengths(saved.Strengths)
	return &out, nil
}

func (m *MemoryStore) GetProfileBySessionID(_ context.Context, sessionID string) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[sessionID]
	if !ok {
		return nil, nil
	}
	p.Strengths = cloneStrengths(p.Strengths)
	return &p, nil
}
