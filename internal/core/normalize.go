package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mirrorworld/mirror-api/internal/store"
)

var errNotAnArray = errors.New("field is not a JSON array")

// decodeModelObject parses model output into its top-level fields. Code
// fences and leading or trailing chatter are tolerated. Output that opens as a
// JSON array is an error even when the array wraps an object.
func decodeModelObject(output string) (map[string]json.RawMessage, error) {
	s := stripCodeFence(strings.TrimSpace(output))
	if s == "" {
		return nil, io.ErrUnexpectedEOF
	}
	if s[0] == '[' {
		return nil, fmt.Errorf("model output is a JSON array, not an object")
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &obj); err == nil && obj != nil {
		return obj, nil
	}

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("no JSON object found in model output (len=%d)", len(s))
	}
	obj = nil
	if err := json.Unmarshal([]byte(s[start:end+1]), &obj); err != nil {
		return nil, fmt.Errorf("decode model JSON: %w", err)
	}
	if obj == nil {
		return nil, fmt.Errorf("model output is not a JSON object")
	}
	return obj, nil
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if nl := strings.IndexByte(s, '\n'); nl != -1 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}

// titleCase upper-cases the first rune and lower-cases the rest.
func titleCase(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + strings.ToLower(name[size:])
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// isAbsent reports a missing field or an explicit null, which json.Unmarshal
// would otherwise accept silently for scalars.
func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func numberField(raw json.RawMessage) (float64, bool) {
	if isAbsent(raw) {
		return 0, false
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	return v, true
}

func stringField(raw json.RawMessage) (string, bool) {
	if isAbsent(raw) {
		return "", false
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false
	}
	return v, true
}

func arrayField(raw json.RawMessage) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errNotAnArray
	}
	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// normalizeQuestions keeps the string entries of "questions", truncated to
// count. It fails when the output has no questions array at all.
func normalizeQuestions(output string, count int) ([]string, error) {
	obj, err := decodeModelObject(output)
	if err != nil {
		return nil, err
	}
	items, err := arrayField(obj["questions"])
	if err != nil {
		return nil, fmt.Errorf("questions: %w", err)
	}

	questions := make([]string, 0, len(items))
	for _, item := range items {
		q, ok := stringField(item)
		if !ok || strings.TrimSpace(q) == "" {
			continue
		}
		questions = append(questions, strings.TrimSpace(q))
		if len(questions) == count {
			break
		}
	}
	return questions, nil
}

// normalizeAnalysis never fails: missing or malformed parts fall back one
// field at a time.
func normalizeAnalysis(output string) ResponseAnalysis {
	obj, err := decodeModelObject(output)
	if err != nil {
		return fallbackAnalysis()
	}

	emotions := parseEmotions(obj["emotions"])
	if len(emotions) == 0 {
		emotions = defaultEmotions()
	}
	return ResponseAnalysis{
		Sentiment: parseSentiment(obj["sentiment"]),
		Emotions:  emotions,
	}
}

// parseEmotions walks the emotion object token by token so entries keep the
// order the model wrote them in. Later duplicates of a name are dropped.
func parseEmotions(raw json.RawMessage) []Emotion {
	if len(raw) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		return nil
	}

	seen := make(map[string]bool)
	var emotions []Emotion
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			break
		}
		key, _ := keyTok.(string)
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			break
		}

		name := titleCase(key)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		v, ok := numberField(value)
		if !ok {
			v = 50
		}
		emotions = append(emotions, Emotion{
			Name:  name,
			Value: clamp(v, 0, 100),
			Color: emotionColor(strings.TrimSpace(key)),
		})
	}
	return emotions
}

// parseSentiment needs at least one numeric field; the others become 0.
func parseSentiment(raw json.RawMessage) Sentiment {
	var fields map[string]json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &fields) != nil || fields == nil {
		return defaultSentiment()
	}

	var s Sentiment
	found := false
	for name, dst := range map[string]*float64{
		"positive": &s.Positive,
		"negative": &s.Negative,
		"neutral":  &s.Neutral,
	} {
		if v, ok := numberField(fields[name]); ok {
			*dst = v
			found = true
		}
	}
	if !found {
		return defaultSentiment()
	}
	return s
}

// normalizeProfile decodes each profile field with its own default. Only
// output that is not a JSON object is an error.
func normalizeProfile(output string) (MirrorProfile, error) {
	obj, err := decodeModelObject(output)
	if err != nil {
		return MirrorProfile{}, err
	}

	profile := MirrorProfile{EntityName: defaultEntityName}
	if name, ok := stringField(obj["entityName"]); ok && strings.TrimSpace(name) != "" {
		profile.EntityName = name
	}
	profile.Strengths = parseStrengths(obj["strengths"])
	profile.UnrealizedPotential, _ = stringField(obj["unrealizedPotential"])
	profile.PoeticSummary, _ = stringField(obj["poeticSummary"])
	profile.ShadowEcho, _ = stringField(obj["shadowEcho"])
	return profile, nil
}

func parseStrengths(raw json.RawMessage) []store.Strength {
	items, err := arrayField(raw)
	if err != nil {
		return fallbackStrengths()
	}
	strengths := make([]store.Strength, 0, len(items))
	for _, item := range items {
		var fields map[string]json.RawMessage
		_ = json.Unmarshal(item, &fields) // non-objects leave fields nil
		title, _ := stringField(fields["title"])
		description, _ := stringField(fields["description"])
		strengths = append(strengths, store.Strength{Title: title, Description: description})
	}
	return strengths
}
