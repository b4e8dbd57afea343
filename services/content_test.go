package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizedContentNeverLeaksAnswerKey(t *testing.T) {
	cases := []struct {
		exType      string
		data        string
		wantKeys    []string
		leakedKeys  []string
		wantContent bool
	}{
		{
			exType:      "quiz",
			data:        `{"subtype":"multiple-choice","options":["A","B","C"],"correctIndex":2}`,
			wantKeys:    []string{"subtype", "options"},
			leakedKeys:  []string{"correctIndex"},
			wantContent: true,
		},
		{
			exType:      "matching",
			data:        `{"pairs":[{"left":"chat","right":"cat"},{"left":"chien","right":"dog"}]}`,
			wantKeys:    []string{"left", "right"},
			leakedKeys:  []string{"pairs"},
			wantContent: true,
		},
		{
			exType:      "estimation",
			data:        `{"correct":100,"unit":"km"}`,
			wantKeys:    []string{"unit"},
			leakedKeys:  []string{"correct"},
			wantContent: true,
		},
		{
			exType:     "typing",
			data:       `{"expected":"Paris","acceptedVariations":["la ville de paris"]}`,
			leakedKeys: []string{"expected", "acceptedVariations"},
		},
	}

	for _, tc := range cases {
		store := newTestStore(t)
		svc := &ContentService{sqlSvc: store}
		createTestLesson(t, store, "l1", 0)
		createTestExercise(t, store, "e1", "l1", tc.exType, json.RawMessage(tc.data))

		resp, err := svc.GetExercise("e1")
		require.NoError(t, err, "type %s", tc.exType)

		if !tc.wantContent {
			assert.Nil(t, resp.Content, "type %s", tc.exType)
			continue
		}

		var content map[string]interface{}
		require.NoError(t, json.Unmarshal(resp.Content, &content), "type %s", tc.exType)
		for _, key := range tc.wantKeys {
			assert.Contains(t, content, key, "type %s", tc.exType)
		}
		for _, key := range tc.leakedKeys {
			assert.NotContains(t, content, key, "type %s", tc.exType)
		}
	}
}

func TestLessonDetailStripsExerciseData(t *testing.T) {
	store := newTestStore(t)
	svc := &ContentService{sqlSvc: store}
	createTestLesson(t, store, "l1", 0)
	createTestExercise(t, store, "e1", "l1", "quiz",
		json.RawMessage(`{"subtype":"true-false","options":["Vrai","Faux"],"correctIndex":0}`))

	resp, err := svc.GetLessonDetail("l1", "")
	require.NoError(t, err)
	require.Len(t, resp.Exercises, 1)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "correctIndex")
}
