package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func populatedCard(t CardType) Card {
	card := NewCard(t)
	base := card.Base()
	base.Front = "front text"
	base.Back = "back text"
	switch c := card.(type) {
	case *ImageCard:
		c.ImageURL = "https://x/y.png"
	case *AudioCard:
		c.AudioURL = "https://x/y.mp3"
	case *MultipleChoiceCard:
		c.Options = []string{"a", "b"}
		c.CorrectOption = "a"
	}
	return card
}

func TestConvertCardTypePreservesFrontAndBack(t *testing.T) {
	types := []CardType{CardText, CardImage, CardMultipleChoice, CardAudio}
	for _, from := range types {
		for _, to := range types {
			t.Run(string(from)+"_to_"+string(to), func(t *testing.T) {
				orig := populatedCard(from)
				converted := ConvertCardType(orig, to)

				assert.Equal(t, to, converted.Type())
				assert.Equal(t, orig.Base().Key, converted.Base().Key)
				assert.Equal(t, "front text", converted.Base().Front)
				assert.Equal(t, "back text", converted.Base().Back)

				if from == to {
					return
				}
				switch c := converted.(type) {
				case *ImageCard:
					assert.Empty(t, c.ImageURL)
				case *AudioCard:
					assert.Empty(t, c.AudioURL)
				case *MultipleChoiceCard:
					assert.Empty(t, c.Options)
					assert.Empty(t, c.CorrectOption)
				}
			})
		}
	}
}

func TestUnmarshalCardDropsForeignFields(t *testing.T) {
	raw := `{"type":"text","front":"f","back":"b","imageUrl":"https://x/y.png","options":["a"],"correctOption":"a","audioUrl":"u"}`
	card, err := UnmarshalCard([]byte(raw))
	require.NoError(t, err)

	text, ok := card.(*TextCard)
	require.True(t, ok, "expected a text card, got %T", card)
	assert.Equal(t, "f", text.Front)
	assert.Equal(t, "b", text.Back)
	assert.NotEmpty(t, text.Key)
}

func TestUnmarshalCardMissingTypeDefaultsToText(t *testing.T) {
	card, err := UnmarshalCard([]byte(`{"front":"f","back":"b"}`))
	require.NoError(t, err)
	assert.Equal(t, CardText, card.Type())
}

func TestUnmarshalCardUnknownType(t *testing.T) {
	_, err := UnmarshalCard([]byte(`{"type":"video","front":"f"}`))
	assert.Error(t, err)
}

func TestCardListDecodeMixedTypes(t *testing.T) {
	raw := `{
		"title": "Animals",
		"description": "Basic vocabulary",
		"flashcards": [
			{"type":"text","front":"dog","back":"chó","imageUrl":"stray"},
			{"type":"image","front":"cat","back":"mèo","imageUrl":"https://x/cat.png","options":["junk"]},
			{"type":"multipleChoice","front":"bird?","back":"chim","options":["chim","cá"],"correctOption":"chim"}
		]
	}`
	var lesson Lesson
	require.NoError(t, json.Unmarshal([]byte(raw), &lesson))
	require.Len(t, lesson.Flashcards, 3)

	assert.IsType(t, &TextCard{}, lesson.Flashcards[0])

	img, ok := lesson.Flashcards[1].(*ImageCard)
	require.True(t, ok)
	assert.Equal(t, "https://x/cat.png", img.ImageURL)

	mc, ok := lesson.Flashcards[2].(*MultipleChoiceCard)
	require.True(t, ok)
	assert.Equal(t, []string{"chim", "cá"}, mc.Options)
	assert.Equal(t, "chim", mc.CorrectOption)
}

func TestMarshalCardIncludesTypeTag(t *testing.T) {
	tests := []struct {
		card Card
		want string
	}{
		{NewCard(CardText), "text"},
		{NewCard(CardImage), "image"},
		{NewCard(CardAudio), "audio"},
		{NewCard(CardMultipleChoice), "multipleChoice"},
	}
	for _, tt := range tests {
		out, err := json.Marshal(tt.card)
		require.NoError(t, err)

		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(out, &decoded))
		assert.Equal(t, tt.want, decoded["type"])
		assert.NotContains(t, decoded, "Key")
	}
}

func TestMarshalMultipleChoiceNilOptions(t *testing.T) {
	mc := &MultipleChoiceCard{CardBase: CardBase{Front: "q"}}
	out, err := json.Marshal(mc)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"options":[]`)
}

func TestLessonCloneIsDeep(t *testing.T) {
	lesson := Lesson{
		Title:      "t",
		Flashcards: CardList{populatedCard(CardMultipleChoice)},
	}
	dup := lesson.Clone()

	dup.Flashcards[0].(*MultipleChoiceCard).Options[0] = "changed"
	assert.Equal(t, "a", lesson.Flashcards[0].(*MultipleChoiceCard).Options[0])
}
