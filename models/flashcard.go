package models

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

type CardType string

const (
	CardText           CardType = "text"
	CardImage          CardType = "image"
	CardMultipleChoice CardType = "multipleChoice"
	CardAudio          CardType = "audio"
)

// Card is the closed set of flashcard variants. Every variant shares
// front/back via CardBase; the remaining fields belong to exactly one type.
type Card interface {
	Type() CardType
	Base() *CardBase
	Clone() Card
}

// CardBase carries the fields common to all card types. Key identifies the
// card within an edit session (upload state is tracked against it, not
// against the card's position) and is never sent to the API.
type CardBase struct {
	Key   string `json:"-"`
	Front string `json:"front"`
	Back  string `json:"back"`
}

type TextCard struct {
	CardBase
}

type ImageCard struct {
	CardBase
	ImageURL string `json:"imageUrl"`
}

type AudioCard struct {
	CardBase
	AudioURL string `json:"audioUrl"`
}

type MultipleChoiceCard struct {
	CardBase
	Options       []string `json:"options"`
	CorrectOption string   `json:"correctOption"`
}

func (c *TextCard) Type() CardType           { return CardText }
func (c *ImageCard) Type() CardType          { return CardImage }
func (c *AudioCard) Type() CardType          { return CardAudio }
func (c *MultipleChoiceCard) Type() CardType { return CardMultipleChoice }

func (c *TextCard) Base() *CardBase           { return &c.CardBase }
func (c *ImageCard) Base() *CardBase          { return &c.CardBase }
func (c *AudioCard) Base() *CardBase          { return &c.CardBase }
func (c *MultipleChoiceCard) Base() *CardBase { return &c.CardBase }

func (c *TextCard) Clone() Card {
	dup := *c
	return &dup
}

func (c *ImageCard) Clone() Card {
	dup := *c
	return &dup
}

func (c *AudioCard) Clone() Card {
	dup := *c
	return &dup
}

func (c *MultipleChoiceCard) Clone() Card {
	dup := *c
	dup.Options = append([]string(nil), c.Options...)
	return &dup
}

func (c *TextCard) MarshalJSON() ([]byte, error) {
	type alias TextCard
	return json.Marshal(struct {
		Type CardType `json:"type"`
		alias
	}{CardText, alias(*c)})
}

func (c *ImageCard) MarshalJSON() ([]byte, error) {
	type alias ImageCard
	return json.Marshal(struct {
		Type CardType `json:"type"`
		alias
	}{CardImage, alias(*c)})
}

func (c *AudioCard) MarshalJSON() ([]byte, error) {
	type alias AudioCard
	return json.Marshal(struct {
		Type CardType `json:"type"`
		alias
	}{CardAudio, alias(*c)})
}

func (c *MultipleChoiceCard) MarshalJSON() ([]byte, error) {
	type alias MultipleChoiceCard
	dup := *c
	if dup.Options == nil {
		dup.Options = []string{}
	}
	return json.Marshal(struct {
		Type CardType `json:"type"`
		alias
	}{CardMultipleChoice, alias(dup)})
}

// NewCard returns a fresh default card of the given type with a new key.
// Unknown types fall back to text.
func NewCard(t CardType) Card {
	base := CardBase{Key: uuid.New().String()}
	switch t {
	case CardImage:
		return &ImageCard{CardBase: base}
	case CardAudio:
		return &AudioCard{CardBase: base}
	case CardMultipleChoice:
		return &MultipleChoiceCard{CardBase: base, Options: []string{}}
	default:
		return &TextCard{CardBase: base}
	}
}

// ConvertCardType rebuilds the card as the target type, keeping only the
// key, front and back. All type-specific fields reset to their defaults.
func ConvertCardType(c Card, t CardType) Card {
	if c.Type() == t {
		return c.Clone()
	}
	next := NewCard(t)
	base := next.Base()
	base.Key = c.Base().Key
	base.Front = c.Base().Front
	base.Back = c.Base().Back
	return next
}

// UnmarshalCard decodes a single card, dispatching on its type tag. Fields
// that do not belong to the declared type are dropped by the decode itself.
// A missing type tag decodes as a text card.
func UnmarshalCard(data []byte) (Card, error) {
	var probe struct {
		Type CardType `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("card type probe failed: %w", err)
	}

	var card Card
	switch probe.Type {
	case CardImage:
		card = &ImageCard{}
	case CardAudio:
		card = &AudioCard{}
	case CardMultipleChoice:
		card = &MultipleChoiceCard{}
	case CardText, "":
		card = &TextCard{}
	default:
		return nil, fmt.Errorf("unknown card type %q", probe.Type)
	}

	if err := json.Unmarshal(data, card); err != nil {
		return nil, err
	}
	base := card.Base()
	if base.Key == "" {
		base.Key = uuid.New().String()
	}
	if mc, ok := card.(*MultipleChoiceCard); ok && mc.Options == nil {
		mc.Options = []string{}
	}
	return card, nil
}
