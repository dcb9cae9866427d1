package models

import "encoding/json"

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Lesson is the editable entity: metadata plus an ordered list of cards.
// It is addressed externally by a slug, which is not part of the payload
// the API returns on fetch.
type Lesson struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Visibility  Visibility `json:"visibility"`
	Flashcards  CardList   `json:"flashcards"`
}

func (l Lesson) Clone() Lesson {
	dup := l
	dup.Flashcards = l.Flashcards.Clone()
	return dup
}

// CardList decodes each element through the tagged-variant codec.
type CardList []Card

func (cl *CardList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	cards := make(CardList, 0, len(raw))
	for _, item := range raw {
		card, err := UnmarshalCard(item)
		if err != nil {
			return err
		}
		cards = append(cards, card)
	}
	*cl = cards
	return nil
}

func (cl CardList) Clone() CardList {
	if cl == nil {
		return nil
	}
	dup := make(CardList, len(cl))
	for i, c := range cl {
		dup[i] = c.Clone()
	}
	return dup
}

// Find returns the card with the given key and its position.
func (cl CardList) Find(key string) (int, Card) {
	for i, c := range cl {
		if c.Base().Key == key {
			return i, c
		}
	}
	return -1, nil
}
