package services

import (
	"github.com/microcosm-cc/bluemonday"

	"github.com/braincards/webapp/models"
)

var strictPolicy = bluemonday.StrictPolicy()

// SanitiseText strips all HTML from user-entered text. No emptiness check:
// the form relies on native required-field behaviour, not server rules.
func SanitiseText(input string) string {
	return strictPolicy.Sanitize(input)
}

// SanitiseLesson returns a copy of the draft with every user-entered text
// field cleaned, applied just before the replacement update is sent.
func SanitiseLesson(lesson models.Lesson) models.Lesson {
	clean := lesson.Clone()
	clean.Title = SanitiseText(clean.Title)
	clean.Description = SanitiseText(clean.Description)
	for _, card := range clean.Flashcards {
		base := card.Base()
		base.Front = SanitiseText(base.Front)
		base.Back = SanitiseText(base.Back)
		if mc, ok := card.(*models.MultipleChoiceCard); ok {
			for i, opt := range mc.Options {
				mc.Options[i] = SanitiseText(opt)
			}
			mc.CorrectOption = SanitiseText(mc.CorrectOption)
		}
	}
	return clean
}
