// Package dialog provides the reusable yes/no confirmation prompt. It owns
// no consequence: the caller supplies both callbacks and the open flag.
package dialog

import "fmt"

type Confirm struct {
	Open      bool
	Title     string
	Message   string
	ItemName  string
	OnClose   func()
	OnConfirm func()
}

// Visible reports whether the dialog should render at all.
func (c Confirm) Visible() bool {
	return c.Open
}

// ItemPrompt is the delete-style line shown when an item name is supplied.
func (c Confirm) ItemPrompt() string {
	if c.ItemName == "" {
		return ""
	}
	return fmt.Sprintf("Do you want to delete flashcard %q?", c.ItemName)
}

func (c Confirm) Dismiss() {
	if c.OnClose != nil {
		c.OnClose()
	}
}

func (c Confirm) Accept() {
	if c.OnConfirm != nil {
		c.OnConfirm()
	}
}
