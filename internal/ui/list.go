package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/libman/internal/models"
)

var (
	_ list.Item = authorItem{}
	_ list.Item = bookItem{}
)

// authorItem wraps [models.Author] to implement [list.Item].
type authorItem struct {
	author models.Author
}

func (i authorItem) FilterValue() string { return i.author.Name }
func (i authorItem) Title() string       { return i.author.Name }
func (i authorItem) Description() string { return i.author.Email }

// bookItem wraps [models.Book] to implement [list.Item], carrying the author's display name.
type bookItem struct {
	book   models.Book
	author string
}

func (i bookItem) FilterValue() string { return i.book.Title }
func (i bookItem) Title() string       { return i.book.Title }
func (i bookItem) Description() string {
	return fmt.Sprintf("Published: %s • Author: %s", i.book.PublishedDate, i.author)
}

func newList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.SetStatusBarItemName("entry", "entries")
	return l
}

func authorItems(authors []models.Author) []list.Item {
	items := make([]list.Item, len(authors))
	for i, a := range authors {
		items[i] = authorItem{author: a}
	}
	return items
}

func bookItems(books []models.Book, authors []models.Author) []list.Item {
	items := make([]list.Item, len(books))
	for i, b := range books {
		items[i] = bookItem{book: b, author: models.AuthorName(authors, b.Author)}
	}
	return items
}
