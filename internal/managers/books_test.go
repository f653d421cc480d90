package managers

import (
	"context"
	"testing"

	"github.com/desertthunder/libman/internal/models"
	"github.com/desertthunder/libman/internal/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dune() models.BookInput {
	return models.BookInput{Title: "Dune", PublishedDate: "1965-08-01", Author: 1}
}

func loadedBooks(t *testing.T, books ...models.Book) (*BooksManager, *MockCatalog) {
	t.Helper()
	api := NewMockCatalog([]models.Author{{ID: 1, Name: "Herbert", Email: "frank@x.com"}}, books)
	m := NewBooksManager(api, quietLogger())
	require.NoError(t, m.Load(context.Background()))
	return m, api
}

func TestBooksManagerLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches books and authors", func(t *testing.T) {
		m, api := loadedBooks(t, models.Book{ID: 1, Title: "Dune", PublishedDate: "1965-08-01", Author: 1})
		snap := m.Snapshot()
		assert.Len(t, snap.Books, 1)
		assert.Len(t, snap.Authors, 1)
		assert.Equal(t, 1, api.Count("ListBooks"))
		assert.Equal(t, 1, api.Count("ListAuthors"))
	})

	t.Run("author failure does not block books", func(t *testing.T) {
		api := NewMockCatalog(nil, []models.Book{{ID: 1, Title: "Dune", PublishedDate: "1965-08-01", Author: 1}})
		api.Errs["ListAuthors"] = unavailable()
		m := NewBooksManager(api, quietLogger())

		err := m.Load(ctx)
		require.Error(t, err)
		assert.Len(t, m.Books(), 1)
		assert.Empty(t, m.AuthorOptions())
		assert.Equal(t, MsgLoadAuthorsFailed, m.Error())
	})

	t.Run("book failure does not block authors", func(t *testing.T) {
		api := NewMockCatalog([]models.Author{{ID: 1, Name: "Herbert"}}, nil)
		api.Errs["ListBooks"] = unavailable()
		m := NewBooksManager(api, quietLogger())

		require.Error(t, m.Load(ctx))
		assert.Len(t, m.AuthorOptions(), 1)
		assert.Equal(t, MsgLoadBooksFailed, m.Error())
	})

	t.Run("search term is sent", func(t *testing.T) {
		m, _ := loadedBooks(t,
			models.Book{ID: 1, Title: "Dune", PublishedDate: "1965-08-01", Author: 1},
			models.Book{ID: 2, Title: "Children of Dune", PublishedDate: "1976-04-01", Author: 1},
			models.Book{ID: 3, Title: "Whipping Star", PublishedDate: "1970-01-01", Author: 1},
		)
		m.SetSearch("dune")
		assert.Equal(t, "dune", m.Search())

		require.NoError(t, m.RefreshBooks(ctx))
		assert.Len(t, m.Books(), 2)
	})

	t.Run("stale book refresh is dropped", func(t *testing.T) {
		m, api := loadedBooks(t, models.Book{ID: 1, Title: "Dune", PublishedDate: "1965-08-01", Author: 1})

		started := make(chan struct{})
		release := make(chan struct{})
		api.OnListBooks = func(call int) {
			if call == 2 {
				close(started)
				<-release
			}
		}

		done := make(chan struct{})
		go func() {
			defer close(done)
			_ = m.RefreshBooks(ctx)
		}()
		<-started

		_, err := api.CreateBook(ctx, models.BookInput{Title: "Messiah", PublishedDate: "1969-10-15", Author: 1})
		require.NoError(t, err)
		require.NoError(t, m.RefreshBooks(ctx))

		close(release)
		<-done
		assert.Len(t, m.Books(), 2)
	})
}

func TestBooksManagerCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("dune", func(t *testing.T) {
		m, api := loadedBooks(t)
		m.SetDraft(dune())

		require.NoError(t, m.Create(ctx))
		books := m.Books()
		require.Len(t, books, 1)
		assert.Equal(t, "Dune", books[0].Title)
		assert.Equal(t, "1965-08-01", books[0].PublishedDate)
		assert.Equal(t, int64(1), books[0].Author)
		assert.Equal(t, models.BookInput{}, m.Draft())
		assert.Empty(t, m.Error())
		assert.Equal(t, 1, api.Count("CreateBook"))
	})

	t.Run("unselected author sends nothing", func(t *testing.T) {
		m, api := loadedBooks(t)
		draft := dune()
		draft.Author = 0
		m.SetDraft(draft)

		err := m.Create(ctx)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		assert.Equal(t, "All fields are required.", m.Error())
		assert.Zero(t, api.Count("CreateBook"))
		assert.Equal(t, draft, m.Draft())
	})

	t.Run("missing title or date sends nothing", func(t *testing.T) {
		for _, draft := range []models.BookInput{
			{PublishedDate: "1965-08-01", Author: 1},
			{Title: "Dune", Author: 1},
		} {
			m, api := loadedBooks(t)
			m.SetDraft(draft)
			assert.Error(t, m.Create(ctx))
			assert.Zero(t, api.Count("CreateBook"))
		}
	})

	t.Run("new book appears only after refresh", func(t *testing.T) {
		m, api := loadedBooks(t)
		var during []models.Book
		api.OnListBooks = func(call int) {
			if call == 2 {
				during = m.Books()
			}
		}

		m.SetDraft(dune())
		require.NoError(t, m.Create(ctx))
		assert.Empty(t, during)
		assert.Len(t, m.Books(), 1)
	})

	t.Run("server failure", func(t *testing.T) {
		m, api := loadedBooks(t)
		api.Errs["CreateBook"] = fieldError("published_date", models.MsgInvalidDate)
		m.SetDraft(dune())

		err := m.Create(ctx)
		assert.ErrorIs(t, err, shared.ErrAPIRequest)
		assert.Equal(t, MsgCreateBookFailed, m.Error())
		assert.Equal(t, dune(), m.Draft())
	})

	t.Run("success clears previous error", func(t *testing.T) {
		m, _ := loadedBooks(t)
		m.SetDraft(models.BookInput{})
		require.Error(t, m.Create(ctx))

		m.SetDraft(dune())
		require.NoError(t, m.Create(ctx))
		assert.Empty(t, m.Error())
	})
}

func TestBooksManagerEdit(t *testing.T) {
	ctx := context.Background()
	stored := models.Book{ID: 5, Title: "Dune", PublishedDate: "1965-08-01", Author: 1}

	t.Run("save submits all fields", func(t *testing.T) {
		m, api := loadedBooks(t, stored)
		m.BeginEdit(stored)
		edited := stored
		edited.Title = "Dune (Deluxe)"
		require.True(t, m.SetEdit(edited))

		require.NoError(t, m.SaveEdit(ctx))
		assert.Equal(t, "Dune (Deluxe)", m.Books()[0].Title)
		_, ok := m.Edit()
		assert.False(t, ok)
		assert.Equal(t, 1, api.Count("UpdateBook"))
	})

	t.Run("no local validation on save", func(t *testing.T) {
		m, api := loadedBooks(t, stored)
		m.BeginEdit(stored)
		m.SetEdit(models.Book{ID: 5})

		require.NoError(t, m.SaveEdit(ctx))
		assert.Equal(t, 1, api.Count("UpdateBook"))
	})

	t.Run("failure keeps edit slot", func(t *testing.T) {
		m, api := loadedBooks(t, stored)
		api.Errs["UpdateBook"] = fieldError("author", `Invalid pk "9" - object does not exist.`)
		m.BeginEdit(stored)

		require.Error(t, m.SaveEdit(ctx))
		assert.Equal(t, MsgUpdateBookFailed, m.Error())
		_, ok := m.Edit()
		assert.True(t, ok)
	})

	t.Run("new edit discards unsaved one", func(t *testing.T) {
		other := models.Book{ID: 6, Title: "Emma", PublishedDate: "1815-12-23", Author: 1}
		m, _ := loadedBooks(t, stored, other)

		m.BeginEdit(stored)
		m.SetEdit(models.Book{ID: 5, Title: "changed", PublishedDate: "1965-08-01", Author: 1})
		m.BeginEdit(other)

		edit, _ := m.Edit()
		assert.Equal(t, other, edit)
		assert.Equal(t, "Dune", m.Books()[0].Title)
	})

	t.Run("cancel", func(t *testing.T) {
		m, api := loadedBooks(t, stored)
		m.BeginEdit(stored)
		m.CancelEdit()
		require.NoError(t, m.SaveEdit(ctx))
		assert.Zero(t, api.Count("UpdateBook"))
	})
}

func TestBooksManagerDelete(t *testing.T) {
	ctx := context.Background()
	stored := models.Book{ID: 5, Title: "Dune", PublishedDate: "1965-08-01", Author: 1}

	t.Run("removes book and matching edit", func(t *testing.T) {
		m, _ := loadedBooks(t, stored)
		m.BeginEdit(stored)

		require.NoError(t, m.Delete(ctx, 5))
		assert.Empty(t, m.Books())
		_, ok := m.Edit()
		assert.False(t, ok)
	})

	t.Run("failure", func(t *testing.T) {
		m, _ := loadedBooks(t, stored)

		err := m.Delete(ctx, 99)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Equal(t, "Failed to delete the book.", m.Error())
		assert.Len(t, m.Books(), 1)
	})
}
