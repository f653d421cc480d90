package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/libman/internal/models"
	"github.com/desertthunder/libman/internal/shared"
	"github.com/urfave/cli/v3"
)

// BooksList prints books, filtered by --search when given.
//
// Author names are best effort: when the authors cannot be loaded the books are still listed, with author ids.
func (r *Runner) BooksList(ctx context.Context, cmd *cli.Command) error {
	mgr := r.booksManager()
	mgr.SetSearch(cmd.String("search"))

	if err := mgr.RefreshBooks(ctx); err != nil {
		return r.failure(mgr.Error(), err)
	}
	authorsErr := mgr.RefreshAuthors(ctx)
	if authorsErr != nil {
		r.logger.Warn("listing books without author names", "error", authorsErr)
	}

	snap := mgr.Snapshot()
	if cmd.Bool("json") {
		return r.writeJSON(snap.Books, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Books")
	if snap.Search != "" {
		r.writePlain("Found %d books matching %q:\n\n", len(snap.Books), snap.Search)
	} else {
		r.writePlain("Found %d books:\n\n", len(snap.Books))
	}
	for _, b := range snap.Books {
		r.writePlain("%d. %s\n", b.ID, b.Title)
		r.writePlain("   Published: %s\n", b.PublishedDate)
		r.writePlain("   Author: %s\n", models.AuthorName(snap.Authors, b.Author))
	}
	if authorsErr != nil {
		r.writePlainln("! %s Authors are shown by ID.", snap.Error)
	}
	return nil
}

// BooksCreate creates a book. Title, published date and author are all required.
func (r *Runner) BooksCreate(ctx context.Context, cmd *cli.Command) error {
	mgr := r.booksManager()
	mgr.SetDraft(models.BookInput{
		Title:         cmd.String("title"),
		PublishedDate: cmd.String("published"),
		Author:        cmd.Int64("author"),
	})

	if err := mgr.Create(ctx); err != nil {
		return r.failure(mgr.Error(), err)
	}

	r.writePlain("✓ Created book: %s\n", cmd.String("title"))
	return nil
}

// BooksUpdate replaces the flagged fields of an existing book and submits all three.
func (r *Runner) BooksUpdate(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Int64("id")
	if !cmd.IsSet("title") && !cmd.IsSet("published") && !cmd.IsSet("author") {
		return fmt.Errorf("%w: at least one of --title, --published or --author", shared.ErrMissingArgument)
	}

	mgr := r.booksManager()
	if err := mgr.RefreshBooks(ctx); err != nil {
		return r.failure(mgr.Error(), err)
	}

	var book models.Book
	found := false
	for _, b := range mgr.Books() {
		if b.ID == id {
			book, found = b, true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: book %d", shared.ErrNotFound, id)
	}

	mgr.BeginEdit(book)
	if cmd.IsSet("title") {
		book.Title = cmd.String("title")
	}
	if cmd.IsSet("published") {
		book.PublishedDate = cmd.String("published")
	}
	if cmd.IsSet("author") {
		book.Author = cmd.Int64("author")
	}
	mgr.SetEdit(book)

	if err := mgr.SaveEdit(ctx); err != nil {
		return r.failure(mgr.Error(), err)
	}

	r.writePlain("✓ Updated book %d: %s\n", book.ID, book.Title)
	return nil
}

// BooksDelete removes a book.
func (r *Runner) BooksDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Int64("id")
	mgr := r.booksManager()

	if err := mgr.Delete(ctx, id); err != nil {
		return r.failure(mgr.Error(), err)
	}

	r.writePlain("✓ Deleted book %d\n", id)
	return nil
}
