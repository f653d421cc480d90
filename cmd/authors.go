package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/libman/internal/models"
	"github.com/desertthunder/libman/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthorsList prints every author in server order.
func (r *Runner) AuthorsList(ctx context.Context, cmd *cli.Command) error {
	mgr := r.authorsManager()
	if err := mgr.Load(ctx); err != nil {
		return r.failure(mgr.Error(), err)
	}

	authors := mgr.Authors()
	if cmd.Bool("json") {
		return r.writeJSON(authors, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Authors")
	r.writePlain("Found %d authors:\n\n", len(authors))
	for _, a := range authors {
		r.writePlain("%d. %s\n", a.ID, a.Name)
		r.writePlain("   Email: %s\n", a.Email)
	}
	return nil
}

// AuthorsCreate validates the email locally, then creates the author.
func (r *Runner) AuthorsCreate(ctx context.Context, cmd *cli.Command) error {
	mgr := r.authorsManager()
	mgr.SetDraft(models.AuthorInput{Name: cmd.String("name"), Email: cmd.String("email")})

	if err := mgr.Create(ctx); err != nil {
		return r.failure(mgr.Error(), err)
	}

	created, ok := findByEmail(mgr.Authors(), cmd.String("email"))
	if !ok {
		r.writePlain("✓ Author created\n")
		return nil
	}
	r.writePlain("✓ Created author %d: %s <%s>\n", created.ID, created.Name, created.Email)
	return nil
}

// AuthorsUpdate replaces the flagged fields of an existing author.
func (r *Runner) AuthorsUpdate(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Int64("id")
	if !cmd.IsSet("name") && !cmd.IsSet("email") {
		return fmt.Errorf("%w: at least one of --name or --email", shared.ErrMissingArgument)
	}

	mgr := r.authorsManager()
	if err := mgr.Load(ctx); err != nil {
		return r.failure(mgr.Error(), err)
	}

	author, ok := models.FindAuthor(mgr.Authors(), id)
	if !ok {
		return fmt.Errorf("%w: author %d", shared.ErrNotFound, id)
	}

	mgr.BeginEdit(author)
	if cmd.IsSet("name") {
		author.Name = cmd.String("name")
	}
	if cmd.IsSet("email") {
		author.Email = cmd.String("email")
	}
	mgr.SetEdit(author)

	if err := mgr.SaveEdit(ctx); err != nil {
		return r.failure(mgr.Error(), err)
	}

	r.writePlain("✓ Updated author %d: %s <%s>\n", author.ID, author.Name, author.Email)
	return nil
}

// AuthorsDelete removes an author. The server cascades the delete to their books.
func (r *Runner) AuthorsDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Int64("id")
	mgr := r.authorsManager()

	if err := mgr.Delete(ctx, id); err != nil {
		return r.failure(mgr.Error(), err)
	}

	r.writePlain("✓ Deleted author %d\n", id)
	return nil
}

func findByEmail(authors []models.Author, email string) (models.Author, bool) {
	for i := len(authors) - 1; i >= 0; i-- {
		if authors[i].Email == email {
			return authors[i], true
		}
	}
	return models.Author{}, false
}
