package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/libman/internal/formatter"
	"github.com/desertthunder/libman/internal/models"
	"github.com/urfave/cli/v3"
)

// Export fetches every author and book and writes them in the requested format.
//
// Without --output the export goes to stdout; CSV then prints the books table followed by the authors table.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	mgr := r.booksManager()
	if err := mgr.Load(ctx); err != nil {
		return r.failure(mgr.Error(), err)
	}

	snap := mgr.Snapshot()
	export := &models.CatalogExport{Authors: snap.Authors, Books: snap.Books}
	r.logger.Debug("exporting catalog", "format", format, "authors", len(export.Authors), "books", len(export.Books))

	output := cmd.String("output")
	if output == "" {
		data, err := formatter.Render(export, format)
		if err != nil {
			return fmt.Errorf("failed to render export: %w", err)
		}
		return r.writePlain("%s", data)
	}

	switch format {
	case formatter.FormatCSV:
		result, err := formatter.WriteCSVExport(export, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported %d books to %s\n", len(export.Books), result.BooksFile)
		r.writePlain("✓ Exported %d authors to %s\n", len(export.Authors), result.AuthorsFile)
	case formatter.FormatMarkdown:
		path, err := formatter.WriteMarkdownExport(export, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported catalog to %s\n", path)
	default:
		path, err := formatter.WriteTextExport(export, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported catalog to %s\n", path)
	}

	return nil
}
