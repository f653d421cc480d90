// package formatter provides functions to export catalog data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/libman/internal/models"
	"github.com/desertthunder/libman/internal/shared"
)

// Format names an export format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatText     Format = "text"
)

// ParseFormat accepts csv, md (or markdown) and text (or txt), case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "text", "txt", "":
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: unknown export format %q (want csv, md or text)", shared.ErrInvalidFlag, s)
}

// Render exports the catalog in the given format. CSV renders the books table, a blank line, then the authors table.
func Render(export *models.CatalogExport, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		books, err := ExportBooksToCSV(export)
		if err != nil {
			return nil, err
		}
		authors, err := ExportAuthorsToCSV(export)
		if err != nil {
			return nil, err
		}
		return append(append(books, '\n'), authors...), nil
	case FormatMarkdown:
		return ExportToMarkdown(export)
	case FormatText:
		return ExportToText(export)
	}
	return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidFlag, format)
}

func writeCSV(headers []string, records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportBooksToCSV converts the catalog's books to CSV with columns: ID, Title, Published, Author ID, Author
func ExportBooksToCSV(export *models.CatalogExport) ([]byte, error) {
	records := make([][]string, 0, len(export.Books))
	for _, book := range export.Books {
		records = append(records, []string{
			strconv.FormatInt(book.ID, 10),
			book.Title,
			book.PublishedDate,
			strconv.FormatInt(book.Author, 10),
			models.AuthorName(export.Authors, book.Author),
		})
	}
	return writeCSV([]string{"ID", "Title", "Published", "Author ID", "Author"}, records)
}

// ExportAuthorsToCSV converts the catalog's authors to CSV with columns: ID, Name, Email, Books
func ExportAuthorsToCSV(export *models.CatalogExport) ([]byte, error) {
	records := make([][]string, 0, len(export.Authors))
	for _, author := range export.Authors {
		records = append(records, []string{
			strconv.FormatInt(author.ID, 10),
			author.Name,
			author.Email,
			strconv.Itoa(len(export.BooksBy(author.ID))),
		})
	}
	return writeCSV([]string{"ID", "Name", "Email", "Books"}, records)
}

// ExportToMarkdown converts the catalog to a Markdown document with an authors and a books section
func ExportToMarkdown(export *models.CatalogExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Library Catalog\n\n")
	fmt.Fprintf(&buf, "**Authors**: %d\n", len(export.Authors))
	fmt.Fprintf(&buf, "**Books**: %d\n\n", len(export.Books))

	buf.WriteString("## Authors\n\n")
	for i, author := range export.Authors {
		fmt.Fprintf(&buf, "%d. %s <%s> (%s)\n", i+1, author.Name, author.Email, plural(len(export.BooksBy(author.ID)), "book"))
	}

	buf.WriteString("\n## Books\n\n")
	buf.WriteString("| Title | Published | Author |\n")
	buf.WriteString("|-------|-----------|--------|\n")
	for _, book := range export.Books {
		fmt.Fprintf(&buf, "| %s | %s | %s |\n",
			escapeCell(book.Title), book.PublishedDate, escapeCell(models.AuthorName(export.Authors, book.Author)))
	}

	return buf.Bytes(), nil
}

// ExportToText converts the catalog to plain text, grouping books under their author
func ExportToText(export *models.CatalogExport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Authors: %d\n", len(export.Authors))
	fmt.Fprintf(&buf, "Books: %d\n\n", len(export.Books))

	for _, author := range export.Authors {
		fmt.Fprintf(&buf, "%s <%s>\n", author.Name, author.Email)
		for _, book := range export.BooksBy(author.ID) {
			fmt.Fprintf(&buf, "  - %s (%s)\n", book.Title, book.PublishedDate)
		}
	}

	known := make(map[int64]bool, len(export.Authors))
	for _, a := range export.Authors {
		known[a.ID] = true
	}
	for _, book := range export.Books {
		if !known[book.Author] {
			fmt.Fprintf(&buf, "%s\n  - %s (%s)\n", models.AuthorName(nil, book.Author), book.Title, book.PublishedDate)
		}
	}

	return buf.Bytes(), nil
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	BooksFile   string
	AuthorsFile string
}

// WriteCSVExport exports the catalog as two CSV files.
//
// Defaults to "catalog" as the base filename & creates {base}_books.csv and {base}_authors.csv
func WriteCSVExport(export *models.CatalogExport, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = "catalog"
	}
	baseFilepath = strings.TrimSuffix(baseFilepath, ".csv")

	booksData, err := ExportBooksToCSV(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate books CSV: %w", err)
	}

	authorsData, err := ExportAuthorsToCSV(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate authors CSV: %w", err)
	}

	result := &CSVExportResult{
		BooksFile:   baseFilepath + "_books.csv",
		AuthorsFile: baseFilepath + "_authors.csv",
	}

	if err := writeFile(result.BooksFile, booksData); err != nil {
		return nil, err
	}
	if err := writeFile(result.AuthorsFile, authorsData); err != nil {
		return nil, err
	}

	return result, nil
}

// WriteMarkdownExport exports the catalog to a Markdown file, defaulting to catalog.md
func WriteMarkdownExport(export *models.CatalogExport, path string) (string, error) {
	if path == "" {
		path = "catalog.md"
	}

	data, err := ExportToMarkdown(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	if err := writeFile(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// WriteTextExport exports the catalog to a plain text file, defaulting to catalog.txt
func WriteTextExport(export *models.CatalogExport, path string) (string, error) {
	if path == "" {
		path = "catalog.txt"
	}

	data, err := ExportToText(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := writeFile(path, data); err != nil {
		return "", err
	}
	return path, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
