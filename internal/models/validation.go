package models

import (
	"errors"
	"regexp"
	"slices"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// EmailPattern is the format an author email must match before it is submitted.
var EmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// DateLayout is the published_date format, YYYY-MM-DD.
const DateLayout = "2006-01-02"

// User-facing validation messages.
const (
	MsgInvalidEmail   = "Enter a valid email address."
	MsgFieldsRequired = "All fields are required."
	MsgBlank          = "This field may not be blank."
	MsgRequired       = "This field is required."
	MsgInvalidDate    = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
)

// Required does not run on empty values for Match, so both rules carry the same message.
var emailRules = []validation.Rule{
	validation.Required.Error(MsgInvalidEmail),
	validation.Match(EmailPattern).Error(MsgInvalidEmail),
}

// ValidateEmail reports whether email matches [EmailPattern].
func ValidateEmail(email string) bool {
	return validation.Validate(email, emailRules...) == nil
}

// Validate is the client-side gate for authors: only the email format is checked.
func (a AuthorInput) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Email, emailRules...),
	)
}

// ValidateRecord checks an author before it is persisted.
func (a AuthorInput) ValidateRecord() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Name,
			validation.Required.Error(MsgBlank),
			validation.Length(1, 100).Error("Ensure this field has no more than 100 characters."),
		),
		validation.Field(&a.Email, emailRules...),
	)
}

// Validate is the client-side gate for new books: every field must be present.
func (b BookInput) Validate() error {
	err := validation.ValidateStruct(&b,
		validation.Field(&b.Title, validation.Required),
		validation.Field(&b.PublishedDate, validation.Required),
		validation.Field(&b.Author, validation.Required),
	)
	if err != nil {
		return validation.NewError("validation_fields_required", MsgFieldsRequired)
	}
	return nil
}

// ValidateRecord checks a book before it is persisted. Whether the author exists is left to the store.
func (b BookInput) ValidateRecord() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Title,
			validation.Required.Error(MsgBlank),
			validation.Length(1, 200).Error("Ensure this field has no more than 200 characters."),
		),
		validation.Field(&b.PublishedDate,
			validation.Required.Error(MsgInvalidDate),
			validation.Date(DateLayout).Error(MsgInvalidDate),
		),
		validation.Field(&b.Author, validation.Required.Error(MsgRequired)),
	)
}

// FieldErrors flattens ozzo-validation errors into the API error body shape: field name to messages.
// Returns nil when err carries no field errors.
func FieldErrors(err error) map[string][]string {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return nil
	}

	fields := make(map[string][]string, len(verrs))
	for field, ferr := range verrs {
		if ferr == nil {
			continue
		}
		fields[field] = append(fields[field], ferr.Error())
	}
	return fields
}

// FieldNames returns the sorted keys of a field error map.
func FieldNames(fields map[string][]string) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
