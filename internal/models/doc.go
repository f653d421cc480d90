// Package models defines the catalog entities shared by the API client, the managers and the reference API.
//
// The package contains two categories of types:
//
// 1. Entities as the REST API returns them, with server-assigned ids
//   - [Author] : name and email
//   - [Book] : title, published date and the id of its [Author]
//
// 2. Inputs, the entity without its id, used as request bodies and as form drafts
//   - [AuthorInput]
//   - [BookInput]
//
// Inputs carry two levels of validation built on ozzo-validation. Validate is the client-side gate run before
// any request is sent (email format for authors, presence of every field for new books). ValidateRecord is the
// stricter check the reference API applies before persisting, and reports errors keyed by JSON field name.
//
// The [Repository] interface defines the persistence operations the reference API is built on.
package models
