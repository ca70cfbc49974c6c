package domain

// Author wrote zero or more books. Name is unique across the catalog.
type Author struct {
	Entity
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Bio   *string `json:"bio"`
	// Books is populated only when the author is loaded with its books.
	Books []Book `json:"books,omitempty"`
}
