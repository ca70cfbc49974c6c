package domain

// ISBNMinLength is the shortest ISBN the catalog accepts.
const ISBNMinLength = 20

// Book is a catalog entry. Title and ISBN are unique across the catalog.
type Book struct {
	Entity
	Title string `json:"title"`
	// AuthorID is nil once the author has been deleted.
	AuthorID  *string `json:"author_id"`
	ISBN      string  `json:"isbn"`
	Genre     string  `json:"genre"`
	Publisher string  `json:"publisher"`
	Year      int     `json:"year"`
	// Author is attached when books are listed or shown.
	Author *Author `json:"author,omitempty"`
}

// AuthorName returns the attached author's name, or "" when none is attached.
func (b *Book) AuthorName() string {
	if b.Author == nil {
		return ""
	}
	return b.Author.Name
}
