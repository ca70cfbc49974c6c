package search

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/catalog-server/internal/domain"
)

// setupTestIndex creates a temporary search index for testing.
func setupTestIndex(t *testing.T) (*SearchIndex, string) {
	t.Helper()

	dir := t.TempDir()
	index, err := NewSearchIndex(Options{DataPath: dir})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	return index, dir
}

func testBook(id, title, author, genre string, year int) *domain.Book {
	b := &domain.Book{
		Title:     title,
		ISBN:      "isbn-" + id + "-0000000000000000",
		Genre:     genre,
		Publisher: "Ace",
		Year:      year,
	}
	b.ID = id
	b.InitTimestamps()
	if author != "" {
		a := &domain.Author{Name: author}
		a.ID = "author-" + id
		b.AuthorID = &a.ID
		b.Author = a
	}
	return b
}

func booksSeq(books ...*domain.Book) iter.Seq2[*domain.Book, error] {
	return func(yield func(*domain.Book, error) bool) {
		for _, b := range books {
			if !yield(b, nil) {
				return
			}
		}
	}
}

func indexAll(t *testing.T, index *SearchIndex, books ...*domain.Book) {
	t.Helper()
	for _, b := range books {
		require.NoError(t, index.IndexBook(context.Background(), b))
	}
}

func TestNewSearchIndex(t *testing.T) {
	index, _ := setupTestIndex(t)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestSearchIndex_IndexAndDeleteBook(t *testing.T) {
	index, _ := setupTestIndex(t)
	ctx := context.Background()

	book := testBook("book-1", "The Hobbit", "J.R.R. Tolkien", "Fantasy", 1937)
	require.NoError(t, index.IndexBook(ctx, book))

	// Reindexing replaces the document.
	book.Title = "The Hobbit, or There and Back Again"
	require.NoError(t, index.IndexBook(ctx, book))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	require.NoError(t, index.DeleteBook(ctx, "book-1"))
	require.NoError(t, index.DeleteBook(ctx, "book-1"))

	count, err = index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestSearchIndex_Search_TitleAndAuthor(t *testing.T) {
	index, _ := setupTestIndex(t)
	ctx := context.Background()

	indexAll(t, index,
		testBook("book-1", "Dune", "Frank Herbert", "Science Fiction", 1965),
		testBook("book-2", "Emma", "Jane Austen", "Romance", 1815),
		testBook("book-3", "Persuasion", "Jane Austen", "Romance", 1817),
	)

	result, err := index.Search(ctx, SearchParams{Query: "dune"})
	require.NoError(t, err)
	require.Equal(t, uint64(1), result.Total)
	assert.Equal(t, "book-1", result.Hits[0].ID)
	assert.Equal(t, "Dune", result.Hits[0].Title)
	assert.Equal(t, "Frank Herbert", result.Hits[0].Author)

	result, err = index.Search(ctx, SearchParams{Query: "austen"})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), result.Total)
	assert.ElementsMatch(t, []string{"book-2", "book-3"}, result.IDs())
}

func TestSearchIndex_Search_FuzzyAndPrefix(t *testing.T) {
	index, _ := setupTestIndex(t)
	ctx := context.Background()

	indexAll(t, index, testBook("book-1", "The Hobbit", "J.R.R. Tolkien", "Fantasy", 1937))

	// "hobit" is one edit away, "hob" is a partial word.
	for _, q := range []string{"hobit", "hob"} {
		t.Run(q, func(t *testing.T) {
			result, err := index.Search(ctx, SearchParams{Query: q})
			require.NoError(t, err)
			require.NotEmpty(t, result.Hits)
			assert.Equal(t, "book-1", result.Hits[0].ID)
		})
	}
}

func TestSearchIndex_Search_Filters(t *testing.T) {
	index, _ := setupTestIndex(t)
	ctx := context.Background()

	indexAll(t, index,
		testBook("book-1", "Dune", "Frank Herbert", "Science Fiction", 1965),
		testBook("book-2", "Dune Messiah", "Frank Herbert", "Science Fiction", 1969),
		testBook("book-3", "Emma", "Jane Austen", "Romance", 1815),
	)

	result, err := index.Search(ctx, SearchParams{Query: "dune", Year: 1969})
	require.NoError(t, err)
	assert.Equal(t, []string{"book-2"}, result.IDs())

	result, err = index.Search(ctx, SearchParams{Genre: "ROMANCE"})
	require.NoError(t, err)
	assert.Equal(t, []string{"book-3"}, result.IDs())

	// Aliases resolve to the same canonical genre.
	result, err = index.Search(ctx, SearchParams{Genre: "Sci-Fi"})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), result.Total)

	result, err = index.Search(ctx, SearchParams{})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), result.Total)
	require.NotEmpty(t, result.Genres)
	assert.Equal(t, FacetCount{Value: "science-fiction", Count: 2}, result.Genres[0])
}

func TestSearchIndex_Search_Pagination(t *testing.T) {
	index, _ := setupTestIndex(t)
	ctx := context.Background()

	books := make([]*domain.Book, 15)
	for i := range books {
		books[i] = testBook(fmt.Sprintf("book-%02d", i), fmt.Sprintf("Saga volume %d", i), "", "Fantasy", 2000)
	}
	n, err := index.IndexBooks(ctx, booksSeq(books...))
	require.NoError(t, err)
	require.Equal(t, 15, n)

	first, err := index.Search(ctx, SearchParams{Query: "saga", Limit: 10})
	require.NoError(t, err)
	second, err := index.Search(ctx, SearchParams{Query: "saga", Limit: 10, Offset: 10})
	require.NoError(t, err)

	assert.Equal(t, uint64(15), first.Total)
	assert.Len(t, first.Hits, 10)
	assert.Len(t, second.Hits, 5)
	assert.NotContains(t, first.IDs(), second.IDs()[0])
}

func TestSearchIndex_Search_Highlight(t *testing.T) {
	index, _ := setupTestIndex(t)
	indexAll(t, index, testBook("book-1", "The Left Hand of Darkness", "Ursula K. Le Guin", "Science Fiction", 1969))

	result, err := index.Search(context.Background(), SearchParams{Query: "darkness", Highlight: true})
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Contains(t, result.Hits[0].Highlights["title"], "<mark>")
}

func TestSearchIndex_Rebuild(t *testing.T) {
	index, _ := setupTestIndex(t)
	ctx := context.Background()

	indexAll(t, index, testBook("stale", "Stale Book", "", "", 2000))

	n, err := index.Rebuild(ctx, booksSeq(
		testBook("book-1", "Dune", "Frank Herbert", "", 1965),
		testBook("book-2", "Emma", "Jane Austen", "", 1815),
	))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)

	result, err := index.Search(ctx, SearchParams{Query: "stale"})
	require.NoError(t, err)
	assert.Empty(t, result.Hits)
}

func TestSearchIndex_Rebuild_SourceError(t *testing.T) {
	index, _ := setupTestIndex(t)

	failing := func(yield func(*domain.Book, error) bool) {
		yield(nil, errors.New("disk on fire"))
	}

	_, err := index.Rebuild(context.Background(), failing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestSearchIndex_Persistence(t *testing.T) {
	dir := t.TempDir()

	index, err := NewSearchIndex(Options{DataPath: dir})
	require.NoError(t, err)
	indexAll(t, index, testBook("book-1", "Dune", "Frank Herbert", "", 1965))
	require.NoError(t, index.Close())

	reopened, err := NewSearchIndex(Options{DataPath: dir})
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestNewBookDocument(t *testing.T) {
	book := testBook("book-1", "Dune", "Frank Herbert", "  Science   FICTION ", 1965)
	book.CreatedAt = time.UnixMilli(1_700_000_000_000)

	doc := NewBookDocument(book)

	assert.Equal(t, "book-1", doc.ID)
	assert.Equal(t, "Frank Herbert", doc.Author)
	assert.Equal(t, "author-book-1", doc.AuthorID)
	assert.Equal(t, "science-fiction", doc.Genre)
	assert.Equal(t, int64(1_700_000_000_000), doc.CreatedAt)

	m := doc.ToMap()
	assert.Equal(t, 1965, m["year"])
	assert.Equal(t, "Dune", m["title"])

	orphan := NewBookDocument(testBook("book-2", "Anonymous", "", "", 0))
	m = orphan.ToMap()
	assert.NotContains(t, m, "author")
	assert.NotContains(t, m, "year")
}
