// Package main provides a tool to seed the catalog with accounts and sample data.
//
// It creates an admin and a member account, then, unless disabled, a small
// catalog of authors and books. Existing rows are left alone, so the tool can
// be rerun. Stop the server first: the search index allows one writer.
//
// Usage:
//
//	DATA_PATH=~/catalog go run ./cmd/seed
//	DATA_PATH=~/catalog go run ./cmd/seed --admin-password=secret123 --catalog=false
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/listenupapp/catalog-server/internal/auth"
	"github.com/listenupapp/catalog-server/internal/config"
	"github.com/listenupapp/catalog-server/internal/domain"
	"github.com/listenupapp/catalog-server/internal/id"
	"github.com/listenupapp/catalog-server/internal/search"
	"github.com/listenupapp/catalog-server/internal/service"
	"github.com/listenupapp/catalog-server/internal/store"
	"github.com/listenupapp/catalog-server/internal/store/sqlite"
	"github.com/listenupapp/catalog-server/internal/validation"
)

var (
	adminEmail     = flag.String("admin-email", "admin@example.com", "Admin account email")
	adminPassword  = flag.String("admin-password", "password", "Admin account password")
	memberEmail    = flag.String("member-email", "member@example.com", "Member account email")
	memberPassword = flag.String("member-password", "password", "Member account password")
	seedCatalog    = flag.Bool("catalog", true, "Also create sample authors and books")
)

type sampleBook struct {
	title     string
	isbn      string
	genre     string
	publisher string
	year      int
}

type sampleAuthor struct {
	name  string
	email string
	bio   string
	books []sampleBook
}

var catalog = []sampleAuthor{
	{
		name:  "Frank Herbert",
		email: "frank.herbert@example.com",
		bio:   "American science fiction author best known for Dune.",
		books: []sampleBook{
			{"Dune", "ISBN 978-0-441-17271-9", "Science Fiction", "Chilton Books", 1965},
			{"Dune Messiah", "ISBN 978-0-593-09823-5", "Science Fiction", "Putnam", 1969},
		},
	},
	{
		name:  "Ursula K. Le Guin",
		email: "ursula.leguin@example.com",
		bio:   "Author of the Earthsea books and the Hainish Cycle.",
		books: []sampleBook{
			{"A Wizard of Earthsea", "ISBN 978-0-547-72202-3", "Fantasy", "Parnassus Press", 1968},
			{"The Left Hand of Darkness", "ISBN 978-0-441-47812-5", "Science Fiction", "Ace Books", 1969},
		},
	},
	{
		name:  "Jane Austen",
		email: "jane.austen@example.com",
		books: []sampleBook{
			{"Pride and Prejudice", "ISBN 978-0-14-143951-8", "Romance", "T. Egerton", 1813},
			{"Emma", "ISBN 978-0-14-143958-7", "Romance", "John Murray", 1815},
		},
	},
	{
		name:  "J. R. R. Tolkien",
		email: "jrr.tolkien@example.com",
		bio:   "Philologist and author of The Hobbit.",
		books: []sampleBook{
			{"The Hobbit", "ISBN 978-0-547-92822-7", "Fantasy", "George Allen & Unwin", 1937},
		},
	},
}

func main() {
	// Parses the flags above along with the shared config flags.
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	fmt.Printf("Opening database at: %s\n", cfg.Data.DatabasePath())

	s, err := sqlite.Open(cfg.Data.DatabasePath(), nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	if cfg.Search.Enabled {
		index, err := search.NewSearchIndex(search.Options{DataPath: cfg.Data.SearchIndexPath()})
		if err != nil {
			log.Fatalf("Failed to open search index (is the server running?): %v", err)
		}
		defer index.Close()
		s.SetSearchIndexer(index)
	}

	key, err := auth.LoadOrGenerateKey(cfg.Data.KeyPath())
	if err != nil {
		log.Fatalf("Failed to load auth key: %v", err)
	}
	codec, err := auth.NewTokenCodec(key, cfg.Auth.TokenDuration)
	if err != nil {
		log.Fatalf("Failed to create token codec: %v", err)
	}
	authService := service.NewAuthService(s, codec, validation.New(), nil)

	ctx := context.Background()

	ensureUser(ctx, s, authService, service.CreateUserRequest{
		Name: "Administrator", Email: *adminEmail, Password: *adminPassword, Admin: true,
	})
	ensureUser(ctx, s, authService, service.CreateUserRequest{
		Name: "Member", Email: *memberEmail, Password: *memberPassword,
	})

	if !*seedCatalog {
		return
	}

	authorsCreated, booksCreated := 0, 0
	for _, sa := range catalog {
		author, created, err := ensureAuthor(ctx, s, sa)
		if err != nil {
			log.Printf("Failed to create author %s: %v", sa.name, err)
			continue
		}
		if created {
			authorsCreated++
		}

		for _, sb := range sa.books {
			book := &domain.Book{
				Title:     sb.title,
				AuthorID:  &author.ID,
				ISBN:      sb.isbn,
				Genre:     sb.genre,
				Publisher: sb.publisher,
				Year:      sb.year,
			}
			book.ID = id.MustNew(id.Book)
			book.InitTimestamps()

			err := s.CreateBook(ctx, book)
			if errors.Is(err, store.ErrAlreadyExists) {
				continue
			}
			if err != nil {
				log.Printf("Failed to create book %s: %v", sb.title, err)
				continue
			}
			booksCreated++
		}
	}

	fmt.Printf("Created %d authors and %d books\n", authorsCreated, booksCreated)
}

// ensureUser creates the account unless the email is already registered.
func ensureUser(ctx context.Context, s store.Store, authService *service.AuthService, req service.CreateUserRequest) {
	if existing, err := s.GetUserByEmail(ctx, req.Email); err == nil {
		fmt.Printf("User %s already exists (%s)\n", existing.Email, existing.Role)
		return
	}

	user, err := authService.CreateUser(ctx, req)
	if err != nil {
		log.Fatalf("Failed to create user %s: %v", req.Email, err)
	}
	fmt.Printf("Created %s user %s (%s)\n", user.Role, user.Email, user.ID)
}

// ensureAuthor returns the author with the sample's name, creating it if needed.
func ensureAuthor(ctx context.Context, s store.Store, sa sampleAuthor) (*domain.Author, bool, error) {
	if existing, err := s.GetAuthorByName(ctx, sa.name); err == nil {
		return existing, false, nil
	}

	author := &domain.Author{Name: sa.name, Email: sa.email}
	if sa.bio != "" {
		bio := sa.bio
		author.Bio = &bio
	}
	author.ID = id.MustNew(id.Author)
	author.InitTimestamps()

	if err := s.CreateAuthor(ctx, author); err != nil {
		return nil, false, err
	}
	return author, true, nil
}
