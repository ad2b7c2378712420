package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

// Repository is the catalog abstraction handlers and services depend on,
// so tests can substitute an isolated instance instead of sharing
// process-wide state.
type Repository interface {
	Add(p *Product)
	Remove(id int) bool
	FindByID(id int) *Product
	FindByCode(code string) *Product
	List() []*Product
	ListByCategory(category string) []*Product
	ListOnSale() []*Product
	NextID() int
	Len() int
	ReplaceAll(products []*Product)
}

// Store keeps the catalog as an ordered in-memory list. The process model
// is single-worker; mutations are not guarded.
type Store struct {
	products []*Product
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Add(p *Product) {
	s.products = append(s.products, p)
}

func (s *Store) Remove(id int) bool {
	before := len(s.products)
	kept := s.products[:0]
	for _, p := range s.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.products = kept
	return len(s.products) < before
}

func (s *Store) FindByID(id int) *Product {
	for _, p := range s.products {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *Store) FindByCode(code string) *Product {
	for _, p := range s.products {
		if p.Code == code {
			return p
		}
	}
	return nil
}

func (s *Store) List() []*Product {
	return s.products
}

func (s *Store) ListByCategory(category string) []*Product {
	var out []*Product
	for _, p := range s.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

func (s *Store) ListOnSale() []*Product {
	var out []*Product
	for _, p := range s.products {
		if p.OnSale {
			out = append(out, p)
		}
	}
	return out
}

// NextID assigns ids monotonically: one past the current maximum.
func (s *Store) NextID() int {
	max := 0
	for _, p := range s.products {
		if p.ID > max {
			max = p.ID
		}
	}
	return max + 1
}

func (s *Store) Len() int {
	return len(s.products)
}

func (s *Store) ReplaceAll(products []*Product) {
	s.products = products
}

// Save writes the whole catalog to path, overwriting any previous snapshot.
func (s *Store) Save(path string) error {
	data, err := json.MarshalIndent(s.products, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write catalog snapshot: %w", err)
	}
	return nil
}

// Load replaces the catalog with the snapshot at path. A missing file is
// reported so the caller can fall back to the seed list.
func (s *Store) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read catalog snapshot: %w", err)
	}

	var products []*Product
	if err := json.Unmarshal(data, &products); err != nil {
		return fmt.Errorf("decode catalog snapshot: %w", err)
	}

	for _, p := range products {
		p.Normalize()
	}
	s.products = products
	return nil
}

// LoadOrSeed restores the snapshot if one exists, else installs the seed
// catalog and writes the first snapshot.
func (s *Store) LoadOrSeed(path string) {
	if err := s.Load(path); err == nil {
		log.Info().Int("products", s.Len()).Str("file", path).Msg("catalog restored from snapshot")
		return
	}

	s.ReplaceAll(SeedProducts())
	if err := s.Save(path); err != nil {
		log.Warn().Err(err).Msg("could not write initial catalog snapshot")
	}
	log.Info().Int("products", s.Len()).Msg("catalog seeded with initial products")
}
