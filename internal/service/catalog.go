package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Ricknho777/CarllyRommanel/internal/catalog"
	"github.com/Ricknho777/CarllyRommanel/internal/config"
	"github.com/Ricknho777/CarllyRommanel/internal/dto"
	"github.com/Ricknho777/CarllyRommanel/internal/repository"
)

var (
	ErrProductNotFound = errors.New("produto não encontrado")
	ErrInvalidPrice    = errors.New("preço inválido")
)

type CodeInUseError struct {
	Code string
}

func (e *CodeInUseError) Error() string {
	return fmt.Sprintf("código %s já está em uso", e.Code)
}

// Stats summarizes the catalog and the ledger for the admin dashboard.
type Stats struct {
	TotalProducts   int            `json:"total_products"`
	TotalValue      float64        `json:"total_value"`
	Categories      map[string]int `json:"categories"`
	OnSale          int            `json:"on_sale"`
	LowStock        int            `json:"low_stock"`
	TotalUsers      int64          `json:"total_users"`
	TotalOrders     int64          `json:"total_orders"`
	FreeShippingMin *float64       `json:"frete_gratis_minimo"`
	DefaultFee      float64        `json:"frete_padrao"`
}

type CatalogService interface {
	List() []*catalog.Product
	Create(payload *dto.ProductPayload) (*catalog.Product, error)
	Update(payload *dto.ProductPayload) (*catalog.Product, error)
	Delete(id int) error
	Stats(ctx context.Context) (*Stats, error)
}

type catalogServiceImpl struct {
	store        catalog.Repository
	snapshotPath string
	shipping     *config.Shipping
	userRepo     repository.UserRepository
	orderRepo    repository.OrderRepository
}

func NewCatalogService(
	store catalog.Repository,
	snapshotPath string,
	shipping *config.Shipping,
	userRepo repository.UserRepository,
	orderRepo repository.OrderRepository,
) CatalogService {
	return &catalogServiceImpl{
		store:        store,
		snapshotPath: snapshotPath,
		shipping:     shipping,
		userRepo:     userRepo,
		orderRepo:    orderRepo,
	}
}

func (s *catalogServiceImpl) List() []*catalog.Product {
	return s.store.List()
}

func (s *catalogServiceImpl) Create(payload *dto.ProductPayload) (*catalog.Product, error) {
	if payload.Price == nil || *payload.Price <= 0 {
		return nil, ErrInvalidPrice
	}
	if existing := s.store.FindByCode(payload.Code); existing != nil {
		return nil, &CodeInUseError{Code: payload.Code}
	}

	product := payload.ToProduct(s.store.NextID())
	s.store.Add(product)
	s.persist()

	log.Info().Int("id", product.ID).Str("code", product.Code).Msg("product created")
	return product, nil
}

func (s *catalogServiceImpl) Update(payload *dto.ProductPayload) (*catalog.Product, error) {
	if payload.ID == nil {
		return nil, errors.New("id do produto é obrigatório")
	}

	product := s.store.FindByID(*payload.ID)
	if product == nil {
		return nil, ErrProductNotFound
	}

	payload.ApplyTo(product)

	// Re-derive the promotion discount whenever a sale price undercuts the
	// original price.
	if product.OnSale && product.OriginalPrice > product.Price {
		product.DiscountPercentage = 0
		product.RecalculateDiscount()
	}
	product.Touch()
	s.persist()

	log.Info().Int("id", product.ID).Msg("product updated")
	return product, nil
}

func (s *catalogServiceImpl) Delete(id int) error {
	if s.store.FindByID(id) == nil {
		return ErrProductNotFound
	}
	if !s.store.Remove(id) {
		return ErrProductNotFound
	}
	s.persist()

	log.Info().Int("id", id).Msg("product removed")
	return nil
}

// persist overwrites the snapshot file after every mutation. The file is
// a convenience backup; a write failure does not roll the mutation back.
func (s *catalogServiceImpl) persist() {
	type saver interface{ Save(path string) error }
	if st, ok := s.store.(saver); ok {
		if err := st.Save(s.snapshotPath); err != nil {
			log.Warn().Err(err).Msg("could not write catalog snapshot")
		}
	}
}

func (s *catalogServiceImpl) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		Categories: map[string]int{},
		DefaultFee: s.shipping.DefaultFee,
	}
	if s.shipping.FreeThreshold > 0 {
		v := s.shipping.FreeThreshold
		stats.FreeShippingMin = &v
	}

	for _, p := range s.store.List() {
		stats.TotalProducts++
		stats.TotalValue += p.Price
		stats.Categories[p.Category]++
		if p.OnSale {
			stats.OnSale++
		}
		if p.Stock < 5 {
			stats.LowStock++
		}
	}

	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	orders, err := s.orderRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}
	stats.TotalUsers = users
	stats.TotalOrders = orders

	return stats, nil
}
