package catalog

import (
	"math"
	"time"
)

type Size struct {
	Size      string `json:"size"`
	Available bool   `json:"available"`
}

// Product is one catalog record. Timestamps are ISO-8601 strings because
// the snapshot file and the admin panel exchange them as text.
type Product struct {
	ID                 int      `json:"id"`
	Code               string   `json:"code"`
	Name               string   `json:"name"`
	Price              float64  `json:"price"`
	Image              string   `json:"image"`
	AdditionalImages   []string `json:"additional_images"`
	Description        string   `json:"description"`
	Features           []string `json:"features"`
	Category           string   `json:"category"`
	Sizes              []Size   `json:"sizes"`
	Color              string   `json:"color"`
	Gender             string   `json:"gender"`
	OnSale             bool     `json:"on_sale"`
	OriginalPrice      float64  `json:"original_price"`
	DiscountPercentage int      `json:"discount_percentage"`
	Stock              int      `json:"stock"`
	CreatedAt          string   `json:"created_at"`
	UpdatedAt          string   `json:"updated_at"`
}

// Normalize fills the defaults a freshly built record may be missing.
func (p *Product) Normalize() {
	if len(p.Sizes) == 0 {
		p.Sizes = []Size{{Size: "Único", Available: true}}
	}
	if p.Color == "" {
		p.Color = "Prata"
	}
	if p.Gender == "" {
		p.Gender = "feminino"
	}
	if p.OriginalPrice == 0 {
		p.OriginalPrice = p.Price
	}
	now := time.Now().Format(time.RFC3339)
	if p.CreatedAt == "" {
		p.CreatedAt = now
	}
	if p.UpdatedAt == "" {
		p.UpdatedAt = now
	}
	p.RecalculateDiscount()
}

// RecalculateDiscount enforces the promotional invariant: a product on
// sale with a higher original price and no explicit discount gets
// round((original-price)/original*100).
func (p *Product) RecalculateDiscount() {
	if p.OnSale && p.OriginalPrice > p.Price && p.DiscountPercentage == 0 {
		p.DiscountPercentage = int(math.Round((p.OriginalPrice - p.Price) / p.OriginalPrice * 100))
	}
}

// Touch refreshes the modification timestamp.
func (p *Product) Touch() {
	p.UpdatedAt = time.Now().Format(time.RFC3339)
}

// SeedProducts is the hardcoded startup catalog used when no snapshot
// file exists yet.
func SeedProducts() []*Product {
	products := []*Product{
		{
			ID:          1,
			Code:        "ROM001",
			Name:        "Anel Aro Duplo Quadrado Banhado Ouro 18k",
			Price:       87.76,
			Image:       "https://images.unsplash.com/photo-1605100804763-247f67b3557e",
			Description: "Anel elegante com design em aro duplo e acabamento banhado a ouro 18k.",
			Features:    []string{"Banhado a Ouro 18k", "Design Quadrado Moderno", "Aro Duplo"},
			Category:    "aneis",
			Color:       "Dourado",
			Stock:       15,
		},
		{
			ID:          2,
			Code:        "ROM002",
			Name:        "Colar Coração com Pingente de Diamante",
			Price:       129.99,
			Image:       "https://images.unsplash.com/photo-1599643478518-a784e5dc4c8f",
			Description: "Colar delicado com pingente em forma de coração e diamante central.",
			Features:    []string{"Pingente de Diamante", "Corrente Prata 925", "Fecho de Segurança"},
			Category:    "colares",
			Stock:       8,
		},
		{
			ID:          3,
			Code:        "ROM003",
			Name:        "Brinco Argola Dourado Liso",
			Price:       45.50,
			Image:       "https://images.unsplash.com/photo-1535632066927-ab7c9ab60908",
			Description: "Brinco argola em dourado liso, ideal para uso diário.",
			Features:    []string{"Dourado 18k", "Argola 3cm", "Hipoalergênico"},
			Category:    "brincos",
			Color:       "Dourado",
			Stock:       20,
		},
		{
			ID:          4,
			Code:        "ROM004",
			Name:        "Pulseira Prata com Charms Personalizáveis",
			Price:       89.90,
			Image:       "https://images.unsplash.com/photo-1584917865442-de89df76afd3",
			Description: "Pulseira em prata 925 com charms que podem ser personalizados.",
			Features:    []string{"Prata 925", "Charms Inclusos", "Tamanho Ajustável"},
			Category:    "pulseiras",
			Gender:      "unissex",
			Stock:       12,
		},
		{
			ID:          5,
			Code:        "ROM005",
			Name:        "Relógio Analógico Couro Marrom",
			Price:       199.99,
			Image:       "https://images.unsplash.com/photo-1523170335258-f5ed11844a49",
			Description: "Relógio analógico elegante com pulseira de couro marrom.",
			Features:    []string{"Movimento Quartz", "Couro Legítimo", "Resistente à Água"},
			Category:    "relogios",
			Color:       "Marrom",
			Gender:      "masculino",
			Stock:       6,
		},
		{
			ID:            6,
			Code:          "PROM001",
			Name:          "Kit Presente Anel + Brinco",
			Price:         99.99,
			OriginalPrice: 150.00,
			OnSale:        true,
			Image:         "https://images.unsplash.com/photo-1536940137675-1ad8f3be7b8e",
			Description:   "Kit especial presente contendo anel e brinco combinando.",
			Features:      []string{"Kit Completo", "Embalagem Presente", "Economia de 33%"},
			Category:      "kits",
			Color:         "Dourado",
			Stock:         10,
		},
	}

	for _, p := range products {
		p.Normalize()
	}
	return products
}
