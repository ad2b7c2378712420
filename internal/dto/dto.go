package dto

import (
	"strings"

	"github.com/Ricknho777/CarllyRommanel/internal/catalog"
)

// CartItem is supplied whole by the storefront; it is never reconciled
// against the catalog, so price integrity is the caller's problem.
type CartItem struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image,omitempty"`
}

type CheckoutRequest struct {
	Name  string     `json:"nome"`
	Email string     `json:"email"`
	Cart  []CartItem `json:"carrinho"`
	// ShippingOverride, when present, takes the place of the computed fee.
	ShippingOverride *float64 `json:"frete,omitempty"`
	UserID           *uint    `json:"user_id,omitempty"`
}

type CheckoutResponse struct {
	Success           bool    `json:"success"`
	Message           string  `json:"message,omitempty"`
	RedirectURL       string  `json:"redirect_url,omitempty"`
	PreferenceID      string  `json:"id_preferencia,omitempty"`
	ExternalReference string  `json:"external_reference,omitempty"`
	ShippingFee       float64 `json:"frete_valor"`
	Subtotal          float64 `json:"total_produtos"`
	Total             float64 `json:"total_com_frete"`
	FreeShipping      bool    `json:"frete_gratis"`
	Error             string  `json:"error,omitempty"`
	ErrorTag          string  `json:"error_tag,omitempty"`
}

type RegisterRequest struct {
	Name            string `json:"nome"`
	Email           string `json:"email"`
	Password        string `json:"senha"`
	ConfirmPassword string `json:"confirmar_senha"`
	Phone           string `json:"telefone"`
	Address         string `json:"endereco"`
}

type LoginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"senha"`
	RememberMe bool   `json:"rememberMe"`
}

type LoginUser struct {
	ID    uint   `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type LoginResponse struct {
	Success     bool       `json:"success"`
	Message     string     `json:"message,omitempty"`
	Token       string     `json:"token,omitempty"`
	User        *LoginUser `json:"user,omitempty"`
	RedirectURL string     `json:"redirect_url,omitempty"`
	ExpiresIn   int64      `json:"expires_in,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// ProductPayload is the admin panel's product shape. The panel speaks
// camelCase for the promotional fields while the catalog stores snake_case;
// this struct is the one bidirectional mapping between the two, so the pair
// of names is checked at compile time instead of through key lookups.
type ProductPayload struct {
	ID                 *int     `json:"id,omitempty"`
	Code               string   `json:"code"`
	Name               string   `json:"name"`
	Price              *float64 `json:"price,omitempty"`
	Image              string   `json:"image"`
	AdditionalImages   []string `json:"additionalImages,omitempty"`
	Description        string   `json:"description"`
	Features           any      `json:"features,omitempty"` // list or newline-joined string
	Category           string   `json:"category"`
	Sizes              any      `json:"sizes,omitempty"` // list or comma-joined string
	Color              string   `json:"color"`
	Gender             string   `json:"gender"`
	OnSale             *bool    `json:"onSale,omitempty"`
	OriginalPrice      *float64 `json:"originalPrice,omitempty"`
	DiscountPercentage *float64 `json:"discountPercentage,omitempty"`
	Stock              *int     `json:"stock,omitempty"`
}

// FeatureList accepts either a JSON array of strings or one newline-joined
// string, the two shapes the admin panel has historically sent.
func (p *ProductPayload) FeatureList() []string {
	switch v := p.Features.(type) {
	case string:
		var out []string
		for _, f := range strings.Split(v, "\n") {
			if f = strings.TrimSpace(f); f != "" {
				out = append(out, f)
			}
		}
		return out
	case []any:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	}
	return nil
}

// SizeList accepts either structured sizes or a comma-joined string.
func (p *ProductPayload) SizeList() []catalog.Size {
	switch v := p.Sizes.(type) {
	case string:
		var out []catalog.Size
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, catalog.Size{Size: s, Available: true})
			}
		}
		return out
	case []any:
		var out []catalog.Size
		for _, item := range v {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			size := catalog.Size{Available: true}
			if s, ok := m["size"].(string); ok {
				size.Size = s
			}
			if a, ok := m["available"].(bool); ok {
				size.Available = a
			}
			out = append(out, size)
		}
		return out
	}
	return nil
}

// ApplyTo copies the payload's present fields onto an existing product
// (partial update). The camelCase→snake_case pairing lives here and only
// here.
func (p *ProductPayload) ApplyTo(prod *catalog.Product) {
	if p.Name != "" {
		prod.Name = p.Name
	}
	if p.Code != "" {
		prod.Code = p.Code
	}
	if p.Price != nil {
		prod.Price = *p.Price
	}
	if p.Image != "" {
		prod.Image = p.Image
	}
	if p.AdditionalImages != nil {
		prod.AdditionalImages = p.AdditionalImages
	}
	if p.Description != "" {
		prod.Description = p.Description
	}
	if fs := p.FeatureList(); fs != nil {
		prod.Features = fs
	}
	if p.Category != "" {
		prod.Category = p.Category
	}
	if sz := p.SizeList(); sz != nil {
		prod.Sizes = sz
	}
	if p.Color != "" {
		prod.Color = p.Color
	}
	if p.Gender != "" {
		prod.Gender = p.Gender
	}
	if p.OnSale != nil {
		prod.OnSale = *p.OnSale
	}
	if p.OriginalPrice != nil {
		prod.OriginalPrice = *p.OriginalPrice
	}
	if p.DiscountPercentage != nil {
		prod.DiscountPercentage = int(*p.DiscountPercentage)
	}
	if p.Stock != nil {
		prod.Stock = *p.Stock
	}
}

// ToProduct builds a new catalog record from the payload.
func (p *ProductPayload) ToProduct(id int) *catalog.Product {
	prod := &catalog.Product{
		ID:               id,
		Code:             p.Code,
		Name:             p.Name,
		Image:            p.Image,
		AdditionalImages: p.AdditionalImages,
		Description:      p.Description,
		Features:         p.FeatureList(),
		Category:         p.Category,
		Sizes:            p.SizeList(),
		Color:            p.Color,
		Gender:           p.Gender,
		Stock:            10,
	}
	if p.Price != nil {
		prod.Price = *p.Price
	}
	if p.OnSale != nil {
		prod.OnSale = *p.OnSale
	}
	if p.OriginalPrice != nil {
		prod.OriginalPrice = *p.OriginalPrice
	}
	if p.DiscountPercentage != nil {
		prod.DiscountPercentage = int(*p.DiscountPercentage)
	}
	if p.Stock != nil {
		prod.Stock = *p.Stock
	}
	if prod.Image == "" {
		prod.Image = "/static/images/default-product.jpg"
	}
	prod.Normalize()
	return prod
}
