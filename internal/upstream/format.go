package upstream

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"sneakstore/internal/domain"
)

const (
	placeholderImage = "https://placehold.co/400x400/f3f4f6/9ca3af?text=No+Image"
	fallbackBrand    = "Unknown"
	fallbackName     = "Untitled"
	defaultRating    = 4.5
)

// formatProduct turns a raw record into the display shape. Every optional
// field gets an explicit fallback so downstream code never branches on nil.
func formatProduct(r rawProduct) domain.Product {
	p := domain.Product{
		Slug:        r.Slug,
		Name:        r.Name,
		Price:       r.Price,
		Description: r.Description,
		ImageURL:    fullImageURL(r.Image),
		Rating:      defaultRating,
		Colors:      []string{},
		Sizes:       []int{},
		Genders:     []string{},
	}
	if p.Slug == "" {
		p.Slug = fmt.Sprintf("product-%d", time.Now().UnixMilli())
	}
	if p.Name == "" {
		p.Name = fallbackName
	}
	if r.Brand != nil && r.Brand.Name != "" {
		p.Brand = r.Brand.Name
	} else {
		p.Brand = fallbackBrand
	}
	if r.Category != nil {
		p.Category = r.Category.Name
	}
	for _, c := range r.Colors {
		if c.Name != "" {
			p.Colors = append(p.Colors, c.Name)
		}
	}
	for _, s := range r.Sizes {
		if s.Size > 0 {
			p.Sizes = append(p.Sizes, s.Size)
		}
	}
	for _, g := range r.Genders {
		if g.Name != "" {
			p.Genders = append(p.Genders, g.Name)
		}
	}
	return p
}

// buildDetail folds a product's models into the product-page shape: a
// gallery, deduplicated rich colors and per-size options.
func buildDetail(r rawProduct, models []rawModel) domain.ProductDetail {
	d := domain.ProductDetail{Product: formatProduct(r)}

	// Colors from models first (they carry color codes), base record second,
	// a single placeholder color last. First occurrence of a name wins.
	seen := map[string]bool{}
	for _, m := range models {
		if m.Colors == nil || m.Colors.Name == "" || seen[m.Colors.Name] {
			continue
		}
		seen[m.Colors.Name] = true
		d.ColorModels = append(d.ColorModels, domain.Color{
			ID:   m.Colors.ID,
			Name: m.Colors.Name,
			Code: NormalizeColorCode(m.Colors.Code, m.Colors.Name),
		})
	}
	if len(d.ColorModels) == 0 {
		for _, c := range r.Colors {
			if c.Name == "" || seen[c.Name] {
				continue
			}
			seen[c.Name] = true
			d.ColorModels = append(d.ColorModels, domain.Color{
				ID:   c.ID,
				Name: c.Name,
				Code: NormalizeColorCode(c.Code, c.Name),
			})
		}
	}
	if len(d.ColorModels) == 0 {
		d.ColorModels = []domain.Color{{ID: 1, Name: "Standard"}}
	}

	for _, m := range models {
		for i, img := range m.Images {
			u := fullImageURL(&img)
			d.Gallery = append(d.Gallery, domain.GalleryImage{
				URL:     u,
				Alt:     fmt.Sprintf("%s - image %d", d.Name, i+1),
				Formats: domain.ImageFormats{Small: u, Medium: u, Large: u},
			})
		}
	}
	if len(d.Gallery) == 0 {
		d.Gallery = []domain.GalleryImage{{
			URL:     d.ImageURL,
			Alt:     d.Name,
			Formats: domain.ImageFormats{Small: d.ImageURL, Medium: d.ImageURL, Large: d.ImageURL},
		}}
	}

	for i, s := range d.Sizes {
		d.SizeOptions = append(d.SizeOptions, domain.SizeOption{
			ID:        i + 1,
			Value:     fmt.Sprintf("%d", s),
			Available: true,
		})
	}
	return d
}

func fullImageURL(img *rawImage) string {
	if img == nil || img.URL == "" {
		return placeholderImage
	}
	return img.URL
}

var reHex = regexp.MustCompile(`^#?[0-9a-fA-F]{6}$|^#?[0-9a-fA-F]{3}$`)

// The catalog is bilingual, so the name fallback covers both spellings.
var colorNames = map[string]string{
	"black":  "#000000",
	"white":  "#ffffff",
	"red":    "#d32f2f",
	"blue":   "#1565c0",
	"green":  "#2e7d32",
	"grey":   "#9e9e9e",
	"gray":   "#9e9e9e",
	"beige":  "#d7ccc8",
	"черный": "#000000",
	"белый":  "#ffffff",
	"красный": "#d32f2f",
	"синий":  "#1565c0",
	"зеленый": "#2e7d32",
	"серый":  "#9e9e9e",
	"бежевый": "#d7ccc8",
}

// NormalizeColorCode canonicalizes an upstream color code to "#rrggbb" form
// (lowercased, leading hash). When the code is unusable it falls back to a
// small named-color map keyed by the color's display name, else empty.
func NormalizeColorCode(code, name string) string {
	code = strings.TrimSpace(code)
	if reHex.MatchString(code) {
		code = strings.ToLower(strings.TrimPrefix(code, "#"))
		if len(code) == 3 {
			code = string([]byte{code[0], code[0], code[1], code[1], code[2], code[2]})
		}
		return "#" + code
	}
	if c, ok := colorNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return c
	}
	return ""
}
