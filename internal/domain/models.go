package domain

// Sort modes accepted by the catalog engine.
const (
	SortRelevance = "relevance"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortName      = "name"
	SortRating    = "rating"
	SortNew       = "new"
)

// Product is the display shape served to storefront pages. Prices are whole
// currency units (rubles), matching the upstream catalog.
type Product struct {
	Slug          string   `json:"slug"`
	Name          string   `json:"name"`
	Brand         string   `json:"brandName"`
	Price         int      `json:"price"`
	OriginalPrice int      `json:"originalPrice,omitempty"`
	ImageURL      string   `json:"imageUrl"`
	Category      string   `json:"categoryName,omitempty"`
	Description   string   `json:"description,omitempty"`
	IsNew         bool     `json:"isNew"`
	IsSale        bool     `json:"isSale"`
	Rating        float64  `json:"rating"`
	Colors        []string `json:"colors"`
	Sizes         []int    `json:"sizes"`
	Genders       []string `json:"genders"`
}

// Color is a selectable product color. Code is a normalized hex value like
// "#1a1a1a"; empty when the upstream carries no usable code.
type Color struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Code string `json:"colorCode,omitempty"`
}

type GalleryImage struct {
	URL     string       `json:"url"`
	Alt     string       `json:"alt"`
	Formats ImageFormats `json:"formats"`
}

type ImageFormats struct {
	Small  string `json:"small"`
	Medium string `json:"medium"`
	Large  string `json:"large"`
}

type SizeOption struct {
	ID        int    `json:"id"`
	Value     string `json:"value"`
	Available bool   `json:"available"`
}

// ProductDetail is the product-page shape: the display product plus the
// per-color models folded into a gallery, rich colors and size options.
type ProductDetail struct {
	Product
	Gallery     []GalleryImage `json:"gallery"`
	ColorModels []Color        `json:"colorOptions"`
	SizeOptions []SizeOption   `json:"sizeOptions"`
}

// CartItem is one cart line. ID is the composite key slug-colorID-size; at
// most one line exists per ID.
type CartItem struct {
	ID          string `json:"id"`
	ProductSlug string `json:"productSlug"`
	Name        string `json:"name"`
	Price       int    `json:"price"`
	ImageURL    string `json:"imageUrl"`
	Color       Color  `json:"color"`
	Size        int    `json:"size"`
	Quantity    int    `json:"quantity"`
}

type CartSummary struct {
	Subtotal  int `json:"subtotal"`
	Shipping  int `json:"shipping"`
	Total     int `json:"total"`
	ItemCount int `json:"itemCount"`
}

type FavoriteItem struct {
	ProductSlug string `json:"productSlug"`
	AddedAt     string `json:"addedAt"` // RFC 3339
}

// Suggestion is one row of the search dropdown.
type Suggestion struct {
	ID       string `json:"id"`
	Type     string `json:"type"` // product | brand | category | query
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
	URL      string `json:"url"`
}

// FilterOptions are the facets derived from the loaded product set.
type FilterOptions struct {
	Brands     []string   `json:"brands"`
	Categories []string   `json:"categories"`
	Genders    []string   `json:"genders"`
	Colors     []string   `json:"colors"`
	Sizes      []int      `json:"sizes"`
	PriceRange PriceRange `json:"priceRange"`
}

type PriceRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// ActiveFilters is the filter state reconstructed from URL query parameters.
// A zero PriceMax means "no upper bound".
type ActiveFilters struct {
	Brands     []string
	Categories []string
	Genders    []string
	Colors     []string
	Sizes      []int
	PriceMin   int
	PriceMax   int
	Search     string
}

// Empty reports whether no predicate is active.
func (f ActiveFilters) Empty() bool {
	return len(f.Brands) == 0 && len(f.Categories) == 0 && len(f.Genders) == 0 &&
		len(f.Colors) == 0 && len(f.Sizes) == 0 &&
		f.PriceMin <= 0 && f.PriceMax <= 0 && f.Search == ""
}
