// Package upstream talks to the headless content API the storefront is built
// on. It is the only place raw API shapes exist: everything is decoded into
// typed records and formatted into domain values before leaving the package.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"sneakstore/internal/domain"
)

var ErrNotFound = errors.New("upstream: not found")

type Client struct {
	base string
	http *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		base: baseURL,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// Raw wire shapes. Field names follow the upstream schema, typos included
// (Geander_Name is how the API spells it).

type rawBrand struct {
	Name string `json:"Brand_Name"`
}

type rawCategory struct {
	Name    string `json:"Name"`
	NameEng string `json:"NameEngl"`
}

type rawColor struct {
	ID   int    `json:"id"`
	Name string `json:"Name"`
	Code string `json:"colorCode"`
}

type rawSize struct {
	Size int `json:"Size"`
}

type rawGender struct {
	Name string `json:"Geander_Name"`
}

type rawImage struct {
	URL string `json:"url"`
}

type rawProduct struct {
	Slug        string       `json:"slug"`
	Name        string       `json:"Name"`
	Price       int          `json:"Price"`
	Description string       `json:"Description"`
	Brand       *rawBrand    `json:"brand"`
	Category    *rawCategory `json:"category"`
	Colors      []rawColor   `json:"colors"`
	Sizes       []rawSize    `json:"sizes"`
	Genders     []rawGender  `json:"genders"`
	Image       *rawImage    `json:"Image"`
}

// rawModel is one per-color variant of a product, carrying its own images.
type rawModel struct {
	ID     int        `json:"id"`
	Colors *rawColor  `json:"colors"`
	Images []rawImage `json:"images"`
}

type dataEnvelope[T any] struct {
	Data  []T    `json:"data"`
	Error string `json:"error"`
}

func getData[T any](ctx context.Context, c *Client, path string, q url.Values) ([]T, error) {
	u := c.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream: %w", err)
	}
	defer resp.Body.Close()

	var env dataEnvelope[T]
	if resp.StatusCode != http.StatusOK {
		// Failure bodies carry an error string; surface it readably.
		_ = json.NewDecoder(resp.Body).Decode(&env)
		if env.Error != "" {
			return nil, fmt.Errorf("upstream: %s (status %d)", env.Error, resp.StatusCode)
		}
		return nil, fmt.Errorf("upstream: unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("upstream: decode: %w", err)
	}
	return env.Data, nil
}

// Products fetches up to limit products, formatted into the display shape
// with per-field fallbacks applied.
func (c *Client) Products(ctx context.Context, limit int) ([]domain.Product, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	raws, err := getData[rawProduct](ctx, c, "/api/products", q)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(raws))
	for _, r := range raws {
		out = append(out, formatProduct(r))
	}
	return out, nil
}

// ProductDetail fetches a single product by slug together with its models
// and folds them into the product-page shape.
func (c *Client) ProductDetail(ctx context.Context, slug string) (domain.ProductDetail, error) {
	q := url.Values{}
	q.Set("slug", slug)
	raws, err := getData[rawProduct](ctx, c, "/api/products", q)
	if err != nil {
		return domain.ProductDetail{}, err
	}
	if len(raws) == 0 {
		return domain.ProductDetail{}, ErrNotFound
	}

	models, err := c.models(ctx, slug)
	if err != nil {
		// Models only enrich colors and the gallery; the product page can
		// still be served from the base record.
		models = nil
	}
	return buildDetail(raws[0], models), nil
}

func (c *Client) models(ctx context.Context, slug string) ([]rawModel, error) {
	q := url.Values{}
	q.Set("product", slug)
	return getData[rawModel](ctx, c, "/api/models", q)
}

// Brands returns all brand names known upstream.
func (c *Client) Brands(ctx context.Context) ([]string, error) {
	raws, err := getData[rawBrand](ctx, c, "/api/brands", nil)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(raws))
	for _, b := range raws {
		if b.Name != "" {
			out = append(out, b.Name)
		}
	}
	return out, nil
}

// Categories returns all category names, preferring the local name and
// matching the upstream's bilingual records.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	raws, err := getData[rawCategory](ctx, c, "/api/categories", nil)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(raws))
	for _, cat := range raws {
		if cat.Name != "" {
			out = append(out, cat.Name)
		} else if cat.NameEng != "" {
			out = append(out, cat.NameEng)
		}
	}
	return out, nil
}
