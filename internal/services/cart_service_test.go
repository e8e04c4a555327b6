package services_test

import (
	"context"
	"errors"
	"testing"

	"sneakstore/internal/domain"
	"sneakstore/internal/services"
	"sneakstore/internal/storage"
)

var (
	airMax = services.CartProduct{Slug: "air-max-1", Name: "Air Max 1", Price: 12990, ImageURL: "/img/air-max-1.jpg"}
	white  = domain.Color{ID: 2, Name: "White"}
)

func TestCart_AddMergesSameSelection(t *testing.T) {
	svc := services.NewCartService(storage.NewMemory())
	sid := "test-session"

	if _, err := svc.Add(context.Background(), sid, airMax, white, 42); err != nil {
		t.Fatal(err)
	}
	items, err := svc.Add(context.Background(), sid, airMax, white, 42)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("want 1 line, got %d: %+v", len(items), items)
	}
	if items[0].ID != "air-max-1-2-42" {
		t.Fatalf("bad line id %q", items[0].ID)
	}
	if items[0].Quantity != 2 {
		t.Fatalf("want quantity 2, got %d", items[0].Quantity)
	}
}

func TestCart_DifferentSizeIsSeparateLine(t *testing.T) {
	svc := services.NewCartService(storage.NewMemory())
	sid := "test-session"

	if _, err := svc.Add(context.Background(), sid, airMax, white, 42); err != nil {
		t.Fatal(err)
	}
	items, err := svc.Add(context.Background(), sid, airMax, white, 43)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("want 2 lines, got %d", len(items))
	}
}

func TestCart_AddRejectsMissingSelection(t *testing.T) {
	svc := services.NewCartService(storage.NewMemory())
	ctx := context.Background()

	if _, err := svc.Add(ctx, "s", airMax, domain.Color{}, 42); !errors.Is(err, services.ErrColorRequired) {
		t.Fatalf("want ErrColorRequired, got %v", err)
	}
	if _, err := svc.Add(ctx, "s", airMax, white, 0); !errors.Is(err, services.ErrSizeRequired) {
		t.Fatalf("want ErrSizeRequired, got %v", err)
	}
	if _, err := svc.Add(ctx, "s", services.CartProduct{}, white, 42); !errors.Is(err, services.ErrSlugRequired) {
		t.Fatalf("want ErrSlugRequired, got %v", err)
	}

	// Nothing was written.
	items, err := svc.Items(ctx, "s")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 0 {
		t.Fatalf("cart should be empty, got %+v", items)
	}
}

func TestCart_UpdateQuantityZeroRemoves(t *testing.T) {
	svc := services.NewCartService(storage.NewMemory())
	sid := "test-session"
	ctx := context.Background()

	if _, err := svc.Add(ctx, sid, airMax, white, 42); err != nil {
		t.Fatal(err)
	}
	items, err := svc.UpdateQuantity(ctx, sid, "air-max-1-2-42", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 0 {
		t.Fatalf("want empty cart, got %+v", items)
	}
}

func TestCart_QuantityClamped(t *testing.T) {
	svc := services.NewCartService(storage.NewMemory())
	sid := "test-session"
	ctx := context.Background()

	if _, err := svc.Add(ctx, sid, airMax, white, 42); err != nil {
		t.Fatal(err)
	}
	items, err := svc.UpdateQuantity(ctx, sid, "air-max-1-2-42", 99)
	if err != nil {
		t.Fatal(err)
	}
	if items[0].Quantity != 10 {
		t.Fatalf("want quantity clamped to 10, got %d", items[0].Quantity)
	}

	// Add on a full line stays at the cap.
	items, err = svc.Add(ctx, sid, airMax, white, 42)
	if err != nil {
		t.Fatal(err)
	}
	if items[0].Quantity != 10 {
		t.Fatalf("want quantity 10 after add at cap, got %d", items[0].Quantity)
	}
}

func TestCart_RemoveAbsentIsNoop(t *testing.T) {
	svc := services.NewCartService(storage.NewMemory())
	sid := "test-session"
	ctx := context.Background()

	if _, err := svc.Add(ctx, sid, airMax, white, 42); err != nil {
		t.Fatal(err)
	}
	items, err := svc.Remove(ctx, sid, "no-such-line-1-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("remove of absent id must not change the cart, got %+v", items)
	}
}

func TestCart_MalformedBlobResetsToEmpty(t *testing.T) {
	st := storage.NewMemory()
	if err := st.Set(context.Background(), "cart:broken", []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	svc := services.NewCartService(st)

	items, err := svc.Items(context.Background(), "broken")
	if err != nil {
		t.Fatalf("malformed blob must degrade, not fail: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("want empty cart, got %+v", items)
	}
}

func TestCart_RoundTripAcrossServiceInstances(t *testing.T) {
	st := storage.NewMemory()
	sid := "test-session"
	ctx := context.Background()

	if _, err := services.NewCartService(st).Add(ctx, sid, airMax, white, 42); err != nil {
		t.Fatal(err)
	}
	items, err := services.NewCartService(st).Items(ctx, sid)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Name != "Air Max 1" {
		t.Fatalf("cart did not survive the round trip: %+v", items)
	}
}

func TestCart_SummaryShippingThreshold(t *testing.T) {
	cases := []struct {
		name     string
		items    []domain.CartItem
		subtotal int
		shipping int
		total    int
		count    int
	}{
		{"empty cart still ships", nil, 0, 500, 500, 0},
		{"just under threshold", []domain.CartItem{{Price: 4999, Quantity: 1}}, 4999, 500, 5499, 1},
		{"at threshold", []domain.CartItem{{Price: 5000, Quantity: 1}}, 5000, 0, 5000, 1},
		{"over via quantity", []domain.CartItem{{Price: 2600, Quantity: 2}}, 5200, 0, 5200, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sum := services.Summarize(tc.items)
			if sum.Subtotal != tc.subtotal || sum.Shipping != tc.shipping || sum.Total != tc.total || sum.ItemCount != tc.count {
				t.Fatalf("got %+v", sum)
			}
		})
	}
}

func TestCart_IsInCartAndQuantity(t *testing.T) {
	svc := services.NewCartService(storage.NewMemory())
	sid := "test-session"
	ctx := context.Background()

	if _, err := svc.Add(ctx, sid, airMax, white, 42); err != nil {
		t.Fatal(err)
	}
	in, err := svc.IsInCart(ctx, sid, "air-max-1", 2, 42)
	if err != nil || !in {
		t.Fatalf("want in cart, got in=%v err=%v", in, err)
	}
	q, err := svc.ItemQuantity(ctx, sid, "air-max-1", 2, 43)
	if err != nil || q != 0 {
		t.Fatalf("absent line must report 0, got q=%d err=%v", q, err)
	}
}
