package querycache

import (
	"testing"

	"pricewatch/internal/domain"
)

func TestCache_GetSetInvalidate(t *testing.T) {
	c := New()

	if _, ok := c.Get(ProductsKey()); ok {
		t.Fatal("expected miss on empty cache")
	}

	SetProducts(c, []*domain.Product{{ID: "p1", Name: "Widget"}})

	products, ok := Products(c)
	if !ok || len(products) != 1 || products[0].ID != "p1" {
		t.Fatalf("expected cached product list, got %v ok=%v", products, ok)
	}

	c.Invalidate(ProductsKey())
	if _, ok := Products(c); ok {
		t.Fatal("expected miss after invalidation")
	}
}

func TestCache_KeysAreIndependent(t *testing.T) {
	c := New()

	SetRetailerLinks(c, "p1", []*domain.ProductRetailerLink{{ID: "l1"}})
	SetRetailerLinks(c, "p2", []*domain.ProductRetailerLink{{ID: "l2"}})

	c.Invalidate(RetailerLinksKey("p1"))

	if _, ok := RetailerLinks(c, "p1"); ok {
		t.Error("p1 links should be invalidated")
	}
	links, ok := RetailerLinks(c, "p2")
	if !ok || len(links) != 1 || links[0].ID != "l2" {
		t.Error("p2 links should survive p1 invalidation")
	}
}

func TestCache_SubscribeNotifiesOnSet(t *testing.T) {
	c := New()
	ch, unsubscribe := c.Subscribe(ProductsKey())
	defer unsubscribe()

	SetProducts(c, nil)

	select {
	case <-ch:
	default:
		t.Fatal("expected a change signal after Set")
	}
}

func TestCache_SubscribeNotifiesOnInvalidate(t *testing.T) {
	c := New()
	SetProducts(c, nil)

	ch, unsubscribe := c.Subscribe(ProductsKey())
	defer unsubscribe()

	c.Invalidate(ProductsKey())

	select {
	case <-ch:
	default:
		t.Fatal("expected a change signal after Invalidate")
	}
}

func TestCache_InvalidateMissingKeyDoesNotNotify(t *testing.T) {
	c := New()
	ch, unsubscribe := c.Subscribe(ProductsKey())
	defer unsubscribe()

	c.Invalidate(ProductsKey())

	select {
	case <-ch:
		t.Fatal("missing key must not signal")
	default:
	}
}

func TestCache_UnsubscribeIsIdempotent(t *testing.T) {
	c := New()
	ch, unsubscribe := c.Subscribe(ProductsKey())

	unsubscribe()
	unsubscribe() // second call is a no-op

	SetProducts(c, nil)

	select {
	case <-ch:
		t.Fatal("unsubscribed channel must not signal")
	default:
	}
}

func TestCache_SignalsCoalesce(t *testing.T) {
	c := New()
	ch, unsubscribe := c.Subscribe(ProductsKey())
	defer unsubscribe()

	SetProducts(c, nil)
	SetProducts(c, nil)
	SetProducts(c, nil)

	// Buffered with capacity 1: bursts collapse to one pending signal
	<-ch
	select {
	case <-ch:
		t.Fatal("expected coalesced signals")
	default:
	}
}

func TestCache_HooksFire(t *testing.T) {
	var hits, misses, sets, invalidations int
	c := New(WithHooks(Hooks{
		OnHit:        func(Key) { hits++ },
		OnMiss:       func(Key) { misses++ },
		OnSet:        func(Key) { sets++ },
		OnInvalidate: func(Key) { invalidations++ },
	}))

	c.Get(ProductsKey())
	SetProducts(c, nil)
	c.Get(ProductsKey())
	c.Invalidate(ProductsKey())

	if misses != 1 || hits != 1 || sets != 1 || invalidations != 1 {
		t.Errorf("expected 1/1/1/1, got hits=%d misses=%d sets=%d invalidations=%d",
			hits, misses, sets, invalidations)
	}
}

func TestCache_WrongTypeCountsAsMiss(t *testing.T) {
	c := New()
	c.Set(ProductsKey(), "not a product list")

	if _, ok := Products(c); ok {
		t.Fatal("expected typed accessor to reject a foreign value")
	}
}
