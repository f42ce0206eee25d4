//go:build integration

package integration

import (
	"io"
	"net/http"
	"testing"
)

func TestCreateAndListProduct(t *testing.T) {
	name := uniqueName("Laptop")

	resp := doPost(t, "/products", map[string]any{
		"name":     name,
		"price":    999.99,
		"quantity": 5,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	msg := decodeJSON[messageResponse](t, resp)
	if msg.Message != "Product created successfully" {
		t.Errorf("unexpected message %q", msg.Message)
	}

	p := findProduct(t, name)
	if p.ID == "" {
		t.Error("product id is empty")
	}
	if p.Name != name {
		t.Errorf("name: got %q, want %q", p.Name, name)
	}
	if p.Price != 999.99 {
		t.Errorf("price: got %v, want 999.99", p.Price)
	}
	if p.Quantity != 5 {
		t.Errorf("quantity: got %d, want 5", p.Quantity)
	}
}

func TestCreateProduct_InvalidBody(t *testing.T) {
	resp := doPost(t, "/products", "not an object")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestListProducts_NameFilter(t *testing.T) {
	prefix := uniqueName("filter")
	createProduct(t, prefix+"-Laptop", 10, 1)
	createProduct(t, prefix+"-Desk", 20, 1)

	// Filter is a case-insensitive substring match.
	resp := doGet(t, "/products?name="+prefix+"-lap")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	list := decodeJSON[productListResponse](t, resp)
	if len(list.Products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(list.Products))
	}
	if got := list.Products[0].Name; got != prefix+"-Laptop" {
		t.Errorf("got %q", got)
	}
}

func TestListProducts_Pagination(t *testing.T) {
	prefix := uniqueName("page")
	createProduct(t, prefix+"-a", 1, 1)
	createProduct(t, prefix+"-b", 2, 1)
	createProduct(t, prefix+"-c", 3, 1)

	resp := doGet(t, "/products?name="+prefix+"&limit=1&offset=1")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	list := decodeJSON[productListResponse](t, resp)
	if len(list.Products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(list.Products))
	}
	// Products come back in insertion order, so offset 1 is the second one.
	if got := list.Products[0].Name; got != prefix+"-b" {
		t.Errorf("got %q, want %q", got, prefix+"-b")
	}
}

func TestListProducts_Idempotent(t *testing.T) {
	prefix := uniqueName("idem")
	createProduct(t, prefix+"-x", 5, 2)

	read := func() string {
		resp := doGet(t, "/products?name="+prefix)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		return string(raw)
	}

	first := read()
	second := read()
	if first != second {
		t.Errorf("listing changed between identical reads:\n%s\n%s", first, second)
	}
}

func TestListProducts_SizeFilter(t *testing.T) {
	prefix := uniqueName("size")
	createProduct(t, prefix+"-shirt", 15, 3)

	// Products created through the API carry no size, so any size filter
	// excludes them.
	resp := doGet(t, "/products?name="+prefix+"&size=XL")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	list := decodeJSON[productListResponse](t, resp)
	if len(list.Products) != 0 {
		t.Errorf("expected no products, got %d", len(list.Products))
	}
}
