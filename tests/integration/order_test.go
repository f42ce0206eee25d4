//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/google/uuid"
)

func TestPlaceOrder(t *testing.T) {
	name := uniqueName("Phone")
	productID := createProduct(t, name, 499.50, 5)
	userID := uuid.NewString()

	resp := doPost(t, "/orders", orderRequest{
		Items:       []orderItemRequest{{ProductID: productID, BoughtQuantity: 2}},
		UserID:      userID,
		UserAddress: map[string]any{"city": "Berlin", "zip": "10115"},
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	msg := decodeJSON[messageResponse](t, resp)
	if msg.Message != "Order created successfully" {
		t.Errorf("unexpected message %q", msg.Message)
	}

	if got := findProduct(t, name).Quantity; got != 3 {
		t.Errorf("stock after order: got %d, want 3", got)
	}

	listResp := doGet(t, "/orders/"+userID)
	defer listResp.Body.Close()
	if listResp.StatusCode != http.StatusOK {
		t.Fatalf("list orders: expected 200, got %d", listResp.StatusCode)
	}
	list := decodeJSON[orderListResponse](t, listResp)
	if len(list.Orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(list.Orders))
	}

	o := list.Orders[0]
	if o.TotalAmount != 999.00 {
		t.Errorf("total: got %v, want 999.00", o.TotalAmount)
	}
	if len(o.Items) != 1 {
		t.Fatalf("expected 1 line item, got %d", len(o.Items))
	}
	if o.Items[0].ProductID != productID || o.Items[0].BoughtQuantity != 2 {
		t.Errorf("line item mismatch: %+v", o.Items[0])
	}
	if o.Items[0].TotalPrice != 999.00 {
		t.Errorf("line total: got %v", o.Items[0].TotalPrice)
	}
	if o.UserAddress["city"] != "Berlin" {
		t.Errorf("address not preserved: %v", o.UserAddress)
	}
	if o.Timestamp == "" {
		t.Error("timestamp is empty")
	}
}

func TestPlaceOrder_UnknownProduct(t *testing.T) {
	name := uniqueName("Tablet")
	productID := createProduct(t, name, 100, 4)
	userID := uuid.NewString()

	resp := doPost(t, "/orders", orderRequest{
		Items: []orderItemRequest{
			{ProductID: productID, BoughtQuantity: 1},
			{ProductID: uuid.NewString(), BoughtQuantity: 1},
		},
		UserID: userID,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	errBody := decodeJSON[errorResponse](t, resp)
	if errBody.Message == "" {
		t.Error("error message is empty")
	}

	// The first item must be rolled back along with the failed one.
	if got := findProduct(t, name).Quantity; got != 4 {
		t.Errorf("stock after failed order: got %d, want 4", got)
	}

	listResp := doGet(t, "/orders/"+userID)
	defer listResp.Body.Close()
	list := decodeJSON[orderListResponse](t, listResp)
	if len(list.Orders) != 0 {
		t.Errorf("expected no orders, got %d", len(list.Orders))
	}
}

func TestPlaceOrder_InsufficientStock(t *testing.T) {
	name := uniqueName("Monitor")
	productID := createProduct(t, name, 250, 1)
	userID := uuid.NewString()

	resp := doPost(t, "/orders", orderRequest{
		Items:  []orderItemRequest{{ProductID: productID, BoughtQuantity: 3}},
		UserID: userID,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	if got := findProduct(t, name).Quantity; got != 1 {
		t.Errorf("stock after failed order: got %d, want 1", got)
	}

	listResp := doGet(t, "/orders/"+userID)
	defer listResp.Body.Close()
	list := decodeJSON[orderListResponse](t, listResp)
	if len(list.Orders) != 0 {
		t.Errorf("expected no orders, got %d", len(list.Orders))
	}
}

// Concurrent placements against one product must never oversell: with stock
// M and N > M buyers of one unit each, exactly M orders succeed and stock
// ends at zero.
func TestPlaceOrder_ConcurrentPlacements(t *testing.T) {
	const (
		stock   = 5
		callers = 20
	)
	name := uniqueName("Headset")
	productID := createProduct(t, name, 59.99, stock)
	userID := uuid.NewString()

	body, err := json.Marshal(orderRequest{
		Items:  []orderItemRequest{{ProductID: productID, BoughtQuantity: 1}},
		UserID: userID,
	})
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}

	codes := make(chan int, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := httpClient.Post(baseURL+"/orders", "application/json", bytes.NewReader(body))
			if err != nil {
				codes <- 0
				return
			}
			resp.Body.Close()
			codes <- resp.StatusCode
		}()
	}
	wg.Wait()
	close(codes)

	var created, rejected int
	for code := range codes {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusBadRequest:
			rejected++
		default:
			t.Errorf("unexpected status %d", code)
		}
	}
	if created != stock {
		t.Errorf("created orders: got %d, want %d", created, stock)
	}
	if rejected != callers-stock {
		t.Errorf("rejected orders: got %d, want %d", rejected, callers-stock)
	}

	if got := findProduct(t, name).Quantity; got != 0 {
		t.Errorf("final stock: got %d, want 0", got)
	}

	listResp := doGet(t, "/orders/"+userID)
	defer listResp.Body.Close()
	list := decodeJSON[orderListResponse](t, listResp)
	if len(list.Orders) != stock {
		t.Errorf("orders recorded: got %d, want %d", len(list.Orders), stock)
	}
}

func TestPlaceOrder_EmptyItems(t *testing.T) {
	resp := doPost(t, "/orders", orderRequest{Items: nil})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestListOrders_UnknownUser(t *testing.T) {
	resp := doGet(t, "/orders/"+uuid.NewString())
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	list := decodeJSON[orderListResponse](t, resp)
	if len(list.Orders) != 0 {
		t.Errorf("expected empty listing, got %d orders", len(list.Orders))
	}
}
