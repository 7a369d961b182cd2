package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"ecomdrop-shopify-bridge/internal/domain"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

func graphqlServer(t *testing.T, respond func(query string, variables gjson.Result) string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Shopify-Access-Token"); got != "tok" {
			t.Errorf("access token header = %q", got)
		}
		var req struct {
			Query     string          `json:"query"`
			Variables json.RawMessage `json:"variables"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(respond(req.Query, gjson.ParseBytes(req.Variables))))
	}))
}

func TestFindOrderIDByName(t *testing.T) {
	srv := graphqlServer(t, func(query string, variables gjson.Result) string {
		if got := variables.Get("name").String(); got != "name:#1014" {
			t.Errorf("name variable = %q", got)
		}
		return `{"data":{"orders":{"edges":[{"node":{"id":"gid://shopify/Order/999","name":"#1014"}}]}}}`
	})
	defer srv.Close()

	c := NewAdminClientWithEndpoint(srv.URL, zerolog.Nop())
	id, err := c.FindOrderIDByName(context.Background(), "x.myshopify.com", "tok", "#1014")
	if err != nil {
		t.Fatalf("FindOrderIDByName: %v", err)
	}
	if id != "gid://shopify/Order/999" {
		t.Errorf("id = %q", id)
	}
}

func TestFindOrderIDByNameNotFound(t *testing.T) {
	srv := graphqlServer(t, func(string, gjson.Result) string {
		return `{"data":{"orders":{"edges":[]}}}`
	})
	defer srv.Close()

	c := NewAdminClientWithEndpoint(srv.URL, zerolog.Nop())
	_, err := c.FindOrderIDByName(context.Background(), "x.myshopify.com", "tok", "#9999")
	if !errors.Is(err, domain.ErrOrderNotFound) {
		t.Errorf("err = %v; want ErrOrderNotFound", err)
	}
}

func TestProtectedDataErrorMapped(t *testing.T) {
	srv := graphqlServer(t, func(string, gjson.Result) string {
		return `{"errors":[{"message":"This app is not approved to access the Order object.","extensions":{"code":"ACCESS_DENIED"}}]}`
	})
	defer srv.Close()

	c := NewAdminClientWithEndpoint(srv.URL, zerolog.Nop())
	_, err := c.GetOrderTags(context.Background(), "x.myshopify.com", "tok", "gid://shopify/Order/1")
	if !errors.Is(err, domain.ErrPermissionDenied) {
		t.Errorf("err = %v; want ErrPermissionDenied", err)
	}
}

func TestGetOrderTags(t *testing.T) {
	srv := graphqlServer(t, func(string, gjson.Result) string {
		return `{"data":{"order":{"id":"gid://shopify/Order/1","tags":["vip","rush"]}}}`
	})
	defer srv.Close()

	c := NewAdminClientWithEndpoint(srv.URL, zerolog.Nop())
	tags, err := c.GetOrderTags(context.Background(), "x.myshopify.com", "tok", "gid://shopify/Order/1")
	if err != nil {
		t.Fatalf("GetOrderTags: %v", err)
	}
	if !reflect.DeepEqual(tags, []string{"vip", "rush"}) {
		t.Errorf("tags = %v", tags)
	}
}

func TestGetOrderTagsNullOrder(t *testing.T) {
	srv := graphqlServer(t, func(string, gjson.Result) string {
		return `{"data":{"order":null}}`
	})
	defer srv.Close()

	c := NewAdminClientWithEndpoint(srv.URL, zerolog.Nop())
	_, err := c.GetOrderTags(context.Background(), "x.myshopify.com", "tok", "gid://shopify/Order/404")
	if !errors.Is(err, domain.ErrOrderNotFound) {
		t.Errorf("err = %v; want ErrOrderNotFound", err)
	}
}

func TestUpdateOrderTags(t *testing.T) {
	var gotTags []string
	srv := graphqlServer(t, func(query string, variables gjson.Result) string {
		for _, v := range variables.Get("tags").Array() {
			gotTags = append(gotTags, v.String())
		}
		return `{"data":{"orderUpdate":{"order":{"id":"gid://shopify/Order/1"},"userErrors":[]}}}`
	})
	defer srv.Close()

	c := NewAdminClientWithEndpoint(srv.URL, zerolog.Nop())
	err := c.UpdateOrderTags(context.Background(), "x.myshopify.com", "tok", "gid://shopify/Order/1", []string{"vip", "ecomdrop-processed"})
	if err != nil {
		t.Fatalf("UpdateOrderTags: %v", err)
	}
	if !reflect.DeepEqual(gotTags, []string{"vip", "ecomdrop-processed"}) {
		t.Errorf("sent tags = %v", gotTags)
	}
}

func TestUpdateOrderTagsProtectedUserError(t *testing.T) {
	srv := graphqlServer(t, func(string, gjson.Result) string {
		return `{"data":{"orderUpdate":{"order":null,"userErrors":[{"field":["id"],"message":"App requires approval for protected customer data"}]}}}`
	})
	defer srv.Close()

	c := NewAdminClientWithEndpoint(srv.URL, zerolog.Nop())
	err := c.UpdateOrderTags(context.Background(), "x.myshopify.com", "tok", "gid://shopify/Order/1", []string{"t"})
	if !errors.Is(err, domain.ErrPermissionDenied) {
		t.Errorf("err = %v; want ErrPermissionDenied", err)
	}
}
