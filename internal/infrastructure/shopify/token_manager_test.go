package shopify

import (
	"context"
	"errors"
	"testing"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
)

type fakeShopAPI struct {
	err error
}

func (f *fakeShopAPI) GetShop(ctx context.Context, shop string, accessToken string) (*goshopify.Shop, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &goshopify.Shop{}, nil
}

func TestValidateTokenValid(t *testing.T) {
	tm := NewTokenManager(&fakeShopAPI{}, zerolog.Nop())
	valid, err := tm.ValidateToken(context.Background(), "x.myshopify.com", "tok")
	if err != nil || !valid {
		t.Errorf("valid=%v err=%v", valid, err)
	}
}

func TestValidateTokenRevoked(t *testing.T) {
	tm := NewTokenManager(&fakeShopAPI{err: errors.New("401 Unauthorized")}, zerolog.Nop())
	valid, err := tm.ValidateToken(context.Background(), "x.myshopify.com", "tok")
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if valid {
		t.Error("revoked token reported valid")
	}
}

// Network trouble is not evidence of revocation.
func TestValidateTokenNetworkErrorAssumesValid(t *testing.T) {
	tm := NewTokenManager(&fakeShopAPI{err: errors.New("dial tcp: i/o timeout")}, zerolog.Nop())
	valid, err := tm.ValidateToken(context.Background(), "x.myshopify.com", "tok")
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if !valid {
		t.Error("transient failure treated as revocation")
	}
}

func TestValidateTokenRequiresInputs(t *testing.T) {
	tm := NewTokenManager(&fakeShopAPI{}, zerolog.Nop())
	if _, err := tm.ValidateToken(context.Background(), "x.myshopify.com", ""); err == nil {
		t.Error("empty token accepted")
	}
	if _, err := tm.ValidateToken(context.Background(), "", "tok"); err == nil {
		t.Error("empty shop accepted")
	}
}
