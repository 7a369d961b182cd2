package application

import (
	"context"
	"errors"
	"testing"

	"ecomdrop-shopify-bridge/internal/domain"

	"github.com/rs/zerolog"
)

func newConfigFixture() (*ConfigService, *fakeConfigRepo, *fakeFlowAPI) {
	configRepo := newFakeConfigRepo()
	flowAPI := &fakeFlowAPI{}
	flowSvc := NewFlowService(flowAPI, newFakeFlowCache(), zerolog.Nop())
	svc := NewConfigService(configRepo, flowAPI, flowSvc, zerolog.Nop())
	return svc, configRepo, flowAPI
}

func TestSaveAPIKeyCreatesConfiguration(t *testing.T) {
	svc, configRepo, _ := newConfigFixture()

	config, err := svc.SaveAPIKey(context.Background(), "x.myshopify.com", "k1")
	if err != nil {
		t.Fatalf("SaveAPIKey: %v", err)
	}
	if config.EcomdropAPIKey != "k1" {
		t.Errorf("EcomdropAPIKey = %q", config.EcomdropAPIKey)
	}

	stored, _ := configRepo.GetByShop(context.Background(), "x.myshopify.com")
	if stored == nil || stored.EcomdropAPIKey != "k1" {
		t.Errorf("stored = %+v", stored)
	}
}

func TestSaveFlowsPreservesAPIKey(t *testing.T) {
	svc, configRepo, _ := newConfigFixture()
	configRepo.add(&domain.ShopConfiguration{Shop: "x.myshopify.com", EcomdropAPIKey: "k1"})

	config, err := svc.SaveFlows(context.Background(), "x.myshopify.com", "flow-7", "")
	if err != nil {
		t.Fatalf("SaveFlows: %v", err)
	}
	if config.NewOrderFlowID != "flow-7" || config.AbandonedCartFlowID != "" {
		t.Errorf("flows = %q/%q", config.NewOrderFlowID, config.AbandonedCartFlowID)
	}
	if config.EcomdropAPIKey != "k1" {
		t.Errorf("flow save dropped the API key")
	}
}

func TestSaveDropiIntegrationWritesBotField(t *testing.T) {
	svc, configRepo, flowAPI := newConfigFixture()
	configRepo.add(&domain.ShopConfiguration{Shop: "x.myshopify.com", EcomdropAPIKey: "k1"})

	config, err := svc.SaveDropiIntegration(context.Background(), "x.myshopify.com", "My Store", "CO", "dropi-token")
	if err != nil {
		t.Fatalf("SaveDropiIntegration: %v", err)
	}
	if config.DropiCountry != "CO" || config.DropiToken != "dropi-token" {
		t.Errorf("config = %+v", config)
	}
	if flowAPI.botFields["640597"] != "dropi-token" {
		t.Errorf("bot field for CO = %q", flowAPI.botFields["640597"])
	}
}

func TestSaveDropiIntegrationUnsupportedCountry(t *testing.T) {
	svc, configRepo, _ := newConfigFixture()
	configRepo.add(&domain.ShopConfiguration{Shop: "x.myshopify.com", EcomdropAPIKey: "k1"})

	_, err := svc.SaveDropiIntegration(context.Background(), "x.myshopify.com", "s", "BR", "tok")
	if err == nil {
		t.Fatal("expected error for unsupported country")
	}
}

func TestSaveDropiIntegrationRequiresAPIKey(t *testing.T) {
	svc, _, _ := newConfigFixture()

	_, err := svc.SaveDropiIntegration(context.Background(), "x.myshopify.com", "s", "CO", "tok")
	if err == nil {
		t.Fatal("expected error without Ecomdrop API key")
	}
}

// A failed bot field write means the token never validated; nothing is
// stored.
func TestSaveDropiIntegrationValidationFailureDoesNotStore(t *testing.T) {
	svc, configRepo, flowAPI := newConfigFixture()
	configRepo.add(&domain.ShopConfiguration{Shop: "x.myshopify.com", EcomdropAPIKey: "k1"})
	flowAPI.botFieldErr = errors.New("invalid token")

	_, err := svc.SaveDropiIntegration(context.Background(), "x.myshopify.com", "s", "CO", "bad")
	if err == nil {
		t.Fatal("expected error")
	}
	stored, _ := configRepo.GetByShop(context.Background(), "x.myshopify.com")
	if stored.DropiToken != "" {
		t.Errorf("invalid token was stored: %q", stored.DropiToken)
	}
}

func TestListFlowsWithoutAPIKey(t *testing.T) {
	svc, configRepo, flowAPI := newConfigFixture()
	configRepo.add(&domain.ShopConfiguration{Shop: "x.myshopify.com"})

	flows, err := svc.ListFlows(context.Background(), "x.myshopify.com")
	if err != nil {
		t.Fatalf("ListFlows: %v", err)
	}
	if flows != nil {
		t.Errorf("flows = %v; want nil without API key", flows)
	}
	if flowAPI.listCalls != 0 {
		t.Error("listed flows without an API key")
	}
}
