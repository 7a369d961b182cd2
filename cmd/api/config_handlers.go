package main

import (
	"encoding/json"
	"net/http"

	"ecomdrop-shopify-bridge/internal/application"
	"ecomdrop-shopify-bridge/internal/domain"
	shopifyinfra "ecomdrop-shopify-bridge/internal/infrastructure/shopify"
	"ecomdrop-shopify-bridge/internal/ports"

	"github.com/rs/zerolog"
)

// Admin configuration endpoints. These sit behind the app proxy in
// production; the shop is taken from the query string or body, already
// validated upstream.

func getConfigHandler(configSvc *application.ConfigService, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shop := r.URL.Query().Get("shop")
		if shop == "" {
			writeJSONError(w, http.StatusBadRequest, "shop parameter is required")
			return
		}

		config, err := configSvc.GetConfiguration(r.Context(), shop)
		if err != nil {
			logger.Error().Err(err).Str("shop", shop).Msg("Failed to load configuration")
			writeJSONError(w, http.StatusInternalServerError, "Failed to load configuration")
			return
		}

		flows, err := configSvc.ListFlows(r.Context(), shop)
		if err != nil {
			logger.Warn().Err(err).Str("shop", shop).Msg("Failed to list flows")
			// Config is still useful without the flow listing.
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"config": configView(config),
			"flows":  flows,
		})
	}
}

func saveAPIKeyHandler(configSvc *application.ConfigService, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Shop   string `json:"shop"`
			APIKey string `json:"apiKey"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSONError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if body.Shop == "" || body.APIKey == "" {
			writeJSONError(w, http.StatusBadRequest, "shop and apiKey are required")
			return
		}

		config, err := configSvc.SaveAPIKey(r.Context(), body.Shop, body.APIKey)
		if err != nil {
			logger.Error().Err(err).Str("shop", body.Shop).Msg("Failed to save API key")
			writeJSONError(w, http.StatusInternalServerError, "Failed to save API key")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"config":  configView(config),
		})
	}
}

func saveFlowsHandler(configSvc *application.ConfigService, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Shop                string `json:"shop"`
			NewOrderFlowID      string `json:"newOrderFlowId"`
			AbandonedCartFlowID string `json:"abandonedCartFlowId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSONError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if body.Shop == "" {
			writeJSONError(w, http.StatusBadRequest, "shop is required")
			return
		}

		config, err := configSvc.SaveFlows(r.Context(), body.Shop, body.NewOrderFlowID, body.AbandonedCartFlowID)
		if err != nil {
			logger.Error().Err(err).Str("shop", body.Shop).Msg("Failed to save flow selection")
			writeJSONError(w, http.StatusInternalServerError, "Failed to save flow selection")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"config":  configView(config),
		})
	}
}

func saveDropiHandler(configSvc *application.ConfigService, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Shop      string `json:"shop"`
			StoreName string `json:"storeName"`
			Country   string `json:"country"`
			Token     string `json:"token"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSONError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if body.Shop == "" || body.Country == "" || body.Token == "" {
			writeJSONError(w, http.StatusBadRequest, "shop, country and token are required")
			return
		}

		config, err := configSvc.SaveDropiIntegration(r.Context(), body.Shop, body.StoreName, body.Country, body.Token)
		if err != nil {
			logger.Error().Err(err).Str("shop", body.Shop).Msg("Failed to save Dropi integration")
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"config":  configView(config),
		})
	}
}

func syncFlowsHandler(configSvc *application.ConfigService, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Shop string `json:"shop"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSONError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if body.Shop == "" {
			writeJSONError(w, http.StatusBadRequest, "shop is required")
			return
		}

		if err := configSvc.SyncFlows(r.Context(), body.Shop); err != nil {
			logger.Error().Err(err).Str("shop", body.Shop).Msg("Failed to sync flows")
			writeJSONError(w, http.StatusInternalServerError, "Failed to sync flows")
			return
		}

		flows, err := configSvc.ListFlows(r.Context(), body.Shop)
		if err != nil {
			logger.Error().Err(err).Str("shop", body.Shop).Msg("Failed to list flows after sync")
			writeJSONError(w, http.StatusInternalServerError, "Failed to list flows")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"flows":   flows,
		})
	}
}

// integrationStatusHandler reports the shop's install and configuration
// state in one call. The token check goes out to Shopify, so this endpoint
// is for the admin UI's status page, not for polling.
func integrationStatusHandler(
	configSvc *application.ConfigService,
	sessionRepo ports.SessionRepository,
	tokenManager *shopifyinfra.TokenManager,
	logger zerolog.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shop := r.URL.Query().Get("shop")
		if shop == "" {
			writeJSONError(w, http.StatusBadRequest, "shop parameter is required")
			return
		}

		status := map[string]interface{}{
			"installed":          false,
			"tokenValid":         false,
			"ecomdropConfigured": false,
			"dropiConnected":     false,
		}

		session, err := sessionRepo.GetOfflineSession(r.Context(), shop)
		if err != nil {
			logger.Error().Err(err).Str("shop", shop).Msg("Failed to load session for status check")
			writeJSONError(w, http.StatusInternalServerError, "Failed to load session")
			return
		}
		if session != nil && session.AccessToken != "" {
			status["installed"] = true
			valid, err := tokenManager.ValidateToken(r.Context(), shop, session.AccessToken)
			if err != nil {
				logger.Warn().Err(err).Str("shop", shop).Msg("Token validation failed")
			}
			status["tokenValid"] = valid
		}

		config, err := configSvc.GetConfiguration(r.Context(), shop)
		if err != nil {
			logger.Error().Err(err).Str("shop", shop).Msg("Failed to load configuration for status check")
			writeJSONError(w, http.StatusInternalServerError, "Failed to load configuration")
			return
		}
		if config != nil {
			status["ecomdropConfigured"] = config.EcomdropAPIKey != ""
			status["dropiConnected"] = config.DropiToken != ""
		}

		writeJSON(w, http.StatusOK, status)
	}
}

// configView strips the Dropi token before the configuration leaves the
// service. The API key stays visible: the merchant pasted it in and the
// admin UI shows it back.
func configView(config *domain.ShopConfiguration) map[string]interface{} {
	if config == nil {
		return nil
	}
	return map[string]interface{}{
		"shop":                config.Shop,
		"ecomdropApiKey":      config.EcomdropAPIKey,
		"newOrderFlowId":      config.NewOrderFlowID,
		"abandonedCartFlowId": config.AbandonedCartFlowID,
		"dropiStoreName":      config.DropiStoreName,
		"dropiCountry":        config.DropiCountry,
		"dropiConnected":      config.DropiToken != "",
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
