package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"ecomdrop-shopify-bridge/internal/application"
	"ecomdrop-shopify-bridge/internal/domain"
	"ecomdrop-shopify-bridge/internal/infrastructure/metrics"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// callbackHandler receives Ecomdrop flow completion callbacks. Unlike the
// webhook entry point this one reports real status codes: Ecomdrop retries
// on failure and the merchant debugs from these responses.
func callbackHandler(callbackSvc *application.CallbackService, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeCallbackError(w, http.StatusMethodNotAllowed, "Method not allowed. Use POST.")
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeCallbackError(w, http.StatusBadRequest, "Failed to read request body")
			return
		}
		defer r.Body.Close()

		req := parseCallbackRequest(body)

		result, err := callbackSvc.Process(r.Context(), req)
		if err != nil {
			status := callbackStatus(err)
			logger.Warn().Err(err).
				Int("status", status).
				Str("orderName", req.OrderName).
				Msg("Callback rejected")
			writeCallbackError(w, status, err.Error())
			return
		}

		metrics.CallbackRequests.WithLabelValues("200").Inc()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"message": "Order tags updated successfully",
			"orderId": result.OrderID,
			"tags":    result.Tags,
		})
	}
}

// parseCallbackRequest accepts the field aliases Ecomdrop's templates use.
// For each aliased field the first present key wins.
func parseCallbackRequest(body []byte) *domain.CallbackRequest {
	doc := gjson.ParseBytes(body)

	req := &domain.CallbackRequest{
		APIKey:    firstString(doc, "apiKey", "api_key", "token"),
		Shop:      doc.Get("shop").String(),
		OrderID:   firstString(doc, "orderId", "order_id"),
		OrderName: firstString(doc, "orderName", "order_name"),
		Status:    doc.Get("status").String(),
	}

	if tag := doc.Get("tag"); tag.Exists() && tag.String() != "" {
		req.Tags = append(req.Tags, tag.String())
	}
	if tags := doc.Get("tags"); tags.Exists() {
		if tags.IsArray() {
			for _, t := range tags.Array() {
				req.Tags = append(req.Tags, t.String())
			}
		} else {
			req.Tags = append(req.Tags, domain.SplitTags(tags.String())...)
		}
	}

	return req
}

func firstString(doc gjson.Result, paths ...string) string {
	for _, path := range paths {
		if v := doc.Get(path); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

// callbackStatus maps pipeline errors to distinct status codes so the
// caller can tell a bad key from a missing order from a pending approval.
func callbackStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrMissingOrderIdentifier):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrMissingAPIKey),
		errors.Is(err, domain.ErrInvalidAPIKey),
		errors.Is(err, domain.ErrNoAccessToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNoSession),
		errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeCallbackError(w http.ResponseWriter, status int, message string) {
	metrics.CallbackRequests.WithLabelValues(strconv.Itoa(status)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
