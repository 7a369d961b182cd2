package application

import (
	"encoding/json"

	"ecomdrop-shopify-bridge/internal/domain"

	"github.com/tidwall/gjson"
)

// NormalizeOrder turns a raw orders/create or draft_orders/create webhook
// payload into the canonical event document. Shopify delivers two shapes:
// modern GraphQL-style JSON (camelCase, {edges:[{node:...}]} lists,
// {amount, currencyCode} money objects) and legacy REST-style JSON
// (snake_case, flat lists, string money). Every attribute is probed
// GraphQL-shaped path first, REST-shaped path second. The function is pure
// and never fails: missing or malformed optional fields are omitted.
//
// Money values pass through as decimal strings; they are never parsed to
// floating point.
func NormalizeOrder(payload []byte, eventType string) *domain.NormalizedEvent {
	root := gjson.ParseBytes(payload)

	// GraphQL webhook payloads wrap the resource: {order:{...}} or
	// {draftOrder:{...}}. REST payloads are the resource itself.
	doc := root
	if o := root.Get("order"); o.IsObject() {
		doc = o
	} else if d := root.Get("draftOrder"); d.IsObject() {
		doc = d
	}

	ev := &domain.NormalizedEvent{
		EventType: eventType,
		CreatedAt: first(doc, "createdAt", "created_at"),
		UpdatedAt: first(doc, "updatedAt", "updated_at"),

		TotalPrice:     first(doc, "totalPriceSet.shopMoney.amount", "totalPrice.amount", "total_price"),
		SubtotalPrice:  first(doc, "subtotalPriceSet.shopMoney.amount", "subtotalPrice.amount", "subtotal_price"),
		TotalTax:       first(doc, "totalTaxSet.shopMoney.amount", "totalTax.amount", "total_tax"),
		TotalDiscounts: first(doc, "totalDiscountsSet.shopMoney.amount", "totalDiscounts.amount", "total_discounts"),
		Currency:       first(doc, "currencyCode", "currency"),

		FinancialStatus:   first(doc, "displayFinancialStatus", "financialStatus", "financial_status"),
		FulfillmentStatus: first(doc, "displayFulfillmentStatus", "fulfillmentStatus", "fulfillment_status"),
		Email:             first(doc, "email"),

		LineItems: normalizeLineItems(doc, eventType),
		Customer:  normalizeCustomer(doc.Get("customer")),

		ShippingAddress: normalizeAddress(firstResult(doc, "shippingAddress", "shipping_address")),
		BillingAddress:  normalizeAddress(firstResult(doc, "billingAddress", "billing_address")),

		Tags: normalizeTags(doc.Get("tags")),
		Note: first(doc, "note"),

		SourceName:       first(doc, "sourceName", "source_name"),
		ProcessingMethod: first(doc, "processing_method"),
		CheckoutID:       first(doc, "checkout_id"),
		CheckoutToken:    first(doc, "checkout_token"),
		Gateway:          first(doc, "gateway"),
	}

	if raw := doc.Get("note_attributes"); raw.IsArray() {
		ev.NoteAttributes = json.RawMessage(raw.Raw)
	}

	switch eventType {
	case domain.EventDraftOrderCreated:
		ev.DraftOrderID = first(doc, "id")
		ev.DraftOrderName = first(doc, "name")
		ev.Status = first(doc, "status")
	default:
		ev.OrderID = first(doc, "id")
		ev.OrderName = first(doc, "name", "orderNumber", "order_number")
		ev.OrderNumber = first(doc, "orderNumber", "order_number", "name")
	}

	return ev
}

// first returns the first non-empty value among the given paths, probed in
// priority order.
func first(doc gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := doc.Get(p); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

func firstResult(doc gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if v := doc.Get(p); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}

func normalizeLineItems(doc gjson.Result, eventType string) []domain.LineItem {
	var raw []gjson.Result
	if edges := doc.Get("lineItems.edges"); edges.IsArray() {
		for _, edge := range edges.Array() {
			raw = append(raw, edge.Get("node"))
		}
	} else if items := doc.Get("lineItems"); items.IsArray() {
		raw = items.Array()
	} else if items := doc.Get("line_items"); items.IsArray() {
		raw = items.Array()
	}

	items := make([]domain.LineItem, 0, len(raw))
	for _, item := range raw {
		li := domain.LineItem{
			ID:                first(item, "id"),
			Name:              first(item, "name", "title"),
			Title:             first(item, "title", "name"),
			Quantity:          item.Get("quantity").Int(),
			SKU:               first(item, "variant.sku", "sku"),
			VariantID:         first(item, "variant.id", "variantId", "variant_id"),
			ProductID:         first(item, "product.id", "productId", "product_id"),
			VariantTitle:      first(item, "variant.title", "variantTitle", "variant_title"),
			Vendor:            first(item, "vendor"),
			RequiresShipping:  firstBool(item, "requiresShipping", "requires_shipping"),
			Taxable:           item.Get("taxable").Bool(),
			FulfillmentStatus: first(item, "fulfillmentStatus", "fulfillment_status"),
		}
		price := first(item, "originalUnitPrice.amount", "originalUnitPriceSet.shopMoney.amount", "price")
		if eventType == domain.EventDraftOrderCreated {
			li.OriginalUnitPrice = price
			li.FulfillmentStatus = ""
		} else {
			li.Price = price
		}
		items = append(items, li)
	}
	return items
}

func firstBool(doc gjson.Result, paths ...string) bool {
	for _, p := range paths {
		if v := doc.Get(p); v.Exists() {
			return v.Bool()
		}
	}
	return false
}

func normalizeCustomer(c gjson.Result) *domain.Customer {
	if !c.IsObject() {
		return nil
	}
	return &domain.Customer{
		ID:               first(c, "id"),
		Email:            first(c, "email"),
		FirstName:        first(c, "firstName", "first_name"),
		LastName:         first(c, "lastName", "last_name"),
		Phone:            first(c, "phone"),
		AcceptsMarketing: firstBool(c, "acceptsMarketing", "accepts_marketing"),
		TotalSpent:       first(c, "totalSpent.amount", "total_spent"),
		OrdersCount:      first(c, "numberOfOrders", "orders_count"),
	}
}

func normalizeAddress(a gjson.Result) *domain.Address {
	if !a.IsObject() {
		return nil
	}
	return &domain.Address{
		FirstName:    first(a, "firstName", "first_name"),
		LastName:     first(a, "lastName", "last_name"),
		Address1:     first(a, "address1"),
		Address2:     first(a, "address2"),
		City:         first(a, "city"),
		Province:     first(a, "province"),
		Country:      first(a, "country"),
		Zip:          first(a, "zip"),
		Phone:        first(a, "phone"),
		CountryCode:  first(a, "countryCode", "country_code"),
		ProvinceCode: first(a, "provinceCode", "province_code"),
	}
}

// normalizeTags accepts either a JSON array of strings (GraphQL shape) or a
// comma-separated string (REST shape).
func normalizeTags(t gjson.Result) []string {
	if t.IsArray() {
		var tags []string
		for _, v := range t.Array() {
			if s := v.String(); s != "" {
				tags = append(tags, s)
			}
		}
		return tags
	}
	if t.Type == gjson.String {
		return domain.SplitTags(t.String())
	}
	return nil
}
