package domain

import "time"

// OfflineSessionID returns the id under which the Shopify app framework
// stores a shop's offline session.
func OfflineSessionID(shop string) string {
	return "offline_" + shop
}

// Session is a stored Shopify app session. Sessions are written by the app
// framework during OAuth; this service only reads them (callback path) and
// deletes them (uninstall purge).
type Session struct {
	ID          string    `json:"id" bson:"_id"`
	Shop        string    `json:"shop" bson:"shop"`
	State       string    `json:"state" bson:"state"`
	IsOnline    bool      `json:"isOnline" bson:"isOnline"`
	Scope       string    `json:"scope" bson:"scope"`
	AccessToken string    `json:"accessToken" bson:"accessToken"`
	Expires     time.Time `json:"expires" bson:"expires"`
}
