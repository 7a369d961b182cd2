package domain

import "strings"

// DefaultCallbackTag is applied when a callback carries no tags and no
// recognized status.
const DefaultCallbackTag = "ecomdrop-processed"

// ErrorTag marks an order whose flow trigger failed immediately.
const ErrorTag = "ecomdrop-error"

// statusTags maps a callback status to its implied tag. Unrecognized
// statuses contribute no tag.
var statusTags = map[string]string{
	"success":   "ecomdrop-processed",
	"completed": "ecomdrop-completed",
	"pending":   "ecomdrop-pending",
	"error":     "ecomdrop-error",
	"failed":    "ecomdrop-error",
}

// TagForStatus returns the tag implied by a callback status, if any.
func TagForStatus(status string) (string, bool) {
	tag, ok := statusTags[status]
	return tag, ok
}

// CallbackRequest is the parsed body of an Ecomdrop completion callback.
type CallbackRequest struct {
	APIKey    string
	Shop      string
	OrderID   string
	OrderName string
	Tags      []string
	Status    string
}

// ResolvedTags computes the tag set to apply: explicit tags, plus the
// status-derived tag, falling back to the default sentinel when empty.
func (r *CallbackRequest) ResolvedTags() []string {
	tags := make([]string, 0, len(r.Tags)+1)
	for _, t := range r.Tags {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	if statusTag, ok := TagForStatus(r.Status); ok && !containsTag(tags, statusTag) {
		tags = append(tags, statusTag)
	}
	if len(tags) == 0 {
		tags = append(tags, DefaultCallbackTag)
	}
	return tags
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// MergeTags unions existing tags with additions. Existing order is
// preserved, new tags are appended in input order, duplicates (exact string
// match) are not re-added. The result always contains every existing tag.
func MergeTags(existing, additions []string) []string {
	merged := make([]string, 0, len(existing)+len(additions))
	seen := make(map[string]struct{}, len(existing)+len(additions))
	for _, t := range existing {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		merged = append(merged, t)
	}
	for _, t := range additions {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		merged = append(merged, t)
	}
	return merged
}

// SplitTags parses Shopify's comma-separated tag string into trimmed tags.
func SplitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
