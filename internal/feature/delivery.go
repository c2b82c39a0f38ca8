package feature

import (
	"encoding/json"
	"strings"
)

// DeliveryRecord is the JSON document written by the deliver command.
type DeliveryRecord struct {
	Feature     string   `json:"feature,omitempty"`
	Decision    Decision `json:"decision"`
	DeliveredAt string   `json:"deliveredAt,omitempty"`
	ReleaseTag  string   `json:"releaseTag,omitempty"`
}

// deliveryWire accepts a null or missing decision.
type deliveryWire struct {
	Feature     string  `json:"feature"`
	Decision    *string `json:"decision"`
	DeliveredAt string  `json:"deliveredAt"`
	ReleaseTag  string  `json:"releaseTag"`
}

// ParseDelivery decodes a delivery record. Decisions are matched
// case-insensitively; anything other than SHIP or HOLD, including a
// document that does not parse, is reported as DecisionNone.
func ParseDelivery(data []byte) DeliveryRecord {
	var w deliveryWire
	if err := json.Unmarshal(data, &w); err != nil {
		return DeliveryRecord{}
	}
	rec := DeliveryRecord{
		Feature:     w.Feature,
		DeliveredAt: w.DeliveredAt,
		ReleaseTag:  w.ReleaseTag,
	}
	if w.Decision != nil {
		rec.Decision = NormalizeDecision(*w.Decision)
	}
	return rec
}

// NormalizeDecision maps free-form input onto SHIP, HOLD or none.
func NormalizeDecision(s string) Decision {
	switch Decision(strings.ToUpper(strings.TrimSpace(s))) {
	case DecisionShip:
		return DecisionShip
	case DecisionHold:
		return DecisionHold
	}
	return DecisionNone
}

// MarshalJSON writes a missing decision as null so pending records are explicit.
func (r DeliveryRecord) MarshalJSON() ([]byte, error) {
	w := deliveryWire{
		Feature:     r.Feature,
		DeliveredAt: r.DeliveredAt,
		ReleaseTag:  r.ReleaseTag,
	}
	if r.Decision != DecisionNone {
		d := string(r.Decision)
		w.Decision = &d
	}
	type out struct {
		Feature     string  `json:"feature,omitempty"`
		Decision    *string `json:"decision"`
		DeliveredAt string  `json:"deliveredAt,omitempty"`
		ReleaseTag  string  `json:"releaseTag,omitempty"`
	}
	return json.Marshal(out(w))
}
