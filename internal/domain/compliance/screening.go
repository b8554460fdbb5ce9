package compliance

import (
	"fmt"
	"time"
)

// Verdict is the outcome of screening one shipment line
type Verdict string

const (
	VerdictPass Verdict = "pass"
	VerdictFail Verdict = "fail"
)

// ScreeningInput describes one order line to screen
type ScreeningInput struct {
	ProductID    string
	SKU          string
	WattHours    float64 // per-unit rating
	Quantity     int
	RegionCode   string // destination, ISO 3166-2
	Certificates []Certificate
}

// ScreeningResult is the verdict for one line with human-readable reasons.
// Screening fails closed: a line with no applicable rule or no valid
// certificate is refused rather than waved through.
type ScreeningResult struct {
	ProductID      string    `json:"product_id"`
	SKU            string    `json:"sku"`
	Verdict        Verdict   `json:"verdict"`
	Reasons        []string  `json:"reasons,omitempty"`
	RequiresGround bool      `json:"requires_ground"`
	ScreenedAt     time.Time `json:"screened_at"`
}

// Passed returns true when the line may ship
func (r *ScreeningResult) Passed() bool {
	return r.Verdict == VerdictPass
}

// Screen evaluates one line against a destination rule. A nil rule means
// the destination has no published limit and the line is refused.
func Screen(input ScreeningInput, rule *RegionRule, now time.Time) ScreeningResult {
	result := ScreeningResult{
		ProductID:  input.ProductID,
		SKU:        input.SKU,
		Verdict:    VerdictPass,
		ScreenedAt: now,
	}

	fail := func(reason string) {
		result.Verdict = VerdictFail
		result.Reasons = append(result.Reasons, reason)
	}

	if rule == nil {
		fail(fmt.Sprintf("no shipping rule published for region %s", input.RegionCode))
		return result
	}
	result.RequiresGround = rule.RequiresGround

	if input.WattHours <= 0 {
		fail("product has no watt-hour rating on file")
	} else if input.WattHours > rule.MaxWattHours {
		fail(fmt.Sprintf("unit rating %.1f Wh exceeds the %.1f Wh limit for %s",
			input.WattHours, rule.MaxWattHours, rule.RegionCode))
	}

	if rule.MaxUnits > 0 && input.Quantity > rule.MaxUnits {
		fail(fmt.Sprintf("quantity %d exceeds the per-package cap of %d for %s",
			input.Quantity, rule.MaxUnits, rule.RegionCode))
	}

	if !hasValidCertificate(input.Certificates, now) {
		fail("no valid UN38.3 certificate on file")
	}

	return result
}

func hasValidCertificate(certs []Certificate, at time.Time) bool {
	for i := range certs {
		if certs[i].IsValidAt(at) {
			return true
		}
	}
	return false
}
