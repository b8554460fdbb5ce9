package compliance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCertificate(t *testing.T, productID uuid.UUID) *Certificate {
	t.Helper()
	issued := time.Now().AddDate(0, -6, 0)
	cert, err := NewCertificate(productID, "un383-2026-0042", "TUV Rheinland", issued, issued.AddDate(2, 0, 0))
	require.NoError(t, err)
	return cert
}

func newTestRule(t *testing.T, region string, maxWh float64, maxUnits int) *RegionRule {
	t.Helper()
	rule, err := NewRegionRule(region, maxWh, maxUnits)
	require.NoError(t, err)
	return rule
}

func TestNewCertificate(t *testing.T) {
	t.Run("creates valid certificate", func(t *testing.T) {
		cert := newTestCertificate(t, uuid.New())

		assert.Equal(t, "UN383-2026-0042", cert.Number)
		assert.Equal(t, CertificateStatusValid, cert.Status)
		assert.True(t, cert.IsValidAt(time.Now()))
	})

	t.Run("expiry must follow issue date", func(t *testing.T) {
		now := time.Now()
		_, err := NewCertificate(uuid.New(), "C-1", "TUV", now, now)
		assert.Error(t, err)
	})

	t.Run("not valid before issue or after expiry", func(t *testing.T) {
		cert := newTestCertificate(t, uuid.New())

		assert.False(t, cert.IsValidAt(cert.IssuedAt.Add(-time.Hour)))
		assert.False(t, cert.IsValidAt(cert.ExpiresAt.Add(time.Hour)))
	})

	t.Run("revoked certificate is never valid", func(t *testing.T) {
		cert := newTestCertificate(t, uuid.New())

		require.Error(t, cert.Revoke(""))
		require.NoError(t, cert.Revoke("lab withdrew the test report"))
		assert.False(t, cert.IsValidAt(time.Now()))
		assert.Error(t, cert.Revoke("again"))
	})
}

func TestScreen(t *testing.T) {
	now := time.Now()
	productID := uuid.New()

	passingInput := func(t *testing.T) ScreeningInput {
		t.Helper()
		return ScreeningInput{
			ProductID:    productID.String(),
			SKU:          "BD-20V-5AH",
			WattHours:    100,
			Quantity:     2,
			RegionCode:   "US-CA",
			Certificates: []Certificate{*newTestCertificate(t, productID)},
		}
	}

	t.Run("passes within limits", func(t *testing.T) {
		rule := newTestRule(t, "US-CA", 160, 4)

		result := Screen(passingInput(t), rule, now)

		assert.Equal(t, VerdictPass, result.Verdict)
		assert.True(t, result.Passed())
		assert.Empty(t, result.Reasons)
	})

	t.Run("fails closed without a rule", func(t *testing.T) {
		result := Screen(passingInput(t), nil, now)

		assert.Equal(t, VerdictFail, result.Verdict)
		require.Len(t, result.Reasons, 1)
		assert.Contains(t, result.Reasons[0], "US-CA")
	})

	t.Run("fails on watt-hour limit", func(t *testing.T) {
		rule := newTestRule(t, "US-CA", 99.9, 0)

		result := Screen(passingInput(t), rule, now)

		assert.Equal(t, VerdictFail, result.Verdict)
		assert.Contains(t, result.Reasons[0], "exceeds")
	})

	t.Run("fails on unit cap", func(t *testing.T) {
		rule := newTestRule(t, "US-CA", 160, 1)

		result := Screen(passingInput(t), rule, now)

		assert.Equal(t, VerdictFail, result.Verdict)
		assert.Contains(t, result.Reasons[0], "per-package cap")
	})

	t.Run("fails without a valid certificate", func(t *testing.T) {
		rule := newTestRule(t, "US-CA", 160, 0)
		input := passingInput(t)
		input.Certificates = nil

		result := Screen(input, rule, now)

		assert.Equal(t, VerdictFail, result.Verdict)
		assert.Contains(t, result.Reasons[0], "UN38.3")
	})

	t.Run("fails on missing watt-hour rating", func(t *testing.T) {
		rule := newTestRule(t, "US-CA", 160, 0)
		input := passingInput(t)
		input.WattHours = 0

		result := Screen(input, rule, now)

		assert.Equal(t, VerdictFail, result.Verdict)
	})

	t.Run("collects multiple reasons", func(t *testing.T) {
		rule := newTestRule(t, "US-CA", 50, 1)
		input := passingInput(t)
		input.Certificates = nil

		result := Screen(input, rule, now)

		assert.Len(t, result.Reasons, 3)
	})

	t.Run("carries ground-only flag", func(t *testing.T) {
		rule := newTestRule(t, "US-CA", 160, 0)
		rule.RequiresGround = true

		result := Screen(passingInput(t), rule, now)

		assert.Equal(t, VerdictPass, result.Verdict)
		assert.True(t, result.RequiresGround)
	})
}

func TestRegionRule(t *testing.T) {
	t.Run("uppercases region code", func(t *testing.T) {
		rule := newTestRule(t, "us-ca", 160, 0)
		assert.Equal(t, "US-CA", rule.RegionCode)
	})

	t.Run("rejects non-positive limit", func(t *testing.T) {
		_, err := NewRegionRule("US", 0, 0)
		assert.Error(t, err)
	})

	t.Run("update validates limits", func(t *testing.T) {
		rule := newTestRule(t, "US", 160, 0)

		assert.Error(t, rule.Update(-1, 0, false, ""))
		require.NoError(t, rule.Update(100, 2, true, "air embargo"))
		assert.Equal(t, 100.0, rule.MaxWattHours)
		assert.True(t, rule.RequiresGround)
	})
}
