package expiry

import (
	"testing"
	"time"

	"guardianrx/m/domain"
)

var now = time.Date(2025, time.March, 10, 10, 0, 0, 0, time.UTC)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		expiry   time.Time
		wantTier domain.Tier
		wantDays int
	}{
		{"long past", now.Add(-1000 * time.Hour), domain.TierExpired, -41},
		{"yesterday", now.Add(-24 * time.Hour), domain.TierExpired, -1},
		{"exactly now", now, domain.TierExpired, 0},
		{"one hour from now", now.Add(time.Hour), domain.TierCritical, 1},
		{"five days", now.Add(5 * 24 * time.Hour), domain.TierCritical, 5},
		{"6.1 days reads seven", now.Add(time.Duration(6.1 * 24 * float64(time.Hour))), domain.TierCritical, 7},
		{"exactly seven days", now.Add(7 * 24 * time.Hour), domain.TierCritical, 7},
		{"eight days", now.Add(8 * 24 * time.Hour), domain.TierWarning, 8},
		{"exactly thirty days", now.Add(30 * 24 * time.Hour), domain.TierWarning, 30},
		{"thirty-one days", now.Add(31 * 24 * time.Hour), domain.TierSafe, 31},
		{"next year", now.AddDate(1, 0, 0), domain.TierSafe, 365},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, days := Classify(tt.expiry, now)
			if tier != tt.wantTier {
				t.Errorf("Classify() tier = %q, want %q", tier, tt.wantTier)
			}
			if days != tt.wantDays {
				t.Errorf("Classify() days = %d, want %d", days, tt.wantDays)
			}
		})
	}
}

// An item whose expiry midnight has already passed today must be expired even
// though the ceiling day-count alone would read zero, and an item expiring
// later today by timestamp must not be expired yet.
func TestClassifyBoundaryUsesTimestamps(t *testing.T) {
	midnightToday := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	tier, days := Classify(midnightToday, now)
	if tier != domain.TierExpired {
		t.Errorf("midnight already passed: tier = %q, want expired", tier)
	}
	if days != 0 {
		t.Errorf("midnight already passed: days = %d, want 0", days)
	}

	laterToday := now.Add(30 * time.Minute)
	tier, days = Classify(laterToday, now)
	if tier != domain.TierCritical {
		t.Errorf("expiry later today: tier = %q, want critical", tier)
	}
	if days != 1 {
		t.Errorf("expiry later today: days = %d, want 1", days)
	}
}

func TestTierPriority(t *testing.T) {
	pairs := map[domain.Tier]domain.Priority{
		domain.TierExpired:  domain.PriorityCritical,
		domain.TierCritical: domain.PriorityHigh,
		domain.TierWarning:  domain.PriorityMedium,
		domain.TierSafe:     "",
	}
	for tier, want := range pairs {
		if got := tier.Priority(); got != want {
			t.Errorf("Priority(%q) = %q, want %q", tier, got, want)
		}
	}
}

func TestClassifyItem(t *testing.T) {
	item := domain.MedicineItem{ExpiryDate: domain.NewDate(2025, time.March, 15)}
	tier, days := ClassifyItem(item, now)
	if tier != domain.TierCritical {
		t.Errorf("ClassifyItem() tier = %q, want critical", tier)
	}
	if days != 5 {
		t.Errorf("ClassifyItem() days = %d, want 5", days)
	}
}
