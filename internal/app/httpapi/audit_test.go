package httpapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/R3E-Network/storefront/pkg/admin"
)

func TestAuditTrail_WrapsAndFilters(t *testing.T) {
	trail := newAuditTrail(4, nil)
	kinds := []string{admin.KindUser, admin.KindPurchase, admin.KindPayment, admin.KindPurchase, admin.KindUser, admin.KindPurchase}
	for i, kind := range kinds {
		require.NoError(t, trail.append(admin.AuditEntry{Kind: kind, RecordID: int64(i + 1)}))
	}

	ids := func(entries []admin.AuditEntry) []int64 {
		out := make([]int64, 0, len(entries))
		for _, e := range entries {
			out = append(out, e.RecordID)
		}
		return out
	}

	assert.Equal(t, []int64{3, 4, 5, 6}, ids(trail.recent("", 0)))
	assert.Equal(t, []int64{5, 6}, ids(trail.recent("", 2)))
	assert.Equal(t, []int64{4, 6}, ids(trail.recent(admin.KindPurchase, 0)))
	assert.Equal(t, []int64{6}, ids(trail.recent(admin.KindPurchase, 1)))
	assert.Equal(t, []int64{3}, ids(trail.recent(admin.KindPayment, 0)))
}

func TestAuditTrail_EmptyAndDefaultCapacity(t *testing.T) {
	trail := newAuditTrail(0, nil)
	assert.Len(t, trail.slots, defaultAuditCapacity)
	assert.NotNil(t, trail.recent("", 10))
	assert.Empty(t, trail.recent("", 10))
}
