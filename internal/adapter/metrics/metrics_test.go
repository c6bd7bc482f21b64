package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	domain "user-sync/internal/domain/user"
	usecase "user-sync/internal/usecase/user"
)

func TestStoreObserver_SetsGauges(t *testing.T) {
	observe := StoreObserver()

	observe(usecase.Event{
		Type: usecase.EventStarted,
		Snapshot: usecase.Snapshot{
			Users:   []domain.User{{ID: 1}, {ID: 2}},
			Loading: true,
		},
	})
	assert.Equal(t, 2.0, testutil.ToFloat64(StoreUsers))
	assert.Equal(t, 1.0, testutil.ToFloat64(StoreInflight))

	observe(usecase.Event{
		Type:     usecase.EventSucceeded,
		Snapshot: usecase.Snapshot{Users: []domain.User{{ID: 1}}},
	})
	assert.Equal(t, 1.0, testutil.ToFloat64(StoreUsers))
	assert.Equal(t, 0.0, testutil.ToFloat64(StoreInflight))
}

func TestRemoteRequestsTotal_Labels(t *testing.T) {
	before := testutil.ToFloat64(RemoteRequestsTotal.WithLabelValues("list", "ok"))

	RemoteRequestsTotal.WithLabelValues("list", "ok").Inc()

	assert.Equal(t, before+1, testutil.ToFloat64(RemoteRequestsTotal.WithLabelValues("list", "ok")))
}
