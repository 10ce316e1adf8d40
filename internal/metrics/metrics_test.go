package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.JobClaim(true)
	m.JobClaim(false)
	m.JobClaim(false)
	if got := testutil.ToFloat64(m.JobClaims.WithLabelValues("lost")); got != 2 {
		t.Errorf("lost claims = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.JobClaims.WithLabelValues("won")); got != 1 {
		t.Errorf("won claims = %v, want 1", got)
	}

	m.Materialized(3)
	m.Materialized(0)
	if got := testutil.ToFloat64(m.InstancesMaterialized); got != 3 {
		t.Errorf("materialized = %v, want 3", got)
	}

	m.LedgerEntry("payout")
	if got := testutil.ToFloat64(m.LedgerEntries.WithLabelValues("payout")); got != 1 {
		t.Errorf("payout entries = %v, want 1", got)
	}

	m.ClientConnected()
	m.ClientConnected()
	m.ClientDisconnected()
	if got := testutil.ToFloat64(m.WebsocketClients); got != 1 {
		t.Errorf("clients = %v, want 1", got)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ChoreTransition("approve")
	m.JobTransition("approve")
	m.JobClaim(true)
	m.Materialized(1)
	m.LedgerEntry("payout")
	m.ClientConnected()
	m.ClientDisconnected()
}
