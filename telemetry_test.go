package thermostate

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// sumOf returns the value of the int64 sum named name whose data point carries
// the given attributes, or zero if there is none.
func sumOf(rm metricdata.ResourceMetrics, name string, attrs ...attribute.KeyValue) int64 {
	want := attribute.NewSet(attrs...)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				if dp.Attributes.Equals(&want) {
					return dp.Value
				}
			}
		}
	}
	return 0
}

// The instruments are created from the global meter provider during init, and
// forward their measurements once a provider is installed. No other test of this
// package may install one.
func TestTelemetry(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer provider.Shutdown(context.Background())
	otel.SetMeterProvider(provider)

	collect := func() metricdata.ResourceMetrics {
		t.Helper()
		var rm metricdata.ResourceMetrics
		if err := reader.Collect(context.Background(), &rm); err != nil {
			t.Fatal("Collect:", err)
		}
		return rm
	}

	var o countingOracle
	s := newAir(t, &o, WithPairs("P", 101325, "T", 293.15, "R", 0.5))
	_ = s.Set(HumRat, 0.007)
	_ = s.Set(RelHum, 2)
	_ = s.Reset(TempK, 450)
	mustGet(t, s, Vol)
	mustGet(t, s, Vol)
	_ = s.SetAuxiliary("water")

	rm := collect()
	kind := attribute.String(stateKind, "humid-air")
	tests := []struct {
		name  string
		attrs []attribute.KeyValue
		want  int64
	}{
		{"thermostate.writes.rejected", []attribute.KeyValue{kind, attribute.String(rejectionReason, "over_constrained")}, 1},
		{"thermostate.writes.rejected", []attribute.KeyValue{kind, attribute.String(rejectionReason, "range")}, 1},
		{"thermostate.writes.rejected", []attribute.KeyValue{kind, attribute.String(rejectionReason, "physically_invalid")}, 1},
		{"thermostate.writes.rejected", []attribute.KeyValue{kind, attribute.String(rejectionReason, "invalid_auxiliary")}, 1},
		{"thermostate.oracle.failures", []attribute.KeyValue{kind, attribute.String(oracleCode, "P")}, 1},
		{"thermostate.cache.recomputations", []attribute.KeyValue{kind, attribute.String(oracleCode, "V")}, 1},
	}
	for _, tc := range tests {
		if got := sumOf(rm, tc.name, tc.attrs...); got != tc.want {
			t.Errorf("%s%v = %d, want %d", tc.name, tc.attrs, got, tc.want)
		}
	}
}
