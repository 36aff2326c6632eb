package metrics

import (
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hati/level"
	"hati/order"
)

func gatherValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		require.Len(t, mf.GetMetric(), 1)
		m := mf.GetMetric()[0]
		if m.GetCounter() != nil {
			return m.GetCounter().GetValue()
		}
		return m.GetGauge().GetValue()
	}
	t.Fatalf("metric %s not gathered", name)
	return 0
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

func TestCollector_ExportsLevelStats(t *testing.T) {
	l := level.NewPriceLevel(100, order.Sell)
	maker := order.Order{
		ID: uuid.New(), Side: order.Sell, Price: 100, Quantity: 10,
		Kind: order.StandardLimit(), TIF: order.GTC(),
	}
	_, err := l.AddOrder(maker, 1, false)
	require.NoError(t, err)

	taker := maker
	taker.ID = uuid.New()
	taker.Side = order.Buy
	taker.Quantity = 7
	l.MatchOrder(taker, 2)

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(NewCollector(l)))

	assert.Equal(t, 1.0, gatherValue(t, reg, "hati_level_orders_added_total"))
	assert.Equal(t, 7.0, gatherValue(t, reg, "hati_level_quantity_executed_total"))
	assert.Equal(t, 700.0, gatherValue(t, reg, "hati_level_value_executed_total"))
	assert.Equal(t, 3.0, gatherValue(t, reg, "hati_level_visible_quantity"))
	assert.Equal(t, 1.0, gatherValue(t, reg, "hati_level_order_count"))
	assert.Equal(t, 2.0, gatherValue(t, reg, "hati_level_last_execution_tick"))
}

func TestCollector_Labels(t *testing.T) {
	l := level.NewPriceLevel(250, order.Buy)
	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(NewCollector(l)))

	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			assert.Equal(t, "250", labelValue(m, "price"))
			assert.Equal(t, "buy", labelValue(m, "side"))
		}
	}
}
