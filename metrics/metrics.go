// Package metrics exposes price-level statistics as Prometheus
// collectors. It is a read-only consumer of the level's public contract;
// nothing here touches matching state.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"hati/level"
)

const namespace = "hati"

// Collector implements prometheus.Collector over a set of price levels.
// Metrics are labelled by price and side and read straight from the
// levels' atomic counters at scrape time, so a scrape is as cheap as a
// snapshot.
type Collector struct {
	levels []*level.PriceLevel

	ordersAdded      *prometheus.Desc
	ordersRemoved    *prometheus.Desc
	ordersExecuted   *prometheus.Desc
	quantityExecuted *prometheus.Desc
	valueExecuted    *prometheus.Desc
	valueOverflows   *prometheus.Desc
	visibleQuantity  *prometheus.Desc
	hiddenQuantity   *prometheus.Desc
	orderCount       *prometheus.Desc
	lastExecution    *prometheus.Desc
}

// NewCollector builds a collector for the given levels.
func NewCollector(levels ...*level.PriceLevel) *Collector {
	labels := []string{"price", "side"}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "level", name),
			help, labels, nil,
		)
	}
	return &Collector{
		levels:           levels,
		ordersAdded:      desc("orders_added_total", "Orders accepted into the level."),
		ordersRemoved:    desc("orders_removed_total", "Orders removed without execution."),
		ordersExecuted:   desc("orders_executed_total", "Orders fully consumed by matching."),
		quantityExecuted: desc("quantity_executed_total", "Total quantity traded."),
		valueExecuted:    desc("value_executed_total", "Total value traded in price ticks."),
		valueOverflows:   desc("value_overflows_total", "Saturating additions to the value counter."),
		visibleQuantity:  desc("visible_quantity", "Visible quantity resting at the level."),
		hiddenQuantity:   desc("hidden_quantity", "Hidden reserve resting at the level."),
		orderCount:       desc("order_count", "Orders resting at the level."),
		lastExecution:    desc("last_execution_tick", "Tick of the most recent execution."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.ordersAdded
	ch <- c.ordersRemoved
	ch <- c.ordersExecuted
	ch <- c.quantityExecuted
	ch <- c.valueExecuted
	ch <- c.valueOverflows
	ch <- c.visibleQuantity
	ch <- c.hiddenQuantity
	ch <- c.orderCount
	ch <- c.lastExecution
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, l := range c.levels {
		price := strconv.FormatUint(l.Price(), 10)
		side := l.Side().String()
		stats := l.Stats()

		counter := func(d *prometheus.Desc, v uint64) {
			ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v), price, side)
		}
		gauge := func(d *prometheus.Desc, v uint64) {
			ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, float64(v), price, side)
		}

		counter(c.ordersAdded, stats.OrdersAdded())
		counter(c.ordersRemoved, stats.OrdersRemoved())
		counter(c.ordersExecuted, stats.OrdersExecuted())
		counter(c.quantityExecuted, stats.QuantityExecuted())
		counter(c.valueExecuted, stats.ValueExecuted())
		counter(c.valueOverflows, stats.Overflows())
		gauge(c.visibleQuantity, l.VisibleQuantity())
		gauge(c.hiddenQuantity, l.HiddenQuantity())
		gauge(c.orderCount, uint64(l.OrderCount()))
		gauge(c.lastExecution, stats.LastExecutionTick())
	}
}
