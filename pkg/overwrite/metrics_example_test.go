package overwrite

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vnykmshr/overchan/pkg/metrics"
)

// Example_metricsBasic demonstrates metrics collection for an overwrite channel.
func Example_metricsBasic() {
	// Create a separate registry to avoid conflicts
	customRegistry := prometheus.NewRegistry()
	metricsConfig := metrics.Config{
		Enabled:  true,
		Registry: customRegistry,
	}

	tx, rx, err := BoundedWithConfig(Config[string]{
		Capacity: 2,
		Name:     "sensor_readings",
		Metrics:  metricsConfig,
	})
	if err != nil {
		panic(err)
	}
	defer tx.Close()
	defer rx.Close()

	// Fill the channel, then overflow it once
	for _, reading := range []string{"temp=20.1", "temp=20.4", "temp=20.9"} {
		evicted, _ := tx.SendOverwrite(reading)
		fmt.Printf("sent %s, evicted %d\n", reading, len(evicted))
	}

	// Drain what survived
	for i := 0; i < 2; i++ {
		val, _ := rx.Receive(context.Background())
		fmt.Println("received:", val)
	}

	families, _ := customRegistry.Gather()
	fmt.Printf("collected %d metric families\n", len(families))

	// Output:
	// sent temp=20.1, evicted 0
	// sent temp=20.4, evicted 0
	// sent temp=20.9, evicted 1
	// received: temp=20.4
	// received: temp=20.9
	// collected 6 metric families
}

// Example_metricsConfiguration demonstrates enabled and disabled metrics setups.
func Example_metricsConfiguration() {
	// Channel with metrics disabled
	txDisabled, rxDisabled, err := BoundedWithConfig(Config[int]{
		Capacity: 4,
		Name:     "disabled_channel",
	})
	if err != nil {
		panic(err)
	}
	defer txDisabled.Close()
	defer rxDisabled.Close()

	// Channel with metrics enabled on a separate registry
	customRegistry := prometheus.NewRegistry()
	txEnabled, rxEnabled, err := BoundedWithConfig(Config[int]{
		Capacity: 4,
		Name:     "enabled_channel",
		Metrics: metrics.Config{
			Enabled:  true,
			Registry: customRegistry,
		},
	})
	if err != nil {
		panic(err)
	}
	defer txEnabled.Close()
	defer rxEnabled.Close()

	// Both channels work the same regardless of metrics
	_, err = txDisabled.SendOverwrite(1)
	fmt.Printf("Disabled channel send ok: %v\n", err == nil)
	_, err = txEnabled.SendOverwrite(1)
	fmt.Printf("Enabled channel send ok: %v\n", err == nil)

	fmt.Printf("Enabled channel has metrics: %v\n", txEnabled.MetricsEnabled())
	fmt.Printf("Disabled channel has metrics: %v\n", txDisabled.MetricsEnabled())

	// Metrics can be toggled at runtime from any handle
	rxEnabled.DisableMetrics()
	fmt.Printf("After disable: %v\n", txEnabled.MetricsEnabled())

	// Output:
	// Disabled channel send ok: true
	// Enabled channel send ok: true
	// Enabled channel has metrics: true
	// Disabled channel has metrics: false
	// After disable: false
}
