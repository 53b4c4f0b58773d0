/*
Package monitoring provides Prometheus metrics for the file operations service.

# Overview

Metrics are registered against a caller-supplied prometheus.Registerer so
tests and embedded uses can keep their own registry. A nil *Metrics is a
valid no-op collector.

# Features

- Operation counts by outcome and duration (lock wait included)
- Bytes moved by read, write, and streaming transfers
- Lock wait time by mode (shared, exclusive)
- Registry size and capacity rejections
- Lost audit records
- HTTP request metrics for the optional API

# Usage

	reg := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(reg)

	timer := monitoring.NewTimer(metrics, "write")
	// ... perform operation ...
	timer.Stop("ok")

# Metrics Endpoint

	router.GET("/metrics", gin.WrapH(monitoring.Handler(reg)))
*/
package monitoring
