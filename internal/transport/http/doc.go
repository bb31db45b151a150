// Package http exposes the admin HTTP surface used in scheduled mode:
// health, Prometheus metrics, and the on-demand update trigger.
package http
