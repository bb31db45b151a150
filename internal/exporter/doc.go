// Package exporter persists the report artifact. The Excel writer lays down
// one sheet per non-empty tracked year plus the combined rolling-window
// sheet, and appends the bold, color-banded AVERAGE summary row that makes
// the report readable at a glance.
package exporter
