// Package config provides configuration structures and utilities for tradelens.
// It defines the main configuration options for rendering analysis payloads,
// output format selection, and history store settings.
package config
