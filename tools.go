//go:build tools
// +build tools

// Package tools tracks tool dependencies (mockgen) so go.mod stays in sync
// with `go generate ./...`.
package main

import (
	_ "go.uber.org/mock/mockgen"
)
