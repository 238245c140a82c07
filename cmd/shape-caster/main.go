// Command shape-caster inspects the shop fixture types: it prints their JSON
// Schema under a describer variant and explains how the mapper converts one
// into another.
//
//	shape-caster types
//	shape-caster schema store.Category --variant fields-public-protected --ids content
//	shape-caster explain store.Order warehouse.Order
//	shape-caster config init shape-caster.yaml
package main

import (
	"os"
)

func main() {
	if err := New().Execute(); err != nil {
		os.Exit(1)
	}
}
