// Package main provides the shopscout CLI.
//
// shopscout searches e-commerce storefronts for a product with a headless
// browser and returns the listings it finds.
//
// Usage:
//
//	shopscout serve
//	shopscout search "auriculares bluetooth"
//	shopscout search --site amazon --format markdown "auriculares"
package main

func main() {
	Execute()
}
