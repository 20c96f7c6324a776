// Package main provides the entry point for the spdoc CLI.
//
// spdoc generates technical documentation for stored procedures from
// YAML documentation records.
//
// Usage:
//
//	spdoc init
//	spdoc generate usp_Customer_Update.yaml
//	spdoc generate -f html -f text records/*.yaml
//
// See --help for all available options.
package main

// main is the entry point for spdoc.
func main() {
	Execute()
}
