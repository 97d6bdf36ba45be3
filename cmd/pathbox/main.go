// Package main provides the pathbox CLI: it runs a WASM guest with
// filesystem access mediated through its own command-line arguments.
package main

func main() {
	Execute()
}
