// Package main is the entry point of the pokeview CLI.
package main

import "os"

func main() {
	os.Exit(Run())
}
