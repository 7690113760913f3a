package main

import "fabula/pkg/fabula"

// newLocalClient builds a client for commands that never touch the store.
func newLocalClient() (*fabula.Client, error) {
	return fabula.New(fabula.Options{StoreKind: "memory"})
}
