// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic and the app
// layer depend only on these interfaces, never on concrete implementations.
package ports
