// Package storage backs the guest's storage_save and storage_load calls.
//
// Memory keeps values for the life of the process. SQLite persists them in
// a single kv table through modernc.org/sqlite, so no cgo is required.
package storage
