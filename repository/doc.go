// Package repository provides a generic repository abstraction built on Bun
// for CRUD operations, restriction-driven querying, derived method-name
// queries, offset and cursor pagination, transactions, and upsert support.
package repository
