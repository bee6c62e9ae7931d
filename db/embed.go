// Package db provides the embedded PostgreSQL schema and the demo catalog.
package db

import _ "embed"

// Schema contains the DDL statements for the document tables.
//
//go:embed migrations/001_schema.sql
var Schema string

// SeedProducts is a JSON array of demo products loaded by posctl seed.
//
//go:embed seed/products.json
var SeedProducts []byte
