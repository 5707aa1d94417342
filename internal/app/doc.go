// Package app is the composition layer of the storefront service.
//
// It wires the stores under storage/ into the services under services/ and
// exposes them on Application, which cmd/appserver and httpapi consume.
//
//	internal/app/
//	├── application.go      # Application, Stores, Reset
//	├── domain/             # record types: user, purchase, payment
//	├── storage/            # store interfaces
//	│   └── memory/         # single-lock in-memory implementation
//	├── validation/         # typed request inputs and field errors
//	├── services/           # users, purchases, payments, admin, ownership
//	├── httpapi/            # gorilla/mux routes and audit trail
//	└── metrics/            # Prometheus collectors
//
// Writes flow through shape validation (validation), then the store, which
// performs the referential and uniqueness checks and the insert under one
// lock. Reads of per-user records pass the ownership check first.
package app
