// Package services contains the core business logic, implementing the
// driving port interfaces using driven port dependencies.
//
// Services are constructed with their dependencies injected, keeping
// the core free of adapter imports. The vault service owns the import
// pipeline (normalise, chunk, persist, index); the search service owns
// hybrid retrieval and frame assembly for downstream consumers.
package services
