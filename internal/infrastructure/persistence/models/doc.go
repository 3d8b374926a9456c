// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// Key Principles:
// 1. Domain entities carry no GORM tags
// 2. Persistence models hold the GORM annotations and table mappings
// 3. ToDomain/FromDomain mappers convert between the two
//
// Structure:
// - base.go: BaseModel and the model list used by test schemas
// - catalog.go: products and categories
// - cart.go: carts, cart items and the expanded cart line row
package models
