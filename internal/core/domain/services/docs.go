// Package services contains stateless domain services: business rules that span more
// than one aggregate and therefore cannot live on a single entity.
package services
