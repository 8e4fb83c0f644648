// Package openapi exposes the loader and parser contracts used to derive
// annotated form specs from OpenAPI documents. Implementations live under
// internal/openapi so kin-openapi types never reach callers; construct them
// through the root formbind package.
package openapi
