// Package handler groups the HTTP handlers by resource in subpackages. Shared
// binding and error helpers live in internal/common/handler.
package handler
