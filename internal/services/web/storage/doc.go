// Package storage defines the persistence contract for the web service.
package storage
