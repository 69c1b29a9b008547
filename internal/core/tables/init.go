// Package tables registers the five retail source tables with the core
// registry. Import it for side effects before running the pipeline.
package tables
