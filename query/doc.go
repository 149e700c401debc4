// Package query exposes read-side handlers for go-gameprofile. Queries never
// mutate state and compose presentation-ready views from the profile store,
// the global user bridge, and the furnace level translator.
package query
