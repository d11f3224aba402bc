// Package tides turns water-level series into discrete high and low tide
// events and links consecutive events into a continuous tide curve.
package tides
