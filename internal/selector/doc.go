// Package selector evaluates one repeated item against every candidate
// container and picks the container with the highest volume utilization.
// Each evaluation owns its own packer, so candidates may be evaluated
// concurrently; the ranking always follows input order.
package selector
