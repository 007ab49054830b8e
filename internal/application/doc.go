// Package application provides application initialization and dependency wiring.
// It loads the carton catalog and creates the storage, evaluator, metrics,
// handlers, routers and HTTP server instances, making the main package cleaner
// and more focused on CLI parsing and orchestration.
package application
