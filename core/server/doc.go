// Package server provides the optional HTTP trigger mode.
//
// Instead of a cron-driven CLI invocation, serve mode exposes:
//
//   - GET /healthz: liveness probe, unauthenticated.
//   - POST /runs: trigger one reconciliation pass, guarded by an API key
//     header when configured. Single-flight: overlapping triggers get 409.
//
// Every request carries a RayID for log correlation.
package server
