// Package layers provides built-in connector layers: retry with exponential
// backoff, structured logging, response caching, and Prometheus metrics.
// Layers compose at executor construction time; each wraps exactly one inner
// connector and forwards anything it does not intercept unchanged.
package layers
