// Package services defines shared utilities consumed by the review service
// and its adapters.
//
// Key responsibilities:
//   - Context helpers that stamp session IDs, media stems, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper so adapters can translate
//     failures into HTTP statuses and CLI messages without inspecting domain
//     packages.
package services
