// Package docai wraps Google Document AI for the criteria-extraction pipeline.
//
// The package submits PDF bytes to a configured Document AI processor and
// converts the proto response into a Result that the rest of the pipeline can
// consume without touching the proto types: full text, generic entities with
// confidence and bounding regions, table cell grids, and per-page raster
// images suitable for cropping.
//
// Failures from the service are classified into a small taxonomy (auth, quota,
// transient, unsupported format). Quota and transient errors are retried with
// exponential backoff before being surfaced; auth and format errors are
// terminal and returned immediately.
//
// Main entry points:
//
// - New: builds a client from the resolved configuration
// - Client.Process: submits one document, applying the retry policy
// - ResultFromProto: converts a raw Document proto into a Result
//
// Authentication uses the service account key file named in the configuration.
package docai
