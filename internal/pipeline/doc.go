// Package pipeline runs the steps of a page build in sequence.
//
// A build fetches the planet feed and the landing page, cleans the landing
// page, renders the feed items, injects them into the page and serializes
// the result. Each stage is a Step that receives the shared Build and fills
// in its part of it; Pipeline.Execute runs the steps in order, logs them,
// stops on the first error and checks for cancellation between steps.
package pipeline
