// Package transform holds the content transformation applied to every
// source blob and the client interface the pipeline uses to run it, either
// in-process or through an external gRPC plugin with a per-call timeout.
package transform
