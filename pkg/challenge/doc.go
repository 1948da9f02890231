// Package challenge serves the plaintext listener.
//
// Only two things happen on plain HTTP: ACME HTTP-01 challenge requests are
// answered by the certificate orchestrator, and everything else is
// redirected to https on the same host and path. Nothing is proxied here.
package challenge
