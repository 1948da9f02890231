// Luciuz is an edge server: it terminates TLS with ACME-issued certificates
// and forwards requests to upstream services by path prefix.
//
// Usage:
//
//	# Validate a configuration and print the effective values
//	luciuz check --config luciuz.yaml
//
//	# Run the server
//	luciuz run --config luciuz.yaml
//
//	# Generate a self-signed pair for the static TLS mode
//	luciuz certs generate --host localhost,127.0.0.1
//
//	# Inspect a certificate
//	luciuz certs info certs/cert.pem
package main

func main() {
	Execute()
}
