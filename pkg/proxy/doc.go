// Package proxy forwards requests from the secure listener to upstream
// services.
//
// # Architecture
//
//   - Forwarder: the single http.Handler serving every configured route
//   - Client: one shared outbound *http.Client that never follows redirects
//   - Middleware: request IDs, access logging and panic recovery
//
// # Request Flow
//
// Each request goes through four stages and stops at the first failure:
//
//  1. match: the route table picks the longest prefix covering the path
//  2. rewrite: the prefix is stripped and the query is kept verbatim
//  3. send: the body (bounded by MaxBodyBytes) and the filtered headers are
//     sent under the route's timeout
//  4. translate: the upstream status, headers and body are relayed
//
// # Errors
//
// Failures are reported with a fixed plain-text body. Internal causes are
// logged and never sent to the client.
//
//	payload_too_large  413  payload too large
//	bad_gateway        502  bad gateway
//	gateway_timeout    504  gateway timeout
//	no_route           404  no route
//
// # Usage
//
//	table, _ := routing.NewTable(routes)
//	fwd := proxy.NewForwarder(proxy.NewClient(proxy.ClientConfig{}), table, proxy.Options{
//	    MaxBodyBytes: cfg.Proxy.MaxBodyBytes,
//	    Timeout:      cfg.Proxy.UpstreamTimeout,
//	})
//	handler := middleware.Chain(fwd, logger)
package proxy
