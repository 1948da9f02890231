// Package routing holds the prefix route table used by the secure listener.
//
// A Table is built once from configuration and never changes. Routes are
// kept longest prefix first so that "/api/v2" is tried before "/api" and "/"
// is tried last:
//
//	table, err := routing.NewTable([]routing.Route{
//	    {Prefix: "/", Upstream: "http://127.0.0.1:3000"},
//	    {Prefix: "/api", Upstream: "http://127.0.0.1:9000"},
//	})
//	route, ok := table.Match("/api/users") // the /api route
//	routing.Rewrite(route, "/api/users")   // "/users"
package routing
