// Package fusegate embeds the fusegate retrieval gateway in a Go program.
//
// The client talks to the search backend directly (Redis with the query
// engine, or PostgreSQL with pgvector) and runs the same keyword, semantic
// and hybrid retrieval as the HTTP server, without the network hop.
//
//	client, _ := fusegate.New(ctx,
//	    fusegate.WithRedis("localhost:6379", ""),
//	    fusegate.WithIndex("fusegate_docs", 1024),
//	    fusegate.WithEmbedder(myEmbedder),
//	)
//	defer client.Close()
//
//	rows, _ := client.Hybrid(ctx, fusegate.Query{Text: "vector search", TenantID: "demo"})
//
// Every call is scoped to exactly one tenant. An empty TenantID means "demo".
package fusegate
