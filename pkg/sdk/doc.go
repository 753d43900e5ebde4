// Package sdk is a Go client for the shopsearch HTTP API.
//
//	client, _ := sdk.New("http://localhost:8080", sdk.WithAPIKey(key))
//	res, _ := client.Search(ctx, shopsearch.Query{Text: "running shoes under $100"})
//	for _, it := range res.Items {
//	    fmt.Println(it.Name, it.Score)
//	}
//
// Results use the types of the shopsearch package, so code written against
// the embedded client works unchanged against a remote server.
package sdk
