// Package murmur embeds the murmur content store and search in another Go
// program. It reads the same Markdown post and status directories the HTTP
// server serves and ranks them with the same search rules.
//
//	client, _ := murmur.New(
//	    murmur.WithContentDirs("data/posts", "data/statuses"),
//	    murmur.WithSegmenter("runs"),
//	)
//	res, _ := client.Search(ctx, "golang", 10)
//	for _, e := range res.Items {
//	    fmt.Println(e.Type, e.ID, e.Time)
//	}
//
// Regex queries use the /pattern/flags form:
//
//	res, _ = client.Search(ctx, "/^deploy(ed|ing)/i", 0)
package murmur
