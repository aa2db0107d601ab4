package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hyperifyio/idiomsearch/internal/fetch"
	"github.com/hyperifyio/idiomsearch/internal/search"
	"github.com/hyperifyio/idiomsearch/internal/session"
)

// debugsearch runs one scoped search and prints what the parser kept.
// Usage: debugsearch [keyword] [domain]
func main() {
	q := "一鸣惊人"
	if len(os.Args) > 1 {
		q = os.Args[1]
	}
	domain := "people.com.cn"
	if len(os.Args) > 2 {
		domain = os.Args[2]
	}
	prov := &search.Baidu{
		Client:   &fetch.Client{PerRequestTimeout: 20 * time.Second},
		Session:  session.New(""),
		Endpoint: os.Getenv("SEARCH_ENDPOINT"),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()
	fmt.Println("url:", search.BuildQueryURL(q, domain))
	res, err := prov.Search(ctx, q, domain)
	fmt.Println("err:", err)
	for i, r := range res {
		fmt.Printf("%d. %s - %s\n   %s\n", i+1, r.Title, r.URL, r.Snippet)
	}
}
