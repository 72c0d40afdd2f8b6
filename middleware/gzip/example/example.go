package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	ginMime "gin-mime"
	"gin-mime/middleware/gzip"
)

func main() {
	r := ginMime.Default()
	compress := gzip.Gzip(r.Registry(), gzip.DefaultCompression)

	http.Handle("/ping", compress(r.Handle(func(c *ginMime.Context) {
		c.Negotiate(http.StatusOK, "pong "+fmt.Sprint(time.Now().Unix()), "text", "json")
	})))

	// Listen and Server in 0.0.0.0:8080
	if err := http.ListenAndServe(":8080", nil); err != nil {
		log.Fatal(err)
	}
}
