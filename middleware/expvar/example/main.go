package main

import (
	"log"
	"net/http"

	ginMime "gin-mime"
	"gin-mime/middleware/expvar"
)

func main() {
	r := ginMime.Default()
	expvar.Publish("mimetypes", r.Registry())

	http.Handle("/debug/vars", r.Handle(expvar.Handler()))

	if err := http.ListenAndServe(":8080", nil); err != nil {
		log.Fatal(err)
	}
}
