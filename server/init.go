package main

import (
	"log"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/pflag"
)

// httpParams stores the http connection parameters
type httpParams struct {
	address string
	prefix  string
	root    string
}

func main() {
	httpConn := &httpParams{}
	pflag.StringVar(&httpConn.address, "address", "localhost:5000", "address to listen on")
	pflag.StringVar(&httpConn.prefix, "prefix", "/", "URL prefix the files are served under")
	pflag.StringVar(&httpConn.root, "root", ".", "directory holding index.html and the wasm build")
	pflag.Parse()

	if err := initServer(httpConn); err != nil {
		log.Fatalln(err)
	}
}

// newRouter serves the static files of the demo.
func newRouter(root, prefix string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("Cache-Control", "no-cache"))

	files := http.StripPrefix(prefix, http.FileServer(http.Dir(root)))
	r.Handle(prefix+"*", files)
	return r
}

// initServer initializes the webserver
func initServer(p *httpParams) error {
	root, err := filepath.Abs(p.root)
	if err != nil {
		return err
	}

	log.Printf("serving %s as %s on %s", root, p.prefix, p.address)
	httpServer := http.Server{
		Addr:    p.address,
		Handler: newRouter(root, p.prefix),
	}
	return httpServer.ListenAndServe()
}
