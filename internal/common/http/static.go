package http

import (
	"net/http"

	"github.com/nickgeorgouses/note-app/internal/common/constants"
)

// RootHandler answers the bare "/" with the plain-text greeting.
func RootHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(constants.RootGreeting))
	}
}

// StaticHandler serves files from dir. Directory listings are not exposed.
func StaticHandler(dir string) http.Handler {
	return http.FileServer(noListingFS{http.Dir(dir)})
}

type noListingFS struct {
	fs http.FileSystem
}

func (n noListingFS) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}

	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if stat.IsDir() {
		index, err := n.fs.Open(name + "/index.html")
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		_ = index.Close()
	}

	return f, nil
}
