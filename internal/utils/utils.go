package utils

import (
	"fmt"
	"net/url"
)

// URIToPath returns the file system path of a file:// URI. The parser only
// uses it to name the document in its error messages.
func URIToPath(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", err
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("unsupported URI scheme %q", u.Scheme)
	}
	return u.Path, nil
}
