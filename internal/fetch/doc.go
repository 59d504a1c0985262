// Package fetch retrieves release artifacts over HTTP. Downloads land via a
// temp-file rename so interrupted transfers never leave partial files, and
// entries that declare a digest are verified before installation.
package fetch
