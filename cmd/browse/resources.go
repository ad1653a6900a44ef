package main

import (
	"fmt"
	"io"

	"multiverse/browser/internal/domain"
)

func printResources(w io.Writer) {
	fmt.Fprintln(w, "Resources:")
	for _, r := range domain.Resources {
		note := ""
		if !r.Searchable {
			note = " (no search)"
		}
		fmt.Fprintf(w, "  %-28s %s%s\n", r.Path(), r.Universe.GetUniverseName(), note)
	}
}

func (s *session) listResources() {
	printResources(s.out)
}
