package view

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"multiverse/browser/internal/catalog"
	"multiverse/browser/internal/fetch"
	"multiverse/browser/internal/theme"
)

const (
	loadingText  = "Loading..."
	noResults    = "No results found."
	moreHint     = "More available: type \"more\"."
	searchFooter = "Type \"reset\" to go back to the full list."
)

// Renderer writes list and detail screens for one universe.
type Renderer struct {
	w     io.Writer
	theme theme.Theme
	color bool
}

func New(w io.Writer, th theme.Theme, color bool) *Renderer {
	return &Renderer{w: w, theme: th, color: color}
}

// RenderList writes the items of st followed by its status line.
func (r *Renderer) RenderList(title string, st fetch.State[catalog.Entry]) error {
	var b strings.Builder

	heading := r.theme.Name + " · " + title
	if st.Searching {
		heading += fmt.Sprintf(" · search %q", st.Term)
	}
	b.WriteString(r.accent(heading) + "\n")

	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	for _, e := range st.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.Title, e.Subtitle, strings.Join(e.Tags, ", "), r.theme.Image(e.Image))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	switch {
	case st.Loading:
		b.WriteString(loadingText + "\n")
	case st.Err != nil:
		b.WriteString(r.accent(st.ErrorMessage()) + "\n")
	case st.Empty():
		b.WriteString(noResults + "\n")
	}

	if !st.Loading {
		b.WriteString(r.summary(st) + "\n")
	}

	_, err := io.WriteString(r.w, b.String())
	return err
}

func (r *Renderer) summary(st fetch.State[catalog.Entry]) string {
	shown := strconv.Itoa(len(st.Items)) + " shown"
	if st.TotalCount != nil {
		shown += " of " + strconv.Itoa(*st.TotalCount)
	}
	switch {
	case st.Searching:
		return shown + ". " + searchFooter
	case st.HasMore:
		return shown + ". " + moreHint
	default:
		return shown + "."
	}
}

// RenderDetail writes one record as aligned key/value lines. Image fields
// go through the fallback policy of the theme.
func (r *Renderer) RenderDetail(title string, fields []catalog.Field) error {
	var b strings.Builder
	b.WriteString(r.accent(r.theme.Name+" · "+title) + "\n")

	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	for _, f := range fields {
		value := f.Value
		if isImageKey(f.Key) {
			value = r.theme.Image(value)
		}
		fmt.Fprintf(tw, "%s\t%s\n", f.Key, value)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := io.WriteString(r.w, b.String())
	return err
}

// RenderError writes a failed detail lookup.
func (r *Renderer) RenderError(err *fetch.FetchError) error {
	_, werr := io.WriteString(r.w, r.accent(err.Message())+"\n")
	return werr
}

func isImageKey(key string) bool {
	last := key
	if i := strings.LastIndex(key, "."); i >= 0 {
		last = key[i+1:]
	}
	switch last {
	case "image", "thumbnail", "front_default", "front_shiny", "back_default", "back_shiny", "official_artwork", "dream_world":
		return true
	}
	return false
}

func (r *Renderer) accent(s string) string {
	if !r.color {
		return s
	}
	red, green, blue, ok := parseHex(r.theme.Accent)
	if !ok {
		return s
	}
	return fmt.Sprintf("\x1b[1;38;2;%d;%d;%dm%s\x1b[0m", red, green, blue, s)
}

func parseHex(hex string) (uint8, uint8, uint8, bool) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}
