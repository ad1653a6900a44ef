package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"multiverse/browser/internal/catalog"
	"multiverse/browser/internal/fetch"
	"multiverse/browser/internal/theme"
	"multiverse/browser/internal/view"

	log "github.com/sirupsen/logrus"
)

const help = `Commands:
  more             load the next page
  search <term>    search the collection, an empty term resets
  reset            reload the first page
  show <id>        show one record
  open <resource>  switch to another resource
  list             list resources
  help             show this help
  quit             exit`

// openSource resolves a resource path like "marvel/comics".
type openSource func(path string) (catalog.Source, error)

// session is one interactive browser run. Each opened resource gets its own
// controller, discarded when another resource is opened.
type session struct {
	out      io.Writer
	themes   *theme.Registry
	open     openSource
	pageSize int
	color    bool

	source     catalog.Source
	controller *fetch.Controller[catalog.Entry]
	renderer   *view.Renderer
}

func (s *session) title() string {
	r := s.source.Resource()
	if r.Name == "" {
		return r.Universe.GetUniverseName()
	}
	return catalog.TitleCase(r.Name)
}

func (s *session) switchTo(ctx context.Context, path string) error {
	source, err := s.open(path)
	if err != nil {
		return err
	}

	controller, err := fetch.New(fetch.Options[catalog.Entry]{
		Name:          source.Resource().Path(),
		PageFetcher:   source.Page,
		SearchFetcher: source.Search(),
		PageSize:      s.pageSize,
		Paging:        source.Paging(),
	})
	if err != nil {
		return err
	}

	if s.controller != nil {
		s.controller.Close()
	}
	s.source = source
	s.controller = controller
	s.renderer = view.New(s.out, s.themes.For(source.Resource().Universe), s.color)

	return s.render(controller.LoadNextPage(ctx))
}

func (s *session) render(st fetch.State[catalog.Entry]) error {
	return s.renderer.RenderList(s.title(), st)
}

// run reads commands from in until quit or EOF.
func (s *session) run(ctx context.Context, in io.Reader, initial string) error {
	if err := s.switchTo(ctx, initial); err != nil {
		return err
	}
	defer s.controller.Close()

	scanner := bufio.NewScanner(in)
	s.prompt()
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		quit, err := s.exec(ctx, scanner.Text())
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
		s.prompt()
	}
	return scanner.Err()
}

func (s *session) prompt() {
	fmt.Fprintf(s.out, "%s> ", s.source.Resource().Path())
}

func (s *session) exec(ctx context.Context, line string) (bool, error) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "":
		return false, nil
	case "quit", "exit":
		return true, nil
	case "help":
		fmt.Fprintln(s.out, help)
	case "list":
		s.listResources()
	case "more":
		st := s.controller.Snapshot()
		if !st.HasMore && !st.Loading {
			fmt.Fprintln(s.out, "Nothing more to load.")
			return false, nil
		}
		return false, s.render(s.controller.LoadNextPage(ctx))
	case "search":
		return false, s.render(s.controller.Search(ctx, arg))
	case "reset":
		return false, s.render(s.controller.Reset(ctx))
	case "show":
		return false, s.show(ctx, arg)
	case "open":
		return false, s.switchTo(ctx, arg)
	default:
		return false, fmt.Errorf("unknown command %q, type help", cmd)
	}
	return false, nil
}

func (s *session) show(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("usage: show <id>")
	}
	fields, err := s.source.Detail(ctx, id)
	if err != nil {
		fe := fetch.NewFetchError("detail", err)
		log.Debugf("%s: %v", s.source.Resource().Path(), fe)
		return s.renderer.RenderError(fe)
	}
	return s.renderer.RenderDetail(s.title()+" "+id, fields)
}
