package client

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
)

var trailingIDRegex = regexp.MustCompile(`/(\d+)/?$`)

// idFromURL extracts the numeric id at the end of a resource URL such as
// https://rickandmortyapi.com/api/episode/28.
func idFromURL(url string) (int, bool) {
	matches := trailingIDRegex.FindStringSubmatch(url)
	if len(matches) < 2 {
		return 0, false
	}
	id, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, false
	}
	return id, true
}

func idsFromURLs(urls []string) []int {
	ids := make([]int, 0, len(urls))
	for _, u := range urls {
		if id, ok := idFromURL(u); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// stripHTML turns an HTML fragment into plain text with collapsed whitespace.
func stripHTML(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.Join(strings.Fields(fragment), " ")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		log.Debugf("Failed to parse HTML fragment, keeping raw text: %v", err)
		return strings.Join(strings.Fields(fragment), " ")
	}
	doc.Find("br, p, li").Each(func(i int, s *goquery.Selection) {
		s.BeforeHtml(" ")
	})

	return strings.Join(strings.Fields(doc.Text()), " ")
}

// parseDate reads the date part of timestamps like "2019-06-12T00:00:00-0400"
// or "2008-06-02 00:00:00". Invalid dates return nil.
func parseDate(value string) *time.Time {
	if len(value) < 10 {
		return nil
	}
	t, err := time.Parse("2006-01-02", value[:10])
	if err != nil {
		return nil
	}
	return &t
}

// cleanFlavorText removes the line and form feeds PokeAPI keeps from the games.
func cleanFlavorText(text string) string {
	replacer := strings.NewReplacer("\n", " ", "\f", " ")
	return replacer.Replace(text)
}
