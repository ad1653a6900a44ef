package client

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestMarvelClient(t *testing.T, handler http.HandlerFunc) *marvelClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &marvelClient{
		rest:       newRestClient("marvel", srv.URL, testHTTPConfig(), nil),
		publicKey:  "pub",
		privateKey: "priv",
		now:        func() time.Time { return time.Unix(1700000000, 0) },
	}
}

func TestMarvelClient_signsRequests(t *testing.T) {
	t.Parallel()

	sum := md5.Sum([]byte("1700000000" + "priv" + "pub"))
	wantHash := hex.EncodeToString(sum[:])

	c := newTestMarvelClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("ts") != "1700000000" || q.Get("apikey") != "pub" || q.Get("hash") != wantHash {
			t.Errorf("auth params got ts=%q apikey=%q hash=%q", q.Get("ts"), q.Get("apikey"), q.Get("hash"))
		}
		if q.Get("nameStartsWith") != "spi" || q.Get("orderBy") != "name" {
			t.Errorf("query got %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"code":200,"data":{"offset":0,"limit":20,"total":1,"results":[
			{"id":1009610,"name":"Spider-Man","description":"<p>Bitten by a <b>spider</b></p>",
			 "thumbnail":{"path":"http://i.annihil.us/spidey","extension":"jpg"},
			 "comics":{"available":4000},"urls":[{"type":"detail","url":"http://marvel.com/spidey"}]}]}}`))
	})

	page, err := c.ListCharacters(context.Background(), 20, 0, "spi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 1 || len(page.Results) != 1 {
		t.Fatalf("page got %+v", page)
	}
	got := page.Results[0]
	if got.Description != "Bitten by a spider" {
		t.Fatalf("Description got %q", got.Description)
	}
	if got.Thumbnail != "http://i.annihil.us/spidey.jpg" {
		t.Fatalf("Thumbnail got %q", got.Thumbnail)
	}
	if got.ComicsAvailable != 4000 || got.DetailURL != "http://marvel.com/spidey" {
		t.Fatalf("character got %+v", got)
	}
}

func TestMarvelClient_omitsEmptyFilter(t *testing.T) {
	t.Parallel()

	c := newTestMarvelClient(t, func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.URL.Query()["titleStartsWith"]; ok {
			t.Errorf("titleStartsWith should be omitted, query %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"data":{"total":0,"results":[]}}`))
	})

	if _, err := c.ListComics(context.Background(), 20, 40, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMarvelClient_GetComic(t *testing.T) {
	t.Parallel()

	c := newTestMarvelClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/comics/404" {
			_, _ = w.Write([]byte(`{"data":{"total":0,"results":[]}}`))
			return
		}
		_, _ = w.Write([]byte(`{"data":{"total":1,"results":[{"id":1,"title":"Amazing","description":null,
			"prices":[{"type":"digitalPurchasePrice","price":1.99},{"type":"printPrice","price":3.99}],
			"dates":[{"type":"focDate","date":"2019-05-01T00:00:00-0400"},{"type":"onsaleDate","date":"2019-06-12T00:00:00-0400"}],
			"series":{"name":"Amazing Spider-Man"}}]}}`))
	})

	comic, err := c.GetComic(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if comic.Price != 3.99 {
		t.Fatalf("Price got %v, want 3.99", comic.Price)
	}
	if comic.PublicationDate == nil || comic.PublicationDate.Format("2006-01-02") != "2019-06-12" {
		t.Fatalf("PublicationDate got %v", comic.PublicationDate)
	}
	if comic.Description != "" || comic.Series != "Amazing Spider-Man" {
		t.Fatalf("comic got %+v", comic)
	}

	if _, err := c.GetComic(context.Background(), 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty result got %v, want ErrNotFound", err)
	}
}
