package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/landmark-ics/internal/config"
	"github.com/pfrederiksen/landmark-ics/internal/event"
	"github.com/pfrederiksen/landmark-ics/internal/logger"
)

// Scraper fetches a venue listing page and turns it into events
type Scraper struct {
	client       *http.Client
	cfg          config.Config
	base         *url.URL
	loc          *time.Location
	now          func() time.Time
	log          *logger.Logger
	metrics      *logger.Metrics
	materializer event.Materializer
	strategies   []Strategy
}

// Option customizes a Scraper
type Option func(*Scraper)

// WithClient replaces the HTTP client. The configured fetch timeout is not
// applied to a client passed this way.
func WithClient(c *http.Client) Option {
	return func(s *Scraper) { s.client = c }
}

// WithClock fixes the notion of "now" used for year defaults.
func WithClock(now func() time.Time) Option {
	return func(s *Scraper) { s.now = now }
}

func WithLogger(l *logger.Logger) Option {
	return func(s *Scraper) { s.log = l }
}

func WithMetrics(m *logger.Metrics) Option {
	return func(s *Scraper) { s.metrics = m }
}

// WithoutDetailPages disables following "Read More" links.
func WithoutDetailPages() Option {
	return func(s *Scraper) {
		kept := s.strategies[:0]
		for _, st := range s.strategies {
			if _, ok := st.(detailPage); !ok {
				kept = append(kept, st)
			}
		}
		s.strategies = kept
	}
}

// New creates a Scraper for cfg. cfg is expected to be valid.
func New(cfg config.Config, opts ...Option) (*Scraper, error) {
	base, err := url.Parse(cfg.CalendarURL)
	if err != nil {
		return nil, fmt.Errorf("parsing calendar URL: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	s := &Scraper{
		client: &http.Client{
			Timeout: cfg.FetchTimeout,
		},
		cfg:     cfg,
		base:    base,
		loc:     loc,
		now:     time.Now,
		log:     logger.Default(),
		metrics: logger.NewMetrics(),
		materializer: event.Materializer{
			Duration:  cfg.EventDuration,
			UIDDomain: cfg.UIDDomain,
		},
	}
	s.strategies = []Strategy{
		rangeBlock{loc: loc},
		singleLine{loc: loc, now: s.clock},
		detailPage{scraper: s},
	}

	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Scraper) clock() time.Time { return s.now() }

// Metrics returns the counters and timings collected so far.
func (s *Scraper) Metrics() *logger.Metrics {
	return s.metrics
}

// Strategies lists the extraction strategies in the order they are tried.
func (s *Scraper) Strategies() []string {
	names := make([]string, len(s.strategies))
	for i, st := range s.strategies {
		names[i] = st.Name()
	}
	return names
}

// FetchEvents fetches the listing page and extracts every event on it.
// Failing to fetch the listing is an error; failing to fetch a detail page
// only loses that candidate.
func (s *Scraper) FetchEvents(ctx context.Context) ([]*event.Event, error) {
	doc, err := s.fetchDocument(ctx, s.cfg.CalendarURL, "fetch.listing")
	if err != nil {
		return nil, fmt.Errorf("fetching calendar: %w", err)
	}
	return s.extractEvents(ctx, doc), nil
}

// parseEvents extracts events from an already fetched listing page
func (s *Scraper) parseEvents(ctx context.Context, r io.Reader) ([]*event.Event, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return s.extractEvents(ctx, doc), nil
}

func (s *Scraper) extractEvents(ctx context.Context, doc *goquery.Document) []*event.Event {
	events := make([]*event.Event, 0)
	seen := make(map[string]bool)

	for _, node := range collectCandidates(doc) {
		if ctx.Err() != nil {
			break
		}
		s.metrics.IncrCounter("candidates")

		c, ok := newCandidate(node, s.base)
		if !ok {
			continue
		}
		if seen[c.Title] {
			s.metrics.IncrCounter("candidates.duplicate")
			continue
		}

		starts := s.sessions(ctx, c)
		if len(starts) == 0 {
			s.log.Debug("No showtimes found", logger.Fields{
				"title":     c.Title,
				"date_text": c.DateText,
			})
			continue
		}

		events = append(events, s.materializer.MakeAll(c.Title, starts, c.URL, c.Description)...)
		seen[c.Title] = true
	}

	s.metrics.AddCounter("events", int64(len(events)))
	return events
}

// sessions runs the strategies in order and returns the first non-empty
// result.
func (s *Scraper) sessions(ctx context.Context, c *Candidate) []time.Time {
	for _, st := range s.strategies {
		if starts := st.Sessions(ctx, c); len(starts) > 0 {
			s.metrics.IncrCounter("strategy." + st.Name())
			s.log.Debug("Extracted showtimes", logger.Fields{
				"title":    c.Title,
				"strategy": st.Name(),
				"count":    len(starts),
			})
			return starts
		}
	}
	return nil
}

func (s *Scraper) fetchDocument(ctx context.Context, rawURL, timing string) (*goquery.Document, error) {
	var doc *goquery.Document
	err := s.metrics.Time(timing, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("User-Agent", s.cfg.UserAgent)

		resp, err := s.client.Do(req)
		if err != nil {
			return fmt.Errorf("fetching page: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		doc, err = goquery.NewDocumentFromReader(resp.Body)
		if err != nil {
			return fmt.Errorf("parsing HTML: %w", err)
		}
		return nil
	})
	return doc, err
}
