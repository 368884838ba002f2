package scraper

import (
	"context"
	"time"

	"github.com/pfrederiksen/landmark-ics/internal/logger"
	"github.com/pfrederiksen/landmark-ics/internal/showtime"
)

// Strategy is one way of turning a candidate into showtimes. Strategies are
// tried in order; an empty result means "not applicable here" and the next
// strategy gets a turn.
type Strategy interface {
	Name() string
	Sessions(ctx context.Context, c *Candidate) []time.Time
}

// rangeBlock reads the bullet list under a "Oct 28 – Nov 1, 2025" heading.
type rangeBlock struct {
	loc *time.Location
}

func (rangeBlock) Name() string { return "range-block" }

func (r rangeBlock) Sessions(_ context.Context, c *Candidate) []time.Time {
	header, ok := c.Line.(showtime.RangeLine)
	if !ok {
		return nil
	}
	return showtime.ExtractSessions(header, allForMatching(c.Bullets), r.loc)
}

// singleLine handles a one-off "October 20, 2025 – 8:00 pm" date text.
type singleLine struct {
	loc *time.Location
	now func() time.Time
}

func (singleLine) Name() string { return "single-line" }

func (s singleLine) Sessions(_ context.Context, c *Candidate) []time.Time {
	line, ok := c.Line.(showtime.SingleLine)
	if !ok {
		return nil
	}
	return line.Instants(s.loc, s.now())
}

// detailPage follows the candidate's "Read More" link and scans the page.
// A failed fetch is logged and yields nothing.
type detailPage struct {
	scraper *Scraper
}

func (detailPage) Name() string { return "detail-page" }

func (d detailPage) Sessions(ctx context.Context, c *Candidate) []time.Time {
	if c.URL == "" {
		return nil
	}

	s := d.scraper
	s.metrics.IncrCounter("detail.fetched")

	doc, err := s.fetchDocument(ctx, c.URL, "fetch.detail")
	if err != nil {
		s.metrics.IncrCounter("detail.failed")
		s.log.Warn("Skipping detail page", logger.Fields{
			"title": c.Title,
			"url":   c.URL,
			"error": err.Error(),
		})
		return nil
	}

	return showtime.ScanDetailText(pageText(doc.Selection), s.loc, s.now())
}
