// Package scraper fetches a venue's public event listing and extracts
// showtimes from it.
//
// Listing containers are found by CSS class, by <article>, and by the
// container around each "Read More" link. For every container the scraper
// tries, in order, the bullet list under a date-range heading, a single
// dated line, and finally the linked detail page. Containers sharing a
// title are only used once.
package scraper
