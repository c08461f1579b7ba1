// Package domain defines the shared model types used across ttct:
// section identifiers, Request, and their helper methods.
package domain

import (
	"strconv"
	"time"

	"github.com/alexander-akhmetov/ttct/internal/protocol"
)

// TotalSections is the fixed number of sections in a request.
const TotalSections = 14

// SectionIDs returns the section identifiers in display order ("1".."14").
func SectionIDs() []string {
	ids := make([]string, 0, TotalSections)
	for i := 1; i <= TotalSections; i++ {
		ids = append(ids, strconv.Itoa(i))
	}
	return ids
}

// SectionNumber parses a section id. ok is false for anything outside 1..14,
// including non-canonical forms like "01".
func SectionNumber(id string) (n int, ok bool) {
	n, err := strconv.Atoi(id)
	if err != nil || n < 1 || n > TotalSections || strconv.Itoa(n) != id {
		return 0, false
	}
	return n, true
}

// IsSectionID reports whether id names one of the 14 sections.
func IsSectionID(id string) bool {
	_, ok := SectionNumber(id)
	return ok
}

// NextTarget returns the navigation target after section id: the next
// section, or the dashboard after the last one.
func NextTarget(id string) string {
	n, ok := SectionNumber(id)
	if !ok || n == TotalSections {
		return protocol.DashboardTarget
	}
	return strconv.Itoa(n + 1)
}

// PreviousTarget returns the navigation target before section id: the
// previous section, or the dashboard before the first one.
func PreviousTarget(id string) string {
	n, ok := SectionNumber(id)
	if !ok || n == 1 {
		return protocol.DashboardTarget
	}
	return strconv.Itoa(n - 1)
}

// Request is a contract negotiation request.
type Request struct {
	// ID is the request UUID.
	ID string
	// Status is draft until the request is submitted to TC.
	Status protocol.RequestStatus
	// Title is a free label shown in listings.
	Title       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	SubmittedAt *time.Time
	// SubmittedSnapshot is the JSON document of all section payloads taken at
	// submit time. Empty for requests never submitted.
	SubmittedSnapshot string
}

// IsSubmitted reports whether the request was ever submitted.
func (r *Request) IsSubmitted() bool {
	return r.Status == protocol.RequestSubmitted
}

// ShortID returns the first 8 characters of the id for compact listings.
func (r *Request) ShortID() string {
	if len(r.ID) <= 8 {
		return r.ID
	}
	return r.ID[:8]
}
