package holiday

import "context"

// Source abstracts a provider of holidays for a calendar year
// (e.g. the timeanddate.com table or an offline calendar).
//
// Implementations skip entries they cannot parse rather than failing the year;
// an error means the whole year could not be fetched.
type Source interface {
	Name() string
	Holidays(ctx context.Context, year int) ([]Record, error)
}

// Collection is the part of the holiday store the importer writes to.
type Collection interface {
	Add(rec Record) (bool, error)
}
