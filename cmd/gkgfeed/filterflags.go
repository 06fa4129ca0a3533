package main

import (
	"flag"
	"strconv"

	"github.com/heartmarshall/gkgfeed/internal/filter"
)

// addFilterFlags registers the record filter flags on fs.
func addFilterFlags(fs *flag.FlagSet) *filter.Options {
	var o filter.Options
	fs.StringVar(&o.Person, "person", "", "keep records naming a person (substring, case-insensitive)")
	fs.StringVar(&o.Org, "org", "", "keep records naming an organization (substring, case-insensitive)")
	fs.StringVar(&o.Theme, "theme", "", "keep records tagged with a theme (substring)")
	fs.StringVar(&o.Location, "location", "", "keep records mentioning a location (substring, case-insensitive)")
	fs.StringVar(&o.Country, "country", "", "keep records with a location in this FIPS country code")
	fs.StringVar(&o.Source, "source", "", "keep records from a source name (substring, case-insensitive)")
	fs.Func("tone-min", "minimum average tone", floatPtr(&o.ToneMin))
	fs.Func("tone-max", "maximum average tone", floatPtr(&o.ToneMax))
	fs.StringVar(&o.DateFrom, "date-from", "", "earliest record date, YYYYMMDD or YYYYMMDDHHMMSS")
	fs.StringVar(&o.DateTo, "date-to", "", "latest record date, YYYYMMDD or YYYYMMDDHHMMSS")
	fs.BoolVar(&o.HasImage, "has-image", false, "keep records with a sharing image")
	fs.BoolVar(&o.HasQuote, "has-quote", false, "keep records with quotations")
	return &o
}

func floatPtr(dst **float64) func(string) error {
	return func(s string) error {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*dst = &v
		return nil
	}
}

// buildFilter returns nil when no filter flag was set.
func buildFilter(opts *filter.Options) (filter.Filter, error) {
	c, err := filter.Build(*opts)
	if err != nil || c.Empty() {
		return nil, err
	}
	return c, nil
}
