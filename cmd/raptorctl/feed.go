package main

import (
	"os"

	"github.com/pkg/errors"

	"github.com/aubryio/raptorgo/internal/feed"
	"github.com/aubryio/raptorgo/internal/timetable"
	"github.com/aubryio/raptorgo/internal/wire"
)

// loadTimetable builds a Timetable from whichever of --feed-dir/--timetable
// was given. Exactly one must be set.
func loadTimetable() (*timetable.Timetable, error) {
	switch {
	case timetableFile != "" && feedDir != "":
		return nil, errors.New("specify only one of --timetable or --feed-dir")
	case timetableFile != "":
		f, err := os.Open(timetableFile)
		if err != nil {
			return nil, errors.Wrap(err, "opening timetable file")
		}
		defer f.Close()
		tt, err := wire.Decode(f)
		return tt, errors.Wrap(err, "decoding timetable file")
	case feedDir != "":
		return loadFeedDir(feedDir)
	default:
		return nil, errors.New("one of --timetable or --feed-dir is required")
	}
}

// loadFeedDir opens the five reference CSV tables under dir. transfers.csv
// and continuations.csv are optional.
func loadFeedDir(dir string) (*timetable.Timetable, error) {
	serviceRoutes, err := os.Open(dir + "/service_routes.csv")
	if err != nil {
		return nil, errors.Wrap(err, "opening service_routes.csv")
	}
	defer serviceRoutes.Close()

	routes, err := os.Open(dir + "/routes.csv")
	if err != nil {
		return nil, errors.Wrap(err, "opening routes.csv")
	}
	defer routes.Close()

	stopTimes, err := os.Open(dir + "/stop_times.csv")
	if err != nil {
		return nil, errors.Wrap(err, "opening stop_times.csv")
	}
	defer stopTimes.Close()

	tables := feed.Tables{
		ServiceRoutes: serviceRoutes,
		Routes:        routes,
		StopTimes:     stopTimes,
	}

	if transfers, err := os.Open(dir + "/transfers.csv"); err == nil {
		defer transfers.Close()
		tables.Transfers = transfers
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "opening transfers.csv")
	}

	if continuations, err := os.Open(dir + "/continuations.csv"); err == nil {
		defer continuations.Close()
		tables.Continuations = continuations
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "opening continuations.csv")
	}

	tt, err := feed.Load(tables)
	return tt, errors.Wrap(err, "loading feed")
}
