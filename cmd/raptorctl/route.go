package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aubryio/raptorgo/internal/raptor"
	"github.com/aubryio/raptorgo/internal/raptortime"
	"github.com/aubryio/raptorgo/internal/stopsindex"
	"github.com/aubryio/raptorgo/internal/timetable"
)

var routeCmd = &cobra.Command{
	Use:   "route <from_stop_id> <to_stop_id>",
	Short: "Finds the earliest-arrival journey between two stops",
	Args:  cobra.ExactArgs(2),
	RunE:  runRoute,
}

var (
	departureMinutes int
	maxTransfers      int
	minTransferTime   int
	modes             []string
)

func init() {
	routeCmd.Flags().IntVarP(&departureMinutes, "departure", "d", 0, "departure time in minutes since midnight")
	routeCmd.Flags().IntVarP(&maxTransfers, "max-transfers", "t", raptor.DefaultMaxTransfers, "maximum number of transfers")
	routeCmd.Flags().IntVarP(&minTransferTime, "min-transfer-time", "m", int(raptor.DefaultMinTransferTime), "default minimum transfer time, in minutes")
	routeCmd.Flags().StringSliceVarP(&modes, "modes", "", nil, "restrict to these route types (tram,subway,rail,bus,ferry,cable_tram,aerial_lift,funicular,trolleybus,monorail); empty means all")
}

var routeTypeNames = map[string]timetable.RouteType{
	"tram":        timetable.RouteTypeTram,
	"subway":      timetable.RouteTypeSubway,
	"rail":        timetable.RouteTypeRail,
	"bus":         timetable.RouteTypeBus,
	"ferry":       timetable.RouteTypeFerry,
	"cable_tram":  timetable.RouteTypeCableTram,
	"aerial_lift": timetable.RouteTypeAerialLift,
	"funicular":   timetable.RouteTypeFunicular,
	"trolleybus":  timetable.RouteTypeTrolleybus,
	"monorail":    timetable.RouteTypeMonorail,
}

func parseModes(names []string) (map[timetable.RouteType]struct{}, error) {
	out := map[timetable.RouteType]struct{}{}
	for _, name := range names {
		t, ok := routeTypeNames[strings.TrimSpace(name)]
		if !ok {
			return nil, fmt.Errorf("unknown mode %q", name)
		}
		out[t] = struct{}{}
	}
	return out, nil
}

func runRoute(cmd *cobra.Command, args []string) error {
	from, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid from stop id %q: %w", args[0], err)
	}
	to, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid to stop id %q: %w", args[1], err)
	}

	tt, err := loadTimetable()
	if err != nil {
		return err
	}

	transportModes, err := parseModes(modes)
	if err != nil {
		return err
	}

	router := raptor.NewRouter(tt, stopsindex.NewMemoryIndex(nil, nil, nil))
	q := raptor.NewQuery(
		raptor.SourceStopId(from),
		[]raptor.SourceStopId{raptor.SourceStopId(to)},
		raptortime.Time(departureMinutes),
	)
	q.Options.MaxTransfers = maxTransfers
	q.Options.MinTransferTime = raptortime.Duration(minTransferTime)
	q.Options.TransportModes = transportModes

	result := router.Route(q)
	best, ok := result.BestRoute(nil)
	if !ok {
		fmt.Printf("no route found from %d to %d\n", from, to)
		return nil
	}

	fmt.Printf("arrival at stop %d: minute %d (%d legs)\n", best.Destination, best.Arrival, len(best.Legs))
	for i, leg := range best.Legs {
		if leg.IsVehicle {
			fmt.Printf("  leg %d: ride from %d to %d, arriving minute %d (%d segments)\n",
				i, leg.From, leg.To, leg.Arrival, len(leg.Segments))
			for _, seg := range leg.Segments {
				fmt.Printf("    route %d trip %d: stop %d -> stop %d\n", seg.RouteID, seg.TripIndex, seg.FromStop, seg.ToStop)
			}
		} else {
			fmt.Printf("  leg %d: transfer from %d to %d, arriving minute %d\n", i, leg.From, leg.To, leg.Arrival)
		}
	}
	return nil
}
