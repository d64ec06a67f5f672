package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aubryio/raptorgo/internal/raptor"
	"github.com/aubryio/raptorgo/internal/raptortime"
	"github.com/aubryio/raptorgo/internal/stopsindex"
	"github.com/aubryio/raptorgo/internal/timetable"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <from_stop_id>",
	Short: "Emits the round-by-round routing-edge graph as Graphviz DOT",
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

func init() {
	dumpCmd.Flags().IntVarP(&departureMinutes, "departure", "d", 0, "departure time in minutes since midnight")
	dumpCmd.Flags().IntVarP(&maxTransfers, "max-transfers", "t", raptor.DefaultMaxTransfers, "maximum number of transfers")
}

func runDump(cmd *cobra.Command, args []string) error {
	from, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid from stop id %q: %w", args[0], err)
	}

	tt, err := loadTimetable()
	if err != nil {
		return err
	}

	router := raptor.NewRouter(tt, stopsindex.NewMemoryIndex(nil, nil, nil))
	q := raptor.NewQuery(raptor.SourceStopId(from), nil, raptortime.Time(departureMinutes))
	q.Options.MaxTransfers = maxTransfers

	result := router.Route(q)

	fmt.Println("digraph routing {")
	fmt.Println(`  rankdir="LR";`)
	for round := 0; round < result.RoundCount(); round++ {
		for stop, edge := range result.EdgesInRound(round) {
			switch edge.Kind {
			case raptor.EdgeOrigin:
				fmt.Printf("  %q [label=%q];\n", nodeName(round, stop), fmt.Sprintf("origin %d", stop))
			case raptor.EdgeVehicle:
				fmt.Printf("  %q -> %q [label=%q];\n",
					nodeName(round-1, edge.FromStop), nodeName(round, stop),
					fmt.Sprintf("route %d trip %d", edge.RouteID, edge.TripIndex))
			case raptor.EdgeTransfer:
				fmt.Printf("  %q -> %q [label=%q, style=dashed];\n",
					nodeName(round, edge.From), nodeName(round, stop), "transfer")
			}
		}
	}
	fmt.Println("}")
	return nil
}

func nodeName(round int, stop timetable.StopId) string {
	return fmt.Sprintf("r%d_s%d", round, stop)
}
