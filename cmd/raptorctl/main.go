// Command raptorctl is a thin operator shell around the routing core: it
// loads a Timetable (from CSV tables or a wire-encoded file), runs a Query
// against it, and prints the result either as a human-readable itinerary
// or as a Graphviz DOT dump of the round-by-round routing-edge graph.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "raptorctl",
	Short:        "raptorgo routing CLI",
	Long:         "Loads a timetable and runs RAPTOR queries against it.",
	SilenceUsage: true,
}

var (
	feedDir       string
	timetableFile string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&feedDir, "feed-dir", "", "", "directory of reference CSV tables (service_routes.csv, routes.csv, stop_times.csv, transfers.csv, continuations.csv)")
	rootCmd.PersistentFlags().StringVarP(&timetableFile, "timetable", "", "", "path to a wire-encoded timetable file")
	rootCmd.AddCommand(routeCmd)
	rootCmd.AddCommand(dumpCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
