package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MRamiBalles/PocketOffice/server/internal/domain/project"
	"github.com/MRamiBalles/PocketOffice/server/internal/engine"
	"github.com/MRamiBalles/PocketOffice/server/internal/events"
	"github.com/MRamiBalles/PocketOffice/server/internal/platform/logger"
)

var (
	simulateDays  int
	simulateSeed  uint64
	simulateStaff int
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Fast-forward a headless game and print a summary",
	Long: `Runs the simulation without a clock. With --staff N the first N applicants are hired
and idle staff are put on the first open offer every day.`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&simulateDays, "days", 360, "Days to simulate")
	simulateCmd.Flags().Uint64Var(&simulateSeed, "seed", 1, "Random seed")
	simulateCmd.Flags().IntVar(&simulateStaff, "staff", 3, "Applicants to hire at the start")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if simulateDays < 1 {
		return fmt.Errorf("--days must be positive")
	}

	eng := engine.New(cfg.Simulation.Engine(), newRand(simulateSeed), logger.Discard())
	summary := simulate(eng, simulateDays, simulateStaff)
	summary.print(cmd.OutOrStdout())
	return nil
}

type simulationSummary struct {
	Days      int
	State     engine.State
	Completed int
	Failed    int
	Insolvent int
	Counts    map[events.EventType]int
}

func simulate(eng *engine.Engine, days, staff int) simulationSummary {
	candidates := eng.Candidates()
	for i := 0; i < staff && i < len(candidates); i++ {
		_, _ = eng.Hire(candidates[i].ID)
	}

	s := simulationSummary{Days: days, Counts: map[events.EventType]int{}}
	for d := 0; d < days; d++ {
		autopilot(eng)
		eng.AdvanceDay()
		for _, n := range eng.Drain() {
			s.Counts[n.Type]++
		}
	}
	s.State = eng.State()
	s.Completed = len(eng.Projects(project.StatusCompleted))
	s.Failed = len(eng.Projects(project.StatusFailed))
	s.Insolvent = s.Counts[events.EventTypeBankrupt]
	return s
}

// autopilot staffs the first offer with everyone idle and takes the first choice of any event.
func autopilot(eng *engine.Engine) {
	var idle []string
	for _, e := range eng.Employees() {
		if !e.IsAssigned {
			idle = append(idle, e.ID)
		}
	}
	if offers := eng.Projects(project.StatusAvailable); len(idle) > 0 && len(offers) > 0 {
		_, _ = eng.AssignProject(offers[0].ID, idle)
	}
	for _, pe := range eng.PendingEvents() {
		// unpayable choices stay pending until cash allows
		_ = eng.ResolveEvent(pe.ID, 0)
	}
}

func (s simulationSummary) print(w io.Writer) {
	line := strings.Repeat("=", 48)
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "POCKET OFFICE - %d simulated days\n", s.Days)
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "Company:      %s (%s)\n", s.State.Company.Name, s.State.Company.Tier)
	fmt.Fprintf(w, "Date:         %s, day %d\n", s.State.Date, s.State.Company.Day)
	fmt.Fprintf(w, "Cash:         $%d (earned $%d, spent $%d)\n", s.State.Cash, s.State.TotalEarned, s.State.TotalSpent)
	fmt.Fprintf(w, "Reputation:   %d\n", s.State.Company.Reputation)
	fmt.Fprintf(w, "Employees:    %d (avg motivation %.1f)\n", s.State.Employees, s.State.AverageMotivation)
	fmt.Fprintf(w, "Projects:     %d completed, %d failed\n", s.Completed, s.Failed)
	fmt.Fprintf(w, "Events:       %d triggered\n", s.Counts[events.EventTypeEventTriggered])
	if s.Insolvent > 0 {
		fmt.Fprintf(w, "WARNING: cash went negative at %d month ends\n", s.Insolvent)
	}
	fmt.Fprintln(w, line)
}
