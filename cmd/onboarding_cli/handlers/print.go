package handlers

import (
	"fmt"
	"io"
	"strings"

	"github.com/justclara/onboarding_services/internal/onboarding_service/domain"
)

func printRun(out io.Writer, run *domain.Run) {
	fmt.Fprintf(out, "Run:      %s\n", run.ID)
	fmt.Fprintf(out, "Business: %s\n", run.CompanyName)
	fmt.Fprintf(out, "Status:   %s (%d%%)\n", run.Status, run.Progress)
	if run.Stage != "" && !run.Status.Finished() {
		fmt.Fprintf(out, "Stage:    %s: %s\n", run.Stage, run.Message)
	}

	for _, s := range run.Steps {
		line := fmt.Sprintf("  %-18s %s", s.Step, s.Status)
		if s.Reason != "" {
			line += "  " + s.Reason
		}
		fmt.Fprintln(out, line)
	}

	if res := run.Result; res != nil {
		printField(out, "Router agent", res.RouterAgentID)
		printField(out, "Phone number", res.PhoneNumber)
		printField(out, "Area code", res.AreaCodeUsed)
		printField(out, "Dashboard login", res.DashboardEmail)
		if res.DashboardRegistered {
			printField(out, "Dashboard password", res.DashboardPassword)
		}
		printField(out, "Company id", res.PersistedRecordID)
	}

	if len(run.Omissions) > 0 {
		fmt.Fprintf(out, "Omitted:  %s\n", strings.Join(run.Omissions, ", "))
	}
	if run.Error != "" {
		fmt.Fprintf(out, "Error:    %s\n", run.Error)
		for _, tip := range run.TroubleshootingTips {
			fmt.Fprintf(out, "  - %s\n", tip)
		}
	}
}

func printField(out io.Writer, label, v string) {
	if v != "" {
		fmt.Fprintf(out, "%-19s %s\n", label+":", v)
	}
}
